// Package navigator answers first/last/next/previous questions over an
// ascending list of entry dates.
//
// All functions are pure. Next and Previous never wrap around: when there
// is no entry beyond the reference date they return the reference date
// unchanged, which callers read as "already at the end". A reference equal
// to an entry is not its own neighbour.
package navigator

import (
	"sort"

	"github.com/dmitrijs2005/gophjournal/internal/datekey"
)

// First returns the earliest date, or false if keys is empty.
func First(keys []datekey.DateKey) (datekey.DateKey, bool) {
	if len(keys) == 0 {
		return datekey.None, false
	}
	return keys[0], true
}

// Last returns the latest date, or false if keys is empty.
func Last(keys []datekey.DateKey) (datekey.DateKey, bool) {
	if len(keys) == 0 {
		return datekey.None, false
	}
	return keys[len(keys)-1], true
}

// Next returns the smallest key strictly after ref, or ref itself.
func Next(keys []datekey.DateKey, ref datekey.DateKey) datekey.DateKey {
	i := sort.Search(len(keys), func(i int) bool { return keys[i] > ref })
	if i < len(keys) {
		return keys[i]
	}
	return ref
}

// Previous returns the largest key strictly before ref, or ref itself.
func Previous(keys []datekey.DateKey, ref datekey.DateKey) datekey.DateKey {
	i := sort.Search(len(keys), func(i int) bool { return keys[i] >= ref })
	if i > 0 {
		return keys[i-1]
	}
	return ref
}

// HasNext reports whether Next would move away from ref.
func HasNext(keys []datekey.DateKey, ref datekey.DateKey) bool {
	return Next(keys, ref) != ref
}

// HasPrevious reports whether Previous would move away from ref.
func HasPrevious(keys []datekey.DateKey, ref datekey.DateKey) bool {
	return Previous(keys, ref) != ref
}
