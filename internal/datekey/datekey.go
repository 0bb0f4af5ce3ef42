// Package datekey defines the canonical journal date key.
package datekey

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
)

// DateKey is a calendar date serialized as YYYY-MM-DD. Because every field
// is zero-padded, comparing two keys as strings compares them
// chronologically. The zero value means "no date".
type DateKey string

// None is the empty key.
const None DateKey = ""

// Parse validates s and returns it as a DateKey. Only the canonical,
// zero-padded form of a real calendar date is accepted.
func Parse(s string) (DateKey, error) {
	t, err := time.Parse(common.DateLayout, s)
	if err != nil {
		return None, fmt.Errorf("%w: %q: %w", common.ErrInvalidDate, s, err)
	}
	// time.Parse accepts some non-canonical inputs; round-trip to be sure.
	if t.Format(common.DateLayout) != s {
		return None, fmt.Errorf("%w: %q is not in YYYY-MM-DD form", common.ErrInvalidDate, s)
	}
	return DateKey(s), nil
}

// MustParse is Parse for constants and tests; it panics on bad input.
func MustParse(s string) DateKey {
	k, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}

// FromTime returns the key of the calendar day t falls on, in t's location.
func FromTime(t time.Time) DateKey {
	return DateKey(t.Format(common.DateLayout))
}

// FromYMD builds a key from year, month and day. Out-of-range values are
// normalized the way time.Date does.
func FromYMD(year int, month time.Month, day int) DateKey {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.Local))
}

// now is a test seam.
var now = time.Now

// Today returns the key for the current local day.
func Today() DateKey {
	return FromTime(now())
}

func (k DateKey) String() string {
	return string(k)
}

// IsZero reports whether k is the empty key.
func (k DateKey) IsZero() bool {
	return k == None
}

// Time returns midnight of k in the local time zone. The zero key maps to
// the zero time.
func (k DateKey) Time() time.Time {
	if k.IsZero() {
		return time.Time{}
	}
	t, err := time.ParseInLocation(common.DateLayout, string(k), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Month returns the year and month k falls in.
func (k DateKey) Month() (int, time.Month) {
	t := k.Time()
	return t.Year(), t.Month()
}

// In reports whether k falls in the given year and month.
func (k DateKey) In(year int, month time.Month) bool {
	y, m := k.Month()
	return !k.IsZero() && y == year && m == month
}

// AddDays returns the key n days after k (before, for negative n).
func (k DateKey) AddDays(n int) DateKey {
	if k.IsZero() {
		return None
	}
	return FromTime(k.Time().AddDate(0, 0, n))
}

// Before reports whether k sorts strictly before other.
func (k DateKey) Before(other DateKey) bool {
	return k < other
}

// After reports whether k sorts strictly after other.
func (k DateKey) After(other DateKey) bool {
	return k > other
}
