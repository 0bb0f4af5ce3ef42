// Package store holds journal entries in date order and reads/writes them
// as a flat properties file.
//
// The store never sees plaintext: values are ciphertexts produced by the
// journal package. Iteration is always in ascending date order, independent
// of insertion order.
package store

import (
	"github.com/dmitrijs2005/gophjournal/internal/datekey"
	"github.com/google/btree"
)

const degree = 16

type item struct {
	key   datekey.DateKey
	value string
}

func less(a, b item) bool {
	return a.key < b.key
}

// Store is an ordered DateKey -> ciphertext map. It is not safe for
// concurrent writers; the owning session serializes access.
type Store struct {
	tree *btree.BTreeG[item]
}

// New returns an empty store.
func New() *Store {
	return &Store{tree: btree.NewG(degree, less)}
}

// Put inserts or replaces the ciphertext stored for key.
// It reports whether an existing value was replaced.
func (s *Store) Put(key datekey.DateKey, ciphertext string) bool {
	_, replaced := s.tree.ReplaceOrInsert(item{key: key, value: ciphertext})
	return replaced
}

// Get returns the ciphertext stored for key.
func (s *Store) Get(key datekey.DateKey) (string, bool) {
	it, ok := s.tree.Get(item{key: key})
	return it.value, ok
}

// Delete removes key and reports whether it was present.
func (s *Store) Delete(key datekey.DateKey) bool {
	_, ok := s.tree.Delete(item{key: key})
	return ok
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return s.tree.Len()
}

// Keys returns all keys in ascending order. The slice is freshly allocated.
func (s *Store) Keys() []datekey.DateKey {
	keys := make([]datekey.DateKey, 0, s.tree.Len())
	s.tree.Ascend(func(it item) bool {
		keys = append(keys, it.key)
		return true
	})
	return keys
}

// Min returns the smallest key and its ciphertext.
func (s *Store) Min() (datekey.DateKey, string, bool) {
	it, ok := s.tree.Min()
	return it.key, it.value, ok
}

// Range calls fn for each entry with from <= key < to, in ascending order,
// until fn returns false. An empty to means "no upper bound".
func (s *Store) Range(from, to datekey.DateKey, fn func(key datekey.DateKey, ciphertext string) bool) {
	visit := func(it item) bool { return fn(it.key, it.value) }
	if to.IsZero() {
		s.tree.AscendGreaterOrEqual(item{key: from}, visit)
		return
	}
	s.tree.AscendRange(item{key: from}, item{key: to}, visit)
}

// Clone returns an independent copy. The btree shares nodes copy-on-write,
// so cloning is cheap and later writes to either store do not affect the
// other.
func (s *Store) Clone() *Store {
	return &Store{tree: s.tree.Clone()}
}
