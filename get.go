package kas

import (
	"bytes"
	"sort"

	"github.com/kasfile/kas/errs"
)

// Get returns the item stored under key. It is only valid in read mode; the
// returned Item's Key and Array alias the store's backing buffer and must
// not be used after Close.
func (s *Store) Get(key []byte) (Item, error) {
	if s.state != stateOpenRead {
		return Item{}, errs.ErrBadMode
	}

	if i, ok := s.idx.Lookup(key); ok && bytes.Equal(s.items[i].Key, key) {
		return s.items[i], nil
	}

	i := sort.Search(len(s.items), func(i int) bool {
		return compareKeys(s.items[i].Key, key) >= 0
	})
	if i < len(s.items) && bytes.Equal(s.items[i].Key, key) {
		return s.items[i], nil
	}

	return Item{}, errs.ErrKeyNotFound
}
