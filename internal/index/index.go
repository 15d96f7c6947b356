// Package index builds an optional in-memory xxHash64(key) -> item-index
// accelerator over a store's sorted item list.
//
// It never changes lookup semantics: binary search over the sorted keys
// remains the correct, authoritative path (and the only one spec §8's
// lookup-totality property needs). This index is a volatile cache, rebuilt
// on every Open and discarded on Close; a candidate it returns must still be
// verified against the real key bytes before use, since two distinct keys
// can in principle share a 64-bit hash.
package index

import "github.com/cespare/xxhash/v2"

// BuildThreshold is the minimum item count before building the accelerator
// is worth its setup cost; the store format targets N < 100 items, where a
// handful of byte comparisons in a binary search is already fast.
const BuildThreshold = 16

// Index maps xxHash64(key) to the index of one item carrying that hash.
type Index struct {
	byHash map[uint64]int
}

// Build constructs an Index over keys, or returns nil if there are too few
// items for the accelerator to be worth building.
func Build(keys [][]byte) *Index {
	if len(keys) < BuildThreshold {
		return nil
	}

	m := make(map[uint64]int, len(keys))
	for i, k := range keys {
		m[xxhash.Sum64(k)] = i
	}

	return &Index{byHash: m}
}

// Lookup returns a candidate item index for key's hash. The caller must
// verify keys[idx] == key before trusting it; ok is false if no item has a
// matching hash, or if idx is nil (accelerator not built).
func (idx *Index) Lookup(key []byte) (i int, ok bool) {
	if idx == nil {
		return 0, false
	}
	i, ok = idx.byHash[xxhash.Sum64(key)]
	return i, ok
}
