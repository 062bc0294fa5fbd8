package store

import (
	"github.com/google/btree"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// MemStore is a KVStore that keeps everything in memory. There is no
// persistence.
type MemStore struct {
	tree *btree.BTree
}

var _ custody.CacheableKVStore = (*MemStore)(nil)

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{tree: btree.New(btreeDegree)}
}

// Get returns the value or nil if the key does not exist.
func (m *MemStore) Get(key []byte) ([]byte, error) {
	if key == nil {
		panic("nil key")
	}
	if res := m.tree.Get(item{key: key}); res != nil {
		return res.(item).value, nil
	}
	return nil, nil
}

// Has returns true if the key exists.
func (m *MemStore) Has(key []byte) (bool, error) {
	if key == nil {
		panic("nil key")
	}
	return m.tree.Has(item{key: key}), nil
}

// Set stores a copy of the value.
func (m *MemStore) Set(key, value []byte) error {
	if key == nil {
		panic("nil key")
	}
	if value == nil {
		return errors.Wrap(errors.ErrDatabase, "nil value")
	}
	m.tree.ReplaceOrInsert(setItem(key, value))
	return nil
}

// Delete removes the key. Deleting a missing key is a noop.
func (m *MemStore) Delete(key []byte) error {
	if key == nil {
		panic("nil key")
	}
	m.tree.Delete(item{key: key})
	return nil
}

// Iterator returns an ascending iterator over [start, end).
func (m *MemStore) Iterator(start, end []byte) (custody.Iterator, error) {
	return mergedIterator(nil, m.tree, start, end, false)
}

// ReverseIterator returns a descending iterator over [start, end).
func (m *MemStore) ReverseIterator(start, end []byte) (custody.Iterator, error) {
	return mergedIterator(nil, m.tree, start, end, true)
}

// NewBatch returns a batch that writes to this store.
func (m *MemStore) NewBatch() custody.Batch {
	return newBatch(m)
}

// CacheWrap returns a cache that can be later written to this store, or
// discarded.
func (m *MemStore) CacheWrap() custody.KVCacheWrap {
	return NewCacheWrap(m)
}
