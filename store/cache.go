package store

import (
	"github.com/google/btree"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// CacheWrap places a btree cache over a KVStore. All writes stay in the cache
// until Write is called.
type CacheWrap struct {
	parent custody.KVStore
	dirty  *btree.BTree
}

var _ custody.KVCacheWrap = (*CacheWrap)(nil)

// NewCacheWrap returns a cache layered over given store.
func NewCacheWrap(parent custody.KVStore) *CacheWrap {
	return &CacheWrap{
		parent: parent,
		dirty:  btree.New(btreeDegree),
	}
}

// Get reads from the cache if there, else from the parent store.
func (c *CacheWrap) Get(key []byte) ([]byte, error) {
	if key == nil {
		panic("nil key")
	}
	if res := c.dirty.Get(item{key: key}); res != nil {
		it := res.(item)
		if it.deleted {
			return nil, nil
		}
		return it.value, nil
	}
	return c.parent.Get(key)
}

// Has reads from the cache if there, else from the parent store.
func (c *CacheWrap) Has(key []byte) (bool, error) {
	if key == nil {
		panic("nil key")
	}
	if res := c.dirty.Get(item{key: key}); res != nil {
		return !res.(item).deleted, nil
	}
	return c.parent.Has(key)
}

// Set records the value in the cache.
func (c *CacheWrap) Set(key, value []byte) error {
	if key == nil {
		panic("nil key")
	}
	if value == nil {
		return errors.Wrap(errors.ErrDatabase, "nil value")
	}
	c.dirty.ReplaceOrInsert(setItem(key, value))
	return nil
}

// Delete records the removal in the cache.
func (c *CacheWrap) Delete(key []byte) error {
	if key == nil {
		panic("nil key")
	}
	c.dirty.ReplaceOrInsert(deletedItem(key))
	return nil
}

// Iterator returns an ascending iterator over the cache merged with the
// parent store.
func (c *CacheWrap) Iterator(start, end []byte) (custody.Iterator, error) {
	return mergedIterator(c.parent, c.dirty, start, end, false)
}

// ReverseIterator returns a descending iterator over the cache merged with
// the parent store.
func (c *CacheWrap) ReverseIterator(start, end []byte) (custody.Iterator, error) {
	return mergedIterator(c.parent, c.dirty, start, end, true)
}

// NewBatch returns a batch that writes into this cache.
func (c *CacheWrap) NewBatch() custody.Batch {
	return newBatch(c)
}

// CacheWrap layers another cache on top of this one.
func (c *CacheWrap) CacheWrap() custody.KVCacheWrap {
	return NewCacheWrap(c)
}

// Write flushes all cached changes to the parent in a single batch and
// clears the cache.
func (c *CacheWrap) Write() error {
	batch := c.parent.NewBatch()
	var err error
	c.dirty.Ascend(func(i btree.Item) bool {
		it := i.(item)
		if it.deleted {
			err = batch.Delete(it.key)
		} else {
			err = batch.Set(it.key, it.value)
		}
		return err == nil
	})
	if err != nil {
		return errors.Wrap(err, "cache write")
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "cache write")
	}
	c.Discard()
	return nil
}

// Discard drops all cached changes.
func (c *CacheWrap) Discard() {
	c.dirty = btree.New(btreeDegree)
}
