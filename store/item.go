package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree is the branching factor of every btree in this package.
const btreeDegree = 8

// item is a single entry of a btree. A deleted item shadows the value of the
// same key in the parent store.
type item struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = item{}

// Less implements btree.Item.
func (i item) Less(than btree.Item) bool {
	return bytes.Compare(i.key, than.(item).key) < 0
}

func setItem(key, value []byte) item {
	return item{key: clone(key), value: clone(value)}
}

func deletedItem(key []byte) item {
	return item{key: clone(key), deleted: true}
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// ascend calls fn for every item within [start, end) in ascending order.
// A nil start or end leaves that side of the range open.
func ascend(bt *btree.BTree, start, end []byte, fn func(item) bool) {
	iter := func(i btree.Item) bool { return fn(i.(item)) }
	switch {
	case start == nil && end == nil:
		bt.Ascend(iter)
	case start == nil:
		bt.AscendLessThan(item{key: end}, iter)
	case end == nil:
		bt.AscendGreaterOrEqual(item{key: start}, iter)
	default:
		bt.AscendRange(item{key: start}, item{key: end}, iter)
	}
}
