package iavl

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/iavl"
)

// treeAdapter exposes the working (uncommitted) iavl tree as a KVStore.
type treeAdapter struct {
	tree *iavl.MutableTree
}

var _ custody.KVStore = (*treeAdapter)(nil)

func (a *treeAdapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

func (a *treeAdapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

func (a *treeAdapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

func (a *treeAdapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

func (a *treeAdapter) Iterator(start, end []byte) (custody.Iterator, error) {
	return a.iterate(start, end, true), nil
}

func (a *treeAdapter) ReverseIterator(start, end []byte) (custody.Iterator, error) {
	return a.iterate(start, end, false), nil
}

// iterate loads the whole range. The tree does not allow a cursor to live
// across writes, so the range is copied out.
func (a *treeAdapter) iterate(start, end []byte, ascending bool) custody.Iterator {
	var res rangeIterator
	a.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		res.keys = append(res.keys, key)
		res.values = append(res.values, value)
		return false
	})
	return &res
}

func (a *treeAdapter) NewBatch() custody.Batch {
	return &treeBatch{tree: a.tree}
}

type rangeIterator struct {
	keys   [][]byte
	values [][]byte
	pos    int
}

func (r *rangeIterator) Next() ([]byte, []byte, error) {
	if r.pos >= len(r.keys) {
		return nil, nil, errors.ErrIteratorDone
	}
	k, v := r.keys[r.pos], r.values[r.pos]
	r.pos++
	return k, v, nil
}

func (r *rangeIterator) Release() {
	r.keys, r.values = nil, nil
}

// treeBatch applies operations to the working tree on Write. The tree itself
// is only persisted on Commit, which makes the whole block atomic.
type treeBatch struct {
	tree *iavl.MutableTree
	ops  []batchOp
}

type batchOp struct {
	key, value []byte
	del        bool
}

func (b *treeBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, batchOp{key: key, value: value})
	return nil
}

func (b *treeBatch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: key, del: true})
	return nil
}

func (b *treeBatch) Write() error {
	for _, op := range b.ops {
		if op.del {
			b.tree.Remove(op.key)
		} else {
			b.tree.Set(op.key, op.value)
		}
	}
	b.ops = nil
	return nil
}
