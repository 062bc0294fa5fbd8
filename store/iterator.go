package store

import (
	"github.com/google/btree"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// sliceIterator walks over a preloaded, ordered list of items.
type sliceIterator struct {
	items []item
	pos   int
}

var _ custody.Iterator = (*sliceIterator)(nil)

// Next implements custody.Iterator.
func (s *sliceIterator) Next() ([]byte, []byte, error) {
	if s.pos >= len(s.items) {
		return nil, nil, errors.ErrIteratorDone
	}
	it := s.items[s.pos]
	s.pos++
	return it.key, it.value, nil
}

// Release implements custody.Iterator.
func (s *sliceIterator) Release() {
	s.items = nil
}

// mergedIterator returns an iterator over the union of the parent store and
// the dirty items. Dirty items take precedence and deleted items hide the
// parent value.
func mergedIterator(parent custody.ReadOnlyKVStore, dirty *btree.BTree, start, end []byte, reverse bool) (custody.Iterator, error) {
	view := btree.New(btreeDegree)

	if parent != nil {
		it, err := parent.Iterator(start, end)
		if err != nil {
			return nil, errors.Wrap(err, "parent iterator")
		}
		defer it.Release()
		for {
			k, v, err := it.Next()
			if errors.ErrIteratorDone.Is(err) {
				break
			}
			if err != nil {
				return nil, err
			}
			view.ReplaceOrInsert(item{key: k, value: v})
		}
	}

	ascend(dirty, start, end, func(i item) bool {
		if i.deleted {
			view.Delete(i)
		} else {
			view.ReplaceOrInsert(i)
		}
		return true
	})

	items := make([]item, 0, view.Len())
	view.Ascend(func(i btree.Item) bool {
		items = append(items, i.(item))
		return true
	})
	if reverse {
		for l, r := 0, len(items)-1; l < r; l, r = l+1, r-1 {
			items[l], items[r] = items[r], items[l]
		}
	}
	return &sliceIterator{items: items}, nil
}
