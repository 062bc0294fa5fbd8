package orm

import (
	"bytes"
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// MultiKeyIndexer calculates the secondary index keys for a given model.
// A nil result means the model is not indexed.
type MultiKeyIndexer func(Model) ([][]byte, error)

// index is a non unique secondary index. All primary keys referenced by a
// single index value are stored as a sorted set under one key. This
// implementation should be used only for small collections.
type index struct {
	name    string
	prefix  []byte
	indexer MultiKeyIndexer
}

const indexPrefix = "_i."

func newIndex(bucket, name string, indexer MultiKeyIndexer) *index {
	return &index{
		name:    name,
		prefix:  []byte(indexPrefix + bucket + "_" + name + ":"),
		indexer: indexer,
	}
}

func (i *index) dbKey(value []byte) []byte {
	out := make([]byte, len(i.prefix)+len(value))
	copy(out, i.prefix)
	copy(out[len(i.prefix):], value)
	return out
}

// values returns the index values for a model, or nothing for a nil model.
func (i *index) values(m Model) ([][]byte, error) {
	if m == nil {
		return nil, nil
	}
	return i.indexer(m)
}

// update moves the primary key between index values so that it is
// referenced by exactly the values of the saved model. A nil prev means
// insert and a nil save means delete.
func (i *index) update(db custody.KVStore, key []byte, prev, save Model) error {
	before, err := i.values(prev)
	if err != nil {
		return err
	}
	after, err := i.values(save)
	if err != nil {
		return err
	}
	for _, v := range before {
		if !containsBytes(after, v) {
			if err := i.remove(db, v, key); err != nil {
				return err
			}
		}
	}
	for _, v := range after {
		if !containsBytes(before, v) {
			if err := i.add(db, v, key); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i *index) refs(db custody.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.dbKey(value))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	var r indexRefs
	if err := proto.Unmarshal(raw, &r); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal index: %s", err)
	}
	return r.Refs, nil
}

func (i *index) write(db custody.KVStore, value []byte, refs [][]byte) error {
	if len(refs) == 0 {
		return db.Delete(i.dbKey(value))
	}
	raw, err := proto.Marshal(&indexRefs{Refs: refs})
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal index: %s", err)
	}
	return db.Set(i.dbKey(value), raw)
}

func (i *index) add(db custody.KVStore, value, key []byte) error {
	refs, err := i.refs(db, value)
	if err != nil {
		return err
	}
	pos := sort.Search(len(refs), func(n int) bool { return bytes.Compare(refs[n], key) >= 0 })
	if pos < len(refs) && bytes.Equal(refs[pos], key) {
		return errors.Wrap(errors.ErrDuplicate, "already indexed")
	}
	refs = append(refs, nil)
	copy(refs[pos+1:], refs[pos:])
	refs[pos] = key
	return i.write(db, value, refs)
}

func (i *index) remove(db custody.KVStore, value, key []byte) error {
	refs, err := i.refs(db, value)
	if err != nil {
		return err
	}
	for n, r := range refs {
		if bytes.Equal(r, key) {
			return i.write(db, value, append(refs[:n], refs[n+1:]...))
		}
	}
	return errors.Wrap(errors.ErrState, "key not indexed")
}

func containsBytes(list [][]byte, b []byte) bool {
	for _, v := range list {
		if bytes.Equal(v, b) {
			return true
		}
	}
	return false
}
