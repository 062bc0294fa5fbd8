package orm

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Register registers query handlers for this bucket and its indexes.
// Returned keys are the primary keys, without the bucket prefix.
func (b *modelBucket) Register(name string, r custody.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, bucketQuery{b: b})
	for idxName, idx := range b.indexes {
		r.Register("/"+name+"/"+idxName, indexQuery{b: b, idx: idx})
	}
}

type bucketQuery struct {
	b *modelBucket
}

func (q bucketQuery) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	switch mod {
	case custody.KeyQueryMod:
		raw, err := db.Get(q.b.dbKey(data))
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if raw == nil {
			return nil, nil
		}
		return []custody.Model{custody.Pair(data, raw)}, nil
	case custody.PrefixQueryMod:
		return prefixQuery(db, q.b.prefix, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

type indexQuery struct {
	b   *modelBucket
	idx *index
}

func (q indexQuery) Query(db custody.ReadOnlyKVStore, mod string, data []byte) ([]custody.Model, error) {
	if mod != custody.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "index query does not support %q", mod)
	}
	keys, err := q.idx.refs(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]custody.Model, 0, len(keys))
	for _, k := range keys {
		raw, err := db.Get(q.b.dbKey(k))
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		res = append(res, custody.Pair(k, raw))
	}
	return res, nil
}

// prefixQuery returns all entries under the bucket prefix that start with
// the given key prefix.
func prefixQuery(db custody.ReadOnlyKVStore, bucketPrefix, data []byte) ([]custody.Model, error) {
	start := append(append([]byte{}, bucketPrefix...), data...)
	it, err := db.Iterator(start, prefixEnd(start))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	defer it.Release()

	var res []custody.Model
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, custody.Pair(k[len(bucketPrefix):], v))
	}
}

// prefixEnd returns the smallest key that is greater than all keys starting
// with given prefix, or nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
