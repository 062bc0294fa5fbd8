package orm

import (
	"reflect"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket stores and loads Models of a single type.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db custody.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db custody.ReadOnlyKVStore, key []byte) error

	// ByIndex returns all models that are referenced by a given index
	// value. Destination must be a pointer to a slice of model pointers.
	// Primary keys of the loaded models are returned in the same order.
	ByIndex(db custody.ReadOnlyKVStore, indexName string, value []byte, dest interface{}) ([][]byte, error)

	// Put saves given model in the database. The model is validated
	// first and all indexes are updated.
	Put(db custody.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db custody.KVStore, key []byte) error

	// Register registers query handlers for this bucket and its indexes.
	Register(name string, r custody.QueryRouter)
}

// BucketOption configures a ModelBucket on creation.
type BucketOption func(*modelBucket)

// WithIndex declares a secondary index maintained by the bucket.
func WithIndex(name string, indexer MultiKeyIndexer) BucketOption {
	return func(b *modelBucket) {
		if _, ok := b.indexes[name]; ok {
			panic("duplicated index name: " + name)
		}
		b.indexes[name] = newIndex(b.name, name, indexer)
	}
}

// NewModelBucket returns a bucket that keeps models of the same type as the
// given example under the given name. The name must be unique in the
// application.
func NewModelBucket(name string, example Model, opts ...BucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("illegal bucket name: " + name)
	}
	t := reflect.TypeOf(example)
	if t.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	b := &modelBucket{
		name:      name,
		prefix:    []byte(name + ":"),
		modelType: t.Elem(),
		indexes:   make(map[string]*index),
	}
	for _, fn := range opts {
		fn(b)
	}
	return b
}

type modelBucket struct {
	name      string
	prefix    []byte
	modelType reflect.Type
	indexes   map[string]*index
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey is the full key we store in the db, including prefix. A new slice is
// allocated so consecutive calls never share memory.
func (b *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, len(b.prefix)+len(key))
	copy(out, b.prefix)
	copy(out[len(b.prefix):], key)
	return out
}

func (b *modelBucket) newModel() Model {
	return reflect.New(b.modelType).Interface().(Model)
}

func (b *modelBucket) load(db custody.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(b.dbKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	m := b.newModel()
	if err := proto.Unmarshal(raw, m); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", b.name, err)
	}
	return m, nil
}

func (b *modelBucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != reflect.PtrTo(b.modelType) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, b.modelType)
	}
	m, err := b.load(db, key)
	if err != nil {
		return err
	}
	if m == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", b.name)
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(m).Elem())
	return nil
}

func (b *modelBucket) Has(db custody.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(b.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", b.name)
	}
	return nil
}

func (b *modelBucket) ByIndex(db custody.ReadOnlyKVStore, indexName string, value []byte, dest interface{}) ([][]byte, error) {
	idx, ok := b.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown index %q", indexName)
	}

	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice ||
		slice.Elem().Type().Elem() != reflect.PtrTo(b.modelType) {
		return nil, errors.Wrapf(errors.ErrType, "%T cannot hold %s models", dest, b.modelType)
	}

	keys, err := idx.refs(db, value)
	if err != nil {
		return nil, err
	}
	res := reflect.MakeSlice(slice.Elem().Type(), 0, len(keys))
	for _, k := range keys {
		m, err := b.load(db, k)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, errors.Wrapf(errors.ErrState, "index %q references a missing %s", indexName, b.name)
		}
		res = reflect.Append(res, reflect.ValueOf(m))
	}
	slice.Elem().Set(res)
	return keys, nil
}

func (b *modelBucket) Put(db custody.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if reflect.TypeOf(m) != reflect.PtrTo(b.modelType) {
		return errors.Wrapf(errors.ErrType, "%T cannot be stored in %s", m, b.name)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := proto.Marshal(m)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal %s: %s", b.name, err)
	}

	prev, err := b.load(db, key)
	if err != nil {
		return err
	}
	for _, idx := range b.indexes {
		if err := idx.update(db, key, prev, m); err != nil {
			return errors.Wrapf(err, "index %q", idx.name)
		}
	}
	if err := db.Set(b.dbKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (b *modelBucket) Delete(db custody.KVStore, key []byte) error {
	prev, err := b.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", b.name)
	}
	for _, idx := range b.indexes {
		if err := idx.update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "index %q", idx.name)
		}
	}
	if err := db.Delete(b.dbKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
