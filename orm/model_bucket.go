package orm

import (
	"reflect"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	aidchain.Persistent
	Validate() error
}

// ModelBucket is implemented by buckets that operates on Models rather than
// raw data.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db aidchain.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db aidchain.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Before inserting into
	// database, model is validated using its Validate method.
	Put(db aidchain.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db aidchain.KVStore, key []byte) error

	// Iterate calls fn for every stored entity with a key starting with
	// given prefix, in ascending key order. Each call receives a new model
	// instance. Iteration stops on the first error returned by fn.
	Iterate(db aidchain.ReadOnlyKVStore, prefix []byte, fn func(key []byte, m Model) error) error

	// Register registers this buckets content to be accessible via query
	// requests under the given name.
	Register(name string, r aidchain.QueryRouter)
}

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as given prototype under the bucket name.
func NewModelBucket(name string, m Model) ModelBucket {
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	return &modelBucket{
		b:     NewBucket(name),
		model: tp.Elem(),
	}
}

type modelBucket struct {
	b     Bucket
	model reflect.Type
}

func (mb *modelBucket) One(db aidchain.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest).Elem() != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.model)
	}
	raw, err := mb.b.Get(db, key)
	if err != nil {
		return errors.Wrap(err, "cannot get from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.model.Name())
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %s", mb.model.Name())
	}
	return nil
}

func (mb *modelBucket) Has(db aidchain.ReadOnlyKVStore, key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrNotFound, "nil key")
	}
	ok, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.model.Name())
	}
	return nil
}

func (mb *modelBucket) Put(db aidchain.KVStore, key []byte, m Model) error {
	if reflect.TypeOf(m).Elem() != mb.model {
		return errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.b.Name())
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize model")
	}
	if err := mb.b.Set(db, key, raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db aidchain.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.b.Delete(db, key)
}

func (mb *modelBucket) Iterate(db aidchain.ReadOnlyKVStore, prefix []byte, fn func(key []byte, m Model) error) error {
	return mb.b.Iterate(db, prefix, func(key, value []byte) error {
		m := reflect.New(mb.model).Interface().(Model)
		if err := m.Unmarshal(value); err != nil {
			return errors.Wrapf(err, "cannot unmarshal %s", mb.model.Name())
		}
		return fn(key, m)
	})
}

func (mb *modelBucket) Register(name string, r aidchain.QueryRouter) {
	mb.b.Register(name, r)
}

var _ ModelBucket = (*modelBucket)(nil)
