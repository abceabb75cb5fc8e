package migration

import (
	"reflect"
	"sort"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// Payload is implemented by models that carry a schema version.
type Payload interface {
	GetMetadata() *aidchain.Metadata
	Validate() error
}

// Migrator is a function that migrates a data entity from version
// requiredVersion-1 to requested version.
type Migrator func(ctx aidchain.Context, db aidchain.KVStore, payload Payload) error

// NoModification is a migration function that migrates data that requires no
// change.
func NoModification(ctx aidchain.Context, db aidchain.KVStore, payload Payload) error {
	return nil
}

func newRegister() *register {
	return &register{
		handlers: make(map[payloadVersion]Migrator),
		versions: make(map[reflect.Type][]uint32),
	}
}

type register struct {
	handlers map[payloadVersion]Migrator
	// versions holds the registered schema versions of each payload
	// type in ascending order.
	versions map[reflect.Type][]uint32
}

// payloadVersion references a model at a given schema version.
type payloadVersion struct {
	payload reflect.Type
	version uint32
}

func payloadType(payload Payload) (reflect.Type, error) {
	tp := reflect.TypeOf(payload)
	for tp != nil && tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}
	if tp == nil || tp.Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "only struct can be migrated, got %T", payload)
	}
	return tp, nil
}

func (r *register) MustRegister(migrationTo uint32, payload Payload, fn Migrator) {
	if err := r.Register(migrationTo, payload, fn); err != nil {
		panic(err)
	}
}

func (r *register) Register(migrationTo uint32, payload Payload, fn Migrator) error {
	if migrationTo < 2 {
		return errors.Wrap(errors.ErrInput, "the first schema version cannot be migrated to")
	}
	tp, err := payloadType(payload)
	if err != nil {
		return err
	}
	pv := payloadVersion{version: migrationTo, payload: tp}
	if _, ok := r.handlers[pv]; ok {
		return errors.Wrapf(errors.ErrDuplicate, "already registered: %s.%s:%d", tp.PkgPath(), tp.Name(), migrationTo)
	}
	r.handlers[pv] = fn

	vs := append(r.versions[tp], migrationTo)
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	r.versions[tp] = vs
	return nil
}

func (r *register) Apply(ctx aidchain.Context, db aidchain.KVStore, payload Payload, migrateTo uint32) error {
	tp, err := payloadType(payload)
	if err != nil {
		return err
	}

	header := payload.GetMetadata()
	if err := header.Validate(); err != nil {
		return errors.Wrap(err, "payload header")
	}
	if header.Schema > migrateTo {
		return errors.Wrapf(errors.ErrSchema, "cannot downgrade from %d to %d", header.Schema, migrateTo)
	}
	// Only registered versions are visited, so the cost does not depend
	// on the distance between the current and the requested version.
	for _, v := range r.versions[tp] {
		if v <= header.Schema {
			continue
		}
		if v > migrateTo {
			break
		}
		if err := r.handlers[payloadVersion{payload: tp, version: v}](ctx, db, payload); err != nil {
			return errors.Wrapf(err, "migration to version %d", v)
		}
		header.Schema = v
	}
	header.Schema = migrateTo

	if err := payload.Validate(); err != nil {
		return errors.Wrap(err, "validation")
	}
	return nil
}

// reg is a globally available register instance that must be used during the
// runtime to register migration handlers.
var reg = newRegister()

// MustRegister registers a migration function for given payload type and
// schema version. It panics if a migration is already registered.
func MustRegister(migrationTo uint32, payload Payload, fn Migrator) {
	reg.MustRegister(migrationTo, payload, fn)
}

// Apply updates a payload by applying all missing data migrations. Even a no
// modification migration is updating the header to point to the latest data
// format version.
//
// Because changes are applied directly on the passed payload, even if this
// function fails some of the data migrations might be applied. Callers run
// inside a savepoint so that nothing is persisted on failure.
//
// Validation method is called only on the final version of the payload.
func Apply(ctx aidchain.Context, db aidchain.KVStore, payload Payload, migrateTo uint32) error {
	return reg.Apply(ctx, db, payload, migrateTo)
}
