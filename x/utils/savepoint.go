package utils

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// Savepoint runs the rest of the stack on a cache of the store. The cache
// is written only if the call succeeded, so a failing handler leaves no
// partial state behind. Use OnCheck and OnDeliver to select the phases it
// is active in; a plain NewSavepoint() only passes calls through.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ aidchain.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a copy that is also active on Check.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a copy that is also active on Deliver.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx, next aidchain.Checker) (*aidchain.CheckResult, error) {
	var res *aidchain.CheckResult
	err := isolate(s.onCheck, store, func(db aidchain.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx, next aidchain.Deliverer) (*aidchain.DeliverResult, error) {
	var res *aidchain.DeliverResult
	err := isolate(s.onDeliver, store, func(db aidchain.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolate calls fn with a cache of store when active and the store supports
// caching, otherwise with the store itself.
func isolate(active bool, store aidchain.KVStore, fn func(aidchain.KVStore) error) error {
	cstore, ok := store.(aidchain.CacheableKVStore)
	if !active || !ok {
		return fn(store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write savepoint")
	}
	return nil
}
