package app

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// CommitStore handles loading from a CommitKVStore, maintaining different
// cache wraps for deliver and check, and returning useful state info.
type CommitStore struct {
	committed aidchain.CommitKVStore
	deliver   aidchain.KVCacheWrap
	check     aidchain.KVCacheWrap
}

// NewCommitStore loads the latest version of given store and sets up the
// deliver and check caches.
func NewCommitStore(store aidchain.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "cannot load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash.
func (cs *CommitStore) CommitInfo() (aidchain.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit flushes deliver to the underlying store and persists it. Check is
// discarded and both caches are recreated on top of the new state.
func (cs *CommitStore) Commit() (aidchain.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return aidchain.CommitID{}, errors.Wrap(err, "flush deliver")
	}
	cs.check.Discard()

	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res, nil
}

// CheckStore returns the store that must be used during the checking
// phase.
func (cs *CommitStore) CheckStore() aidchain.CacheableKVStore {
	return cs.check
}

// DeliverStore returns the store that must be used during the delivery
// phase.
func (cs *CommitStore) DeliverStore() aidchain.CacheableKVStore {
	return cs.deliver
}

// Committed returns a read view of the last committed state.
func (cs *CommitStore) Committed() aidchain.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}

// _app: is a prefix for host internal data
const (
	chainIDKey   = "_app:chainID"
	blockTimeKey = "_app:blockTime"
)

func loadChainID(kv aidchain.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store. It fails if the chain id is
// already set or not valid.
func saveChainID(kv aidchain.KVStore, chainID string) error {
	if !aidchain.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrImmutable, "chain id already set")
	}
	return kv.Set(k, []byte(chainID))
}

func loadBlockTime(kv aidchain.ReadOnlyKVStore) (aidchain.UnixTime, error) {
	v, err := kv.Get([]byte(blockTimeKey))
	if err != nil {
		return 0, errors.Wrap(err, "load block time")
	}
	if v == nil {
		return 0, nil
	}
	var t aidchain.UnixTime
	if err := t.UnmarshalJSON(v); err != nil {
		return 0, err
	}
	return t, nil
}

func saveBlockTime(kv aidchain.KVStore, t aidchain.UnixTime) error {
	return kv.Set([]byte(blockTimeKey), []byte(t.Decimal()))
}
