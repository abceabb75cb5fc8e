package store

import "github.com/iov-one/aidchain"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = aidchain.ReadOnlyKVStore
	SetDeleter       = aidchain.SetDeleter
	KVStore          = aidchain.KVStore
	Batch            = aidchain.Batch
	Iterator         = aidchain.Iterator
	CacheableKVStore = aidchain.CacheableKVStore
	KVCacheWrap      = aidchain.KVCacheWrap
	CommitKVStore    = aidchain.CommitKVStore
	CommitID         = aidchain.CommitID
	Model            = aidchain.Model
)
