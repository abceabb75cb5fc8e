package store

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/iov-one/aidchain/errors"
)

var (
	// All application data lives under the data prefix. Commit information
	// is kept next to it so that it never shows up when iterating.
	dataPrefix = []byte("d/")
	commitKey  = []byte("m/commit")
)

// LevelDB is a CommitKVStore persisted with goleveldb.
//
// Data written through a cache wrap is flushed to disk in a single atomic
// batch. Commit increments the version and stores a running digest of all
// writes since the previous commit, chained with the previous hash.
type LevelDB struct {
	db      *leveldb.DB
	last    CommitID
	pending hash.Hash
}

var _ CommitKVStore = (*LevelDB)(nil)

// OpenLevelDB opens or creates a database in given directory and loads the
// latest committed version.
func OpenLevelDB(dir string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", dir, err)
	}
	return newLevelDB(db)
}

// MemLevelDB returns a LevelDB instance that keeps all data in memory. It
// is useful for tests that want the exact persistence behaviour without
// touching the disk.
func MemLevelDB() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open memory storage: %s", err)
	}
	return newLevelDB(db)
}

func newLevelDB(db *leveldb.DB) (*LevelDB, error) {
	l := &LevelDB{db: db, pending: sha256.New()}
	if err := l.LoadLatestVersion(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func dataKey(key []byte) []byte {
	k := make([]byte, 0, len(dataPrefix)+len(key))
	k = append(k, dataPrefix...)
	return append(k, key...)
}

// Get returns the value at last written state.
func (l *LevelDB) Get(key []byte) ([]byte, error) {
	val, err := l.db.Get(dataKey(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return val, nil
}

// Has returns true if given key is present.
func (l *LevelDB) Has(key []byte) (bool, error) {
	ok, err := l.db.Has(dataKey(key), nil)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Set writes a single key directly to the disk.
func (l *LevelDB) Set(key, value []byte) error {
	b := l.NewBatch()
	if err := b.Set(key, value); err != nil {
		return err
	}
	return b.Write()
}

// Delete removes a single key directly from the disk.
func (l *LevelDB) Delete(key []byte) error {
	b := l.NewBatch()
	if err := b.Delete(key); err != nil {
		return err
	}
	return b.Write()
}

// Iterator over a domain of keys in ascending order.
func (l *LevelDB) Iterator(start, end []byte) (Iterator, error) {
	return l.newIterator(start, end, false), nil
}

// ReverseIterator over a domain of keys in descending order.
func (l *LevelDB) ReverseIterator(start, end []byte) (Iterator, error) {
	return l.newIterator(start, end, true), nil
}

func (l *LevelDB) newIterator(start, end []byte, reverse bool) *levelIterator {
	r := util.BytesPrefix(dataPrefix)
	if start != nil {
		r.Start = dataKey(start)
	}
	if end != nil {
		r.Limit = dataKey(end)
	}
	return &levelIterator{
		it:      l.db.NewIterator(r, nil),
		reverse: reverse,
	}
}

// NewBatch returns an atomic batch writing to this database.
func (l *LevelDB) NewBatch() Batch {
	return &levelBatch{
		store: l,
		batch: new(leveldb.Batch),
	}
}

// CacheWrap returns a scratch-pad that writes to the disk in a single batch.
func (l *LevelDB) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(l, l.NewBatch(), nil)
}

// Commit closes the current version and returns its identifier.
func (l *LevelDB) Commit() (CommitID, error) {
	digest := sha256.New()
	_, _ = digest.Write(l.last.Hash)
	_, _ = digest.Write(l.pending.Sum(nil))

	next := CommitID{
		Version: l.last.Version + 1,
		Hash:    digest.Sum(nil),
	}
	raw := make([]byte, 8, 8+len(next.Hash))
	binary.BigEndian.PutUint64(raw, uint64(next.Version))
	raw = append(raw, next.Hash...)
	if err := l.db.Put(commitKey, raw, &opt.WriteOptions{Sync: true}); err != nil {
		return CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	l.last = next
	l.pending.Reset()
	return next, nil
}

// LoadLatestVersion reads the last commit information from the disk.
func (l *LevelDB) LoadLatestVersion() error {
	raw, err := l.db.Get(commitKey, nil)
	if err == leveldb.ErrNotFound {
		l.last = CommitID{}
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if len(raw) < 8 {
		return errors.Wrap(errors.ErrDatabase, "malformed commit information")
	}
	l.last = CommitID{
		Version: int64(binary.BigEndian.Uint64(raw[:8])),
		Hash:    raw[8:],
	}
	return nil
}

// LatestVersion returns the last committed version.
func (l *LevelDB) LatestVersion() (CommitID, error) {
	return l.last, nil
}

// Close releases the database files.
func (l *LevelDB) Close() error {
	if err := l.db.Close(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

type levelBatch struct {
	store *LevelDB
	batch *leveldb.Batch
	// record is fed to the commit digest once the batch is written.
	record []byte
}

func (b *levelBatch) Set(key, value []byte) error {
	b.batch.Put(dataKey(key), value)
	b.log('s', key, value)
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.batch.Delete(dataKey(key))
	b.log('d', key, nil)
	return nil
}

func (b *levelBatch) log(op byte, key, value []byte) {
	var n [binary.MaxVarintLen64]byte
	b.record = append(b.record, op)
	b.record = append(b.record, n[:binary.PutUvarint(n[:], uint64(len(key)))]...)
	b.record = append(b.record, key...)
	b.record = append(b.record, n[:binary.PutUvarint(n[:], uint64(len(value)))]...)
	b.record = append(b.record, value...)
}

func (b *levelBatch) Write() error {
	if b.batch.Len() == 0 {
		return nil
	}
	if err := b.store.db.Write(b.batch, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	_, _ = b.store.pending.Write(b.record)
	b.batch.Reset()
	b.record = nil
	return nil
}

type levelIterator struct {
	it      iterator.Iterator
	reverse bool
	started bool
}

func (i *levelIterator) Next() (key, value []byte, err error) {
	var ok bool
	switch {
	case !i.started && i.reverse:
		ok = i.it.Last()
	case !i.started:
		ok = i.it.First()
	case i.reverse:
		ok = i.it.Prev()
	default:
		ok = i.it.Next()
	}
	i.started = true

	if !ok {
		if err := i.it.Error(); err != nil {
			return nil, nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		return nil, nil, errors.ErrIteratorDone
	}
	// Iterator buffers are reused, return copies.
	k := i.it.Key()[len(dataPrefix):]
	key = append([]byte(nil), k...)
	value = append([]byte(nil), i.it.Value()...)
	return key, value, nil
}

func (i *levelIterator) Release() {
	i.it.Release()
}
