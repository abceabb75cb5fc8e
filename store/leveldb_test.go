package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelConstructor(t testing.TB) (CacheableKVStore, func()) {
	db, err := MemLevelDB()
	require.NoError(t, err)
	return db, func() { _ = db.Close() }
}

func TestLevelDBGetSet(t *testing.T) {
	NewTestSuite(levelConstructor).GetSet(t)
}

func TestLevelDBIteration(t *testing.T) {
	NewTestSuite(levelConstructor).Iteration(t)
}

func TestLevelDBCommitIsPersisted(t *testing.T) {
	dir := t.TempDir()

	db, err := OpenLevelDB(dir)
	require.NoError(t, err)

	id, err := db.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), id.Version)

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("package:1"), []byte("created")))
	require.NoError(t, cache.Write())

	first, err := db.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.Len(t, first.Hash, 32)

	// A commit without changes is still a new version with a new hash.
	second, err := db.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)
	require.NoError(t, db.Close())

	db, err = OpenLevelDB(dir)
	require.NoError(t, err)
	defer db.Close()

	id, err = db.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, second, id)

	val, err := db.Get([]byte("package:1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("created"), val)
}

func TestLevelDBHashDependsOnWrites(t *testing.T) {
	commit := func(value string) []byte {
		db, err := MemLevelDB()
		require.NoError(t, err)
		defer db.Close()
		require.NoError(t, db.Set([]byte("k"), []byte(value)))
		id, err := db.Commit()
		require.NoError(t, err)
		return id.Hash
	}
	assert.Equal(t, commit("a"), commit("a"))
	assert.NotEqual(t, commit("a"), commit("b"))
}
