package store

import (
	"testing"

	"github.com/iov-one/aidchain/chaintest/assert"
	"github.com/iov-one/aidchain/errors"
)

// TestSuite provides checks that can be run against any CacheableKVStore
// implementation. Only the store constructor is customized, the rest of the
// logic is generic to the KVStore interface.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func(t testing.TB) (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite running against stores created by given
// constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet does basic sanity checks on our cache layering.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase(t)
	defer cleanup()

	k, v := []byte("french"), []byte("fry")
	AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	AssertGetHas(t, base, k, v, true)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	AssertGetHas(t, cache, k, v, true)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	AssertGetHas(t, cache, k2, nil, false)
	assert.Nil(t, cache.Set(k2, v2))
	AssertGetHas(t, cache, k2, v2, true)
	AssertGetHas(t, base, k2, nil, false)

	// we can write the cache to the base layer...
	assert.Nil(t, cache.Write())
	AssertGetHas(t, base, k, v, true)
	AssertGetHas(t, base, k2, v2, true)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	AssertGetHas(t, c2, k, v, true)
	assert.Nil(t, c2.Set(k3, v3))
	c2.Discard()
	AssertGetHas(t, base, k3, nil, false)

	// and commit another
	c3 := base.CacheWrap()
	assert.Nil(t, c3.Delete(k))
	AssertGetHas(t, c3, k, nil, false)
	AssertGetHas(t, base, k, v, true)
	assert.Nil(t, c3.Write())

	AssertGetHas(t, base, k, nil, false)
	AssertGetHas(t, base, k2, v2, true)
	AssertGetHas(t, base, k3, nil, false)
}

// Iteration checks that cached and written values are merged in order, that
// deletes hide values and that bounds are respected.
func (s *TestSuite) Iteration(t *testing.T) {
	base, cleanup := s.makeBase(t)
	defer cleanup()

	for _, k := range []string{"a", "c", "e", "g"} {
		assert.Nil(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	assert.Nil(t, cache.Set([]byte("b"), []byte("cache-b")))
	assert.Nil(t, cache.Set([]byte("c"), []byte("cache-c")))
	assert.Nil(t, cache.Delete([]byte("e")))
	assert.Nil(t, cache.Set([]byte("h"), []byte("cache-h")))

	want := []Model{
		Pair("a", "base-a"),
		Pair("b", "cache-b"),
		Pair("c", "cache-c"),
		Pair("g", "base-g"),
		Pair("h", "cache-h"),
	}
	AssertIterator(t, cache, nil, nil, false, want)
	AssertIterator(t, cache, nil, nil, true, reversed(want))
	AssertIterator(t, cache, []byte("b"), []byte("g"), false, want[1:3])
	AssertIterator(t, cache, []byte("b"), []byte("g"), true, reversed(want[1:3]))
	AssertIterator(t, cache, []byte("d"), nil, false, want[3:])
	AssertIterator(t, cache, nil, []byte("c"), true, reversed(want[:2]))

	// Nested cache sees the merged view.
	nested := cache.CacheWrap()
	assert.Nil(t, nested.Delete([]byte("a")))
	AssertIterator(t, nested, nil, []byte("c"), false, want[1:2])

	// The base is not modified until written.
	AssertIterator(t, base, []byte("e"), []byte("f"), false, []Model{Pair("e", "base-e")})
	assert.Nil(t, cache.Write())
	AssertIterator(t, base, nil, nil, false, want)
}

// Pair is a helper to build a model from strings.
func Pair(key, value string) Model {
	return Model{Key: []byte(key), Value: []byte(value)}
}

func reversed(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

// AssertGetHas makes sure that the store returns given value for the key.
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if len(val) == 0 {
		assert.Equal(t, 0, len(got))
	} else {
		assert.Equal(t, val, got)
	}
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// AssertIterator consumes an iterator over given range and compares the
// result with the expected models.
func AssertIterator(t testing.TB, kv ReadOnlyKVStore, start, end []byte, reverse bool, want []Model) {
	t.Helper()

	var (
		it  Iterator
		err error
	)
	if reverse {
		it, err = kv.ReverseIterator(start, end)
	} else {
		it, err = kv.Iterator(start, end)
	}
	assert.Nil(t, err)
	defer it.Release()

	var got []Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		assert.Nil(t, err)
		got = append(got, Model{Key: key, Value: value})
	}
	if len(want) == 0 && len(got) == 0 {
		return
	}
	assert.Equal(t, want, got)
}
