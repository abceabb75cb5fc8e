package aidchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryRouter(t *testing.T) {
	r := NewQueryRouter()
	echo := QueryHandlerFunc(func(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
		return []Model{Pair([]byte(mod), data)}, nil
	})
	r.RegisterAll(
		func(r QueryRouter) { r.Register("/b", echo) },
		func(r QueryRouter) { r.Register("/a", echo) },
	)

	assert.Equal(t, []string{"/a", "/b"}, r.Paths())
	assert.Nil(t, r.Handler("/c"))

	models, err := r.Handler("/a").Query(nil, PrefixQueryMod, []byte("x"))
	assert.NoError(t, err)
	assert.Equal(t, []Model{{Key: []byte("prefix"), Value: []byte("x")}}, models)

	assert.Panics(t, func() { r.Register("/a", echo) })
	assert.Panics(t, func() { r.Register("relative", echo) })
	assert.Panics(t, func() { r.Register("/with?prefix", echo) })
}

func TestParseQueryPath(t *testing.T) {
	cases := map[string]struct {
		path string
		mod  string
	}{
		"/cash/wallets":        {path: "/cash/wallets", mod: KeyQueryMod},
		"/cash/wallets?prefix": {path: "/cash/wallets", mod: PrefixQueryMod},
		"/events?":             {path: "/events", mod: ""},
	}
	for query, tc := range cases {
		t.Run(query, func(t *testing.T) {
			path, mod := ParseQueryPath(query)
			assert.Equal(t, tc.path, path)
			assert.Equal(t, tc.mod, mod)
		})
	}
}
