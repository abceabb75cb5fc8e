package chaintest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/aidchain"
)

func TestAuth(t *testing.T) {
	a, b, c := NewCondition(), NewCondition(), NewCondition()

	cases := map[string]struct {
		auth Auth
		want []aidchain.Condition
	}{
		"empty":            {auth: Auth{}},
		"signer only":      {auth: Auth{Signer: a}, want: []aidchain.Condition{a}},
		"signers only":     {auth: Auth{Signers: []aidchain.Condition{a, b}}, want: []aidchain.Condition{a, b}},
		"signer goes last": {auth: Auth{Signer: c, Signers: []aidchain.Condition{a, b}}, want: []aidchain.Condition{a, b, c}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.auth.GetConditions(nil))
			for _, w := range tc.want {
				assert.True(t, tc.auth.HasAddress(nil, w.Address()))
			}
			assert.False(t, tc.auth.HasAddress(nil, NewCondition().Address()))
		})
	}
}

func TestAuthDoesNotAlterSigners(t *testing.T) {
	signers := make([]aidchain.Condition, 1, 2)
	signers[0] = NewCondition()
	a := Auth{Signer: NewCondition(), Signers: signers}

	assert.Len(t, a.GetConditions(nil), 2)
	assert.Len(t, a.Signers, 1)
	assert.Equal(t, signers[:1], a.Signers)
}

func TestCtxAuth(t *testing.T) {
	a := CtxAuth{Key: "auth"}
	b := CtxAuth{Key: "other"}
	cond := NewCondition()

	ctx := a.SetConditions(context.Background(), cond)
	assert.True(t, a.HasAddress(ctx, cond.Address()))
	assert.False(t, b.HasAddress(ctx, cond.Address()))
	assert.Nil(t, b.GetConditions(ctx))

	// A plain string key must not collide with the auth storage.
	ctx = context.WithValue(context.Background(), "auth", "junk")
	assert.Nil(t, a.GetConditions(ctx))
}

func TestMocksCountCalls(t *testing.T) {
	h := &Handler{}
	d := &Decorator{CheckErr: failure{}}
	dh := Decorate(h, d)

	_, err := dh.Check(context.Background(), nil, &Tx{})
	assert.Error(t, err)
	_, err = dh.Deliver(context.Background(), nil, &Tx{})
	assert.NoError(t, err)

	assert.Equal(t, 1, d.CheckCallCount())
	assert.Equal(t, 1, d.DeliverCallCount())
	assert.Equal(t, 0, h.CheckCallCount())
	assert.Equal(t, 1, h.CallCount())
}

type failure struct{}

func (failure) Error() string { return "failed" }
