package x

import (
	"context"
	"testing"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/chaintest"
	"github.com/iov-one/aidchain/chaintest/assert"
	"github.com/iov-one/aidchain/errors"
)

func TestChainAuth(t *testing.T) {
	a := chaintest.NewCondition()
	b := chaintest.NewCondition()
	c := chaintest.NewCondition()

	ctxAuth := &chaintest.CtxAuth{Key: "signers"}

	cases := map[string]struct {
		ctx      aidchain.Context
		auth     Authenticator
		wantAll  []aidchain.Condition
		signed   []aidchain.Condition
		unsigned []aidchain.Condition
	}{
		"nothing signed": {
			ctx:      context.Background(),
			auth:     ChainAuth(&chaintest.Auth{}),
			unsigned: []aidchain.Condition{a},
		},
		"conditions of all authenticators in order": {
			ctx:      context.Background(),
			auth:     ChainAuth(&chaintest.Auth{Signer: b}, &chaintest.Auth{Signer: a}),
			wantAll:  []aidchain.Condition{b, a},
			signed:   []aidchain.Condition{a, b},
			unsigned: []aidchain.Condition{c},
		},
		"context authenticator": {
			ctx:      ctxAuth.SetConditions(context.Background(), c),
			auth:     ChainAuth(ctxAuth, &chaintest.Auth{Signer: a}),
			wantAll:  []aidchain.Condition{c, a},
			signed:   []aidchain.Condition{a, c},
			unsigned: []aidchain.Condition{b},
		},
		"context authenticator with another key": {
			ctx:      ctxAuth.SetConditions(context.Background(), c),
			auth:     ChainAuth(&chaintest.CtxAuth{Key: "other"}),
			unsigned: []aidchain.Condition{c},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(tc.ctx))
			for _, s := range tc.signed {
				assert.Nil(t, RequireSignature(tc.ctx, tc.auth, s.Address(), "signer"))
			}
			for _, s := range tc.unsigned {
				err := RequireSignature(tc.ctx, tc.auth, s.Address(), "signer")
				if !errors.ErrUnauthorized.Is(err) {
					t.Fatalf("want unauthorized, got %+v", err)
				}
			}
		})
	}
}

func TestRequireSignatureEmptyAddress(t *testing.T) {
	err := RequireSignature(context.Background(), ChainAuth(), nil, "admin")
	if !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized, got %+v", err)
	}
}
