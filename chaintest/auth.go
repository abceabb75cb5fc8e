package chaintest

import (
	"context"
	"fmt"

	"github.com/iov-one/aidchain"
)

// Auth authenticates a fixed set of conditions, regardless of the context.
// Signers are returned first, followed by Signer if set.
type Auth struct {
	// Signer is a shortcut for authenticating a single condition.
	Signer  aidchain.Condition
	Signers []aidchain.Condition
}

func (a *Auth) GetConditions(aidchain.Context) []aidchain.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	conds := make([]aidchain.Condition, 0, len(a.Signers)+1)
	conds = append(conds, a.Signers...)
	return append(conds, a.Signer)
}

func (a *Auth) HasAddress(ctx aidchain.Context, addr aidchain.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth authenticates the conditions stored in the context by
// SetConditions. Instances with different keys do not see each other's
// conditions.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetConditions(ctx aidchain.Context, conds ...aidchain.Condition) aidchain.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx aidchain.Context) []aidchain.Condition {
	switch v := ctx.Value(ctxAuthKey(a.Key)).(type) {
	case nil:
		return nil
	case []aidchain.Condition:
		return v
	default:
		panic(fmt.Sprintf("unexpected condition list type %T", v))
	}
}

func (a *CtxAuth) HasAddress(ctx aidchain.Context, addr aidchain.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []aidchain.Condition, addr aidchain.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
