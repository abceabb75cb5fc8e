package x

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// Authenticator reveals which conditions signed the current transaction.
// Handlers receive one in their constructor instead of depending on x/sigs
// directly.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled by the transaction.
	GetConditions(aidchain.Context) []aidchain.Condition
	// HasAddress checks if any fulfilled condition matches the address.
	HasAddress(aidchain.Context, aidchain.Address) bool
}

// MultiAuth combines several authenticators. A condition fulfilled for any
// of them is fulfilled for all.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth{}

// ChainAuth returns an authenticator accepting what any of impls accepts.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

func (m MultiAuth) GetConditions(ctx aidchain.Context) []aidchain.Condition {
	var res []aidchain.Condition
	for _, impl := range m {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

func (m MultiAuth) HasAddress(ctx aidchain.Context, addr aidchain.Address) bool {
	for _, impl := range m {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// RequireSignature returns ErrUnauthorized unless addr signed the
// transaction. Role names the expected signer in the error message.
func RequireSignature(ctx aidchain.Context, auth Authenticator, addr aidchain.Address, role string) error {
	if len(addr) == 0 {
		return errors.Wrapf(errors.ErrUnauthorized, "no %s address", role)
	}
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s signature missing", role)
	}
	return nil
}
