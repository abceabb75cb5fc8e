package chaintest

import (
	"testing"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/crypto"
)

// NewKey returns a new, random signing key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a new, random key.
func NewCondition() aidchain.Condition {
	return NewKey().PublicKey().Condition()
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) aidchain.Address {
	t.Helper()

	addr, err := aidchain.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
