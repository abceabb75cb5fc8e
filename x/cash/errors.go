package cash

import (
	"github.com/iov-one/aidchain/errors"
)

var (
	// ErrEmptyAccount is returned when moving funds out of a wallet that
	// does not exist.
	ErrEmptyAccount = errors.Register(1200, "empty account")

	// ErrInsufficientFunds is returned when the wallet balance is lower
	// than the requested amount.
	ErrInsufficientFunds = errors.Register(1201, "insufficient funds")
)
