package sigs

import (
	"github.com/iov-one/aidchain/errors"
)

// ErrInvalidSequence is returned when a signature carries a sequence number
// that is not the one expected for the signer.
var ErrInvalidSequence = errors.Register(1300, "invalid sequence number")
