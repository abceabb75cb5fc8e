package aidescrow

import (
	"github.com/iov-one/aidchain/errors"
)

var (
	ErrAlreadyInitialized        = errors.Register(1100, "escrow already initialized")
	ErrNotInitialized            = errors.Register(1101, "escrow not initialized")
	ErrDuplicatePackage          = errors.Register(1102, "duplicate package")
	ErrPackageNotFound           = errors.Register(1103, "package not found")
	ErrInvalidExpiry             = errors.Register(1104, "invalid expiry")
	ErrInsufficientEscrowBalance = errors.Register(1105, "insufficient escrow balance")
	ErrInvalidPackageState       = errors.Register(1106, "invalid package state")
	ErrPackageExpired            = errors.Register(1107, "package expired")
	ErrNotYetExpired             = errors.Register(1108, "package not yet expired")
	ErrInvalidVersion            = errors.Register(1109, "invalid version")
)
