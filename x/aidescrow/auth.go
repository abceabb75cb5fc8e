package aidescrow

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/x"
)

// Operation names a state mutating entry point.
type Operation string

const (
	OpInit          Operation = "init"
	OpFund          Operation = "fund"
	OpCreatePackage Operation = "create_package"
	OpClaim         Operation = "claim"
	OpDisburse      Operation = "disburse"
	OpRevoke        Operation = "revoke"
	OpRefund        Operation = "refund"
	OpMigrate       Operation = "migrate"
)

// Role is the relation an identity must have with the escrow in order to
// invoke an operation.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleRecipient Role = "recipient"
	RoleFunder    Role = "funder"
)

var requiredRoles = map[Operation]Role{
	OpInit:          RoleAdmin,
	OpFund:          RoleFunder,
	OpCreatePackage: RoleAdmin,
	OpClaim:         RoleRecipient,
	OpDisburse:      RoleAdmin,
	OpRevoke:        RoleAdmin,
	OpRefund:        RoleAdmin,
	OpMigrate:       RoleAdmin,
}

// Gate is the single authorization predicate of the escrow.
type Gate struct {
	auth x.Authenticator
}

func NewGate(auth x.Authenticator) Gate {
	return Gate{auth: auth}
}

// Require returns ErrUnauthorized unless role is the one required by op and
// the identity holding that role signed the transaction. The identity is
// always looked up by the caller from the stored state (admin from the
// account, recipient from the package) and is never cached.
func (g Gate) Require(ctx aidchain.Context, op Operation, role Role, identity aidchain.Address) error {
	want, ok := requiredRoles[op]
	if !ok {
		return errors.Wrapf(errors.ErrHuman, "unknown operation %q", op)
	}
	if want != role {
		return errors.Wrapf(errors.ErrHuman, "%s requires %s role, got %s", op, want, role)
	}
	if err := x.RequireSignature(ctx, g.auth, identity, string(role)); err != nil {
		return errors.Wrapf(err, "%s", op)
	}
	return nil
}
