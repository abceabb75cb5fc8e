package utils

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// Recovery converts a panic raised down the stack into an ErrPanic result
// and logs it. It belongs at the top of the decorator chain so that a
// faulty handler cannot take the node down.
type Recovery struct{}

var _ aidchain.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (r Recovery) Check(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx, next aidchain.Checker) (_ *aidchain.CheckResult, err error) {
	defer recoverInto(ctx, "check", &err)
	return next.Check(ctx, store, tx)
}

func (r Recovery) Deliver(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx, next aidchain.Deliverer) (_ *aidchain.DeliverResult, err error) {
	defer recoverInto(ctx, "deliver", &err)
	return next.Deliver(ctx, store, tx)
}

// recoverInto must be deferred directly for recover to see the panic.
func recoverInto(ctx aidchain.Context, phase string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	aidchain.GetLogger(ctx).Error("transaction panic", "phase", phase, "panic", r)
}
