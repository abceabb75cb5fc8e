package utils

import (
	"time"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// Logging writes a log entry for every processed transaction. Failures are
// logged as errors, successful deliveries as info and successful checks as
// debug entries.
type Logging struct{}

var _ aidchain.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx, next aidchain.Checker) (*aidchain.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	l := txLogger(ctx, tx, start)
	switch {
	case err != nil:
		logFailure(l, err)
	case res != nil:
		l.Debug(res.Log)
	}
	return res, err
}

func (Logging) Deliver(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx, next aidchain.Deliverer) (*aidchain.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	l := txLogger(ctx, tx, start)
	switch {
	case err != nil:
		logFailure(l, err)
	case res != nil:
		l.With("events", len(res.Events)).Info(res.Log)
	}
	return res, err
}

func txLogger(ctx aidchain.Context, tx aidchain.Tx, start time.Time) aidchain.Logger {
	l := aidchain.GetLogger(ctx).With("duration", time.Since(start)/time.Microsecond)
	if tx != nil {
		l = l.With("path", aidchain.GetPath(tx))
	}
	return l
}

func logFailure(l aidchain.Logger, err error) {
	l.With("code", errors.ABCICode(err), "err", err).Error("")
}
