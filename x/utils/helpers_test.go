package utils

import (
	"github.com/iov-one/aidchain"
)

// writeHandler writes the key, value pair and returns the error (may be nil)
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ aidchain.Handler = writeHandler{}

func (h writeHandler) Check(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &aidchain.CheckResult{}, h.err
}

func (h writeHandler) Deliver(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	if err := store.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &aidchain.DeliverResult{}, h.err
}

// writeDecorator writes the key, value pair.
// either before or after calling the handlers
type writeDecorator struct {
	key   []byte
	value []byte
	after bool
}

var _ aidchain.Decorator = writeDecorator{}

func (d writeDecorator) Check(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx, next aidchain.Checker) (*aidchain.CheckResult, error) {
	if !d.after {
		_ = store.Set(d.key, d.value)
	}
	res, err := next.Check(ctx, store, tx)
	if d.after {
		_ = store.Set(d.key, d.value)
	}
	return res, err
}

func (d writeDecorator) Deliver(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx, next aidchain.Deliverer) (*aidchain.DeliverResult, error) {
	if !d.after {
		_ = store.Set(d.key, d.value)
	}
	res, err := next.Deliver(ctx, store, tx)
	if d.after {
		_ = store.Set(d.key, d.value)
	}
	return res, err
}

// panicHandler always panics
type panicHandler struct{}

var _ aidchain.Handler = panicHandler{}

func (p panicHandler) Check(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	panic("check panic")
}

func (p panicHandler) Deliver(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	panic("deliver panic")
}
