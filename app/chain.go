package app

import (
	"reflect"

	"github.com/iov-one/aidchain"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler.
type Decorators struct {
	chain []aidchain.Decorator
}

/*
ChainDecorators takes a chain of decorators, and upon adding a final
Handler (often a Router), returns a Handler that will execute this whole
stack.

	app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(router)
*/
func ChainDecorators(chain ...aidchain.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a copy of the stack extended with given decorators. Nil
// decorators are skipped.
func (d Decorators) Chain(chain ...aidchain.Decorator) Decorators {
	next := make([]aidchain.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dec := range chain {
		if isNil(dec) {
			continue
		}
		next = append(next, dec)
	}
	return Decorators{chain: next}
}

func isNil(d aidchain.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler resolves the stack and returns a Handler that passes through
// all decorators, first to last, before calling h.
func (d Decorators) WithHandler(h aidchain.Handler) aidchain.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step executes a single decorator around the rest of the stack.
type step struct {
	d    aidchain.Decorator
	next aidchain.Handler
}

var _ aidchain.Handler = step{}

func (s step) Check(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
