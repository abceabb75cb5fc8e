package app

import (
	"fmt"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// Router dispatches transactions to the handler registered for the path of
// the transaction message.
type Router struct {
	routes map[string]aidchain.Handler
}

var _ aidchain.Registry = (*Router)(nil)
var _ aidchain.Handler = (*Router)(nil)

// NewRouter returns a router with no routes.
func NewRouter() *Router {
	return &Router{routes: make(map[string]aidchain.Handler)}
}

// Handle registers a handler for the path of given message. It panics if
// the path is invalid or already taken.
func (r *Router) Handle(m aidchain.Msg, h aidchain.Handler) {
	path := m.Path()
	if !aidchain.IsValidPath(path) {
		panic(fmt.Sprintf("invalid message path %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

func (r *Router) handler(tx aidchain.Tx) (aidchain.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load message")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	}
	h, ok := r.routes[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", msg.Path())
	}
	return h, nil
}

// Check dispatches to the registered handler.
func (r *Router) Check(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the registered handler.
func (r *Router) Deliver(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, store, tx)
}
