package cash

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r aidchain.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// RegisterQuery will register this bucket as "/cash/wallets"
func RegisterQuery(qr aidchain.QueryRouter) {
	NewBucket().Register("cash/wallets", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ aidchain.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed
func (h SendHandler) Check(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &aidchain.CheckResult{}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(store, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &aidchain.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx aidchain.Context, tx aidchain.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := aidchain.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSignature(ctx, h.auth, msg.Source, "source"); err != nil {
		return nil, err
	}
	return &msg, nil
}
