package chaintest

import "github.com/iov-one/aidchain"

// Handler is a mock handler returning the configured results. Every call is
// counted.
type Handler struct {
	calls

	CheckResult aidchain.CheckResult
	CheckErr    error

	DeliverResult aidchain.DeliverResult
	DeliverErr    error

	// OnDeliver if set is called with the store before returning the
	// delivery result. Use it to emulate a handler that writes state.
	OnDeliver func(db aidchain.KVStore)
}

var _ aidchain.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	h.check++
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	h.deliver++
	if h.OnDeliver != nil {
		h.OnDeliver(db)
	}
	res := h.DeliverResult
	return &res, h.DeliverErr
}
