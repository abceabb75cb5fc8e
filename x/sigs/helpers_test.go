package sigs

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/chaintest"
)

// StdTx is a signed transaction mock.
type StdTx struct {
	chaintest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ aidchain.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{Tx: chaintest.Tx{Msg: &chaintest.Msg{RoutePath: "test/sigs", Serialized: payload}}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []aidchain.Condition
}

var _ aidchain.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &aidchain.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx aidchain.Context, store aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &aidchain.DeliverResult{}, nil
}
