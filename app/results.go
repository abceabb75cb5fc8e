package app

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// TxResult is the outcome of checking or delivering a single transaction.
// A zero Code means success.
type TxResult struct {
	Code   uint32
	Log    string
	Data   []byte
	Events []aidchain.Event
}

// IsOK returns true if the transaction was processed successfully.
func (r TxResult) IsOK() bool {
	return r.Code == errors.SuccessABCICode
}

func checkResult(res *aidchain.CheckResult, err error, debug bool) TxResult {
	if err != nil {
		return errorResult(err, debug)
	}
	if res == nil {
		return TxResult{}
	}
	return TxResult{Data: res.Data, Log: res.Log}
}

func deliverResult(res *aidchain.DeliverResult, err error, debug bool) TxResult {
	if err != nil {
		return errorResult(err, debug)
	}
	if res == nil {
		return TxResult{}
	}
	return TxResult{Data: res.Data, Log: res.Log, Events: res.Events}
}

// errorResult never exposes the details of internal errors unless debug is
// set.
func errorResult(err error, debug bool) TxResult {
	code, log := errors.ABCIInfo(err, debug)
	return TxResult{Code: code, Log: log}
}
