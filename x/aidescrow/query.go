package aidescrow

import (
	"strconv"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// RegisterQuery exposes the escrow state under the /aidescrow/ paths.
func RegisterQuery(qr aidchain.QueryRouter) {
	NewAccountBucket().Register("aidescrow/account", qr)
	NewBalanceBucket().Register("aidescrow/balances", qr)
	NewPackageBucket().Register("aidescrow/packages", qr)
	qr.Register("/aidescrow/version", aidchain.QueryHandlerFunc(queryVersion))
}

// queryVersion returns the escrow version as a decimal string.
func queryVersion(db aidchain.ReadOnlyKVStore, mod string, data []byte) ([]aidchain.Model, error) {
	if mod != aidchain.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	acc, err := NewAccountBucket().Load(db)
	if err != nil {
		return nil, err
	}
	v := strconv.FormatUint(uint64(acc.Version), 10)
	return []aidchain.Model{aidchain.Pair([]byte("version"), []byte(v))}, nil
}
