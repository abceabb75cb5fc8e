package aidescrow

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// Initializer creates the escrow account from genesis when the "aidescrow"
// option is present.
type Initializer struct{}

var _ aidchain.Initializer = Initializer{}

func (Initializer) FromGenesis(ctx aidchain.Context, opts aidchain.Options, db aidchain.KVStore) error {
	var genesis struct {
		Admin aidchain.Address `json:"admin"`
	}
	if err := opts.ReadOptions("aidescrow", &genesis); err != nil {
		return err
	}
	if genesis.Admin == nil {
		return nil
	}

	accounts := NewAccountBucket()
	if _, err := accounts.Load(db); err == nil {
		return ErrAlreadyInitialized
	}
	acc := &Account{
		Metadata: &aidchain.Metadata{Schema: 1},
		Admin:    genesis.Admin,
		Version:  1,
	}
	if err := accounts.Save(db, acc); err != nil {
		return errors.Wrap(err, "cannot store account")
	}
	return nil
}
