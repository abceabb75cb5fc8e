package cash

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/coin"
	"github.com/iov-one/aidchain/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use aidchain.Address, so address in hex, not base64
type GenesisAccount struct {
	Address aidchain.Address `json:"address"`
	Coins   []coin.Coin      `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ aidchain.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(ctx aidchain.Context, opts aidchain.Options, kv aidchain.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	control := NewController(NewBucket())
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			if err := control.IssueCoins(kv, acct.Address, c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
