package app

import (
	"encoding/json"
	"os"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// Genesis describes the initial state of a chain.
type Genesis struct {
	ChainID     string            `json:"chain_id"`
	GenesisTime aidchain.UnixTime `json:"genesis_time"`
	AppState    aidchain.Options  `json:"app_state"`
}

// Validate ensures the genesis can be used to start a chain.
func (g *Genesis) Validate() error {
	var errs error
	if !aidchain.IsValidChainID(g.ChainID) {
		errs = errors.Append(errs, errors.Field("ChainID", errors.ErrInput, "invalid chain id %q", g.ChainID))
	}
	errs = errors.AppendField(errs, "GenesisTime", g.GenesisTime.Validate())
	return errs
}

// LoadGenesis reads a JSON encoded genesis file.
func LoadGenesis(path string) (*Genesis, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read genesis: %s", err)
	}
	var g Genesis
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "decode genesis: %s", err)
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(err, "genesis")
	}
	return &g, nil
}

// WriteGenesis stores given genesis as indented JSON.
func WriteGenesis(path string, g *Genesis) error {
	raw, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "encode genesis: %s", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return errors.Wrapf(errors.ErrInput, "write genesis: %s", err)
	}
	return nil
}
