package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/app"
	"github.com/iov-one/aidchain/coin"
	"github.com/iov-one/aidchain/crypto"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/x/cash"
)

// NewInitCmd returns the command creating the configuration, the genesis
// file and the admin key.
func NewInitCmd(home *string) *cobra.Command {
	var (
		chainID   string
		adminName string
		mint      string
		noEscrow  bool
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the home directory and the genesis file",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := Home(*home)
			if err := h.Ensure(); err != nil {
				return err
			}
			if _, err := os.Stat(h.GenesisFile()); err == nil && !force {
				return errors.Wrapf(errors.ErrDuplicate, "%s exists, use --force to overwrite", h.GenesisFile())
			}

			admin, err := loadKey(h, adminName)
			if errors.ErrNotFound.Is(err) {
				admin, err = createKey(h, adminName)
			}
			if err != nil {
				return err
			}

			g, err := genesisFor(chainID, admin, mint, !noEscrow)
			if err != nil {
				return err
			}
			if err := app.WriteGenesis(h.GenesisFile(), g); err != nil {
				return err
			}

			conf, err := LoadConfig(h.ConfigFile())
			if err != nil {
				return err
			}
			conf.ChainID = chainID
			if err := SaveConfig(h.ConfigFile(), conf); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "chain %s initialized in %s\n", chainID, h)
			return printKey(cmd, adminName, admin)
		},
	}
	cmd.Flags().StringVar(&chainID, "chain-id", "aid-local", "chain id")
	cmd.Flags().StringVar(&adminName, "admin", "admin", "name of the admin key, created if missing")
	cmd.Flags().StringVar(&mint, "mint", "1000000 AID", "coins issued to the admin wallet at genesis")
	cmd.Flags().BoolVar(&noEscrow, "no-escrow", false, "do not initialize the escrow account at genesis")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing genesis file")
	return cmd
}

func genesisFor(chainID string, admin *crypto.PrivateKey, mint string, escrow bool) (*app.Genesis, error) {
	addr := admin.PublicKey().Address()
	state := aidchain.Options{}

	if mint != "" {
		c, err := coin.ParseCoin(mint)
		if err != nil {
			return nil, errors.Wrap(err, "mint")
		}
		raw, err := json.Marshal([]cash.GenesisAccount{{Address: addr, Coins: []coin.Coin{c}}})
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "encode wallets: %s", err)
		}
		state["cash"] = raw
	}
	if escrow {
		raw, err := json.Marshal(map[string]aidchain.Address{"admin": addr})
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "encode escrow: %s", err)
		}
		state["aidescrow"] = raw
	}

	g := &app.Genesis{
		ChainID:     chainID,
		GenesisTime: aidchain.AsUnixTime(time.Now()),
		AppState:    state,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
