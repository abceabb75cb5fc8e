package commands

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/app"
	"github.com/iov-one/aidchain/coin"
	"github.com/iov-one/aidchain/crypto"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/x/aidescrow"
	"github.com/iov-one/aidchain/x/cash"
	"github.com/iov-one/aidchain/x/sigs"
)

// txFlags are shared by all transaction commands.
type txFlags struct {
	key   string
	seq   int64
	print bool
	at    string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.key, "key", "admin", "name of the signing key")
	cmd.Flags().Int64Var(&f.seq, "seq", -1, "signature sequence, read from the chain when negative")
	cmd.Flags().BoolVar(&f.print, "print", false, "print the signed transaction as hex instead of executing it")
	cmd.Flags().StringVar(&f.at, "time", "", "block time (RFC3339), defaults to now")
}

func (f *txFlags) blockTime() (time.Time, error) {
	if f.at == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, f.at)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrInput, "time: %s", err)
	}
	return t, nil
}

// NewTxCmd returns the commands creating, signing and executing
// transactions.
func NewTxCmd(home *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Sign and execute a transaction",
		Long: `Sign and execute a transaction in a new block of the local chain.

Addresses are given in hex, as "bech32:<address>" or as the name of a local
key. Amounts are written as "<number> <ticker>", for example "100 AID".`,
	}
	cmd.AddCommand(
		newMsgCmd(home, "send <to> <amount>", "Send coins from the signer wallet", 2,
			func(h Home, signer aidchain.Address, now time.Time, args []string) (aidchain.Msg, error) {
				to, err := resolveAddress(h, args[0])
				if err != nil {
					return nil, err
				}
				amount, err := coin.ParseCoin(args[1])
				if err != nil {
					return nil, err
				}
				return &cash.SendMsg{Metadata: schema(), Source: signer, Destination: to, Amount: amount}, nil
			}),
		newMsgCmd(home, "init [admin]", "Create the escrow account, administrated by the signer by default", -1,
			func(h Home, signer aidchain.Address, now time.Time, args []string) (aidchain.Msg, error) {
				admin := signer
				if len(args) > 0 {
					a, err := resolveAddress(h, args[0])
					if err != nil {
						return nil, err
					}
					admin = a
				}
				return &aidescrow.InitMsg{Metadata: schema(), Admin: admin}, nil
			}),
		newMsgCmd(home, "fund <amount>", "Move coins from the signer wallet into the escrow", 1,
			func(h Home, signer aidchain.Address, now time.Time, args []string) (aidchain.Msg, error) {
				amount, err := coin.ParseCoin(args[0])
				if err != nil {
					return nil, err
				}
				return &aidescrow.FundMsg{Metadata: schema(), From: signer, Amount: amount}, nil
			}),
		newCreateCmd(home),
		newPackageCmd(home, "claim", "Acknowledge a package as its recipient",
			func(id uint64) aidchain.Msg { return &aidescrow.ClaimMsg{Metadata: schema(), PackageID: id} }),
		newPackageCmd(home, "disburse", "Pay a package out to its recipient",
			func(id uint64) aidchain.Msg { return &aidescrow.DisburseMsg{Metadata: schema(), PackageID: id} }),
		newPackageCmd(home, "revoke", "Cancel a package",
			func(id uint64) aidchain.Msg { return &aidescrow.RevokeMsg{Metadata: schema(), PackageID: id} }),
		newPackageCmd(home, "refund", "Release an expired package",
			func(id uint64) aidchain.Msg { return &aidescrow.RefundMsg{Metadata: schema(), PackageID: id} }),
		newMsgCmd(home, "migrate <version>", "Bump the escrow version and migrate stored data", 1,
			func(h Home, signer aidchain.Address, now time.Time, args []string) (aidchain.Msg, error) {
				v, err := parseUint(args[0], 32)
				if err != nil {
					return nil, err
				}
				return &aidescrow.MigrateMsg{Metadata: schema(), NewVersion: uint32(v)}, nil
			}),
	)
	return cmd
}

type msgBuilder func(h Home, signer aidchain.Address, now time.Time, args []string) (aidchain.Msg, error)

// newMsgCmd returns a command executing a message built from the command
// arguments. A negative nargs accepts up to one optional argument.
func newMsgCmd(home *string, use, short string, nargs int, build msgBuilder) *cobra.Command {
	var flags txFlags
	args := cobra.ExactArgs(nargs)
	if nargs < 0 {
		args = cobra.MaximumNArgs(1)
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := Home(*home)
			key, err := loadKey(h, flags.key)
			if err != nil {
				return err
			}
			now, err := flags.blockTime()
			if err != nil {
				return err
			}
			msg, err := build(h, key.PublicKey().Address(), now, args)
			if err != nil {
				return err
			}
			return submit(cmd, h, &flags, key, msg, now)
		},
	}
	flags.register(cmd)
	return cmd
}

func newPackageCmd(home *string, name, short string, build func(id uint64) aidchain.Msg) *cobra.Command {
	return newMsgCmd(home, name+" <package-id>", short, 1,
		func(h Home, signer aidchain.Address, now time.Time, args []string) (aidchain.Msg, error) {
			id, err := parseUint(args[0], 64)
			if err != nil {
				return nil, err
			}
			return build(id), nil
		})
}

func newCreateCmd(home *string) *cobra.Command {
	var expires string
	cmd := newMsgCmd(home, "create <package-id> <recipient> <amount>", "Reserve escrowed funds for a recipient", 3,
		func(h Home, signer aidchain.Address, now time.Time, args []string) (aidchain.Msg, error) {
			id, err := parseUint(args[0], 64)
			if err != nil {
				return nil, err
			}
			recipient, err := resolveAddress(h, args[1])
			if err != nil {
				return nil, err
			}
			amount, err := coin.ParseCoin(args[2])
			if err != nil {
				return nil, err
			}
			exp, err := parseExpiry(expires, now)
			if err != nil {
				return nil, err
			}
			return &aidescrow.CreatePackageMsg{
				Metadata:  schema(),
				PackageID: id,
				Recipient: recipient,
				Amount:    amount,
				ExpiresAt: exp,
			}, nil
		})
	cmd.Flags().StringVar(&expires, "expires", "720h", "expiry as a duration from now or an RFC3339 time")
	return cmd
}

// submit signs the message and either prints or executes the transaction.
func submit(cmd *cobra.Command, h Home, flags *txFlags, key *crypto.PrivateKey, msg aidchain.Msg, now time.Time) error {
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	// Printing with an explicit sequence does not need the database.
	if flags.print && flags.seq >= 0 {
		conf, err := LoadConfig(h.ConfigFile())
		if err != nil {
			return err
		}
		chainID, err := chainIDFromFiles(h, conf)
		if err != nil {
			return err
		}
		raw, err := signTx(key, msg, chainID, flags.seq)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(raw))
		return nil
	}

	n, err := openNode(h, cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}
	defer n.Close()

	if err := n.ensureChain(); err != nil {
		return err
	}
	chainID, err := n.chainID()
	if err != nil {
		return err
	}
	seq := flags.seq
	if seq < 0 {
		if seq, err = n.sequence(key.PublicKey()); err != nil {
			return err
		}
	}
	raw, err := signTx(key, msg, chainID, seq)
	if err != nil {
		return err
	}
	if flags.print {
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(raw))
		return nil
	}

	b, err := n.deliver(now, raw)
	if err != nil {
		return err
	}
	if err := writeJSON(cmd, b); err != nil {
		return err
	}
	if res := b.Results[0]; !res.IsOK() {
		return errors.Wrapf(errors.ErrState, "transaction failed with code %d: %s", res.Code, res.Log)
	}
	return nil
}

func signTx(key *crypto.PrivateKey, msg aidchain.Msg, chainID string, seq int64) ([]byte, error) {
	tx := app.NewTx(msg)
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	tx.Sign(sig)
	return tx.Marshal()
}

// sequence returns the next signature sequence of given key as committed
// on chain.
func (n *node) sequence(pub *crypto.PublicKey) (int64, error) {
	models, _, err := n.app.Query("/sigs", pub.Address())
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}
	var user sigs.UserData
	if err := user.Unmarshal(models[0].Value); err != nil {
		return 0, err
	}
	return user.Sequence, nil
}

// resolveAddress accepts a local key name or any format understood by
// aidchain.ParseAddress.
func resolveAddress(h Home, s string) (aidchain.Address, error) {
	if _, err := os.Stat(h.KeyFile(s)); err == nil {
		key, err := loadKey(h, s)
		if err != nil {
			return nil, err
		}
		return key.PublicKey().Address(), nil
	}
	return aidchain.ParseAddress(s)
}

func parseExpiry(s string, now time.Time) (aidchain.UnixTime, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return aidchain.AsUnixTime(now.Add(d)), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "expiry %q is neither a duration nor an RFC3339 time", s)
	}
	return aidchain.AsUnixTime(t), nil
}

func schema() *aidchain.Metadata {
	return &aidchain.Metadata{Schema: 1}
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrapf(errors.ErrInput, "encode output: %s", err)
	}
	return nil
}

func hexUpper(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
