package commands

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iov-one/aidchain/crypto"
	"github.com/iov-one/aidchain/crypto/bech32"
	"github.com/iov-one/aidchain/errors"
)

// AddressHRP is the human readable part of bech32 encoded addresses.
const AddressHRP = "aid"

// NewKeysCmd returns the key management commands.
func NewKeysCmd(home *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage signing keys",
	}
	cmd.AddCommand(newKeysNewCmd(home), newKeysShowCmd(home))
	return cmd
}

func newKeysNewCmd(home *string) *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Generate a new ed25519 key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := Home(*home)
			if err := h.Ensure(); err != nil {
				return err
			}
			key, err := createKey(h, args[0])
			if err != nil {
				return err
			}
			return printKey(cmd, args[0], key)
		},
	}
}

func newKeysShowCmd(home *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print the address of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadKey(Home(*home), args[0])
			if err != nil {
				return err
			}
			return printKey(cmd, args[0], key)
		},
	}
}

func printKey(cmd *cobra.Command, name string, key *crypto.PrivateKey) error {
	addr := key.PublicKey().Address()
	b32, err := bech32.Encode(AddressHRP, addr)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "name:    %s\n", name)
	fmt.Fprintf(out, "address: %s\n", addr)
	fmt.Fprintf(out, "bech32:  %s\n", b32)
	return nil
}

func createKey(h Home, name string) (*crypto.PrivateKey, error) {
	path := h.KeyFile(name)
	if _, err := os.Stat(path); err == nil {
		return nil, errors.Wrapf(errors.ErrDuplicate, "key %q already exists", name)
	}
	key := crypto.GenPrivKeyEd25519()
	raw, err := key.Marshal()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(raw)), 0o600); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "write key: %s", err)
	}
	return key, nil
}

func loadKey(h Home, name string) (*crypto.PrivateKey, error) {
	enc, err := os.ReadFile(h.KeyFile(name))
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(errors.ErrNotFound, "key %q", name)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read key: %s", err)
	}
	raw, err := hex.DecodeString(strings.TrimSpace(string(enc)))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "key %q is not hex encoded", name)
	}
	var key crypto.PrivateKey
	if err := key.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "key %q", name)
	}
	return &key, nil
}
