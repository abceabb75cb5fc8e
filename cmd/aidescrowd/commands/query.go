package commands

import (
	"encoding/hex"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/app"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/orm"
	"github.com/iov-one/aidchain/x/aidescrow"
	"github.com/iov-one/aidchain/x/cash"
	"github.com/iov-one/aidchain/x/sigs"
)

// queryPath describes how to build the query data from the command
// arguments and how to decode returned values.
type queryPath struct {
	key   func(h Home, args []string) ([]byte, error)
	model func() orm.Model
}

var queryPaths = map[string]queryPath{
	"/aidescrow/account": {
		key:   func(Home, []string) ([]byte, error) { return []byte("account"), nil },
		model: func() orm.Model { return &aidescrow.Account{} },
	},
	"/aidescrow/balances": {
		key:   rawKey,
		model: func() orm.Model { return &aidescrow.AssetBalance{} },
	},
	"/aidescrow/packages": {
		key: func(_ Home, args []string) ([]byte, error) {
			if len(args) == 0 {
				return nil, nil
			}
			id, err := parseUint(args[0], 64)
			if err != nil {
				return nil, err
			}
			return aidescrow.PackageKey(id), nil
		},
		model: func() orm.Model { return &aidescrow.Package{} },
	},
	"/aidescrow/version": {
		key: func(Home, []string) ([]byte, error) { return nil, nil },
	},
	"/cash/wallets": {
		key: func(h Home, args []string) ([]byte, error) {
			if len(args) == 0 {
				return nil, nil
			}
			owner, err := resolveAddress(h, args[0])
			if err != nil {
				return nil, err
			}
			ticker := ""
			if len(args) > 1 {
				ticker = args[1]
			}
			return cash.WalletKey(owner, ticker), nil
		},
		model: func() orm.Model { return &cash.Wallet{} },
	},
	"/sigs": {
		key: func(h Home, args []string) ([]byte, error) {
			if len(args) == 0 {
				return nil, nil
			}
			return resolveAddress(h, args[0])
		},
		model: func() orm.Model { return &sigs.UserData{} },
	},
	"/events": {
		key: func(_ Home, args []string) ([]byte, error) {
			if len(args) == 0 {
				return nil, nil
			}
			n, err := parseUint(args[0], 64)
			if err != nil {
				return nil, err
			}
			return orm.EncodeSequence(n), nil
		},
		model: func() orm.Model { return &app.EventRecord{} },
	},
}

func rawKey(_ Home, args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, nil
	}
	return []byte(args[0]), nil
}

// queryResult is a single returned model.
type queryResult struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// NewQueryCmd returns the command reading the committed state.
func NewQueryCmd(home *string) *cobra.Command {
	var (
		prefix bool
		hexKey string
	)
	cmd := &cobra.Command{
		Use:   "query <path> [args...]",
		Short: "Query the committed state",
		Long: `Query the committed state of the local chain.

Known paths and their arguments:
  /aidescrow/account
  /aidescrow/version
  /aidescrow/balances [ticker]
  /aidescrow/packages [package-id]
  /cash/wallets [address [ticker]]
  /sigs [address]
  /events [sequence]

Without arguments, or with --prefix, all matching entries are returned.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := Home(*home)
			path, rest := args[0], args[1:]
			qp := queryPaths[path]

			var data []byte
			switch {
			case hexKey != "":
				raw, err := hex.DecodeString(hexKey)
				if err != nil {
					return errors.Wrap(errors.ErrInput, "key is not hex encoded")
				}
				data = raw
			case qp.key != nil:
				raw, err := qp.key(h, rest)
				if err != nil {
					return err
				}
				data = raw
			}
			mod := aidchain.KeyQueryMod
			if prefix || (len(rest) == 0 && hexKey == "" && path != "/aidescrow/account" && path != "/aidescrow/version") {
				mod = aidchain.PrefixQueryMod
			}

			n, err := openNode(h, cmd.ErrOrStderr(), nil)
			if err != nil {
				return err
			}
			defer n.Close()

			q := path
			if mod != aidchain.KeyQueryMod {
				q += "?" + mod
			}
			models, height, err := n.app.Query(q, data)
			if err != nil {
				return err
			}
			results, err := decodeModels(qp, models)
			if err != nil {
				return err
			}
			return writeJSON(cmd, struct {
				Height  int64         `json:"height"`
				Results []queryResult `json:"results"`
			}{Height: height, Results: results})
		},
	}
	cmd.Flags().BoolVar(&prefix, "prefix", false, "treat the key as a prefix")
	cmd.Flags().StringVar(&hexKey, "key", "", "raw query key in hex")
	return cmd
}

func decodeModels(qp queryPath, models []aidchain.Model) ([]queryResult, error) {
	results := make([]queryResult, 0, len(models))
	for _, m := range models {
		res := queryResult{Key: hexUpper(m.Key)}
		if qp.model == nil {
			res.Value = string(m.Value)
		} else {
			obj := qp.model()
			if err := obj.Unmarshal(m.Value); err != nil {
				return nil, errors.Wrapf(err, "decode %X", m.Key)
			}
			res.Value = obj
		}
		results = append(results, res)
	}
	return results, nil
}

func parseUint(s string, bits int) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "%q is not a valid number", s)
	}
	return n, nil
}
