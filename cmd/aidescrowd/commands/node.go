package commands

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/app"
	aidapp "github.com/iov-one/aidchain/cmd/aidescrowd/app"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/store"
)

// node is a local chain instance backed by the home directory database.
type node struct {
	home   Home
	conf   Config
	db     *store.LevelDB
	app    *app.Application
	logger aidchain.Logger
}

func openNode(home Home, logOut io.Writer, reg prometheus.Registerer) (*node, error) {
	conf, err := LoadConfig(home.ConfigFile())
	if err != nil {
		return nil, err
	}
	logger, err := aidchain.NewFormatLogger(logOut, conf.LogFormat, conf.LogLevel)
	if err != nil {
		return nil, err
	}
	db, err := store.OpenLevelDB(home.DBDir(conf))
	if err != nil {
		return nil, err
	}
	a, err := aidapp.Application(db, aidapp.Options{
		Logger:     logger.With("module", "aidescrowd"),
		Debug:      conf.Debug,
		Registerer: reg,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &node{home: home, conf: conf, db: db, app: a, logger: logger}, nil
}

func (n *node) Close() error {
	return n.db.Close()
}

// ensureChain loads the genesis file if the chain was never started.
func (n *node) ensureChain() error {
	if n.app.ChainID() != "" {
		return nil
	}
	g, err := app.LoadGenesis(n.home.GenesisFile())
	if err != nil {
		return errors.Wrap(err, "chain not initialized, run init first")
	}
	return n.app.InitChain(g)
}

// block is the outcome of a single committed block.
type block struct {
	Height  int64          `json:"height"`
	Hash    string         `json:"hash"`
	Results []app.TxResult `json:"results"`
}

// deliver executes given transactions in a new block and commits it.
func (n *node) deliver(now time.Time, txs ...[]byte) (*block, error) {
	if err := n.ensureChain(); err != nil {
		return nil, err
	}
	info, err := n.app.Info()
	if err != nil {
		return nil, err
	}
	height := info.Height + 1
	if err := n.app.BeginBlock(height, now); err != nil {
		return nil, err
	}
	results := make([]app.TxResult, 0, len(txs))
	for _, tx := range txs {
		results = append(results, n.app.DeliverTx(tx))
	}
	id, err := n.app.Commit()
	if err != nil {
		return nil, err
	}
	return &block{Height: id.Version, Hash: hexUpper(id.Hash), Results: results}, nil
}

// chainID returns the chain id transactions must be signed for.
func (n *node) chainID() (string, error) {
	if id := n.app.ChainID(); id != "" {
		return id, nil
	}
	return chainIDFromFiles(n.home, n.conf)
}

func chainIDFromFiles(home Home, conf Config) (string, error) {
	if conf.ChainID != "" {
		return conf.ChainID, nil
	}
	g, err := app.LoadGenesis(home.GenesisFile())
	if err != nil {
		return "", err
	}
	return g.ChainID, nil
}
