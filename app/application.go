package app

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
)

// Info describes the last committed state of an application.
type Info struct {
	Name    string
	Version string
	ChainID string
	Height  int64
	Hash    []byte
}

// Application processes blocks of transactions on top of a CommitKVStore.
// Calls are serialized, so an Application is safe for concurrent use.
type Application struct {
	mu sync.Mutex

	name    string
	store   *CommitStore
	decoder aidchain.TxDecoder
	handler aidchain.Handler
	queries aidchain.QueryRouter
	init    aidchain.Initializer
	events  EventLog
	logger  aidchain.Logger
	debug   bool

	chainID string
	// lastTime is the block time of the last committed block.
	lastTime aidchain.UnixTime
	// block is set between BeginBlock and Commit.
	block *blockState
}

type blockState struct {
	height int64
	time   aidchain.UnixTime
	ctx    aidchain.Context
}

// NewApplication loads the latest state of given store. Use the With
// methods to configure the application before processing the first block.
func NewApplication(
	name string,
	db aidchain.CommitKVStore,
	decoder aidchain.TxDecoder,
	handler aidchain.Handler,
	queries aidchain.QueryRouter,
) (*Application, error) {
	cs, err := NewCommitStore(db)
	if err != nil {
		return nil, err
	}
	a := &Application{
		name:    name,
		store:   cs,
		decoder: decoder,
		handler: handler,
		queries: queries,
		events:  NewEventLog(),
		logger:  aidchain.NewNopLogger(),
	}
	a.events.RegisterQuery(queries)

	committed := cs.Committed()
	if a.chainID, err = loadChainID(committed); err != nil {
		return nil, err
	}
	if a.lastTime, err = loadBlockTime(committed); err != nil {
		return nil, err
	}
	return a, nil
}

// WithInit sets the initializer used to load the genesis application state.
func (a *Application) WithInit(init aidchain.Initializer) *Application {
	a.init = init
	return a
}

// WithLogger sets the logger passed down to all handlers.
func (a *Application) WithLogger(logger aidchain.Logger) *Application {
	a.logger = logger
	return a
}

// WithDebug exposes internal error details in transaction results.
func (a *Application) WithDebug(debug bool) *Application {
	a.debug = debug
	return a
}

// ChainID returns the chain id set by InitChain.
func (a *Application) ChainID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chainID
}

func (a *Application) baseContext() aidchain.Context {
	ctx := aidchain.WithLogger(context.Background(), a.logger)
	if a.chainID != "" {
		ctx = aidchain.WithChainID(ctx, a.chainID)
	}
	return ctx
}

// InitChain stores the chain id and loads the genesis application state.
// The genesis state is persisted with the first committed block.
func (a *Application) InitChain(g *Genesis) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := g.Validate(); err != nil {
		return errors.Wrap(err, "genesis")
	}
	if a.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "chain %q already initialized", a.chainID)
	}

	db := a.store.DeliverStore()
	if err := saveChainID(db, g.ChainID); err != nil {
		return err
	}
	if err := saveBlockTime(db, g.GenesisTime); err != nil {
		return err
	}
	a.chainID = g.ChainID

	ctx := aidchain.WithBlockTime(a.baseContext(), g.GenesisTime.Time())
	ctx = aidchain.WithLogInfo(ctx, "call", "init_chain")
	if a.init != nil {
		if err := a.init.FromGenesis(ctx, g.AppState, db); err != nil {
			return errors.Wrap(err, "load genesis state")
		}
	}
	a.lastTime = g.GenesisTime
	a.logger.Info("chain initialized", "chain_id", g.ChainID)
	return nil
}

// BeginBlock opens a block. Heights must follow the last committed one and
// block time must never go backwards.
func (a *Application) BeginBlock(height int64, blockTime time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID == "" {
		return errors.Wrap(errors.ErrState, "chain not initialized")
	}
	if a.block != nil {
		return errors.Wrapf(errors.ErrState, "block %d not committed", a.block.height)
	}
	last, err := a.store.CommitInfo()
	if err != nil {
		return err
	}
	if height != last.Version+1 {
		return errors.Wrapf(errors.ErrState, "want block height %d, got %d", last.Version+1, height)
	}
	now := aidchain.AsUnixTime(blockTime)
	if now < a.lastTime {
		return errors.Wrapf(errors.ErrState, "block time %s before %s", now, a.lastTime)
	}
	if err := saveBlockTime(a.store.DeliverStore(), now); err != nil {
		return err
	}

	ctx := aidchain.WithBlockTime(a.baseContext(), now.Time())
	ctx = aidchain.WithHeight(ctx, height)
	a.block = &blockState{height: height, time: now, ctx: ctx}
	return nil
}

// CheckTx validates a transaction against the check state, which is the
// last committed state plus all transactions checked since.
func (a *Application) CheckTx(raw []byte) TxResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.loadTx(raw)
	if err != nil {
		return errorResult(err, a.debug)
	}
	ctx := a.checkContext()
	ctx = aidchain.WithLogInfo(ctx, "call", "check_tx", "path", aidchain.GetPath(tx))
	res, err := a.handler.Check(ctx, a.store.CheckStore(), tx)
	return checkResult(res, err, a.debug)
}

// checkContext describes the block that is expected to follow the last
// committed one.
func (a *Application) checkContext() aidchain.Context {
	if a.block != nil {
		return a.block.ctx
	}
	height := int64(1)
	if last, err := a.store.CommitInfo(); err == nil {
		height = last.Version + 1
	}
	ctx := aidchain.WithBlockTime(a.baseContext(), a.lastTime.Time())
	return aidchain.WithHeight(ctx, height)
}

// DeliverTx executes a transaction in the current block. A failed
// transaction leaves no trace in the state. Events of successful
// transactions are appended to the event log.
func (a *Application) DeliverTx(raw []byte) TxResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.block == nil {
		return errorResult(errors.Wrap(errors.ErrState, "no open block"), a.debug)
	}
	tx, err := a.loadTx(raw)
	if err != nil {
		return errorResult(err, a.debug)
	}
	ctx := aidchain.WithLogInfo(a.block.ctx, "call", "deliver_tx", "path", aidchain.GetPath(tx))

	cache := a.store.DeliverStore().CacheWrap()
	res, err := a.handler.Deliver(ctx, cache, tx)
	if err == nil && res != nil {
		hash := sha256.Sum256(raw)
		err = a.events.Append(cache, a.block.height, hash[:], res.Events)
	}
	if err == nil {
		err = cache.Write()
	} else {
		cache.Discard()
	}
	return deliverResult(res, err, a.debug)
}

// loadTx decodes a transaction, turning decoder panics into errors.
func (a *Application) loadTx(raw []byte) (tx aidchain.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = a.decoder(raw)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode transaction")
	}
	return tx, nil
}

// Commit persists the current block.
func (a *Application) Commit() (aidchain.CommitID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.block == nil {
		return aidchain.CommitID{}, errors.Wrap(errors.ErrState, "no open block")
	}
	id, err := a.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	a.lastTime = a.block.time
	a.block = nil
	a.logger.Debug("commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return id, nil
}

// Query runs a query against the last committed state. Path may be
// followed by "?prefix" to request a prefix query.
func (a *Application) Query(path string, data []byte) ([]aidchain.Model, int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path, mod := aidchain.ParseQueryPath(path)
	qh := a.queries.Handler(path)
	if qh == nil {
		return nil, 0, errors.Wrapf(errors.ErrNotFound, "unknown query path %q", path)
	}
	last, err := a.store.CommitInfo()
	if err != nil {
		return nil, 0, err
	}
	models, err := qh.Query(a.store.Committed(), mod, data)
	if err != nil {
		return nil, last.Version, err
	}
	return models, last.Version, nil
}

// Info returns the last committed state.
func (a *Application) Info() (Info, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	last, err := a.store.CommitInfo()
	if err != nil {
		return Info{}, err
	}
	return Info{
		Name:    a.name,
		Version: aidchain.Version(),
		ChainID: a.chainID,
		Height:  last.Version,
		Hash:    last.Hash,
	}, nil
}
