package aidescrow

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/chaintest"
	"github.com/iov-one/aidchain/chaintest/assert"
	"github.com/iov-one/aidchain/coin"
	"github.com/iov-one/aidchain/store"
	"github.com/iov-one/aidchain/x/cash"
)

// routes collects handlers by message path.
type routes map[string]aidchain.Handler

func (r routes) Handle(m aidchain.Msg, h aidchain.Handler) {
	r[m.Path()] = h
}

// fixture is a single escrow instance with a manually driven clock.
type fixture struct {
	t      testing.TB
	db     store.CacheableKVStore
	auth   *chaintest.CtxAuth
	routes routes
	cash   cash.Controller
	ctrl   Controller
	now    time.Time
}

func newFixture(t testing.TB) *fixture {
	cashctrl := cash.NewController(cash.NewBucket())
	f := &fixture{
		t:      t,
		db:     store.MemStore(),
		auth:   &chaintest.CtxAuth{Key: "aidescrow-auth"},
		routes: make(routes),
		cash:   cashctrl,
		ctrl:   NewController(cashctrl),
		now:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	RegisterRoutes(f.routes, f.auth, cashctrl)
	return f
}

func (f *fixture) unixNow() aidchain.UnixTime {
	return aidchain.AsUnixTime(f.now)
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) ctx(signers ...aidchain.Condition) aidchain.Context {
	ctx := aidchain.WithBlockTime(context.Background(), f.now)
	return f.auth.SetConditions(ctx, signers...)
}

// deliver runs both check and deliver of the message handler, the same way
// a node processes a transaction.
func (f *fixture) deliver(msg aidchain.Msg, signers ...aidchain.Condition) (*aidchain.DeliverResult, error) {
	h, ok := f.routes[msg.Path()]
	if !ok {
		f.t.Fatalf("no handler for %q", msg.Path())
	}
	tx := &chaintest.Tx{Msg: msg}
	ctx := f.ctx(signers...)
	if _, err := h.Check(ctx, f.db, tx); err != nil {
		return nil, err
	}
	return h.Deliver(ctx, f.db, tx)
}

func (f *fixture) mustDeliver(msg aidchain.Msg, signers ...aidchain.Condition) *aidchain.DeliverResult {
	f.t.Helper()
	res, err := f.deliver(msg, signers...)
	if err != nil {
		f.t.Fatalf("%s: %+v", msg.Path(), err)
	}
	return res
}

func (f *fixture) issue(to aidchain.Condition, n uint64, ticker string) {
	f.t.Helper()
	assert.Nil(f.t, f.cash.IssueCoins(f.db, to.Address(), coin.NewCoin(n, ticker)))
}

// setup initializes the escrow administrated by admin and funds it with
// given amount.
func (f *fixture) setup(admin aidchain.Condition, funds uint64, ticker string) {
	f.t.Helper()
	f.mustDeliver(&InitMsg{Metadata: meta(), Admin: admin.Address()}, admin)
	if funds == 0 {
		return
	}
	f.issue(admin, funds, ticker)
	f.mustDeliver(&FundMsg{
		Metadata: meta(),
		From:     admin.Address(),
		Amount:   coin.NewCoin(funds, ticker),
	}, admin)
}

func (f *fixture) createMsg(id uint64, recipient aidchain.Condition, amount uint64, ticker string, ttl time.Duration) *CreatePackageMsg {
	return &CreatePackageMsg{
		Metadata:  meta(),
		PackageID: id,
		Recipient: recipient.Address(),
		Amount:    coin.NewCoin(amount, ticker),
		ExpiresAt: f.unixNow().Add(ttl),
	}
}

func (f *fixture) balance(ticker string) *AssetBalance {
	f.t.Helper()
	bal, err := f.ctrl.Balance(f.db, ticker)
	assert.Nil(f.t, err)
	return bal
}

func (f *fixture) wallet(owner aidchain.Address, ticker string) coin.Amount {
	f.t.Helper()
	amount, err := f.cash.Balance(f.db, owner, ticker)
	assert.Nil(f.t, err)
	return amount
}

func (f *fixture) state(id uint64) PackageState {
	f.t.Helper()
	p, err := f.ctrl.Package(f.db, id)
	assert.Nil(f.t, err)
	return p.State
}

func meta() *aidchain.Metadata {
	return &aidchain.Metadata{Schema: 1}
}
