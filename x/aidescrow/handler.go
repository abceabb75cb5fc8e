package aidescrow

import (
	"strconv"

	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/x"
	"github.com/iov-one/aidchain/x/cash"
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r aidchain.Registry, auth x.Authenticator, cashctrl cash.Controller) {
	gate := NewGate(auth)
	ctrl := NewController(cashctrl)

	r.Handle(&InitMsg{}, InitHandler{gate: gate, ctrl: ctrl})
	r.Handle(&FundMsg{}, FundHandler{gate: gate, ctrl: ctrl})
	r.Handle(&CreatePackageMsg{}, CreatePackageHandler{gate: gate, ctrl: ctrl})
	r.Handle(&ClaimMsg{}, ClaimHandler{gate: gate, ctrl: ctrl})
	r.Handle(&DisburseMsg{}, DisburseHandler{gate: gate, ctrl: ctrl})
	r.Handle(&RevokeMsg{}, ReleaseHandler{gate: gate, ctrl: ctrl, op: OpRevoke})
	r.Handle(&RefundMsg{}, ReleaseHandler{gate: gate, ctrl: ctrl, op: OpRefund})
	r.Handle(&MigrateMsg{}, MigrateHandler{gate: gate, ctrl: ctrl})
}

// InitHandler creates the escrow account.
type InitHandler struct {
	gate Gate
	ctrl Controller
}

var _ aidchain.Handler = InitHandler{}

func (h InitHandler) Check(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &aidchain.CheckResult{}, nil
}

func (h InitHandler) Deliver(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	acc := &Account{
		Metadata: &aidchain.Metadata{Schema: 1},
		Admin:    msg.Admin,
		Version:  1,
	}
	if err := h.ctrl.accounts.Save(db, acc); err != nil {
		return nil, errors.Wrap(err, "cannot store account")
	}
	return &aidchain.DeliverResult{Log: "escrow initialized"}, nil
}

func (h InitHandler) validate(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*InitMsg, error) {
	var msg InitMsg
	if err := aidchain.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.gate.Require(ctx, OpInit, RoleAdmin, msg.Admin); err != nil {
		return nil, err
	}
	switch _, err := h.ctrl.accounts.Load(db); {
	case err == nil:
		return nil, ErrAlreadyInitialized
	case !ErrNotInitialized.Is(err):
		return nil, err
	}
	return &msg, nil
}

// FundHandler moves funds into the escrow custody.
type FundHandler struct {
	gate Gate
	ctrl Controller
}

var _ aidchain.Handler = FundHandler{}

func (h FundHandler) Check(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	msg, _, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	available, err := h.ctrl.cash.Balance(db, msg.From, msg.Amount.Ticker)
	if err != nil {
		return nil, errors.Wrap(err, "funder balance")
	}
	if !available.GTE(msg.Amount.Amount) {
		return nil, errors.Wrapf(cash.ErrInsufficientFunds, "%s has %s %s", msg.From, available, msg.Amount.Ticker)
	}
	return &aidchain.CheckResult{}, nil
}

func (h FundHandler) Deliver(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	msg, bal, now, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if bal.Balance, err = bal.Balance.Add(msg.Amount.Amount); err != nil {
		return nil, errors.Wrap(err, "escrow balance")
	}
	if err := h.ctrl.cash.MoveCoins(db, msg.From, CustodyAddress, msg.Amount); err != nil {
		return nil, err
	}
	if err := h.ctrl.balances.Save(db, bal); err != nil {
		return nil, errors.Wrap(err, "cannot store balance")
	}
	return &aidchain.DeliverResult{
		Events: []aidchain.Event{fundedEvent(msg.From, msg.Amount.Amount, now)},
	}, nil
}

func (h FundHandler) validate(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*FundMsg, *AssetBalance, aidchain.UnixTime, error) {
	var msg FundMsg
	if err := aidchain.LoadMsg(tx, &msg); err != nil {
		return nil, nil, 0, errors.Wrap(err, "load msg")
	}
	if err := h.gate.Require(ctx, OpFund, RoleFunder, msg.From); err != nil {
		return nil, nil, 0, err
	}
	if err := requirePositive(msg.Amount); err != nil {
		return nil, nil, 0, err
	}
	now, err := aidchain.BlockUnixTime(ctx)
	if err != nil {
		return nil, nil, 0, err
	}
	bal, err := h.ctrl.Balance(db, msg.Amount.Ticker)
	if err != nil {
		return nil, nil, 0, err
	}
	return &msg, bal, now, nil
}

// CreatePackageHandler reserves escrowed funds for a recipient.
type CreatePackageHandler struct {
	gate Gate
	ctrl Controller
}

var _ aidchain.Handler = CreatePackageHandler{}

func (h CreatePackageHandler) Check(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &aidchain.CheckResult{}, nil
}

func (h CreatePackageHandler) Deliver(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	t, bal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if bal.Reserved, err = bal.Reserved.Add(t.pkg.Amount.Amount); err != nil {
		return nil, errors.Wrap(err, "reserved")
	}
	if err := h.ctrl.packages.Save(db, t.pkg); err != nil {
		return nil, errors.Wrap(err, "cannot store package")
	}
	if err := h.ctrl.balances.Save(db, bal); err != nil {
		return nil, errors.Wrap(err, "cannot store balance")
	}
	return &aidchain.DeliverResult{
		Data:   PackageKey(t.pkg.ID),
		Events: []aidchain.Event{packageEvent(TopicPackageCreated, t.pkg, t.actor, t.now)},
	}, nil
}

func (h CreatePackageHandler) validate(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*transition, *AssetBalance, error) {
	var msg CreatePackageMsg
	if err := aidchain.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	acc, err := h.ctrl.accounts.Load(db)
	if err != nil {
		return nil, nil, err
	}
	if err := h.gate.Require(ctx, OpCreatePackage, RoleAdmin, acc.Admin); err != nil {
		return nil, nil, err
	}
	now, err := aidchain.BlockUnixTime(ctx)
	if err != nil {
		return nil, nil, err
	}

	switch err := h.ctrl.packages.Has(db, PackageKey(msg.PackageID)); {
	case err == nil:
		return nil, nil, errors.Wrapf(ErrDuplicatePackage, "id %d", msg.PackageID)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, err
	}
	if err := requirePositive(msg.Amount); err != nil {
		return nil, nil, err
	}
	if msg.ExpiresAt <= now {
		return nil, nil, errors.Wrapf(ErrInvalidExpiry, "%d is not after %d", msg.ExpiresAt, now)
	}

	bal, err := h.ctrl.balances.GetOrCreate(db, msg.Amount.Ticker, acc.Version)
	if err != nil {
		return nil, nil, err
	}
	if !bal.Available().GTE(msg.Amount.Amount) {
		return nil, nil, errors.Wrapf(ErrInsufficientEscrowBalance,
			"%s %s available", bal.Available(), bal.Ticker)
	}

	pkg := &Package{
		Metadata:  &aidchain.Metadata{Schema: acc.Version},
		ID:        msg.PackageID,
		Recipient: msg.Recipient,
		Amount:    msg.Amount,
		ExpiresAt: msg.ExpiresAt,
		State:     PackageCreated,
		CreatedAt: now,
	}
	return &transition{pkg: pkg, actor: acc.Admin, now: now}, bal, nil
}

// transition is a fully validated state change of a single package.
type transition struct {
	pkg   *Package
	actor aidchain.Address
	now   aidchain.UnixTime
}

// loadTransition loads the package referenced by id and verifies that it can
// leave its current state.
func loadTransition(ctx aidchain.Context, db aidchain.ReadOnlyKVStore, ctrl Controller, id uint64) (*transition, error) {
	pkg, err := ctrl.packages.Load(db, id)
	if err != nil {
		return nil, err
	}
	now, err := aidchain.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}
	return &transition{pkg: pkg, now: now}, nil
}

func (t *transition) requireState(allowed ...PackageState) error {
	for _, s := range allowed {
		if t.pkg.State == s {
			return nil
		}
	}
	return errors.Wrapf(ErrInvalidPackageState, "package %d is %s", t.pkg.ID, t.pkg.State)
}

func (t *transition) expired() bool {
	return t.pkg.ExpiresAt <= t.now
}

// ClaimHandler lets the recipient acknowledge a package.
type ClaimHandler struct {
	gate Gate
	ctrl Controller
}

var _ aidchain.Handler = ClaimHandler{}

func (h ClaimHandler) Check(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &aidchain.CheckResult{}, nil
}

func (h ClaimHandler) Deliver(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	t, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	t.pkg.State = PackageClaimed
	if err := h.ctrl.packages.Save(db, t.pkg); err != nil {
		return nil, errors.Wrap(err, "cannot store package")
	}
	return &aidchain.DeliverResult{
		Events: []aidchain.Event{packageEvent(TopicPackageClaimed, t.pkg, t.actor, t.now)},
	}, nil
}

func (h ClaimHandler) validate(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*transition, error) {
	var msg ClaimMsg
	if err := aidchain.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.ctrl.accounts.Load(db); err != nil {
		return nil, err
	}
	t, err := loadTransition(ctx, db, h.ctrl, msg.PackageID)
	if err != nil {
		return nil, err
	}
	if err := h.gate.Require(ctx, OpClaim, RoleRecipient, t.pkg.Recipient); err != nil {
		return nil, err
	}
	t.actor = t.pkg.Recipient
	if err := t.requireState(PackageCreated); err != nil {
		return nil, err
	}
	if t.expired() {
		return nil, errors.Wrapf(ErrPackageExpired, "package %d expired at %d", t.pkg.ID, t.pkg.ExpiresAt)
	}
	return t, nil
}

// DisburseHandler transfers package funds out of custody to the recipient.
type DisburseHandler struct {
	gate Gate
	ctrl Controller
}

var _ aidchain.Handler = DisburseHandler{}

func (h DisburseHandler) Check(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &aidchain.CheckResult{}, nil
}

func (h DisburseHandler) Deliver(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	t, bal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	amount := t.pkg.Amount.Amount
	if bal.Balance, err = bal.Balance.Sub(amount); err != nil {
		return nil, errors.Wrap(err, "balance")
	}
	if bal.Reserved, err = bal.Reserved.Sub(amount); err != nil {
		return nil, errors.Wrap(err, "reserved")
	}
	if err := h.ctrl.cash.MoveCoins(db, CustodyAddress, t.pkg.Recipient, t.pkg.Amount); err != nil {
		return nil, err
	}
	t.pkg.State = PackageDisbursed
	if err := h.ctrl.packages.Save(db, t.pkg); err != nil {
		return nil, errors.Wrap(err, "cannot store package")
	}
	if err := h.ctrl.balances.Save(db, bal); err != nil {
		return nil, errors.Wrap(err, "cannot store balance")
	}
	return &aidchain.DeliverResult{
		Events: []aidchain.Event{packageEvent(TopicPackageDisbursed, t.pkg, t.actor, t.now)},
	}, nil
}

func (h DisburseHandler) validate(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*transition, *AssetBalance, error) {
	var msg DisburseMsg
	if err := aidchain.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	acc, err := h.ctrl.accounts.Load(db)
	if err != nil {
		return nil, nil, err
	}
	if err := h.gate.Require(ctx, OpDisburse, RoleAdmin, acc.Admin); err != nil {
		return nil, nil, err
	}
	t, err := loadTransition(ctx, db, h.ctrl, msg.PackageID)
	if err != nil {
		return nil, nil, err
	}
	t.actor = acc.Admin
	if err := t.requireState(PackageCreated, PackageClaimed); err != nil {
		return nil, nil, err
	}
	if t.expired() {
		return nil, nil, errors.Wrapf(ErrPackageExpired, "package %d expired at %d", t.pkg.ID, t.pkg.ExpiresAt)
	}
	bal, err := h.ctrl.balances.GetOrCreate(db, t.pkg.Amount.Ticker, acc.Version)
	if err != nil {
		return nil, nil, err
	}
	return t, bal, nil
}

// ReleaseHandler releases the reservation of a package without moving funds
// out of custody. It serves both revoke and refund, which differ only in the
// expiry guard.
type ReleaseHandler struct {
	gate Gate
	ctrl Controller
	op   Operation
}

var _ aidchain.Handler = ReleaseHandler{}

func (h ReleaseHandler) Check(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &aidchain.CheckResult{}, nil
}

func (h ReleaseHandler) Deliver(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	t, bal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if bal.Reserved, err = bal.Reserved.Sub(t.pkg.Amount.Amount); err != nil {
		return nil, errors.Wrap(err, "reserved")
	}

	topic := TopicPackageRevoked
	t.pkg.State = PackageRevoked
	if h.op == OpRefund {
		topic = TopicPackageRefunded
		t.pkg.State = PackageRefunded
	}
	if err := h.ctrl.packages.Save(db, t.pkg); err != nil {
		return nil, errors.Wrap(err, "cannot store package")
	}
	if err := h.ctrl.balances.Save(db, bal); err != nil {
		return nil, errors.Wrap(err, "cannot store balance")
	}
	return &aidchain.DeliverResult{
		Events: []aidchain.Event{packageEvent(topic, t.pkg, t.actor, t.now)},
	}, nil
}

func (h ReleaseHandler) validate(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*transition, *AssetBalance, error) {
	var id uint64
	switch h.op {
	case OpRevoke:
		var msg RevokeMsg
		if err := aidchain.LoadMsg(tx, &msg); err != nil {
			return nil, nil, errors.Wrap(err, "load msg")
		}
		id = msg.PackageID
	case OpRefund:
		var msg RefundMsg
		if err := aidchain.LoadMsg(tx, &msg); err != nil {
			return nil, nil, errors.Wrap(err, "load msg")
		}
		id = msg.PackageID
	default:
		return nil, nil, errors.Wrapf(errors.ErrHuman, "%s is not a release operation", h.op)
	}

	acc, err := h.ctrl.accounts.Load(db)
	if err != nil {
		return nil, nil, err
	}
	if err := h.gate.Require(ctx, h.op, RoleAdmin, acc.Admin); err != nil {
		return nil, nil, err
	}
	t, err := loadTransition(ctx, db, h.ctrl, id)
	if err != nil {
		return nil, nil, err
	}
	t.actor = acc.Admin
	if err := t.requireState(PackageCreated, PackageClaimed); err != nil {
		return nil, nil, err
	}
	if h.op == OpRefund && !t.expired() {
		return nil, nil, errors.Wrapf(ErrNotYetExpired, "package %d expires at %d", t.pkg.ID, t.pkg.ExpiresAt)
	}
	bal, err := h.ctrl.balances.GetOrCreate(db, t.pkg.Amount.Ticker, acc.Version)
	if err != nil {
		return nil, nil, err
	}
	return t, bal, nil
}

// MigrateHandler bumps the escrow version. Every stored entity is migrated
// to the new schema before the version is committed.
type MigrateHandler struct {
	gate Gate
	ctrl Controller
}

var _ aidchain.Handler = MigrateHandler{}

func (h MigrateHandler) Check(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &aidchain.CheckResult{}, nil
}

func (h MigrateHandler) Deliver(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*aidchain.DeliverResult, error) {
	msg, acc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := migrateStore(ctx, db, h.ctrl, acc, msg.NewVersion); err != nil {
		return nil, err
	}
	return &aidchain.DeliverResult{
		Data: []byte(strconv.FormatUint(uint64(acc.Version), 10)),
		Log:  "escrow migrated",
	}, nil
}

func (h MigrateHandler) validate(ctx aidchain.Context, db aidchain.KVStore, tx aidchain.Tx) (*MigrateMsg, *Account, error) {
	var msg MigrateMsg
	if err := aidchain.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	acc, err := h.ctrl.accounts.Load(db)
	if err != nil {
		return nil, nil, err
	}
	if err := h.gate.Require(ctx, OpMigrate, RoleAdmin, acc.Admin); err != nil {
		return nil, nil, err
	}
	if msg.NewVersion <= acc.Version {
		return nil, nil, errors.Wrapf(ErrInvalidVersion, "version %d is not greater than %d", msg.NewVersion, acc.Version)
	}
	return &msg, acc, nil
}
