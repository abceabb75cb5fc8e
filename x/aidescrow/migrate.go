package aidescrow

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/coin"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/migration"
	"github.com/iov-one/aidchain/orm"
)

func init() {
	migration.MustRegister(2, &AssetBalance{}, reconcileReserved)
}

// reconcileReserved recomputes the reserved amount of a balance from the
// package registry.
func reconcileReserved(ctx aidchain.Context, db aidchain.KVStore, payload migration.Payload) error {
	bal, ok := payload.(*AssetBalance)
	if !ok {
		return errors.Wrapf(errors.ErrType, "%T", payload)
	}
	var reserved coin.Amount
	err := NewPackageBucket().Iterate(db, nil, func(_ []byte, m orm.Model) error {
		p := m.(*Package)
		if p.State.IsTerminal() || p.Amount.Ticker != bal.Ticker {
			return nil
		}
		sum, err := reserved.Add(p.Amount.Amount)
		if err != nil {
			return err
		}
		reserved = sum
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "packages")
	}
	bal.Reserved = reserved
	return nil
}

// migrateStore brings every stored entity to the given schema version and
// then commits the new escrow version.
func migrateStore(ctx aidchain.Context, db aidchain.KVStore, ctrl Controller, acc *Account, to uint32) error {
	var pkgs []*Package
	if err := ctrl.Packages(db, func(p *Package) error {
		pkgs = append(pkgs, p)
		return nil
	}); err != nil {
		return errors.Wrap(err, "cannot list packages")
	}
	for _, p := range pkgs {
		if err := migration.Apply(ctx, db, p, to); err != nil {
			return errors.Wrapf(err, "package %d", p.ID)
		}
		if err := ctrl.packages.Save(db, p); err != nil {
			return errors.Wrapf(err, "package %d", p.ID)
		}
	}

	var balances []*AssetBalance
	if err := ctrl.balances.Iterate(db, nil, func(_ []byte, m orm.Model) error {
		balances = append(balances, m.(*AssetBalance))
		return nil
	}); err != nil {
		return errors.Wrap(err, "cannot list balances")
	}
	for _, b := range balances {
		if err := migration.Apply(ctx, db, b, to); err != nil {
			return errors.Wrapf(err, "balance %s", b.Ticker)
		}
		if err := ctrl.balances.Save(db, b); err != nil {
			return errors.Wrapf(err, "balance %s", b.Ticker)
		}
	}

	if err := migration.Apply(ctx, db, acc, to); err != nil {
		return errors.Wrap(err, "account")
	}
	acc.Version = to
	return ctrl.accounts.Save(db, acc)
}
