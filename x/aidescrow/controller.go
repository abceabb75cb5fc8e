package aidescrow

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/coin"
	"github.com/iov-one/aidchain/errors"
	"github.com/iov-one/aidchain/orm"
	"github.com/iov-one/aidchain/x/cash"
)

// CustodyAddress is the wallet holding all escrowed funds.
var CustodyAddress = aidchain.NewCondition("aidescrow", "custody", nil).Address()

// Controller gives access to the escrow state. All mutations go through the
// handlers.
type Controller struct {
	accounts AccountBucket
	balances BalanceBucket
	packages PackageBucket
	cash     cash.Controller
}

// NewController returns a controller that moves funds using given cash
// controller.
func NewController(cashctrl cash.Controller) Controller {
	return Controller{
		accounts: NewAccountBucket(),
		balances: NewBalanceBucket(),
		packages: NewPackageBucket(),
		cash:     cashctrl,
	}
}

// Account returns the escrow account or ErrNotInitialized.
func (c Controller) Account(db aidchain.ReadOnlyKVStore) (*Account, error) {
	return c.accounts.Load(db)
}

// Version returns the current escrow version.
func (c Controller) Version(db aidchain.ReadOnlyKVStore) (uint32, error) {
	acc, err := c.accounts.Load(db)
	if err != nil {
		return 0, err
	}
	return acc.Version, nil
}

// Balance returns the custodied balance of given asset.
func (c Controller) Balance(db aidchain.ReadOnlyKVStore, ticker string) (*AssetBalance, error) {
	acc, err := c.accounts.Load(db)
	if err != nil {
		return nil, err
	}
	return c.balances.GetOrCreate(db, ticker, acc.Version)
}

// Package returns the package with given ID or ErrPackageNotFound.
func (c Controller) Package(db aidchain.ReadOnlyKVStore, id uint64) (*Package, error) {
	return c.packages.Load(db, id)
}

// Packages calls fn for every package in ascending ID order.
func (c Controller) Packages(db aidchain.ReadOnlyKVStore, fn func(*Package) error) error {
	return c.packages.Iterate(db, nil, func(_ []byte, m orm.Model) error {
		p, ok := m.(*Package)
		if !ok {
			return errors.Wrapf(errors.ErrType, "%T", m)
		}
		return fn(p)
	})
}

// Reserved recomputes the sum of all non terminal packages in given asset.
// It must always be equal to the stored AssetBalance.Reserved value.
func (c Controller) Reserved(db aidchain.ReadOnlyKVStore, ticker string) (coin.Amount, error) {
	var total coin.Amount
	err := c.Packages(db, func(p *Package) error {
		if p.State.IsTerminal() || p.Amount.Ticker != ticker {
			return nil
		}
		sum, err := total.Add(p.Amount.Amount)
		if err != nil {
			return err
		}
		total = sum
		return nil
	})
	return total, err
}
