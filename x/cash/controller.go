package cash

import (
	"github.com/iov-one/aidchain"
	"github.com/iov-one/aidchain/coin"
	"github.com/iov-one/aidchain/errors"
)

// Controller is the functionality needed by other extensions to move
// funds.
type Controller interface {
	// Balance returns the amount of given currency held by the address.
	Balance(db aidchain.ReadOnlyKVStore, owner aidchain.Address, ticker string) (coin.Amount, error)

	// MoveCoins moves the given amount from src to dest. If src doesn't
	// exist, or doesn't have sufficient coins, it fails.
	MoveCoins(db aidchain.KVStore, src, dest aidchain.Address, amount coin.Coin) error

	// IssueCoins adds the given amount of coins to the destination
	// address. It fails if it overflows the wallet.
	IssueCoins(db aidchain.KVStore, dest aidchain.Address, amount coin.Coin) error
}

// BaseController is a simple implementation of the Controller.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Balance(db aidchain.ReadOnlyKVStore, owner aidchain.Address, ticker string) (coin.Amount, error) {
	w, err := c.bucket.GetOrCreate(db, owner, ticker)
	if err != nil {
		return coin.Amount{}, err
	}
	return w.Coin.Amount, nil
}

func (c BaseController) MoveCoins(db aidchain.KVStore, src, dest aidchain.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "non-positive amount")
	}

	var sender Wallet
	switch err := c.bucket.One(db, WalletKey(src, amount.Ticker), &sender); {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(ErrEmptyAccount, "%s has no %s", src, amount.Ticker)
	case err != nil:
		return err
	}
	if !sender.Coin.Amount.GTE(amount.Amount) {
		return errors.Wrapf(ErrInsufficientFunds, "%s has %s", src, sender.Coin)
	}
	// Moving funds to the same wallet is a balance check only.
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.bucket.GetOrCreate(db, dest, amount.Ticker)
	if err != nil {
		return err
	}
	if sender.Coin, err = sender.Coin.Subtract(amount); err != nil {
		return err
	}
	if recipient.Coin, err = recipient.Coin.Add(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, &sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if err := c.bucket.Save(db, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

func (c BaseController) IssueCoins(db aidchain.KVStore, dest aidchain.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	recipient, err := c.bucket.GetOrCreate(db, dest, amount.Ticker)
	if err != nil {
		return err
	}
	if recipient.Coin, err = recipient.Coin.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}
