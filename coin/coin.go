package coin

import (
	"fmt"
	"regexp"

	"github.com/iov-one/aidchain/errors"
)

// IsCC is the RegExp to ensure valid currency codes
var IsCC = regexp.MustCompile(`^[A-Z][A-Z0-9]{2,5}$`).MatchString

// Coin is an amount of a single currency.
type Coin struct {
	Ticker string `protobuf:"bytes,1,opt,name=ticker,proto3" json:"ticker"`
	Amount Amount `protobuf:"bytes,2,opt,name=amount,proto3,customtype=github.com/iov-one/aidchain/coin.Amount" json:"amount"`
}

// NewCoin creates a new coin object
func NewCoin(n uint64, ticker string) Coin {
	return Coin{Ticker: ticker, Amount: NewAmount(n)}
}

// ParseCoin parses the "<amount> <ticker>" or "<amount><ticker>"
// representation of a coin, for example "1000 IOV".
func ParseCoin(s string) (Coin, error) {
	var (
		digits string
		ticker string
	)
	m := coinFormat.FindStringSubmatch(s)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format: %q", s)
	}
	digits, ticker = m[1], m[2]
	amount, err := ParseAmount(digits)
	if err != nil {
		return Coin{}, err
	}
	c := Coin{Ticker: ticker, Amount: amount}
	return c, c.Validate()
}

var coinFormat = regexp.MustCompile(`^\s*([0-9]+)\s*([A-Z][A-Z0-9]*)\s*$`)

// Validate returns an error if the ticker is not a valid currency code.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", c.Ticker)
	}
	return nil
}

// IsPositive returns true if the amount is greater than zero.
func (c Coin) IsPositive() bool {
	return !c.Amount.IsZero()
}

// SameType returns true if both coins are of the same currency.
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Add returns the sum of two coins of the same currency.
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	sum, err := c.Amount.Add(o.Amount)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: c.Ticker, Amount: sum}, nil
}

// Subtract returns the difference of two coins of the same currency. It
// fails if the result would be negative.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Ticker, c.Ticker)
	}
	diff, err := c.Amount.Sub(o.Amount)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: c.Ticker, Amount: diff}, nil
}

// String returns a human readable representation, for example "1000 IOV".
func (c Coin) String() string {
	return fmt.Sprintf("%s %s", c.Amount, c.Ticker)
}
