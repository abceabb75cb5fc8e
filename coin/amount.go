package coin

import (
	"encoding/json"
	"regexp"

	"github.com/holiman/uint256"

	"github.com/iov-one/aidchain/errors"
)

var isDecimal = regexp.MustCompile(`^[0-9]{1,78}$`).MatchString

// Amount is an unsigned 256 bit integer. The zero value is zero.
type Amount struct {
	v uint256.Int
}

// NewAmount returns an amount of given value.
func NewAmount(n uint64) Amount {
	var a Amount
	a.v.SetUint64(n)
	return a
}

// ParseAmount parses a base 10 representation of an amount.
func ParseAmount(s string) (Amount, error) {
	if !isDecimal(s) {
		return Amount{}, errors.Wrapf(errors.ErrInvalidAmount, "not a decimal number: %q", s)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, errors.Wrapf(errors.ErrInvalidAmount, "%q: %s", s, err)
	}
	return Amount{v: *v}, nil
}

// AmountFromBytes decodes a big endian representation of an amount.
func AmountFromBytes(raw []byte) (Amount, error) {
	if len(raw) > 32 {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "amount of %d bytes", len(raw))
	}
	var a Amount
	a.v.SetBytes(raw)
	return a, nil
}

// Bytes returns the minimal big endian representation. Zero is encoded as
// an empty slice.
func (a Amount) Bytes() []byte {
	if a.v.IsZero() {
		return nil
	}
	return a.v.Bytes()
}

// String returns the base 10 representation.
func (a Amount) String() string {
	return a.v.Dec()
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Cmp compares two amounts and returns -1, 0 or 1.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// Equals returns true if both amounts are the same.
func (a Amount) Equals(b Amount) bool {
	return a.Cmp(b) == 0
}

// GTE returns true if a is greater or equal to b.
func (a Amount) GTE(b Amount) bool {
	return a.Cmp(b) >= 0
}

// Add returns the sum of both amounts.
func (a Amount) Add(b Amount) (Amount, error) {
	var res Amount
	if _, overflow := res.v.AddOverflow(&a.v, &b.v); overflow {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", a, b)
	}
	return res, nil
}

// Sub returns the difference of both amounts. It fails if b is greater than
// a.
func (a Amount) Sub(b Amount) (Amount, error) {
	var res Amount
	if _, underflow := res.v.SubOverflow(&a.v, &b.v); underflow {
		return Amount{}, errors.Wrapf(errors.ErrAmount, "%s - %s", a, b)
	}
	return res, nil
}

// Marshal, Unmarshal and Size let an amount be a protobuf custom type. The
// wire value is the minimal big endian representation.
func (a Amount) Marshal() ([]byte, error) {
	return a.Bytes(), nil
}

func (a *Amount) Unmarshal(raw []byte) error {
	v, err := AmountFromBytes(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Amount) Size() int {
	return len(a.Bytes())
}

// MarshalJSON encodes the amount as a decimal string so that no precision
// is lost by JSON clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a decimal string and a JSON number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrInvalidAmount, "amount must be a decimal string or a number")
		}
		s = n.String()
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
