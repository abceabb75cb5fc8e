package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldErrors(t *testing.T) {
	err := Append(
		Field("Amount", ErrInvalidAmount, "must be positive"),
		Field("Recipient", ErrEmpty, "required"),
		nil,
	)

	amount := FieldErrors(err, "Amount")
	if assert.Len(t, amount, 1) {
		assert.True(t, ErrInvalidAmount.Is(amount[0]))
		assert.Equal(t, `field "Amount": must be positive: invalid amount`, amount[0].Error())
	}

	assert.Len(t, FieldErrors(err, "Recipient"), 1)
	assert.Len(t, FieldErrors(err, "Ticker"), 0)
	assert.Nil(t, FieldErrors(nil, "Amount"))
}

func TestAppendField(t *testing.T) {
	var errs error
	errs = AppendField(errs, "ID", nil)
	assert.Nil(t, errs)

	errs = AppendField(errs, "ID", ErrEmpty)
	errs = AppendField(errs, "Ticker", ErrCurrency)
	assert.True(t, ErrEmpty.Is(errs))
	assert.True(t, ErrCurrency.Is(errs))
	assert.Equal(t, ErrEmpty.code, ABCICode(errs))
}

func TestFields(t *testing.T) {
	err := Append(
		Field("Amount", ErrInvalidAmount, "must be positive"),
		Wrap(Field("Recipient", ErrEmpty, "required"), "create"),
		Field("Amount", ErrCurrency, ""),
	)
	assert.Equal(t, []string{"Amount", "Recipient"}, Fields(err))
	assert.Len(t, FieldErrors(err, "Amount"), 2)
	assert.Len(t, FieldErrors(err, "Recipient"), 1)

	assert.Nil(t, Fields(ErrEmpty))
	assert.Nil(t, Fields(nil))
}
