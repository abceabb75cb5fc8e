package coin

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/iov-one/aidchain/chaintest/assert"
	"github.com/iov-one/aidchain/errors"
)

// maxAmount is 2^256-1
const maxAmount = "115792089237316195423570985008687907853269984665640564039457584007913129639935"

func mustParse(t testing.TB, s string) Amount {
	t.Helper()
	a, err := ParseAmount(s)
	assert.Nil(t, err)
	return a
}

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		raw     string
		wantErr *errors.Error
	}{
		"zero":            {raw: "0"},
		"small":           {raw: "10000"},
		"largest":         {raw: maxAmount},
		"too big":         {raw: "115792089237316195423570985008687907853269984665640564039457584007913129639936", wantErr: errors.ErrInvalidAmount},
		"negative":        {raw: "-1", wantErr: errors.ErrInvalidAmount},
		"fraction":        {raw: "1.5", wantErr: errors.ErrInvalidAmount},
		"empty":           {raw: "", wantErr: errors.ErrInvalidAmount},
		"way too long":    {raw: strings.Repeat("9", 100), wantErr: errors.ErrInvalidAmount},
		"sign prefix":     {raw: "+4", wantErr: errors.ErrInvalidAmount},
		"hex is rejected": {raw: "0x10", wantErr: errors.ErrInvalidAmount},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			a, err := ParseAmount(tc.raw)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.raw, a.String())
			}
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	a := NewAmount(10000)
	b := NewAmount(1000)

	sum, err := a.Add(b)
	assert.Nil(t, err)
	assert.Equal(t, "11000", sum.String())

	diff, err := a.Sub(b)
	assert.Nil(t, err)
	assert.Equal(t, "9000", diff.String())

	_, err = b.Sub(a)
	assert.IsErr(t, errors.ErrAmount, err)

	_, err = mustParse(t, maxAmount).Add(NewAmount(1))
	assert.IsErr(t, errors.ErrOverflow, err)

	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, true, a.GTE(a))
	assert.Equal(t, true, Amount{}.IsZero())
	assert.Equal(t, true, NewAmount(7).Equals(mustParse(t, "7")))
}

func TestAmountBytes(t *testing.T) {
	assert.Nil(t, Amount{}.Bytes())
	assert.Equal(t, []byte{0x03, 0xe8}, NewAmount(1000).Bytes())

	a := mustParse(t, maxAmount)
	got, err := AmountFromBytes(a.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, a, got)

	_, err = AmountFromBytes(make([]byte, 33))
	assert.IsErr(t, errors.ErrOverflow, err)
}

func TestAmountJSON(t *testing.T) {
	raw, err := json.Marshal(NewAmount(1000))
	assert.Nil(t, err)
	assert.Equal(t, `"1000"`, string(raw))

	var a Amount
	assert.Nil(t, json.Unmarshal([]byte(`"12345678901234567890123"`), &a))
	assert.Equal(t, "12345678901234567890123", a.String())

	assert.Nil(t, json.Unmarshal([]byte(`42`), &a))
	assert.Equal(t, "42", a.String())

	assert.IsErr(t, errors.ErrInvalidAmount, json.Unmarshal([]byte(`-4`), &a))
	assert.IsErr(t, errors.ErrInvalidAmount, json.Unmarshal([]byte(`true`), &a))
}
