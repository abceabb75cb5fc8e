// Package assert provides the test assertions used across aidchain
// packages. Generic comparisons are delegated to testify, while error
// assertions understand the aidchain error categories and field errors.
package assert

import (
	"github.com/stretchr/testify/require"

	"github.com/iov-one/aidchain/errors"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	require.TestingT
	Helper()
}

// Nil stops the test unless value is nil or a typed nil. Errors are printed
// with their stack trace.
func Nil(t Tester, value interface{}) {
	t.Helper()
	require.Nil(t, value, "%+v", value)
}

// Equal stops the test unless both values are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	require.Equal(t, want, got)
}

// Panics stops the test if fn returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	require.Panics(t, fn)
}

// IsErr stops the test unless got belongs to the want error category. A nil
// want only matches a nil error.
func IsErr(t Tester, want *errors.Error, got error) {
	t.Helper()
	if want == nil {
		require.Nil(t, got, "want no error, got %+v", got)
		return
	}
	require.Truef(t, want.Is(got), "want %q error, got %+v", want, got)
}

// FieldError stops the test unless err carries an error of the want category
// for given field. A nil want asserts that the field has no error at all.
func FieldError(t Tester, err error, field string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, field)
	if want == nil {
		require.Emptyf(t, errs, "want no %q field error", field)
		return
	}
	require.NotEmptyf(t, errs, "no %q field error in %+v", field, err)
	for _, e := range errs {
		if want.Is(e) {
			return
		}
	}
	require.Failf(t, "field error mismatch", "want %q error for %q, got %q", want, field, errs)
}
