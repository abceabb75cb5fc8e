package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field wraps err with the name of the attribute it was found in. It
// returns nil if err is nil, so validation results can be passed in
// directly.
//
// Use Go names for fields, for example Recipient or ExpiresAt, and the dot
// notation for nested attributes, for example Amount.Ticker.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: name, desc: description}
}

// AppendField appends the field error, if any, to errs.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	if err.desc == "" {
		return fmt.Sprintf("field %q: %s", err.field, err.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", err.field, err.desc, err.parent)
}

func (err *fieldError) Cause() error {
	return err.parent
}

// Field returns the attribute name.
func (err *fieldError) Field() string {
	return err.field
}

type fielder interface {
	Field() string
}

// FieldErrors returns all errors created for the given field name.
func FieldErrors(err error, name string) []error {
	var res []error
	walkFields(err, func(f fielder, e error) {
		if f.Field() == name {
			res = append(res, e)
		}
	})
	return res
}

// Fields returns the names of all invalid fields, in the order errors were
// appended. A field failing more than once is listed once.
func Fields(err error) []string {
	var (
		res  []string
		seen = make(map[string]bool)
	)
	walkFields(err, func(f fielder, _ error) {
		if !seen[f.Field()] {
			seen[f.Field()] = true
			res = append(res, f.Field())
		}
	})
	return res
}

// walkFields calls fn for the outermost field error of every branch of err.
func walkFields(err error, fn func(fielder, error)) {
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok {
			fn(f, err)
			return
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				walkFields(e, fn)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}
