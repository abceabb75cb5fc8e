package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is the code of a successfully processed transaction.
	SuccessABCICode = 0

	// Errors that do not wrap a registered error are reported with the
	// internal code and a generic message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log a client receives for err. Outside of
// debug mode the log of unregistered errors and panics is redacted, in
// debug mode it carries the full message with the stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	if debug {
		return code, fmt.Sprintf("%+v", err)
	}
	return code, Redact(err, false).Error()
}

// ABCICode returns the code of the registered error wrapped by err.
func ABCICode(err error) uint32 {
	return abciCode(err)
}

type coder interface {
	ABCICode() uint32
}

func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	for !isNilErr(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			return internalABCICode
		}
		err = c.Cause()
	}
	return internalABCICode
}

// Redact replaces panics and errors that do not wrap a registered error
// with a generic internal error. In debug mode err is returned unchanged.
func Redact(err error, debug bool) error {
	if debug || isNilErr(err) {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
