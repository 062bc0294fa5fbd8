package errors

import (
	"fmt"
)

const (
	// SuccessABCICode declares an ABCI response use 0 to signal that the
	// processing was successful and no error is returned.
	SuccessABCICode = 0

	// All unclassified errors that do not provide an ABCI code are clubbed
	// under an internal error code and a generic message instead of
	// detailed error string.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the ABCI error information as consumed by the tendermint
// client. Returned code and log message should be used as a ABCI response.
// Any error that does not provide ABCICode information is categorized as error
// with code 1.
// When not running in a debug mode all messages of errors that do not provide
// ABCICode information are replaced with generic "internal error".
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}

	code := abciCode(err)
	if debug {
		return code, fmt.Sprintf("%+v", err)
	}
	if code == internalABCICode || code == ErrPanic.code {
		return internalABCICode, internalABCILog
	}
	return code, err.Error()
}

type coder interface {
	ABCICode() uint32
}

// abciCode test if given error contains an ABCI code and returns the value of
// it if available. This function is testing for the causer interface as well
// and unwraps the error.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}

	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalABCICode
		}
	}
}

// ABCICode returns the registered code carried by the error, zero for no
// error and the internal code for an unregistered one. Unlike ABCIInfo it
// does not hide a panic behind the internal code.
func ABCICode(err error) uint32 {
	return abciCode(err)
}

// Redact replace all errors that do not initialize with a registered error
// with a generic internal error instance. Panics are redacted as well, as
// they may carry system details.
//
// This is a no-operation function when running in debug mode.
func Redact(err error, debug bool) error {
	if debug || isNilErr(err) {
		return err
	}
	if ErrPanic.Is(err) {
		return ErrInternal
	}
	if abciCode(err) == internalABCICode {
		return ErrInternal
	}
	return err
}

// ABCIError returns the registered error matching given ABCI code, wrapped
// with the log. It reverses ABCIInfo for errors received from a node. A code
// that is not registered is returned as ErrInternal.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	if e, ok := usedCodes[code]; ok {
		return Wrap(e, log)
	}
	return Wrapf(ErrInternal, "code %d: %s", code, log)
}
