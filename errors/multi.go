package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If called with no errors or only nil values, it returns nil.
// If called with exactly one error, that error is returned unchanged.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}

	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

type multiErr []error

func (m multiErr) Error() string {
	msgs := make([]string, len(m))
	for i, e := range m {
		msgs[i] = "* " + e.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(m), strings.Join(msgs, "\n\t"))
}

// ABCICode returns the code of the first error in the collection.
func (m multiErr) ABCICode() uint32 {
	return abciCode(m[0])
}

// Unpack returns all errors of this collection.
func (m multiErr) Unpack() []error {
	return m
}

// unpacker is implemented by an error that represents a group of errors.
type unpacker interface {
	Unpack() []error
}
