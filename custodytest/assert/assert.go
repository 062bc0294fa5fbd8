/*
Package assert provides a minimal set of assertions used by the custody
tests. Failures stop the test right away, so a table test case does not
continue on a broken state.
*/
package assert

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
)

// Tester is the subset of testing.TB the assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails the test if given value is not nil. Errors are printed with %+v
// so the stack trace of a registered error is visible.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) (isnil bool) {
	if value == nil {
		return true
	}
	defer func() {
		if recover() != nil {
			isnil = false
		}
	}()
	// Only chan, func, interface, map, pointer and slice can be nil.
	return reflect.ValueOf(value).IsNil()
}

// Equal fails the test if two values are not equal. Two protobuf messages of
// the same type are equal when proto.Equal says so, which ignores the
// difference between a nil and an empty repeated field.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if reflect.DeepEqual(want, got) {
		return
	}
	wm, wok := want.(proto.Message)
	gm, gok := got.(proto.Message)
	if wok && gok && reflect.TypeOf(want) == reflect.TypeOf(got) {
		if proto.Equal(wm, gm) {
			return
		}
		t.Fatalf("messages not equal\nwant %T %s\n got %T %s",
			want, proto.CompactTextString(wm), got, proto.CompactTextString(gm))
	}
	t.Fatalf("values not equal \nwant %T %v\n got %T %v", want, want, got, got)
}

// Panics will run given function and recover any panic. It will fail the test
// if given function call did not panic.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr fails the test unless got matches want. A nil want expects no error.
// On a mismatch the ABCI codes of both errors are printed, as those are what
// a client receives.
func IsErr(t Tester, want, got error) {
	t.Helper()

	if want == got {
		return
	}

	type comparator interface {
		Is(error) bool
	}
	if want != nil {
		if w, ok := want.(comparator); ok && w.Is(got) {
			return
		}
	}

	wantCode, _ := errors.ABCIInfo(want, false)
	gotCode, _ := errors.ABCIInfo(got, false)
	t.Fatalf("want %q (code %d), got %+v (code %d)", want, wantCode, got, gotCode)
}
