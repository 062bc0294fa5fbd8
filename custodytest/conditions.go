package custodytest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/iov-one/custody"
)

var condSeq uint64

// NewCondition returns a condition that is unique within the test run. It
// is not backed by any key, so it can only authenticate through a mock.
func NewCondition() custody.Condition {
	n := atomic.AddUint64(&condSeq, 1)
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, n)
	return custody.NewCondition("test", "sequence", data)
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) custody.Address {
	t.Helper()

	addr, err := custody.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
