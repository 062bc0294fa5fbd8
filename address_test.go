package custody

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/iov-one/custody/errors"
)

func TestConditionParse(t *testing.T) {
	cases := map[string]struct {
		cond    Condition
		wantExt string
		wantTyp string
		wantErr *errors.Error
	}{
		"valid condition": {
			cond:    NewCondition("sigs", "ed25519", []byte{0xde, 0xad}),
			wantExt: "sigs",
			wantTyp: "ed25519",
		},
		"data may contain a newline": {
			cond:    NewCondition("wallet", "derived", []byte("a\nb")),
			wantExt: "wallet",
			wantTyp: "derived",
		},
		"extension too short": {
			cond:    NewCondition("x", "derived", []byte{1}),
			wantErr: errors.ErrInput,
		},
		"no data": {
			cond:    Condition("wallet/derived/"),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ext, typ, _, err := tc.cond.Parse()
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if ext != tc.wantExt || typ != tc.wantTyp {
				t.Fatalf("unexpected result: %q %q", ext, typ)
			}
			if got := tc.cond.Validate(); !tc.wantErr.Is(got) {
				t.Fatalf("validate and parse disagree: %v", got)
			}
		})
	}
}

func TestParseAddress(t *testing.T) {
	raw, _ := hex.DecodeString("8A7D13FD1F6E2E2A7D2C6E4EF0AD6F43F9F2F6F1")
	addr := Address(raw)
	cond := NewCondition("sigs", "ed25519", []byte{1, 2, 3})

	cases := map[string]struct {
		enc     string
		want    Address
		wantErr *errors.Error
	}{
		"hex without prefix": {
			enc:  "8A7D13FD1F6E2E2A7D2C6E4EF0AD6F43F9F2F6F1",
			want: addr,
		},
		"hex with prefix": {
			enc:  "hex:8a7d13fd1f6e2e2a7d2c6e4ef0ad6f43f9f2f6f1",
			want: addr,
		},
		"bech32": {
			enc:  "bech32:" + addr.Bech32(),
			want: addr,
		},
		"condition": {
			enc:  "cond:sigs/ed25519/010203",
			want: cond.Address(),
		},
		"too short": {
			enc:     "8A7D",
			wantErr: errors.ErrInput,
		},
		"not hex": {
			enc:     "zz",
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			enc:     "base64:AAAA",
			wantErr: errors.ErrType,
		},
		"empty": {
			enc:     "",
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAddress(tc.enc)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil && !got.Equals(tc.want) {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := NewCondition("wallet", "derived", []byte("seed")).Address()
	raw, err := json.Marshal(addr)
	if err != nil {
		t.Fatalf("cannot marshal: %s", err)
	}
	var got Address
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("cannot unmarshal: %s", err)
	}
	if !got.Equals(addr) {
		t.Fatalf("want %s, got %s", addr, got)
	}

	var empty Address
	if err := json.Unmarshal([]byte(`""`), &empty); err != nil {
		t.Fatalf("empty string must decode to a nil address: %s", err)
	}
	if empty != nil {
		t.Fatalf("want nil address, got %v", empty)
	}
}

func TestAddressFlagValue(t *testing.T) {
	var a Address
	if err := a.Set("hex:0000000000000000000000000000000000000001"); err != nil {
		t.Fatalf("cannot set: %s", err)
	}
	if a[AddressLength-1] != 1 {
		t.Fatalf("unexpected address %s", a)
	}
	if err := a.Set("01"); !errors.ErrInput.Is(err) {
		t.Fatalf("want input error, got %v", err)
	}
}
