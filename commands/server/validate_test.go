package server

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
)

type requireKeyInit struct{ key string }

func (i requireKeyInit) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	if _, ok := opts[i.key]; !ok {
		return errors.Wrapf(errors.ErrEmpty, "missing %q", i.key)
	}
	return kv.Set([]byte(i.key), []byte("ok"))
}

func TestValidateGenesis(t *testing.T) {
	cases := map[string]struct {
		content string
		wantErr *errors.Error
	}{
		"valid": {
			content: `{"chain_id": "custody-chain", "app_state": {"cash": []}}`,
		},
		"initializer fails": {
			content: `{"chain_id": "custody-chain", "app_state": {"wallet": []}}`,
			wantErr: errors.ErrEmpty,
		},
		"invalid chain id": {
			content: `{"chain_id": "x", "app_state": {"cash": []}}`,
			wantErr: errors.ErrInput,
		},
		"not json": {
			content: `chain_id: foo`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			home, cleanup := tempHome(t)
			defer cleanup()

			path := filepath.Join(home, "genesis.json")
			if err := ioutil.WriteFile(path, []byte(tc.content), 0600); err != nil {
				t.Fatalf("cannot write genesis: %s", err)
			}
			err := ValidateGenesis(requireKeyInit{key: "cash"}, []string{path})
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
			}
		})
	}
}

func TestValidateGenesisMissingFile(t *testing.T) {
	err := ValidateGenesis(requireKeyInit{key: "cash"}, []string{"/does/not/exist.json"})
	assert.True(t, errors.ErrInput.Is(err), "got %v", err)
}
