package app

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesisFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "genesis.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(`{"chain_id": "test-chain-67", "genesis_time": "2019-01-01T00:00:00Z"}`), 0600))

	gen, err := LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, "test-chain-67", gen.ChainID)
	assert.Empty(t, gen.AppState)

	state := json.RawMessage(`{"dummy": "secret"}`)
	require.NoError(t, AddGenesisAppState(path, state))

	gen, err = LoadGenesis(path)
	require.NoError(t, err)
	var value string
	require.NoError(t, gen.AppState.ReadOptions(dummyKey, &value))
	assert.Equal(t, "secret", value)

	// other fields are kept
	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "genesis_time")

	err = AddGenesisAppState(path, state)
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestLoadGenesisErrors(t *testing.T) {
	_, err := LoadGenesis("no-such-file.json")
	assert.True(t, errors.ErrInput.Is(err))

	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "genesis.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(`not json`), 0600))
	_, err = LoadGenesis(path)
	assert.True(t, errors.ErrInput.Is(err))
}
