package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeygen(t *testing.T) {
	dir, err := ioutil.TempDir("", "custodycli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	keyPath := filepath.Join(dir, "key")

	var out bytes.Buffer
	require.NoError(t, cmdKeygen(nil, &out, []string{"-key", keyPath}))
	raw, err := ioutil.ReadFile(keyPath)
	require.NoError(t, err)
	assert.Len(t, raw, 64)

	var addr bytes.Buffer
	require.NoError(t, cmdKeyaddr(nil, &addr, []string{"-key", keyPath}))
	assert.Equal(t, out.String(), addr.String())

	// Existing key must never be overwritten.
	assert.Error(t, cmdKeygen(nil, &out, []string{"-key", keyPath}))
	after, err := ioutil.ReadFile(keyPath)
	require.NoError(t, err)
	assert.Equal(t, raw, after)
}

func TestKeygenFromSeed(t *testing.T) {
	dir, err := ioutil.TempDir("", "custodycli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	seed := "000102030405060708090a0b0c0d0e0f"

	cases := map[string]struct {
		path     string
		sameAddr bool
	}{
		"same path gives the same key": {
			path:     "m/44'/234'/0'",
			sameAddr: true,
		},
		"another path gives another key": {
			path:     "m/44'/234'/1'",
			sameAddr: false,
		},
	}

	var first bytes.Buffer
	require.NoError(t, cmdKeygen(nil, &first, []string{"-key", filepath.Join(dir, "first"), "-seed", seed}))

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var out bytes.Buffer
			keyPath := filepath.Join(dir, strings.Replace(testName, " ", "_", -1))
			require.NoError(t, cmdKeygen(nil, &out, []string{"-key", keyPath, "-seed", seed, "-path", tc.path}))
			if tc.sameAddr {
				assert.Equal(t, first.String(), out.String())
			} else {
				assert.NotEqual(t, first.String(), out.String())
			}
		})
	}
}

func TestKeygenInvalidPath(t *testing.T) {
	dir, err := ioutil.TempDir("", "custodycli")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	var out bytes.Buffer
	err = cmdKeygen(nil, &out, []string{"-key", filepath.Join(dir, "key"), "-seed", "00112233445566778899aabbccddeeff", "-path", "not a path"})
	assert.Error(t, err)
}

func TestKeyaddrMissingFile(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, cmdKeyaddr(nil, &out, []string{"-key", "/does/not/exist"}))
}
