package main

import (
	"encoding/binary"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/custody/client"
	"github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"golang.org/x/crypto/ed25519"
)

const txHeaderSize = 4

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// defaultKeyPath is where keygen writes and sign reads the private key
// unless told otherwise.
func defaultKeyPath() string {
	return env("CUSTODYCLI_PRIV_KEY", os.Getenv("HOME")+"/.custodycli.priv.key")
}

// defaultTMAddr is the tendermint rpc address of the node.
func defaultTMAddr() string {
	return env("CUSTODYCLI_TM_ADDR", "http://localhost:26657")
}

// newClient returns a client connected to the node at given address. Tests
// replace it to talk to an in process application.
var newClient = func(tmAddr string) *client.Client {
	return client.NewClient(client.NewHTTPConnection(tmAddr))
}

// writeTx serialize the transaction using a protocol buffer. First bytes
// written contain the information how much space the transaction takes.
// Size information is required to be able to stream the messages:
// https://developers.google.com/protocol-buffers/docs/techniques#streaming
func writeTx(w io.Writer, tx *app.Tx) (int, error) {
	b, err := tx.Marshal()
	if err != nil {
		return 0, err
	}

	var size [txHeaderSize]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))

	if n, err := w.Write(size[:]); err != nil {
		return n, err
	}
	if n, err := w.Write(b); err != nil {
		return n + txHeaderSize, err
	}
	return txHeaderSize + len(b), nil
}

func readTx(r io.Reader) (*app.Tx, int, error) {
	// When serialized using writeTx function, first bytes contain
	// information about the actual size of the transaction message.
	var size [txHeaderSize]byte
	if n, err := io.ReadFull(r, size[:]); err != nil {
		if err == io.EOF {
			return nil, n, errors.Wrap(errors.ErrInput, "no input data")
		}
		return nil, n, err
	}
	msgSize := binary.BigEndian.Uint32(size[:])
	raw := make([]byte, msgSize)
	if n, err := io.ReadFull(r, raw); err != nil {
		return nil, n + txHeaderSize, err
	}

	var tx app.Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, int(msgSize + txHeaderSize), err
	}
	return &tx, int(msgSize + txHeaderSize), nil
}

// decodePrivateKey reads a raw ed25519 private key file as written by
// keygen.
func decodePrivateKey(filepath string) (*crypto.PrivateKey, error) {
	data, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read %q file: %s", filepath, err)
	}
	if len(data) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(data))
	}
	return &crypto.PrivateKey{Ed25519: data}, nil
}
