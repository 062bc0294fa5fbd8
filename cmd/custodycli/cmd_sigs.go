package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/sigs"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and sign it using
provided private key. The nonce and the chain ID are fetched from the node.
Write signed transaction to standard output.
		`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl  = fl.String("tm", defaultTMAddr(), "Tendermint node address. Use proper NETWORK name. You can use CUSTODYCLI_TM_ADDR environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(), "Path to the private key file that transaction should be signed with. You can use CUSTODYCLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	tx, _, err := readTx(input)
	if err != nil {
		return errors.Wrap(err, "cannot read transaction")
	}

	c := newClient(*tmAddrFl)
	chainID, err := c.ChainID()
	if err != nil {
		return errors.Wrap(err, "cannot fetch chain ID")
	}
	nonce, err := c.NextNonce(key.PublicKey().Address())
	if err != nil {
		return errors.Wrap(err, "cannot get the next nonce")
	}

	sig, err := sigs.SignTx(key, tx, chainID, nonce)
	if err != nil {
		return errors.Wrap(err, "cannot sign transaction")
	}
	tx.Signatures = append(tx.Signatures, sig)

	_, err = writeTx(output, tx)
	return err
}

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and submit it.

Make sure to collect enough signatures before submitting the transaction.
		`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTMAddr(), "Tendermint node address. Use proper NETWORK name. You can use CUSTODYCLI_TM_ADDR environment variable to set it.")
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return errors.Wrap(err, "cannot read transaction")
	}
	res, err := newClient(*tmAddrFl).BroadcastTxCommit(tx)
	if err != nil {
		return errors.Wrap(err, "cannot broadcast transaction")
	}
	_, err = fmt.Fprintf(output, "height %d hash %X\n", res.Height, res.ID)
	return err
}
