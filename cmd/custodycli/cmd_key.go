package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a new private key and write it to a file. The key is either random or
derived from a hex encoded master seed using a SLIP-0010 path. The address of
the new key is printed.
		`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(), "Path to the private key file that transaction should be signed with. You can use CUSTODYCLI_PRIV_KEY environment variable to set it.")
		seedFl    = flHex(fl, "seed", "", "Optional hex encoded master seed the key is derived from.")
		pathFl    = fl.String("path", "m/44'/234'/0'", "Derivation path used together with the seed.")
	)
	fl.Parse(args)

	// Do not allow for the key to be overwritten. A key that was lost
	// cannot sign for any wallet it owns.
	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		return fmt.Errorf("private key file %q exists, not overwriting", *keyPathFl)
	}

	var key *crypto.PrivateKey
	if len(*seedFl) == 0 {
		key = crypto.GenPrivKeyEd25519()
	} else {
		k, err := derivation.DeriveForPath(*pathFl, *seedFl)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "cannot derive key: %s", err)
		}
		key = crypto.PrivKeyEd25519FromSeed(k.Key)
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("cannot create private key file: %s", err)
	}
	defer fd.Close()
	if _, err := fd.Write(key.Ed25519); err != nil {
		return fmt.Errorf("cannot write private key: %s", err)
	}
	if err := fd.Close(); err != nil {
		return fmt.Errorf("cannot close private key file: %s", err)
	}
	_, err = fmt.Fprintln(output, key.PublicKey().Address())
	return err
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print out a hex-address associated with your private key.
		`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(), "Path to the private key file that transaction should be signed with. You can use CUSTODYCLI_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, key.PublicKey().Address())
	return err
}
