package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/gogo/protobuf/proto"
)

func cmdAsProtoText(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and print it in a
human readable form. Binary data is presented in hex encoding.
		`)
		fl.PrintDefaults()
	}
	var (
		jsonFl = fl.Bool("json", false, "Print the transaction as JSON instead of protobuf text.")
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction: %s", err)
	}
	if *jsonFl {
		raw, err := json.MarshalIndent(tx, "", "\t")
		if err != nil {
			return fmt.Errorf("cannot JSON serialize: %s", err)
		}
		_, err = fmt.Fprintln(output, string(raw))
		return err
	}
	return proto.MarshalText(output, tx)
}
