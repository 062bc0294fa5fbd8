package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
)

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction for transferring funds from the source to the destination
account. The transaction must be signed by the source.
		`)
		fl.PrintDefaults()
	}
	var (
		srcFl    = flAddress(fl, "src", "", "A source account address that the founds are send from.")
		dstFl    = flAddress(fl, "dst", "", "A destination account address that the founds are send to.")
		amountFl = fl.Uint64("amount", 0, "An amount that is to be transferred.")
		memoFl   = fl.String("memo", "", "A short message attached to the transfer.")
	)
	fl.Parse(args)

	msg := cash.SendMsg{
		Source:      *srcFl,
		Destination: *dstFl,
		Amount:      *amountFl,
		Memo:        *memoFl,
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "given data produce an invalid message")
	}
	return writeMsg(output, &msg)
}

func cmdIssue(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction that mints new tokens to the destination account. The
transaction must be signed by the minter configured in the genesis file.
		`)
		fl.PrintDefaults()
	}
	var (
		dstFl    = flAddress(fl, "dst", "", "A destination account address that receives the tokens.")
		amountFl = fl.Uint64("amount", 0, "An amount that is to be issued.")
	)
	fl.Parse(args)

	msg := cash.IssueMsg{
		Destination: *dstFl,
		Amount:      *amountFl,
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "given data produce an invalid message")
	}
	return writeMsg(output, &msg)
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the amount held by an account or a wallet.
		`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTMAddr(), "Tendermint node address. Use proper NETWORK name. You can use CUSTODYCLI_TM_ADDR environment variable to set it.")
		addrFl   = flAddress(fl, "addr", "", "Address of the account.")
	)
	fl.Parse(args)

	if len(*addrFl) == 0 {
		return errors.Wrap(errors.ErrInput, "address is required")
	}
	amount, err := newClient(*tmAddrFl).Balance(*addrFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, amount)
	return err
}
