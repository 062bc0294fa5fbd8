package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/wallet"
)

// walletFlags registers flags that identify a wallet. The wallet address is
// derived from the creator and the seed unless given explicitly.
type walletFlags struct {
	program *string
	creator *custody.Address
	seed    *[]byte
	wallet  *custody.Address
}

func newWalletFlags(fl *flag.FlagSet) *walletFlags {
	return &walletFlags{
		program: fl.String("program", wallet.DefaultProgram, "Program instance the wallet address is derived for."),
		creator: flAddress(fl, "creator", "", "Address of the account that created the wallet."),
		seed:    flHex(fl, "seed", "", "Hex encoded 32 byte seed the wallet was created with."),
		wallet:  flAddress(fl, "wallet", "", "Wallet address. Derived from the creator and the seed if not provided."),
	}
}

func (w *walletFlags) address() (custody.Address, error) {
	if len(*w.wallet) != 0 {
		return *w.wallet, nil
	}
	if len(*w.creator) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "creator is required")
	}
	if len(*w.seed) != wallet.SeedLength {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes", wallet.SeedLength)
	}
	return wallet.DeriveAddress(*w.program, *w.creator, *w.seed), nil
}

func cmdDerive(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the address of a wallet created by given creator with given seed.
		`)
		fl.PrintDefaults()
	}
	target := newWalletFlags(fl)
	fl.Parse(args)

	*target.wallet = nil
	addr, err := target.address()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, addr)
	return err
}

func cmdCreateWallet(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction that initializes a new multisig wallet. The transaction
must be signed by the payer.
		`)
		fl.PrintDefaults()
	}
	var (
		target      = newWalletFlags(fl)
		ownersFl    = flAddressList(fl, "owners", "Comma separated list of owner addresses.")
		thresholdFl = fl.Uint("threshold", 2, "Number of approvals required to execute a proposal.")
		payerFl     = flAddress(fl, "payer", "", "Address paying the initial deposit. Defaults to the creator.")
		depositFl   = fl.Uint64("deposit", 0, "Amount moved from the payer into the wallet.")
	)
	fl.Parse(args)

	addr, err := target.address()
	if err != nil {
		return err
	}
	msg := wallet.CreateWalletMsg{
		Creator:   *target.creator,
		Seed:      *target.seed,
		Wallet:    addr,
		Owners:    *ownersFl,
		Threshold: uint32(*thresholdFl),
		Payer:     *payerFl,
		Deposit:   *depositFl,
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "given data produce an invalid message")
	}
	return writeMsg(output, &msg)
}

func cmdPropose(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction that opens a new proposal for a wallet. The transaction
must be signed by the owner. Proposal kind is one of transfer, set-owners or
set-threshold.
		`)
		fl.PrintDefaults()
	}
	var (
		ownerFl     = flAddress(fl, "owner", "", "Address of the proposing owner.")
		target      = newWalletFlags(fl)
		kindFl      = fl.String("kind", "transfer", "Proposal kind.")
		dstFl       = flAddress(fl, "destination", "", "Transfer destination.")
		amountFl    = fl.Uint64("amount", 0, "Transfer amount.")
		ownersFl    = flAddressList(fl, "candidate-owners", "Comma separated list of the new owners.")
		thresholdFl = fl.Uint("candidate-threshold", 0, "New approval threshold.")
	)
	fl.Parse(args)

	kind, err := parseProposalKind(*kindFl)
	if err != nil {
		return err
	}
	addr, err := target.address()
	if err != nil {
		return err
	}
	msg := wallet.CreateTransactionMsg{
		Owner:              *ownerFl,
		Creator:            *target.creator,
		Seed:               *target.seed,
		Wallet:             addr,
		Kind:               kind,
		CandidateOwners:    *ownersFl,
		CandidateThreshold: uint32(*thresholdFl),
		Destination:        *dstFl,
		Amount:             *amountFl,
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "given data produce an invalid message")
	}
	return writeMsg(output, &msg)
}

func parseProposalKind(raw string) (wallet.ProposalKind, error) {
	switch strings.ToLower(raw) {
	case "transfer":
		return wallet.Transfer, nil
	case "set-owners":
		return wallet.SetOwners, nil
	case "set-threshold":
		return wallet.SetThreshold, nil
	}
	return 0, errors.Wrapf(errors.ErrInput, "unknown proposal kind %q", raw)
}

func cmdConfirm(input io.Reader, output io.Writer, args []string) error {
	return voteCmd(output, args, "approves", func(owner custody.Address, w *walletFlags, addr custody.Address) custody.Msg {
		return &wallet.ConfirmTransactionMsg{Owner: owner, Creator: *w.creator, Seed: *w.seed, Wallet: addr}
	})
}

func cmdReject(input io.Reader, output io.Writer, args []string) error {
	return voteCmd(output, args, "rejects", func(owner custody.Address, w *walletFlags, addr custody.Address) custody.Msg {
		return &wallet.RejectTransactionMsg{Owner: owner, Creator: *w.creator, Seed: *w.seed, Wallet: addr}
	})
}

func cmdCancel(input io.Reader, output io.Writer, args []string) error {
	return voteCmd(output, args, "cancels", func(owner custody.Address, w *walletFlags, addr custody.Address) custody.Msg {
		return &wallet.CancelTransactionMsg{Owner: owner, Creator: *w.creator, Seed: *w.seed, Wallet: addr}
	})
}

// voteCmd builds a transaction for one of the commands that only needs the
// owner and the wallet.
func voteCmd(output io.Writer, args []string, verb string, build func(custody.Address, *walletFlags, custody.Address) custody.Msg) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `
Create a transaction in which an owner %s the pending proposal of a wallet.
The transaction must be signed by the owner.
`, verb)
		fl.PrintDefaults()
	}
	var (
		ownerFl = flAddress(fl, "owner", "", "Address of the owner.")
		target  = newWalletFlags(fl)
	)
	fl.Parse(args)

	addr, err := target.address()
	if err != nil {
		return err
	}
	msg := build(*ownerFl, target, addr)
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "given data produce an invalid message")
	}
	return writeMsg(output, msg)
}

func cmdExecute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create a transaction that executes the pending proposal of a wallet once
enough owners approved it. Transfer proposals require the destination to
be repeated.
		`)
		fl.PrintDefaults()
	}
	var (
		ownerFl = flAddress(fl, "owner", "", "Address of the executing owner.")
		target  = newWalletFlags(fl)
		dstFl   = flAddress(fl, "destination", "", "Destination of a transfer proposal.")
	)
	fl.Parse(args)

	addr, err := target.address()
	if err != nil {
		return err
	}
	msg := wallet.ExecuteTransactionMsg{
		Owner:       *ownerFl,
		Creator:     *target.creator,
		Seed:        *target.seed,
		Wallet:      addr,
		Destination: *dstFl,
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "given data produce an invalid message")
	}
	return writeMsg(output, &msg)
}

func writeMsg(output io.Writer, msg custody.Msg) error {
	var tx app.Tx
	if err := tx.SetMsg(msg); err != nil {
		return errors.Wrap(err, "cannot set transaction message")
	}
	_, err := writeTx(output, &tx)
	return err
}

func cmdWallet(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the state of a wallet: owners, threshold, balance and the pending
proposal together with the votes it collected.
		`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTMAddr(), "Tendermint node address. Use proper NETWORK name. You can use CUSTODYCLI_TM_ADDR environment variable to set it.")
		target   = newWalletFlags(fl)
	)
	fl.Parse(args)

	addr, err := target.address()
	if err != nil {
		return err
	}
	c := newClient(*tmAddrFl)
	w, err := c.Wallet(addr)
	if err != nil {
		return errors.Wrap(err, "cannot fetch wallet")
	}
	balance, err := c.Balance(addr)
	if err != nil {
		return errors.Wrap(err, "cannot fetch balance")
	}

	fmt.Fprintf(output, "address:   %s\n", addr)
	fmt.Fprintf(output, "program:   %s\n", w.Program)
	fmt.Fprintf(output, "creator:   %s\n", w.Creator)
	fmt.Fprintf(output, "balance:   %d\n", balance)
	fmt.Fprintf(output, "threshold: %d\n", w.Threshold)
	for _, o := range w.Owners {
		fmt.Fprintf(output, "owner:     %s\n", o)
	}
	p := w.Proposal
	if p == nil || p.Settled {
		_, err = fmt.Fprintln(output, "proposal:  none")
		return err
	}
	fmt.Fprintf(output, "proposal:  %s\n", p.Kind)
	switch p.Kind {
	case wallet.Transfer:
		fmt.Fprintf(output, "  destination: %s\n", p.Destination)
		fmt.Fprintf(output, "  amount:      %d\n", p.Amount)
	case wallet.SetOwners:
		for _, o := range p.CandidateOwners {
			fmt.Fprintf(output, "  candidate:   %s\n", o)
		}
	case wallet.SetThreshold:
		fmt.Fprintf(output, "  threshold:   %d\n", p.CandidateThreshold)
	}
	fmt.Fprintf(output, "  approvals:   %d/%d\n", len(p.Signers), w.Threshold)
	for _, s := range p.Signers {
		fmt.Fprintf(output, "  signer:      %s\n", s)
	}
	for _, o := range p.Opponents {
		fmt.Fprintf(output, "  opponent:    %s\n", o)
	}
	return nil
}
