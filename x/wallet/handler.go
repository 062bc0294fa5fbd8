package wallet

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	createWalletCost int64 = 300
	proposeCost      int64 = 200
	voteCost         int64 = 100
	executeCost      int64 = 200
	cancelCost       int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, control cash.Controller) {
	h := handler{auth: auth, bucket: NewBucket(), cash: control}
	r.Handle(pathCreateWalletMsg, CreateWalletHandler{h})
	r.Handle(pathCreateTransactionMsg, CreateTransactionHandler{h})
	r.Handle(pathConfirmTransactionMsg, ConfirmTransactionHandler{h})
	r.Handle(pathRejectTransactionMsg, RejectTransactionHandler{h})
	r.Handle(pathExecuteTransactionMsg, ExecuteTransactionHandler{h})
	r.Handle(pathCancelTransactionMsg, CancelTransactionHandler{h})
}

// RegisterQuery will register the wallets bucket as "/wallets" and its
// owner index as "/wallets/owner".
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// handler carries the dependencies shared by all wallet handlers.
type handler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	cash   cash.Controller
}

// loadOwned authenticates the owner and returns the wallet the message
// targets. The target address is checked against the derivation inputs
// before the wallet is read.
func (h handler) loadOwned(ctx context.Context, db custody.KVStore, owner, creator custody.Address, seed []byte, target custody.Address) (*Wallet, error) {
	if x.MissingSigner(ctx, h.auth, owner) != nil {
		return nil, errors.Wrapf(ErrMissingSignature, "owner %s", owner)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if !DeriveAddress(conf.Program, creator, seed).Equals(target) {
		return nil, errors.Wrapf(ErrInvalidDerivedAddress, "wallet %s", target)
	}

	var w Wallet
	switch err := h.bucket.One(db, target, &w); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrUninitializedAccount, "wallet %s", target)
	case err != nil:
		return nil, errors.Wrap(err, "load wallet")
	}
	if !w.Initialized {
		return nil, errors.Wrapf(ErrUninitializedAccount, "wallet %s", target)
	}
	if w.Program != conf.Program {
		return nil, errors.Wrapf(ErrIllegalOwnership, "wallet belongs to %q", w.Program)
	}
	if !w.IsOwner(owner) {
		return nil, errors.Wrapf(ErrInvalidOwner, "%s", owner)
	}
	return &w, nil
}

func (h handler) save(ctx context.Context, db custody.KVStore, addr custody.Address, w *Wallet, op string) (*custody.DeliverResult, error) {
	if err := h.bucket.Put(db, addr, w); err != nil {
		return nil, errors.Wrap(err, "save wallet")
	}
	custody.GetLogger(ctx).Info("wallet updated",
		"wallet", addr, "op", op, "kind", w.Proposal.Kind, "settled", w.Proposal.Settled)
	return &custody.DeliverResult{
		Data: addr,
		Tags: []common.KVPair{
			{Key: []byte("wallet"), Value: []byte(addr.String())},
			{Key: []byte("action"), Value: []byte(op)},
		},
	}, nil
}

// CreateWalletHandler creates wallets.
type CreateWalletHandler struct {
	handler
}

var _ custody.Handler = CreateWalletHandler{}

func (h CreateWalletHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: createWalletCost}, nil
}

func (h CreateWalletHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	w := &Wallet{
		Initialized: true,
		Program:     conf.Program,
		Creator:     msg.Creator,
		Seed:        msg.Seed,
		Owners:      msg.Owners,
		Threshold:   msg.Threshold,
		Proposal:    &Proposal{Settled: true},
	}
	res, err := h.save(ctx, db, msg.Wallet, w, pathCreateWalletMsg)
	if err != nil {
		return nil, err
	}
	if msg.Deposit > 0 {
		if err := h.cash.MoveCoins(db, msg.funder(), msg.Wallet, msg.Deposit); err != nil {
			return nil, errors.Wrap(err, "deposit")
		}
	}
	return res, nil
}

func (h CreateWalletHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*CreateWalletMsg, *Configuration, error) {
	var msg CreateWalletMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := validateOwnership(msg.Owners, msg.Threshold); err != nil {
		return nil, nil, err
	}
	// Payer is optional and signs only when set.
	if missing := x.MissingSigner(ctx, h.auth, msg.Creator, msg.Payer); missing != nil {
		return nil, nil, errors.Wrapf(ErrMissingSignature, "signer %s", missing)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if !DeriveAddress(conf.Program, msg.Creator, msg.Seed).Equals(msg.Wallet) {
		return nil, nil, errors.Wrapf(ErrInvalidDerivedAddress, "wallet %s", msg.Wallet)
	}

	var w Wallet
	switch err := h.bucket.One(db, msg.Wallet, &w); {
	case err == nil:
		if w.Initialized {
			return nil, nil, errors.Wrapf(ErrAlreadyInitialized, "wallet %s", msg.Wallet)
		}
	case !errors.ErrNotFound.Is(err):
		return nil, nil, errors.Wrap(err, "load wallet")
	}
	return &msg, conf, nil
}

// CreateTransactionHandler replaces the settled proposal of a wallet with a
// new pending one.
type CreateTransactionHandler struct {
	handler
}

var _ custody.Handler = CreateTransactionHandler{}

func (h CreateTransactionHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: proposeCost}, nil
}

func (h CreateTransactionHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	p := &Proposal{
		Settled: false,
		Kind:    msg.Kind,
		Signers: []custody.Address{msg.Owner},
	}
	switch msg.Kind {
	case SetOwners:
		p.CandidateOwners = msg.CandidateOwners
	case SetThreshold:
		p.CandidateThreshold = msg.CandidateThreshold
	case Transfer:
		p.Destination = msg.Destination
		p.Amount = msg.Amount
	}
	w.Proposal = p
	return h.save(ctx, db, msg.Wallet, w, pathCreateTransactionMsg)
}

func (h CreateTransactionHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*CreateTransactionMsg, *Wallet, error) {
	var msg CreateTransactionMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := h.loadOwned(ctx, db, msg.Owner, msg.Creator, msg.Seed, msg.Wallet)
	if err != nil {
		return nil, nil, err
	}
	if w.Proposal.Pending() {
		return nil, nil, errors.Wrap(ErrUnexpectedTransaction, "a proposal is already pending")
	}

	switch msg.Kind {
	case SetOwners:
		if err := validateOwners(msg.CandidateOwners, w.Threshold); err != nil {
			return nil, nil, err
		}
	case SetThreshold:
		if err := validateThreshold(msg.CandidateThreshold, len(w.Owners)); err != nil {
			return nil, nil, err
		}
	case Transfer:
		if msg.Amount == 0 {
			return nil, nil, errors.Wrap(ErrInvalidAmount, "amount must be positive")
		}
		if msg.Destination.Equals(msg.Wallet) {
			return nil, nil, errors.Wrap(ErrDestinationMismatch, "cannot transfer to the wallet itself")
		}
		balance, err := h.cash.Balance(db, msg.Wallet)
		if err != nil {
			return nil, nil, errors.Wrap(err, "wallet balance")
		}
		if balance <= msg.Amount {
			return nil, nil, errors.Wrapf(ErrInsufficientFunds, "balance %d, transfer %d", balance, msg.Amount)
		}
	}
	return &msg, w, nil
}

// ConfirmTransactionHandler records an approval of the pending proposal.
type ConfirmTransactionHandler struct {
	handler
}

var _ custody.Handler = ConfirmTransactionHandler{}

func (h ConfirmTransactionHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: voteCost}, nil
}

func (h ConfirmTransactionHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	w.Proposal.approve(msg.Owner)
	return h.save(ctx, db, msg.Wallet, w, pathConfirmTransactionMsg)
}

func (h ConfirmTransactionHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*ConfirmTransactionMsg, *Wallet, error) {
	var msg ConfirmTransactionMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := h.loadOwned(ctx, db, msg.Owner, msg.Creator, msg.Seed, msg.Wallet)
	if err != nil {
		return nil, nil, err
	}
	if !w.Proposal.Pending() {
		return nil, nil, errors.Wrap(ErrUnexpectedTransaction, "no pending proposal")
	}
	if w.Proposal.HasSigned(msg.Owner) {
		return nil, nil, errors.Wrap(ErrAlreadyVoted, "already approved")
	}
	return &msg, w, nil
}

// RejectTransactionHandler records a rejection of the pending proposal.
type RejectTransactionHandler struct {
	handler
}

var _ custody.Handler = RejectTransactionHandler{}

func (h RejectTransactionHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: voteCost}, nil
}

func (h RejectTransactionHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	w.Proposal.oppose(msg.Owner)
	return h.save(ctx, db, msg.Wallet, w, pathRejectTransactionMsg)
}

func (h RejectTransactionHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*RejectTransactionMsg, *Wallet, error) {
	var msg RejectTransactionMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := h.loadOwned(ctx, db, msg.Owner, msg.Creator, msg.Seed, msg.Wallet)
	if err != nil {
		return nil, nil, err
	}
	if !w.Proposal.Pending() {
		return nil, nil, errors.Wrap(ErrUnexpectedTransaction, "no pending proposal")
	}
	if w.Proposal.HasOpposed(msg.Owner) {
		return nil, nil, errors.Wrap(ErrAlreadyVoted, "already rejected")
	}
	return &msg, w, nil
}

// ExecuteTransactionHandler applies an approved proposal and settles it.
type ExecuteTransactionHandler struct {
	handler
}

var _ custody.Handler = ExecuteTransactionHandler{}

func (h ExecuteTransactionHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: executeCost}, nil
}

func (h ExecuteTransactionHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	action, err := w.Proposal.Action()
	if err != nil {
		return nil, err
	}
	switch a := action.(type) {
	case SetOwnersAction:
		w.Owners = a.Owners
	case SetThresholdAction:
		w.Threshold = a.Threshold
	case TransferAction:
		if err := h.cash.MoveCoins(db, msg.Wallet, a.Destination, a.Amount); err != nil {
			if errors.ErrInsufficientAmount.Is(err) || errors.ErrOverflow.Is(err) {
				return nil, errors.Wrap(ErrInsufficientFunds, err.Error())
			}
			return nil, errors.Wrap(err, "transfer")
		}
	}
	w.Proposal.settle()
	return h.save(ctx, db, msg.Wallet, w, pathExecuteTransactionMsg)
}

func (h ExecuteTransactionHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*ExecuteTransactionMsg, *Wallet, error) {
	var msg ExecuteTransactionMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := h.loadOwned(ctx, db, msg.Owner, msg.Creator, msg.Seed, msg.Wallet)
	if err != nil {
		return nil, nil, err
	}
	p := w.Proposal
	if !p.Pending() {
		return nil, nil, errors.Wrap(ErrUnexpectedTransaction, "no pending proposal")
	}
	if p.Kind == Transfer && !p.Destination.Equals(msg.Destination) {
		return nil, nil, errors.Wrapf(ErrDestinationMismatch, "proposal pays %s", p.Destination)
	}
	if len(p.Signers) < int(w.Threshold) {
		return nil, nil, errors.Wrapf(ErrNotEnoughApprovals, "%d of %d", len(p.Signers), w.Threshold)
	}
	return &msg, w, nil
}

// CancelTransactionHandler settles the pending proposal without applying it.
// Any owner can cancel.
type CancelTransactionHandler struct {
	handler
}

var _ custody.Handler = CancelTransactionHandler{}

func (h CancelTransactionHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: cancelCost}, nil
}

func (h CancelTransactionHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	w.Proposal.settle()
	return h.save(ctx, db, msg.Wallet, w, pathCancelTransactionMsg)
}

func (h CancelTransactionHandler) validate(ctx context.Context, db custody.KVStore, tx custody.Tx) (*CancelTransactionMsg, *Wallet, error) {
	var msg CancelTransactionMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	w, err := h.loadOwned(ctx, db, msg.Owner, msg.Creator, msg.Seed, msg.Wallet)
	if err != nil {
		return nil, nil, err
	}
	if !w.Proposal.Pending() {
		return nil, nil, errors.Wrap(ErrUnexpectedTransaction, "no pending proposal")
	}
	return &msg, w, nil
}
