package wallet

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/gconf"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/cash"
)

const testProgram = "custody"

// testEnv runs wallet messages against an in memory store, the way the
// application does: each message is checked and delivered within its own
// cache that is written only on success.
type testEnv struct {
	t        testing.TB
	db       *store.MemStore
	auth     *custodytest.CtxAuth
	cash     cash.BaseController
	handlers map[string]custody.Handler
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()
	db := store.NewMemStore()
	assert.Nil(t, gconf.Save(db, confPkg, &Configuration{Program: testProgram}))
	env := &testEnv{
		t:        t,
		db:       db,
		auth:     &custodytest.CtxAuth{Key: "wallet"},
		cash:     cash.NewController(),
		handlers: make(map[string]custody.Handler),
	}
	RegisterRoutes(env, env.auth, env.cash)
	return env
}

func (e *testEnv) Handle(path string, h custody.Handler) {
	e.handlers[path] = h
}

// run checks and delivers the message signed by given signers.
func (e *testEnv) run(msg custody.Msg, signers ...custody.Condition) error {
	e.t.Helper()
	h, ok := e.handlers[msg.Path()]
	if !ok {
		e.t.Fatalf("no handler for %q", msg.Path())
	}
	ctx := e.auth.SetConditions(context.Background(), signers...)
	tx := &custodytest.Tx{Msg: msg}

	check := e.db.CacheWrap()
	_, err := h.Check(ctx, check, tx)
	check.Discard()
	if err != nil {
		return err
	}

	deliver := e.db.CacheWrap()
	if _, err := h.Deliver(ctx, deliver, tx); err != nil {
		deliver.Discard()
		return err
	}
	return deliver.Write()
}

// mustRun runs the message and fails the test on error.
func (e *testEnv) mustRun(msg custody.Msg, signers ...custody.Condition) {
	e.t.Helper()
	if err := e.run(msg, signers...); err != nil {
		e.t.Fatalf("cannot process %T: %+v", msg, err)
	}
}

func (e *testEnv) fund(addr custody.Address, amount uint64) {
	e.t.Helper()
	assert.Nil(e.t, e.cash.IssueCoins(e.db, addr, amount))
}

func (e *testEnv) balance(addr custody.Address) uint64 {
	e.t.Helper()
	amount, err := e.cash.Balance(e.db, addr)
	assert.Nil(e.t, err)
	return amount
}

func (e *testEnv) wallet(addr custody.Address) *Wallet {
	e.t.Helper()
	var w Wallet
	assert.Nil(e.t, NewBucket().One(e.db, addr, &w))
	return &w
}

// testWallet describes a wallet used by a test: its creator, seed and the
// owner conditions.
type testWallet struct {
	creator custody.Condition
	seed    []byte
	owners  []custody.Condition
	addr    custody.Address
}

func newTestWallet(owners int) *testWallet {
	creator := custodytest.NewCondition()
	seed := make([]byte, SeedLength)
	copy(seed, creator.Address())
	tw := &testWallet{
		creator: creator,
		seed:    seed,
		addr:    DeriveAddress(testProgram, creator.Address(), seed),
	}
	for i := 0; i < owners; i++ {
		tw.owners = append(tw.owners, custodytest.NewCondition())
	}
	return tw
}

func (tw *testWallet) ownerAddrs() []custody.Address {
	res := make([]custody.Address, len(tw.owners))
	for i, o := range tw.owners {
		res[i] = o.Address()
	}
	return res
}

func (tw *testWallet) createMsg(threshold uint32) *CreateWalletMsg {
	return &CreateWalletMsg{
		Creator:   tw.creator.Address(),
		Seed:      tw.seed,
		Wallet:    tw.addr,
		Owners:    tw.ownerAddrs(),
		Threshold: threshold,
	}
}

func (tw *testWallet) transfer(owner int, dest custody.Address, amount uint64) *CreateTransactionMsg {
	return &CreateTransactionMsg{
		Owner:       tw.owners[owner].Address(),
		Creator:     tw.creator.Address(),
		Seed:        tw.seed,
		Wallet:      tw.addr,
		Kind:        Transfer,
		Destination: dest,
		Amount:      amount,
	}
}

func (tw *testWallet) setOwners(owner int, candidates ...custody.Address) *CreateTransactionMsg {
	return &CreateTransactionMsg{
		Owner:           tw.owners[owner].Address(),
		Creator:         tw.creator.Address(),
		Seed:            tw.seed,
		Wallet:          tw.addr,
		Kind:            SetOwners,
		CandidateOwners: candidates,
	}
}

func (tw *testWallet) setThreshold(owner int, threshold uint32) *CreateTransactionMsg {
	return &CreateTransactionMsg{
		Owner:              tw.owners[owner].Address(),
		Creator:            tw.creator.Address(),
		Seed:               tw.seed,
		Wallet:             tw.addr,
		Kind:               SetThreshold,
		CandidateThreshold: threshold,
	}
}

func (tw *testWallet) confirm(owner int) *ConfirmTransactionMsg {
	return &ConfirmTransactionMsg{
		Owner:   tw.owners[owner].Address(),
		Creator: tw.creator.Address(),
		Seed:    tw.seed,
		Wallet:  tw.addr,
	}
}

func (tw *testWallet) reject(owner int) *RejectTransactionMsg {
	return &RejectTransactionMsg{
		Owner:   tw.owners[owner].Address(),
		Creator: tw.creator.Address(),
		Seed:    tw.seed,
		Wallet:  tw.addr,
	}
}

func (tw *testWallet) execute(owner int, dest custody.Address) *ExecuteTransactionMsg {
	return &ExecuteTransactionMsg{
		Owner:       tw.owners[owner].Address(),
		Creator:     tw.creator.Address(),
		Seed:        tw.seed,
		Wallet:      tw.addr,
		Destination: dest,
	}
}

func (tw *testWallet) cancel(owner int) *CancelTransactionMsg {
	return &CancelTransactionMsg{
		Owner:   tw.owners[owner].Address(),
		Creator: tw.creator.Address(),
		Seed:    tw.seed,
		Wallet:  tw.addr,
	}
}
