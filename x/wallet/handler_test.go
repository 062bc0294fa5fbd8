package wallet

import (
	"bytes"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
)

func TestCreateWallet(t *testing.T) {
	cases := map[string]struct {
		owners    int
		threshold uint32
		// mutate modifies the message before it is sent.
		mutate  func(tw *testWallet, msg *CreateWalletMsg)
		signers func(tw *testWallet) []custody.Condition
		wantErr *errors.Error
	}{
		"two of two": {
			owners:    2,
			threshold: 2,
		},
		"two of three": {
			owners:    3,
			threshold: 2,
		},
		"three of three": {
			owners:    3,
			threshold: 3,
		},
		"threshold of one": {
			owners:    3,
			threshold: 1,
			wantErr:   ErrInvalidThreshold,
		},
		"threshold of four": {
			owners:    3,
			threshold: 4,
			wantErr:   ErrInvalidThreshold,
		},
		"threshold is checked before the owners": {
			owners:    1,
			threshold: 0,
			wantErr:   ErrInvalidThreshold,
		},
		"fewer owners than threshold": {
			owners:    2,
			threshold: 3,
			wantErr:   ErrInvalidOwnersLength,
		},
		"single owner": {
			owners:    1,
			threshold: 2,
			wantErr:   ErrInvalidOwnersLength,
		},
		"too many owners": {
			owners:    4,
			threshold: 2,
			wantErr:   ErrInvalidOwnersLength,
		},
		"duplicated owner": {
			owners:    3,
			threshold: 2,
			mutate: func(tw *testWallet, msg *CreateWalletMsg) {
				msg.Owners[2] = msg.Owners[0]
			},
			wantErr: ErrInvalidOwnersLength,
		},
		"creator must sign": {
			owners:    2,
			threshold: 2,
			signers: func(tw *testWallet) []custody.Condition {
				return []custody.Condition{tw.owners[0]}
			},
			wantErr: ErrMissingSignature,
		},
		"payer must sign": {
			owners:    2,
			threshold: 2,
			mutate: func(tw *testWallet, msg *CreateWalletMsg) {
				msg.Payer = custodytest.NewCondition().Address()
			},
			wantErr: ErrMissingSignature,
		},
		"payer signature does not replace the creator": {
			owners:    2,
			threshold: 2,
			mutate: func(tw *testWallet, msg *CreateWalletMsg) {
				msg.Payer = tw.owners[1].Address()
			},
			signers: func(tw *testWallet) []custody.Condition {
				return []custody.Condition{tw.owners[1]}
			},
			wantErr: ErrMissingSignature,
		},
		"address not derived from the inputs": {
			owners:    2,
			threshold: 2,
			mutate: func(tw *testWallet, msg *CreateWalletMsg) {
				msg.Wallet = custodytest.NewCondition().Address()
			},
			wantErr: ErrInvalidDerivedAddress,
		},
		"another seed derives another address": {
			owners:    2,
			threshold: 2,
			mutate: func(tw *testWallet, msg *CreateWalletMsg) {
				msg.Seed = bytes.Repeat([]byte{0xff}, SeedLength)
			},
			wantErr: ErrInvalidDerivedAddress,
		},
		"seed of invalid length": {
			owners:    2,
			threshold: 2,
			mutate: func(tw *testWallet, msg *CreateWalletMsg) {
				msg.Seed = []byte("short")
			},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			env := newTestEnv(t)
			tw := newTestWallet(tc.owners)
			msg := tw.createMsg(tc.threshold)
			if tc.mutate != nil {
				tc.mutate(tw, msg)
			}
			signers := []custody.Condition{tw.creator}
			if tc.signers != nil {
				signers = tc.signers(tw)
			}

			err := env.run(msg, signers...)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				if err := NewBucket().Has(env.db, tw.addr); !errors.ErrNotFound.Is(err) {
					t.Fatalf("wallet must not be stored: %v", err)
				}
				return
			}

			w := env.wallet(tw.addr)
			assert.Equal(t, true, w.Initialized)
			assert.Equal(t, testProgram, w.Program)
			assert.Equal(t, tc.threshold, w.Threshold)
			assert.Equal(t, tw.ownerAddrs(), w.Owners)
			assert.Equal(t, tw.seed, w.Seed)
			assert.Equal(t, true, w.Proposal.Settled)
			if len(w.Proposal.Signers) != 0 || len(w.Proposal.Opponents) != 0 {
				t.Fatal("new wallet must not have votes")
			}
		})
	}
}

func TestCreateWalletOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	tw := newTestWallet(3)

	env.mustRun(tw.createMsg(2), tw.creator)

	err := env.run(tw.createMsg(3), tw.creator)
	assert.IsErr(t, ErrAlreadyInitialized, err)
	assert.Equal(t, uint32(2), env.wallet(tw.addr).Threshold)
}

func TestCreateWalletDeposit(t *testing.T) {
	t.Run("creator pays", func(t *testing.T) {
		env := newTestEnv(t)
		tw := newTestWallet(2)
		env.fund(tw.creator.Address(), 1000)

		msg := tw.createMsg(2)
		msg.Deposit = 400
		env.mustRun(msg, tw.creator)

		assert.Equal(t, uint64(400), env.balance(tw.addr))
		assert.Equal(t, uint64(600), env.balance(tw.creator.Address()))
	})

	t.Run("payer pays", func(t *testing.T) {
		env := newTestEnv(t)
		tw := newTestWallet(2)
		payer := custodytest.NewCondition()
		env.fund(payer.Address(), 50)

		msg := tw.createMsg(2)
		msg.Payer = payer.Address()
		msg.Deposit = 50
		env.mustRun(msg, tw.creator, payer)

		assert.Equal(t, uint64(50), env.balance(tw.addr))
		assert.Equal(t, uint64(0), env.balance(payer.Address()))
	})

	t.Run("insufficient deposit discards the wallet", func(t *testing.T) {
		env := newTestEnv(t)
		tw := newTestWallet(2)
		env.fund(tw.creator.Address(), 10)

		msg := tw.createMsg(2)
		msg.Deposit = 11
		err := env.run(msg, tw.creator)
		assert.IsErr(t, errors.ErrInsufficientAmount, err)

		if err := NewBucket().Has(env.db, tw.addr); !errors.ErrNotFound.Is(err) {
			t.Fatalf("wallet must not be stored: %v", err)
		}
		assert.Equal(t, uint64(10), env.balance(tw.creator.Address()))
	})
}

// A transfer approved by two of three owners moves exactly the proposed
// amount and settles the proposal.
func TestTransferScenario(t *testing.T) {
	env := newTestEnv(t)
	tw := newTestWallet(3)
	x, y, z := 0, 1, 2
	dest := custodytest.NewCondition().Address()

	env.mustRun(tw.createMsg(2), tw.creator)
	env.fund(tw.addr, 1000)

	env.mustRun(tw.transfer(x, dest, 100), tw.owners[x])
	p := env.wallet(tw.addr).Proposal
	assert.Equal(t, false, p.Settled)
	assert.Equal(t, []custody.Address{tw.owners[x].Address()}, p.Signers)

	// not enough approvals yet
	err := env.run(tw.execute(z, dest), tw.owners[z])
	assert.IsErr(t, ErrNotEnoughApprovals, err)

	env.mustRun(tw.confirm(y), tw.owners[y])
	p = env.wallet(tw.addr).Proposal
	assert.Equal(t, []custody.Address{tw.owners[x].Address(), tw.owners[y].Address()}, p.Signers)

	// z never voted and can still execute
	env.mustRun(tw.execute(z, dest), tw.owners[z])
	assert.Equal(t, uint64(900), env.balance(tw.addr))
	assert.Equal(t, uint64(100), env.balance(dest))

	p = env.wallet(tw.addr).Proposal
	assert.Equal(t, true, p.Settled)
	assert.Equal(t, uint64(0), p.Amount)
	if len(p.Signers) != 0 || len(p.Opponents) != 0 {
		t.Fatal("settled proposal must not have votes")
	}

	err = env.run(tw.execute(z, dest), tw.owners[z])
	assert.IsErr(t, ErrUnexpectedTransaction, err)
	assert.Equal(t, uint64(100), env.balance(dest))
}

// A rejected proposal can be cancelled by any owner without effect.
func TestRejectAndCancelScenario(t *testing.T) {
	env := newTestEnv(t)
	tw := newTestWallet(3)
	x, y := 0, 1
	dest := custodytest.NewCondition().Address()

	env.mustRun(tw.createMsg(2), tw.creator)
	env.fund(tw.addr, 1000)

	env.mustRun(tw.transfer(x, dest, 100), tw.owners[x])
	env.mustRun(tw.reject(y), tw.owners[y])
	p := env.wallet(tw.addr).Proposal
	assert.Equal(t, []custody.Address{tw.owners[y].Address()}, p.Opponents)

	env.mustRun(tw.cancel(x), tw.owners[x])
	p = env.wallet(tw.addr).Proposal
	assert.Equal(t, true, p.Settled)
	if len(p.Signers) != 0 || len(p.Opponents) != 0 {
		t.Fatal("cancelled proposal must not have votes")
	}
	assert.Equal(t, uint64(1000), env.balance(tw.addr))
	assert.Equal(t, uint64(0), env.balance(dest))

	err := env.run(tw.cancel(x), tw.owners[x])
	assert.IsErr(t, ErrUnexpectedTransaction, err)

	// a new proposal can be made once settled
	env.mustRun(tw.transfer(y, dest, 5), tw.owners[y])
}

func TestVoting(t *testing.T) {
	env := newTestEnv(t)
	tw := newTestWallet(3)
	x, y, z := 0, 1, 2
	dest := custodytest.NewCondition().Address()

	env.mustRun(tw.createMsg(3), tw.creator)
	env.fund(tw.addr, 1000)

	err := env.run(tw.confirm(y), tw.owners[y])
	assert.IsErr(t, ErrUnexpectedTransaction, err)
	err = env.run(tw.reject(y), tw.owners[y])
	assert.IsErr(t, ErrUnexpectedTransaction, err)

	env.mustRun(tw.transfer(x, dest, 10), tw.owners[x])

	// the proposer approved implicitly
	err = env.run(tw.confirm(x), tw.owners[x])
	assert.IsErr(t, ErrAlreadyVoted, err)

	env.mustRun(tw.confirm(y), tw.owners[y])
	err = env.run(tw.confirm(y), tw.owners[y])
	assert.IsErr(t, ErrAlreadyVoted, err)

	// flip to reject and back
	env.mustRun(tw.reject(y), tw.owners[y])
	p := env.wallet(tw.addr).Proposal
	assert.Equal(t, []custody.Address{tw.owners[x].Address()}, p.Signers)
	assert.Equal(t, []custody.Address{tw.owners[y].Address()}, p.Opponents)
	err = env.run(tw.reject(y), tw.owners[y])
	assert.IsErr(t, ErrAlreadyVoted, err)

	env.mustRun(tw.reject(z), tw.owners[z])
	env.mustRun(tw.confirm(y), tw.owners[y])
	p = env.wallet(tw.addr).Proposal
	assert.Equal(t, []custody.Address{tw.owners[x].Address(), tw.owners[y].Address()}, p.Signers)
	assert.Equal(t, []custody.Address{tw.owners[z].Address()}, p.Opponents)

	// opponents do not matter, approvals do
	err = env.run(tw.execute(x, dest), tw.owners[x])
	assert.IsErr(t, ErrNotEnoughApprovals, err)

	env.mustRun(tw.confirm(z), tw.owners[z])
	p = env.wallet(tw.addr).Proposal
	if len(p.Opponents) != 0 {
		t.Fatalf("unexpected opponents: %v", p.Opponents)
	}
	env.mustRun(tw.execute(x, dest), tw.owners[x])
	assert.Equal(t, uint64(10), env.balance(dest))
}

func TestCreateTransactionErrors(t *testing.T) {
	dest := custodytest.NewCondition().Address()
	outsider := custodytest.NewCondition()

	cases := map[string]struct {
		// skipCreate leaves the wallet uncreated.
		skipCreate bool
		msg        func(tw *testWallet) *CreateTransactionMsg
		signer     func(tw *testWallet) custody.Condition
		wantErr    *errors.Error
	}{
		"valid transfer": {
			msg: func(tw *testWallet) *CreateTransactionMsg { return tw.transfer(0, dest, 999) },
		},
		"transfer of zero": {
			msg:     func(tw *testWallet) *CreateTransactionMsg { return tw.transfer(0, dest, 0) },
			wantErr: ErrInvalidAmount,
		},
		"transfer to self": {
			msg:     func(tw *testWallet) *CreateTransactionMsg { return tw.transfer(0, tw.addr, 10) },
			wantErr: ErrDestinationMismatch,
		},
		"transfer of the whole balance": {
			msg:     func(tw *testWallet) *CreateTransactionMsg { return tw.transfer(0, dest, 1000) },
			wantErr: ErrInsufficientFunds,
		},
		"transfer above the balance": {
			msg:     func(tw *testWallet) *CreateTransactionMsg { return tw.transfer(0, dest, 5000) },
			wantErr: ErrInsufficientFunds,
		},
		"transfer without destination": {
			msg:     func(tw *testWallet) *CreateTransactionMsg { return tw.transfer(0, nil, 10) },
			wantErr: errors.ErrEmpty,
		},
		"valid owner set": {
			msg: func(tw *testWallet) *CreateTransactionMsg {
				return tw.setOwners(0, tw.owners[0].Address(), outsider.Address())
			},
		},
		"owner set below threshold": {
			msg: func(tw *testWallet) *CreateTransactionMsg {
				return tw.setOwners(0, tw.owners[0].Address())
			},
			wantErr: ErrInvalidOwnersLength,
		},
		"owner set too large": {
			msg: func(tw *testWallet) *CreateTransactionMsg {
				extra := []custody.Address{outsider.Address(), custodytest.NewCondition().Address()}
				return tw.setOwners(0, append(tw.ownerAddrs(), extra...)...)
			},
			wantErr: ErrInvalidOwnersLength,
		},
		"owner set with duplicates": {
			msg: func(tw *testWallet) *CreateTransactionMsg {
				return tw.setOwners(0, tw.owners[0].Address(), tw.owners[0].Address())
			},
			wantErr: ErrInvalidOwnersLength,
		},
		"valid threshold": {
			msg: func(tw *testWallet) *CreateTransactionMsg { return tw.setThreshold(0, 2) },
		},
		"threshold above the owner count": {
			msg:     func(tw *testWallet) *CreateTransactionMsg { return tw.setThreshold(0, 3) },
			wantErr: ErrInvalidThreshold,
		},
		"threshold too low": {
			msg:     func(tw *testWallet) *CreateTransactionMsg { return tw.setThreshold(0, 1) },
			wantErr: ErrInvalidThreshold,
		},
		"threshold too high": {
			msg:     func(tw *testWallet) *CreateTransactionMsg { return tw.setThreshold(0, 4) },
			wantErr: ErrInvalidThreshold,
		},
		"unknown kind": {
			msg: func(tw *testWallet) *CreateTransactionMsg {
				msg := tw.setThreshold(0, 3)
				msg.Kind = 7
				return msg
			},
			wantErr: errors.ErrInput,
		},
		"not signed": {
			msg:     func(tw *testWallet) *CreateTransactionMsg { return tw.transfer(0, dest, 1) },
			signer:  func(tw *testWallet) custody.Condition { return tw.owners[1] },
			wantErr: ErrMissingSignature,
		},
		"not an owner": {
			msg: func(tw *testWallet) *CreateTransactionMsg {
				msg := tw.transfer(0, dest, 1)
				msg.Owner = outsider.Address()
				return msg
			},
			signer:  func(tw *testWallet) custody.Condition { return outsider },
			wantErr: ErrInvalidOwner,
		},
		"creator is not an owner": {
			msg: func(tw *testWallet) *CreateTransactionMsg {
				msg := tw.transfer(0, dest, 1)
				msg.Owner = tw.creator.Address()
				return msg
			},
			signer:  func(tw *testWallet) custody.Condition { return tw.creator },
			wantErr: ErrInvalidOwner,
		},
		"wallet not derived from the inputs": {
			msg: func(tw *testWallet) *CreateTransactionMsg {
				msg := tw.transfer(0, dest, 1)
				msg.Creator = outsider.Address()
				return msg
			},
			wantErr: ErrInvalidDerivedAddress,
		},
		"wallet not created": {
			skipCreate: true,
			msg:        func(tw *testWallet) *CreateTransactionMsg { return tw.transfer(0, dest, 1) },
			wantErr:    ErrUninitializedAccount,
		},
		"derivation is checked before the wallet is read": {
			skipCreate: true,
			msg: func(tw *testWallet) *CreateTransactionMsg {
				msg := tw.transfer(0, dest, 1)
				msg.Seed = bytes.Repeat([]byte{7}, SeedLength)
				return msg
			},
			wantErr: ErrInvalidDerivedAddress,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			env := newTestEnv(t)
			tw := newTestWallet(2)
			if !tc.skipCreate {
				env.mustRun(tw.createMsg(2), tw.creator)
			}
			env.fund(tw.addr, 1000)

			signer := tw.owners[0]
			if tc.signer != nil {
				signer = tc.signer(tw)
			}
			err := env.run(tc.msg(tw), signer)
			assert.IsErr(t, tc.wantErr, err)

			if tc.skipCreate {
				return
			}
			p := env.wallet(tw.addr).Proposal
			assert.Equal(t, tc.wantErr != nil, p.Settled)
		})
	}
}

func TestOnlyOneProposal(t *testing.T) {
	env := newTestEnv(t)
	tw := newTestWallet(2)
	dest := custodytest.NewCondition().Address()

	env.mustRun(tw.createMsg(2), tw.creator)
	env.fund(tw.addr, 1000)

	env.mustRun(tw.transfer(0, dest, 10), tw.owners[0])
	err := env.run(tw.setThreshold(1, 2), tw.owners[1])
	assert.IsErr(t, ErrUnexpectedTransaction, err)

	p := env.wallet(tw.addr).Proposal
	assert.Equal(t, Transfer, p.Kind)
	assert.Equal(t, uint64(10), p.Amount)
}

func TestExecuteSetOwners(t *testing.T) {
	env := newTestEnv(t)
	tw := newTestWallet(3)
	newcomer := custodytest.NewCondition()

	env.mustRun(tw.createMsg(2), tw.creator)
	candidates := []custody.Address{tw.owners[1].Address(), newcomer.Address()}
	env.mustRun(tw.setOwners(0, candidates...), tw.owners[0])
	env.mustRun(tw.confirm(2), tw.owners[2])
	env.mustRun(tw.execute(1, nil), tw.owners[1])

	w := env.wallet(tw.addr)
	assert.Equal(t, candidates, w.Owners)
	assert.Equal(t, true, w.Proposal.Settled)
	assert.Equal(t, 0, len(w.Proposal.CandidateOwners))

	// the removed owner lost access, the newcomer gained it
	tw.owners = append(tw.owners, newcomer)
	err := env.run(tw.setThreshold(0, 2), tw.owners[0])
	assert.IsErr(t, ErrInvalidOwner, err)
	env.mustRun(tw.setThreshold(3, 2), tw.owners[3])

	// the owner index follows the owner set
	var wallets []*Wallet
	_, err = NewBucket().ByIndex(env.db, "owner", tw.owners[0].Address(), &wallets)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(wallets))
	_, err = NewBucket().ByIndex(env.db, "owner", newcomer.Address(), &wallets)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(wallets))
}

func TestExecuteSetThreshold(t *testing.T) {
	env := newTestEnv(t)
	tw := newTestWallet(3)

	env.mustRun(tw.createMsg(2), tw.creator)
	env.mustRun(tw.setThreshold(0, 3), tw.owners[0])
	env.mustRun(tw.confirm(1), tw.owners[1])
	env.mustRun(tw.execute(2, nil), tw.owners[2])

	w := env.wallet(tw.addr)
	assert.Equal(t, uint32(3), w.Threshold)
	assert.Equal(t, uint32(0), w.Proposal.CandidateThreshold)

	// three approvals are needed now
	dest := custodytest.NewCondition().Address()
	env.fund(tw.addr, 100)
	env.mustRun(tw.transfer(0, dest, 10), tw.owners[0])
	env.mustRun(tw.confirm(1), tw.owners[1])
	err := env.run(tw.execute(0, dest), tw.owners[0])
	assert.IsErr(t, ErrNotEnoughApprovals, err)
}

func TestExecuteDestinationMismatch(t *testing.T) {
	env := newTestEnv(t)
	tw := newTestWallet(2)
	dest := custodytest.NewCondition().Address()
	other := custodytest.NewCondition().Address()

	env.mustRun(tw.createMsg(2), tw.creator)
	env.fund(tw.addr, 1000)
	env.mustRun(tw.transfer(0, dest, 10), tw.owners[0])
	env.mustRun(tw.confirm(1), tw.owners[1])

	err := env.run(tw.execute(0, other), tw.owners[0])
	assert.IsErr(t, ErrDestinationMismatch, err)
	err = env.run(tw.execute(0, nil), tw.owners[0])
	assert.IsErr(t, ErrDestinationMismatch, err)
	assert.Equal(t, uint64(0), env.balance(other))

	env.mustRun(tw.execute(0, dest), tw.owners[0])
	assert.Equal(t, uint64(10), env.balance(dest))
}

func TestExecuteInsufficientFundsIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	tw := newTestWallet(2)
	dest := custodytest.NewCondition().Address()
	elsewhere := custodytest.NewCondition().Address()

	env.mustRun(tw.createMsg(2), tw.creator)
	env.fund(tw.addr, 150)
	env.mustRun(tw.transfer(0, dest, 100), tw.owners[0])
	env.mustRun(tw.confirm(1), tw.owners[1])

	// the balance moved after the proposal was made
	assert.Nil(t, env.cash.MoveCoins(env.db, tw.addr, elsewhere, 100))
	before := env.wallet(tw.addr)

	err := env.run(tw.execute(0, dest), tw.owners[0])
	assert.IsErr(t, ErrInsufficientFunds, err)

	assert.Equal(t, before, env.wallet(tw.addr))
	assert.Equal(t, uint64(50), env.balance(tw.addr))
	assert.Equal(t, uint64(0), env.balance(dest))
}

func TestIllegalOwnership(t *testing.T) {
	env := newTestEnv(t)
	tw := newTestWallet(2)

	// a wallet of another program instance stored at this address
	foreign := &Wallet{
		Initialized: true,
		Program:     "another",
		Creator:     tw.creator.Address(),
		Seed:        tw.seed,
		Owners:      tw.ownerAddrs(),
		Threshold:   2,
		Proposal:    &Proposal{Settled: true},
	}
	assert.Nil(t, NewBucket().Put(env.db, tw.addr, foreign))

	err := env.run(tw.setThreshold(0, 2), tw.owners[0])
	assert.IsErr(t, ErrIllegalOwnership, err)
}

func TestMessageRouting(t *testing.T) {
	env := newTestEnv(t)
	paths := []string{
		"wallet/create",
		"wallet/propose",
		"wallet/confirm",
		"wallet/reject",
		"wallet/execute",
		"wallet/cancel",
	}
	for _, p := range paths {
		if _, ok := env.handlers[p]; !ok {
			t.Errorf("no handler registered for %q", p)
		}
	}
	assert.Equal(t, len(paths), len(env.handlers))
}
