package wallet

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
)

func TestMsgValidate(t *testing.T) {
	tw := newTestWallet(2)
	dest := custodytest.NewCondition().Address()

	cases := map[string]struct {
		msg     custody.Msg
		wantErr *errors.Error
	}{
		"valid create": {
			msg: tw.createMsg(2),
		},
		"create with a payer": {
			msg: func() custody.Msg {
				m := tw.createMsg(2)
				m.Payer = dest
				return m
			}(),
		},
		"create with an invalid payer": {
			msg: func() custody.Msg {
				m := tw.createMsg(2)
				m.Payer = custody.Address("short")
				return m
			}(),
			wantErr: errors.ErrInput,
		},
		"create without creator": {
			msg: func() custody.Msg {
				m := tw.createMsg(2)
				m.Creator = nil
				return m
			}(),
			wantErr: errors.ErrEmpty,
		},
		"create without wallet": {
			msg: func() custody.Msg {
				m := tw.createMsg(2)
				m.Wallet = nil
				return m
			}(),
			wantErr: errors.ErrEmpty,
		},
		"create with an invalid owner": {
			msg: func() custody.Msg {
				m := tw.createMsg(2)
				m.Owners[1] = nil
				return m
			}(),
			wantErr: errors.ErrEmpty,
		},
		"valid transfer": {
			msg: tw.transfer(0, dest, 1),
		},
		"transfer without destination": {
			msg:     tw.transfer(0, nil, 1),
			wantErr: errors.ErrEmpty,
		},
		"proposal of unknown kind": {
			msg: func() custody.Msg {
				m := tw.setThreshold(0, 2)
				m.Kind = 3
				return m
			}(),
			wantErr: errors.ErrInput,
		},
		"proposal with an invalid candidate": {
			msg:     tw.setOwners(0, dest, custody.Address("x")),
			wantErr: errors.ErrInput,
		},
		"valid confirm": {
			msg: tw.confirm(1),
		},
		"confirm without owner": {
			msg: func() custody.Msg {
				m := tw.confirm(1)
				m.Owner = nil
				return m
			}(),
			wantErr: errors.ErrEmpty,
		},
		"reject with a short seed": {
			msg: func() custody.Msg {
				m := tw.reject(1)
				m.Seed = m.Seed[:10]
				return m
			}(),
			wantErr: errors.ErrInput,
		},
		"valid execute": {
			msg: tw.execute(0, nil),
		},
		"execute with an invalid destination": {
			msg:     tw.execute(0, custody.Address{1, 2, 3}),
			wantErr: errors.ErrInput,
		},
		"valid cancel": {
			msg: tw.cancel(0),
		},
		"cancel without seed": {
			msg: func() custody.Msg {
				m := tw.cancel(0)
				m.Seed = nil
				return m
			}(),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
		})
	}
}

func TestCreateTransactionMsgAction(t *testing.T) {
	tw := newTestWallet(2)
	dest := custodytest.NewCondition().Address()

	action, err := tw.transfer(0, dest, 44).Action()
	assert.Nil(t, err)
	assert.Equal(t, TransferAction{Destination: dest, Amount: 44}, action)

	action, err = tw.setThreshold(0, 3).Action()
	assert.Nil(t, err)
	assert.Equal(t, SetThresholdAction{Threshold: 3}, action)
}

func TestCreateWalletMsgFunder(t *testing.T) {
	tw := newTestWallet(2)
	m := tw.createMsg(2)
	assert.Equal(t, tw.creator.Address(), m.funder())

	payer := custodytest.NewCondition().Address()
	m.Payer = payer
	assert.Equal(t, payer, m.funder())
}
