package app

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxGetMsg(t *testing.T) {
	addr := custodytest.NewCondition().Address()
	send := &cash.SendMsg{Source: addr, Destination: addr, Amount: 1}
	cancel := &wallet.CancelTransactionMsg{Owner: addr}

	cases := map[string]struct {
		tx      *Tx
		wantMsg custody.Msg
		wantErr *errors.Error
	}{
		"no message": {
			tx:      &Tx{},
			wantErr: errors.ErrState,
		},
		"single cash message": {
			tx:      &Tx{SendMsg: send},
			wantMsg: send,
		},
		"single wallet message": {
			tx:      &Tx{CancelTransactionMsg: cancel},
			wantMsg: cancel,
		},
		"two messages": {
			tx:      &Tx{SendMsg: send, CancelTransactionMsg: cancel},
			wantErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg, err := tc.tx.GetMsg()
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantMsg, msg)
		})
	}
}

func TestTxSetMsg(t *testing.T) {
	addr := custodytest.NewCondition().Address()
	sig := &sigs.StdSignature{Sequence: 3}
	tx := &Tx{Signatures: []*sigs.StdSignature{sig}}

	require.NoError(t, tx.SetMsg(&cash.IssueMsg{Destination: addr, Amount: 5}))
	require.NoError(t, tx.SetMsg(&wallet.ConfirmTransactionMsg{Owner: addr}))

	msg, err := tx.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, "wallet/confirm", msg.Path())
	assert.Nil(t, tx.IssueMsg)
	assert.Equal(t, []*sigs.StdSignature{sig}, tx.Signatures)

	err = tx.SetMsg(&custodytest.Msg{RoutePath: "foo/bar"})
	assert.True(t, errors.ErrType.Is(err))
}

func TestTxDecoder(t *testing.T) {
	addr := custodytest.NewCondition().Address()
	tx := &Tx{IssueMsg: &cash.IssueMsg{Destination: addr, Amount: 5}}
	bz, err := tx.Marshal()
	require.NoError(t, err)

	decoded, err := TxDecoder(bz)
	require.NoError(t, err)
	msg, err := decoded.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, tx.IssueMsg, msg)

	_, err = TxDecoder([]byte{0xff, 0xff, 0xff})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestTxSignatures(t *testing.T) {
	key := crypto.GenPrivKeyEd25519()
	addr := key.PublicKey().Address()
	tx := &Tx{SendMsg: &cash.SendMsg{Source: addr, Destination: addr, Amount: 1}}

	unsigned, err := tx.GetSignBytes()
	require.NoError(t, err)

	sig, err := sigs.SignTx(key, tx, "custody-chain", 0)
	require.NoError(t, err)
	tx.Signatures = append(tx.Signatures, sig)

	signed, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, unsigned, signed)
	assert.Len(t, tx.GetSignatures(), 1)

	toSign, err := sigs.BuildSignBytesTx(tx, "custody-chain", 0)
	require.NoError(t, err)
	assert.True(t, key.PublicKey().Verify(toSign, sig.Signature))
}
