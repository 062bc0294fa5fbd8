package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/wallet"
)

// Tx is the envelope of every transaction accepted by the custody daemon.
// Exactly one of the message fields must be set.
type Tx struct {
	Signatures            []*sigs.StdSignature          `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	SendMsg               *cash.SendMsg                 `protobuf:"bytes,51,opt,name=send_msg,json=sendMsg,proto3" json:"send_msg,omitempty"`
	IssueMsg              *cash.IssueMsg                `protobuf:"bytes,52,opt,name=issue_msg,json=issueMsg,proto3" json:"issue_msg,omitempty"`
	CreateWalletMsg       *wallet.CreateWalletMsg       `protobuf:"bytes,61,opt,name=create_wallet_msg,json=createWalletMsg,proto3" json:"create_wallet_msg,omitempty"`
	CreateTransactionMsg  *wallet.CreateTransactionMsg  `protobuf:"bytes,62,opt,name=create_transaction_msg,json=createTransactionMsg,proto3" json:"create_transaction_msg,omitempty"`
	ConfirmTransactionMsg *wallet.ConfirmTransactionMsg `protobuf:"bytes,63,opt,name=confirm_transaction_msg,json=confirmTransactionMsg,proto3" json:"confirm_transaction_msg,omitempty"`
	RejectTransactionMsg  *wallet.RejectTransactionMsg  `protobuf:"bytes,64,opt,name=reject_transaction_msg,json=rejectTransactionMsg,proto3" json:"reject_transaction_msg,omitempty"`
	ExecuteTransactionMsg *wallet.ExecuteTransactionMsg `protobuf:"bytes,65,opt,name=execute_transaction_msg,json=executeTransactionMsg,proto3" json:"execute_transaction_msg,omitempty"`
	CancelTransactionMsg  *wallet.CancelTransactionMsg  `protobuf:"bytes,66,opt,name=cancel_transaction_msg,json=cancelTransactionMsg,proto3" json:"cancel_transaction_msg,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

// make sure tx fulfills all interfaces
var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (custody.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// Marshal serializes the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := proto.Marshal(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

// Unmarshal loads the transaction from its serialized form.
func (tx *Tx) Unmarshal(bz []byte) error {
	if err := proto.Unmarshal(bz, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (custody.Msg, error) {
	msgs := tx.messages()
	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrState, "no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d messages", len(msgs))
	}
}

// messages lists every message field that is set. Typed nil pointers are
// skipped.
func (tx *Tx) messages() []custody.Msg {
	var msgs []custody.Msg
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.IssueMsg != nil {
		msgs = append(msgs, tx.IssueMsg)
	}
	if tx.CreateWalletMsg != nil {
		msgs = append(msgs, tx.CreateWalletMsg)
	}
	if tx.CreateTransactionMsg != nil {
		msgs = append(msgs, tx.CreateTransactionMsg)
	}
	if tx.ConfirmTransactionMsg != nil {
		msgs = append(msgs, tx.ConfirmTransactionMsg)
	}
	if tx.RejectTransactionMsg != nil {
		msgs = append(msgs, tx.RejectTransactionMsg)
	}
	if tx.ExecuteTransactionMsg != nil {
		msgs = append(msgs, tx.ExecuteTransactionMsg)
	}
	if tx.CancelTransactionMsg != nil {
		msgs = append(msgs, tx.CancelTransactionMsg)
	}
	return msgs
}

// SetMsg stores the message in its field. Any previously set message is
// cleared, signatures are kept.
func (tx *Tx) SetMsg(msg custody.Msg) error {
	next := Tx{Signatures: tx.Signatures}
	switch m := msg.(type) {
	case *cash.SendMsg:
		next.SendMsg = m
	case *cash.IssueMsg:
		next.IssueMsg = m
	case *wallet.CreateWalletMsg:
		next.CreateWalletMsg = m
	case *wallet.CreateTransactionMsg:
		next.CreateTransactionMsg = m
	case *wallet.ConfirmTransactionMsg:
		next.ConfirmTransactionMsg = m
	case *wallet.RejectTransactionMsg:
		next.RejectTransactionMsg = m
	case *wallet.ExecuteTransactionMsg:
		next.ExecuteTransactionMsg = m
	case *wallet.CancelTransactionMsg:
		next.CancelTransactionMsg = m
	default:
		return errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	*tx = next
	return nil
}

// GetSignatures returns the signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}
