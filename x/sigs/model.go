package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is the greatest nonce a javascript client can represent
// without loss, Number.MAX_SAFE_INTEGER.
const maxSequenceValue = (1 << 53) - 1

// UserData is the state kept for every public key that signed at least one
// transaction.
type UserData struct {
	Pubkey   *crypto.PublicKey `protobuf:"bytes,1,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64             `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

func (m *UserData) Reset()         { *m = UserData{} }
func (m *UserData) String() string { return proto.CompactTextString(m) }
func (*UserData) ProtoMessage()    {}

var _ orm.Model = (*UserData)(nil)

// Validate ensures the user data is consistent.
func (u *UserData) Validate() error {
	var errs error
	if u.Pubkey == nil {
		errs = errors.Append(errs, errors.Field("Pubkey", errors.ErrEmpty, "required"))
	} else {
		errs = errors.AppendField(errs, "Pubkey", u.Pubkey.Validate())
	}
	if u.Sequence < 0 {
		errs = errors.Append(errs, errors.Field("Sequence", errors.ErrInput, "negative"))
	}
	return errs
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(errors.ErrUnauthorized, "sequence mismatch: expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// NewBucket returns the bucket that keeps UserData under the address of the
// public key.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// getOrCreate loads the user data of given key. A fresh record with the zero
// sequence is returned for a key that never signed before.
func getOrCreate(db custody.ReadOnlyKVStore, b orm.ModelBucket, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// NextNonce returns the numeric nonce value that should be used by the next
// signature of the signer. Nonce counting starts with zero.
// You can get the signers address by calling
//
//	address := <crypto.Signer>.PublicKey().Address()
func NextNonce(db custody.ReadOnlyKVStore, signer custody.Address) (int64, error) {
	var user UserData
	switch err := NewBucket().One(db, signer, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket get")
	}
}
