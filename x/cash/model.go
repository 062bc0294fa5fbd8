package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where the balances are stored.
const BucketName = "cash"

// Balance is the amount of native tokens held by a single address.
type Balance struct {
	Amount uint64 `protobuf:"varint,1,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *Balance) Reset()         { *m = Balance{} }
func (m *Balance) String() string { return proto.CompactTextString(m) }
func (*Balance) ProtoMessage()    {}

var _ orm.Model = (*Balance)(nil)

// Validate returns an error for an empty balance. Empty balances are
// removed from the store instead of being saved.
func (m *Balance) Validate() error {
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "empty balance")
	}
	return nil
}

// NewBucket returns the bucket that keeps balances keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Balance{})
}
