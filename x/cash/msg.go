package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	pathSendMsg  = "cash/send"
	pathIssueMsg = "cash/issue"

	maxMemoSize = 128
)

// SendMsg moves tokens from the source to the destination.
type SendMsg struct {
	Source      custody.Address `protobuf:"bytes,1,opt,name=source,proto3,casttype=github.com/iov-one/custody.Address" json:"source,omitempty"`
	Destination custody.Address `protobuf:"bytes,2,opt,name=destination,proto3,casttype=github.com/iov-one/custody.Address" json:"destination,omitempty"`
	Amount      uint64          `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string          `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (m *SendMsg) Reset()         { *m = SendMsg{} }
func (m *SendMsg) String() string { return proto.CompactTextString(m) }
func (*SendMsg) ProtoMessage()    {}

var _ custody.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "cannot be longer than %d", maxMemoSize))
	}
	return errs
}

// IssueMsg creates new tokens on the destination account. Only the
// configured minter can issue.
type IssueMsg struct {
	Destination custody.Address `protobuf:"bytes,1,opt,name=destination,proto3,casttype=github.com/iov-one/custody.Address" json:"destination,omitempty"`
	Amount      uint64          `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *IssueMsg) Reset()         { *m = IssueMsg{} }
func (m *IssueMsg) String() string { return proto.CompactTextString(m) }
func (*IssueMsg) ProtoMessage()    {}

var _ custody.Msg = (*IssueMsg)(nil)

// Path returns the routing path for this message
func (IssueMsg) Path() string {
	return pathIssueMsg
}

// Validate makes sure that this is sensible
func (m *IssueMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}
