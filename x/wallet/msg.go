package wallet

import (
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const (
	pathCreateWalletMsg       = "wallet/create"
	pathCreateTransactionMsg  = "wallet/propose"
	pathConfirmTransactionMsg = "wallet/confirm"
	pathRejectTransactionMsg  = "wallet/reject"
	pathExecuteTransactionMsg = "wallet/execute"
	pathCancelTransactionMsg  = "wallet/cancel"
)

// CreateWalletMsg creates a new wallet at the address derived from the
// creator and the seed.
type CreateWalletMsg struct {
	Creator   custody.Address   `protobuf:"bytes,1,opt,name=creator,proto3,casttype=github.com/iov-one/custody.Address" json:"creator,omitempty"`
	Seed      []byte            `protobuf:"bytes,2,opt,name=seed,proto3" json:"seed,omitempty"`
	Wallet    custody.Address   `protobuf:"bytes,3,opt,name=wallet,proto3,casttype=github.com/iov-one/custody.Address" json:"wallet,omitempty"`
	Owners    []custody.Address `protobuf:"bytes,4,rep,name=owners,proto3,casttype=github.com/iov-one/custody.Address" json:"owners,omitempty"`
	Threshold uint32            `protobuf:"varint,5,opt,name=threshold,proto3" json:"threshold,omitempty"`
	// Payer funds the deposit. When not set, the creator pays.
	Payer custody.Address `protobuf:"bytes,6,opt,name=payer,proto3,casttype=github.com/iov-one/custody.Address" json:"payer,omitempty"`
	// Deposit is moved into the new wallet.
	Deposit uint64 `protobuf:"varint,7,opt,name=deposit,proto3" json:"deposit,omitempty"`
}

func (m *CreateWalletMsg) Reset()         { *m = CreateWalletMsg{} }
func (m *CreateWalletMsg) String() string { return proto.CompactTextString(m) }
func (*CreateWalletMsg) ProtoMessage()    {}

var _ custody.Msg = (*CreateWalletMsg)(nil)

func (CreateWalletMsg) Path() string {
	return pathCreateWalletMsg
}

func (m *CreateWalletMsg) Validate() error {
	errs := validateTarget(m.Creator, m.Seed, m.Wallet)
	for i, o := range m.Owners {
		errs = errors.AppendField(errs, "Owners."+strconv.Itoa(i), o.Validate())
	}
	if len(m.Payer) != 0 {
		errs = errors.AppendField(errs, "Payer", m.Payer.Validate())
	}
	return errs
}

// funder returns the address that pays the deposit.
func (m *CreateWalletMsg) funder() custody.Address {
	if len(m.Payer) != 0 {
		return m.Payer
	}
	return m.Creator
}

// CreateTransactionMsg proposes a new action on the wallet. The proposing
// owner approves it implicitly.
type CreateTransactionMsg struct {
	Owner              custody.Address   `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/custody.Address" json:"owner,omitempty"`
	Creator            custody.Address   `protobuf:"bytes,2,opt,name=creator,proto3,casttype=github.com/iov-one/custody.Address" json:"creator,omitempty"`
	Seed               []byte            `protobuf:"bytes,3,opt,name=seed,proto3" json:"seed,omitempty"`
	Wallet             custody.Address   `protobuf:"bytes,4,opt,name=wallet,proto3,casttype=github.com/iov-one/custody.Address" json:"wallet,omitempty"`
	Kind               ProposalKind      `protobuf:"varint,5,opt,name=kind,proto3,enum=wallet.ProposalKind" json:"kind,omitempty"`
	CandidateOwners    []custody.Address `protobuf:"bytes,6,rep,name=candidate_owners,json=candidateOwners,proto3,casttype=github.com/iov-one/custody.Address" json:"candidate_owners,omitempty"`
	CandidateThreshold uint32            `protobuf:"varint,7,opt,name=candidate_threshold,json=candidateThreshold,proto3" json:"candidate_threshold,omitempty"`
	Destination        custody.Address   `protobuf:"bytes,8,opt,name=destination,proto3,casttype=github.com/iov-one/custody.Address" json:"destination,omitempty"`
	Amount             uint64            `protobuf:"varint,9,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *CreateTransactionMsg) Reset()         { *m = CreateTransactionMsg{} }
func (m *CreateTransactionMsg) String() string { return proto.CompactTextString(m) }
func (*CreateTransactionMsg) ProtoMessage()    {}

var _ custody.Msg = (*CreateTransactionMsg)(nil)

func (CreateTransactionMsg) Path() string {
	return pathCreateTransactionMsg
}

func (m *CreateTransactionMsg) Validate() error {
	errs := validateTarget(m.Creator, m.Seed, m.Wallet)
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Kind", m.Kind.Validate())
	for i, o := range m.CandidateOwners {
		errs = errors.AppendField(errs, "CandidateOwners."+strconv.Itoa(i), o.Validate())
	}
	if m.Kind == Transfer || len(m.Destination) != 0 {
		errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	}
	return errs
}

// Action returns the proposed payload.
func (m *CreateTransactionMsg) Action() (Action, error) {
	p := Proposal{
		Kind:               m.Kind,
		CandidateOwners:    m.CandidateOwners,
		CandidateThreshold: m.CandidateThreshold,
		Destination:        m.Destination,
		Amount:             m.Amount,
	}
	return p.Action()
}

// ConfirmTransactionMsg approves the pending proposal.
type ConfirmTransactionMsg struct {
	Owner   custody.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/custody.Address" json:"owner,omitempty"`
	Creator custody.Address `protobuf:"bytes,2,opt,name=creator,proto3,casttype=github.com/iov-one/custody.Address" json:"creator,omitempty"`
	Seed    []byte          `protobuf:"bytes,3,opt,name=seed,proto3" json:"seed,omitempty"`
	Wallet  custody.Address `protobuf:"bytes,4,opt,name=wallet,proto3,casttype=github.com/iov-one/custody.Address" json:"wallet,omitempty"`
}

func (m *ConfirmTransactionMsg) Reset()         { *m = ConfirmTransactionMsg{} }
func (m *ConfirmTransactionMsg) String() string { return proto.CompactTextString(m) }
func (*ConfirmTransactionMsg) ProtoMessage()    {}

var _ custody.Msg = (*ConfirmTransactionMsg)(nil)

func (ConfirmTransactionMsg) Path() string {
	return pathConfirmTransactionMsg
}

func (m *ConfirmTransactionMsg) Validate() error {
	errs := validateTarget(m.Creator, m.Seed, m.Wallet)
	return errors.AppendField(errs, "Owner", m.Owner.Validate())
}

// RejectTransactionMsg rejects the pending proposal.
type RejectTransactionMsg struct {
	Owner   custody.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/custody.Address" json:"owner,omitempty"`
	Creator custody.Address `protobuf:"bytes,2,opt,name=creator,proto3,casttype=github.com/iov-one/custody.Address" json:"creator,omitempty"`
	Seed    []byte          `protobuf:"bytes,3,opt,name=seed,proto3" json:"seed,omitempty"`
	Wallet  custody.Address `protobuf:"bytes,4,opt,name=wallet,proto3,casttype=github.com/iov-one/custody.Address" json:"wallet,omitempty"`
}

func (m *RejectTransactionMsg) Reset()         { *m = RejectTransactionMsg{} }
func (m *RejectTransactionMsg) String() string { return proto.CompactTextString(m) }
func (*RejectTransactionMsg) ProtoMessage()    {}

var _ custody.Msg = (*RejectTransactionMsg)(nil)

func (RejectTransactionMsg) Path() string {
	return pathRejectTransactionMsg
}

func (m *RejectTransactionMsg) Validate() error {
	errs := validateTarget(m.Creator, m.Seed, m.Wallet)
	return errors.AppendField(errs, "Owner", m.Owner.Validate())
}

// ExecuteTransactionMsg applies the pending proposal once it has enough
// approvals. A transfer must name the destination that was voted on.
type ExecuteTransactionMsg struct {
	Owner       custody.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/custody.Address" json:"owner,omitempty"`
	Creator     custody.Address `protobuf:"bytes,2,opt,name=creator,proto3,casttype=github.com/iov-one/custody.Address" json:"creator,omitempty"`
	Seed        []byte          `protobuf:"bytes,3,opt,name=seed,proto3" json:"seed,omitempty"`
	Wallet      custody.Address `protobuf:"bytes,4,opt,name=wallet,proto3,casttype=github.com/iov-one/custody.Address" json:"wallet,omitempty"`
	Destination custody.Address `protobuf:"bytes,5,opt,name=destination,proto3,casttype=github.com/iov-one/custody.Address" json:"destination,omitempty"`
}

func (m *ExecuteTransactionMsg) Reset()         { *m = ExecuteTransactionMsg{} }
func (m *ExecuteTransactionMsg) String() string { return proto.CompactTextString(m) }
func (*ExecuteTransactionMsg) ProtoMessage()    {}

var _ custody.Msg = (*ExecuteTransactionMsg)(nil)

func (ExecuteTransactionMsg) Path() string {
	return pathExecuteTransactionMsg
}

func (m *ExecuteTransactionMsg) Validate() error {
	errs := validateTarget(m.Creator, m.Seed, m.Wallet)
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	if len(m.Destination) != 0 {
		errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	}
	return errs
}

// CancelTransactionMsg drops the pending proposal without applying it.
type CancelTransactionMsg struct {
	Owner   custody.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/custody.Address" json:"owner,omitempty"`
	Creator custody.Address `protobuf:"bytes,2,opt,name=creator,proto3,casttype=github.com/iov-one/custody.Address" json:"creator,omitempty"`
	Seed    []byte          `protobuf:"bytes,3,opt,name=seed,proto3" json:"seed,omitempty"`
	Wallet  custody.Address `protobuf:"bytes,4,opt,name=wallet,proto3,casttype=github.com/iov-one/custody.Address" json:"wallet,omitempty"`
}

func (m *CancelTransactionMsg) Reset()         { *m = CancelTransactionMsg{} }
func (m *CancelTransactionMsg) String() string { return proto.CompactTextString(m) }
func (*CancelTransactionMsg) ProtoMessage()    {}

var _ custody.Msg = (*CancelTransactionMsg)(nil)

func (CancelTransactionMsg) Path() string {
	return pathCancelTransactionMsg
}

func (m *CancelTransactionMsg) Validate() error {
	errs := validateTarget(m.Creator, m.Seed, m.Wallet)
	return errors.AppendField(errs, "Owner", m.Owner.Validate())
}

// validateTarget checks the derivation inputs and the wallet address that
// every message carries.
func validateTarget(creator custody.Address, seed []byte, wallet custody.Address) error {
	var errs error
	errs = errors.AppendField(errs, "Creator", creator.Validate())
	if len(seed) != SeedLength {
		errs = errors.Append(errs, errors.Field("Seed", errors.ErrInput, "must be %d bytes", SeedLength))
	}
	errs = errors.AppendField(errs, "Wallet", wallet.Validate())
	return errs
}
