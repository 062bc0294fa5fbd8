package wallet

import (
	"fmt"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const (
	// BucketName is where the wallets are stored.
	BucketName = "wallet"

	minOwners    = 2
	maxOwners    = 3
	minThreshold = 2
	maxThreshold = 3

	maxProgramLength = 32
)

var isProgramID = regexp.MustCompile(`^[a-z0-9_\-]{1,32}$`).MatchString

// ProposalKind tells which action a proposal performs on execution.
type ProposalKind int32

const (
	SetOwners    ProposalKind = 0
	SetThreshold ProposalKind = 1
	Transfer     ProposalKind = 2
)

var proposalKindName = map[int32]string{
	0: "SET_OWNERS",
	1: "SET_THRESHOLD",
	2: "TRANSFER",
}

var proposalKindValue = map[string]int32{
	"SET_OWNERS":    0,
	"SET_THRESHOLD": 1,
	"TRANSFER":      2,
}

func init() {
	proto.RegisterEnum("wallet.ProposalKind", proposalKindName, proposalKindValue)
}

func (k ProposalKind) String() string {
	if name, ok := proposalKindName[int32(k)]; ok {
		return name
	}
	return fmt.Sprintf("ProposalKind(%d)", int32(k))
}

// Validate returns an error if the kind is not known.
func (k ProposalKind) Validate() error {
	if _, ok := proposalKindName[int32(k)]; !ok {
		return errors.Wrapf(errors.ErrInput, "unknown proposal kind %d", int32(k))
	}
	return nil
}

// Wallet is the persisted state of a single custody wallet.
type Wallet struct {
	Initialized bool `protobuf:"varint,1,opt,name=initialized,proto3" json:"initialized,omitempty"`
	// Program is the instance id of the application owning this wallet.
	Program   string            `protobuf:"bytes,2,opt,name=program,proto3" json:"program,omitempty"`
	Creator   custody.Address   `protobuf:"bytes,3,opt,name=creator,proto3,casttype=github.com/iov-one/custody.Address" json:"creator,omitempty"`
	Seed      []byte            `protobuf:"bytes,4,opt,name=seed,proto3" json:"seed,omitempty"`
	Owners    []custody.Address `protobuf:"bytes,5,rep,name=owners,proto3,casttype=github.com/iov-one/custody.Address" json:"owners,omitempty"`
	Threshold uint32            `protobuf:"varint,6,opt,name=threshold,proto3" json:"threshold,omitempty"`
	Proposal  *Proposal         `protobuf:"bytes,7,opt,name=proposal,proto3" json:"proposal,omitempty"`
}

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

// Proposal is the single in flight, or the last settled, action of a wallet.
type Proposal struct {
	Settled            bool              `protobuf:"varint,1,opt,name=settled,proto3" json:"settled,omitempty"`
	Kind               ProposalKind      `protobuf:"varint,2,opt,name=kind,proto3,enum=wallet.ProposalKind" json:"kind,omitempty"`
	CandidateOwners    []custody.Address `protobuf:"bytes,3,rep,name=candidate_owners,json=candidateOwners,proto3,casttype=github.com/iov-one/custody.Address" json:"candidate_owners,omitempty"`
	CandidateThreshold uint32            `protobuf:"varint,4,opt,name=candidate_threshold,json=candidateThreshold,proto3" json:"candidate_threshold,omitempty"`
	Destination        custody.Address   `protobuf:"bytes,5,opt,name=destination,proto3,casttype=github.com/iov-one/custody.Address" json:"destination,omitempty"`
	Amount             uint64            `protobuf:"varint,6,opt,name=amount,proto3" json:"amount,omitempty"`
	// Signers are the owners that approve the proposal.
	Signers []custody.Address `protobuf:"bytes,7,rep,name=signers,proto3,casttype=github.com/iov-one/custody.Address" json:"signers,omitempty"`
	// Opponents are the owners that reject the proposal.
	Opponents []custody.Address `protobuf:"bytes,8,rep,name=opponents,proto3,casttype=github.com/iov-one/custody.Address" json:"opponents,omitempty"`
}

func (m *Proposal) Reset()         { *m = Proposal{} }
func (m *Proposal) String() string { return proto.CompactTextString(m) }
func (*Proposal) ProtoMessage()    {}

var _ orm.Model = (*Wallet)(nil)

// MaxWalletSize is the encoded size of the largest wallet that can ever be
// stored. Every field of a wallet is bounded, so a wallet that passes
// validation always fits.
var MaxWalletSize = proto.Size(largestWallet())

func largestWallet() *Wallet {
	addrs := func(n int, fill byte) []custody.Address {
		res := make([]custody.Address, n)
		for i := range res {
			res[i] = make(custody.Address, custody.AddressLength)
			for j := range res[i] {
				res[i][j] = fill
			}
		}
		return res
	}
	program := make([]byte, maxProgramLength)
	for i := range program {
		program[i] = 'x'
	}
	return &Wallet{
		Initialized: true,
		Program:     string(program),
		Creator:     addrs(1, 1)[0],
		Seed:        make([]byte, SeedLength),
		Owners:      addrs(maxOwners, 2),
		Threshold:   maxThreshold,
		Proposal: &Proposal{
			Settled:            true,
			Kind:               Transfer,
			CandidateOwners:    addrs(maxOwners, 3),
			CandidateThreshold: maxThreshold,
			Destination:        addrs(1, 4)[0],
			Amount:             ^uint64(0),
			Signers:            addrs(maxOwners, 5),
			Opponents:          addrs(maxOwners, 6),
		},
	}
}

// Address returns the derived address of this wallet.
func (w *Wallet) Address() custody.Address {
	return DeriveAddress(w.Program, w.Creator, w.Seed)
}

// IsOwner returns true if given address belongs to the owner set.
func (w *Wallet) IsOwner(addr custody.Address) bool {
	return containsAddr(w.Owners, addr)
}

// Validate ensures the wallet holds every invariant. It is called before each
// write, so an invalid wallet is never persisted.
func (w *Wallet) Validate() error {
	if !w.Initialized {
		return errors.Wrap(errors.ErrState, "wallet must be initialized")
	}
	if !isProgramID(w.Program) {
		return errors.Wrapf(errors.ErrInput, "invalid program id %q", w.Program)
	}
	if err := w.Creator.Validate(); err != nil {
		return errors.Wrap(err, "creator")
	}
	if len(w.Seed) != SeedLength {
		return errors.Wrapf(errors.ErrInput, "seed must be %d bytes", SeedLength)
	}
	if err := validateOwnership(w.Owners, w.Threshold); err != nil {
		return err
	}
	if w.Proposal == nil {
		return errors.Wrap(errors.ErrEmpty, "proposal")
	}
	if err := w.Proposal.validate(w); err != nil {
		return errors.Wrap(err, "proposal")
	}
	if size := proto.Size(w); size > MaxWalletSize {
		return errors.Wrapf(errors.ErrState, "wallet size %d exceeds %d", size, MaxWalletSize)
	}
	return nil
}

// validateThreshold checks the threshold range and that the owner count can
// meet it.
func validateThreshold(threshold uint32, owners int) error {
	if threshold < minThreshold || threshold > maxThreshold {
		return errors.Wrapf(ErrInvalidThreshold, "threshold must be between %d and %d", minThreshold, maxThreshold)
	}
	if int(threshold) > owners {
		return errors.Wrapf(ErrInvalidThreshold, "threshold %d greater than %d owners", threshold, owners)
	}
	return nil
}

// validateOwners checks that the owner set can meet the threshold, fits the
// wallet and has no duplicates.
func validateOwners(owners []custody.Address, threshold uint32) error {
	switch n := len(owners); {
	case n < minOwners, n < int(threshold):
		return errors.Wrapf(ErrInvalidOwnersLength, "%d owners cannot meet threshold %d", n, threshold)
	case n > maxOwners:
		return errors.Wrapf(ErrInvalidOwnersLength, "at most %d owners allowed", maxOwners)
	}
	for i, o := range owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(err, "owner %d", i)
		}
		if containsAddr(owners[:i], o) {
			return errors.Wrapf(ErrInvalidOwnersLength, "duplicated owner %s", o)
		}
	}
	return nil
}

// validateOwnership checks the threshold range before the owner set.
func validateOwnership(owners []custody.Address, threshold uint32) error {
	if threshold < minThreshold || threshold > maxThreshold {
		return errors.Wrapf(ErrInvalidThreshold, "threshold must be between %d and %d", minThreshold, maxThreshold)
	}
	return validateOwners(owners, threshold)
}

func (p *Proposal) validate(w *Wallet) error {
	if err := p.Kind.Validate(); err != nil {
		return err
	}
	if err := validateVoters(w.Owners, p.Signers, p.Opponents); err != nil {
		return err
	}
	if len(p.Destination) != 0 {
		if err := p.Destination.Validate(); err != nil {
			return errors.Wrap(err, "destination")
		}
		if p.Destination.Equals(w.Address()) {
			return errors.Wrap(ErrDestinationMismatch, "destination is the wallet itself")
		}
	}

	if p.Settled {
		if len(p.Signers) != 0 || len(p.Opponents) != 0 || len(p.CandidateOwners) != 0 ||
			p.CandidateThreshold != 0 || p.Amount != 0 {
			return errors.Wrap(errors.ErrState, "settled proposal must be neutral")
		}
		return nil
	}

	switch p.Kind {
	case SetOwners:
		return validateOwners(p.CandidateOwners, w.Threshold)
	case SetThreshold:
		return validateThreshold(p.CandidateThreshold, len(w.Owners))
	case Transfer:
		if p.Amount == 0 {
			return errors.Wrap(ErrInvalidAmount, "transfer amount must be positive")
		}
		if len(p.Destination) == 0 {
			return errors.Wrap(errors.ErrEmpty, "transfer destination")
		}
	}
	return nil
}

// validateVoters ensures signers and opponents are disjoint sets of owners.
func validateVoters(owners, signers, opponents []custody.Address) error {
	for i, s := range signers {
		if !containsAddr(owners, s) {
			return errors.Wrapf(errors.ErrState, "signer %s is not an owner", s)
		}
		if containsAddr(signers[:i], s) {
			return errors.Wrapf(errors.ErrState, "duplicated signer %s", s)
		}
		if containsAddr(opponents, s) {
			return errors.Wrapf(errors.ErrState, "%s both signs and opposes", s)
		}
	}
	for i, o := range opponents {
		if !containsAddr(owners, o) {
			return errors.Wrapf(errors.ErrState, "opponent %s is not an owner", o)
		}
		if containsAddr(opponents[:i], o) {
			return errors.Wrapf(errors.ErrState, "duplicated opponent %s", o)
		}
	}
	return nil
}

// Pending returns true if the proposal waits for votes or execution.
func (p *Proposal) Pending() bool {
	return !p.Settled
}

// HasSigned returns true if given owner approves the proposal.
func (p *Proposal) HasSigned(addr custody.Address) bool {
	return containsAddr(p.Signers, addr)
}

// HasOpposed returns true if given owner rejects the proposal.
func (p *Proposal) HasOpposed(addr custody.Address) bool {
	return containsAddr(p.Opponents, addr)
}

// approve moves the owner into the signers, removing any rejection first.
func (p *Proposal) approve(addr custody.Address) {
	p.Opponents = removeAddr(p.Opponents, addr)
	p.Signers = append(removeAddr(p.Signers, addr), addr.Clone())
}

// oppose moves the owner into the opponents, removing any approval first.
func (p *Proposal) oppose(addr custody.Address) {
	p.Signers = removeAddr(p.Signers, addr)
	p.Opponents = append(removeAddr(p.Opponents, addr), addr.Clone())
}

// settle resets the proposal into the neutral state. Kind and destination of
// the last proposal are kept for reference.
func (p *Proposal) settle() {
	p.Settled = true
	p.Amount = 0
	p.CandidateOwners = nil
	p.CandidateThreshold = 0
	p.Signers = nil
	p.Opponents = nil
}

// Action is the payload of a proposal, a SetOwnersAction, a
// SetThresholdAction or a TransferAction.
type Action interface {
	Kind() ProposalKind
}

// SetOwnersAction replaces the owner set.
type SetOwnersAction struct {
	Owners []custody.Address
}

func (SetOwnersAction) Kind() ProposalKind { return SetOwners }

// SetThresholdAction replaces the threshold.
type SetThresholdAction struct {
	Threshold uint32
}

func (SetThresholdAction) Kind() ProposalKind { return SetThreshold }

// TransferAction moves value out of the wallet.
type TransferAction struct {
	Destination custody.Address
	Amount      uint64
}

func (TransferAction) Kind() ProposalKind { return Transfer }

// Action returns the payload of the proposal for its kind.
func (p *Proposal) Action() (Action, error) {
	switch p.Kind {
	case SetOwners:
		return SetOwnersAction{Owners: p.CandidateOwners}, nil
	case SetThreshold:
		return SetThresholdAction{Threshold: p.CandidateThreshold}, nil
	case Transfer:
		return TransferAction{Destination: p.Destination, Amount: p.Amount}, nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "unknown proposal kind %d", int32(p.Kind))
	}
}

// NewBucket returns the bucket that keeps wallets by their derived address,
// indexed by owner.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{},
		orm.WithIndex("owner", ownerIndexer))
}

func ownerIndexer(m orm.Model) ([][]byte, error) {
	w, ok := m.(*Wallet)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	res := make([][]byte, len(w.Owners))
	for i, o := range w.Owners {
		res[i] = o
	}
	return res, nil
}

func containsAddr(list []custody.Address, addr custody.Address) bool {
	for _, a := range list {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

func removeAddr(list []custody.Address, addr custody.Address) []custody.Address {
	res := list[:0]
	for _, a := range list {
		if !a.Equals(addr) {
			res = append(res, a)
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}
