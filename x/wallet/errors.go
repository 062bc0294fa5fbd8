package wallet

import (
	"github.com/iov-one/custody/errors"
)

// Wallet errors reserve codes 1100 ~ 1199.
var (
	ErrInvalidThreshold      = errors.Register(1100, "invalid threshold")
	ErrInvalidOwnersLength   = errors.Register(1101, "invalid owners length")
	ErrInvalidOwner          = errors.Register(1102, "not a wallet owner")
	ErrUninitializedAccount  = errors.Register(1103, "wallet not initialized")
	ErrAlreadyInitialized    = errors.Register(1104, "wallet already initialized")
	ErrInvalidDerivedAddress = errors.Register(1105, "invalid derived address")
	ErrUnexpectedTransaction = errors.Register(1106, "unexpected transaction")
	ErrAlreadyVoted          = errors.Register(1107, "already voted")
	ErrNotEnoughApprovals    = errors.Register(1108, "not enough approvals")
	ErrDestinationMismatch   = errors.Register(1109, "destination mismatch")
	ErrInsufficientFunds     = errors.Register(1110, "insufficient funds")
	ErrInvalidAmount         = errors.Register(1111, "invalid amount")
	ErrMissingSignature      = errors.Register(1112, "missing signature")
	ErrIllegalOwnership      = errors.Register(1113, "illegal ownership")
)
