package x

import (
	"context"

	"github.com/iov-one/custody"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled.
	GetConditions(context.Context) []custody.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(context.Context, custody.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx context.Context) []custody.Condition {
	var res []custody.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx context.Context, addr custody.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MissingSigner returns the first of the required addresses that did not
// authorize the transaction, or nil when all of them did. Empty addresses
// are skipped, so an optional party can be passed as it is.
func MissingSigner(ctx context.Context, auth Authenticator, required ...custody.Address) custody.Address {
	for _, r := range required {
		if len(r) == 0 {
			continue
		}
		if !auth.HasAddress(ctx, r) {
			return r
		}
	}
	return nil
}
