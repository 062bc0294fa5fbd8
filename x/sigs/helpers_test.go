package sigs

import (
	"context"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
)

// stdTx is a signed transaction carrying an opaque payload.
type stdTx struct {
	payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*stdTx)(nil)
var _ custody.Tx = (*stdTx)(nil)

func newStdTx(payload []byte) *stdTx {
	return &stdTx{payload: payload}
}

func (tx *stdTx) GetMsg() (custody.Msg, error) {
	return &custodytest.Msg{RoutePath: "test/sigs"}, nil
}

func (tx *stdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *stdTx) GetSignBytes() ([]byte, error) {
	return tx.payload, nil
}

func (tx *stdTx) Reset()         { *tx = stdTx{} }
func (tx *stdTx) String() string { return "sigs.stdTx" }
func (*stdTx) ProtoMessage()     {}

// sigCheckHandler stores the seen signers on each call
type sigCheckHandler struct {
	Signers []custody.Condition
}

var _ custody.Handler = (*sigCheckHandler)(nil)

func (s *sigCheckHandler) Check(ctx context.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &custody.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx context.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &custody.DeliverResult{}, nil
}
