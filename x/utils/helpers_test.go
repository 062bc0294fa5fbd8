package utils

import (
	"context"

	"github.com/iov-one/custody"
)

// writeHandler writes the key, value pair and returns the error (may be nil)
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ custody.Handler = writeHandler{}

func (h writeHandler) Check(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &custody.CheckResult{}, nil
}

func (h writeHandler) Deliver(ctx context.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &custody.DeliverResult{}, nil
}

// panicHandler always panics with the given value
type panicHandler struct {
	value interface{}
}

var _ custody.Handler = panicHandler{}

func (p panicHandler) Check(context.Context, custody.KVStore, custody.Tx) (*custody.CheckResult, error) {
	panic(p.value)
}

func (p panicHandler) Deliver(context.Context, custody.KVStore, custody.Tx) (*custody.DeliverResult, error) {
	panic(p.value)
}
