package app

import (
	"context"
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
)

func TestRouter(t *testing.T) {
	var (
		ctx    = context.Background()
		r      = NewRouter()
		good   = &custodytest.Handler{}
		failed = &custodytest.Handler{
			CheckErr:   errors.ErrState.New("check"),
			DeliverErr: errors.ErrState.New("deliver"),
		}
	)
	r.Handle("wallet/good", good)
	r.Handle("wallet/failed", failed)

	// invalid registrations panic
	assert.Panics(t, func() { r.Handle("wallet/good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })
	assert.Panics(t, func() { r.Handle("", good) })

	tx := func(path string) *custodytest.Tx {
		return &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: path}}
	}

	_, err := r.Check(ctx, nil, tx("wallet/good"))
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, nil, tx("wallet/good"))
	assert.Nil(t, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(ctx, nil, tx("wallet/failed"))
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, 1, failed.DeliverCallCount())

	_, err = r.Check(ctx, nil, tx("wallet/missing"))
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(ctx, nil, tx("wallet/missing"))
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(ctx, nil, &custodytest.Tx{Err: errors.ErrMsg.New("broken")})
	assert.IsErr(t, errors.ErrMsg, err)
}
