package cash

import (
	"math"
	"testing"

	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

func TestController(t *testing.T) {
	a := custodytest.NewCondition().Address()
	b := custodytest.NewCondition().Address()

	cases := map[string]struct {
		issue   map[string]uint64
		amount  uint64
		wantErr *errors.Error
		wantSrc uint64
		wantDst uint64
	}{
		"move part of the balance": {
			issue:   map[string]uint64{string(a): 100},
			amount:  40,
			wantSrc: 60,
			wantDst: 40,
		},
		"move everything": {
			issue:   map[string]uint64{string(a): 100},
			amount:  100,
			wantSrc: 0,
			wantDst: 100,
		},
		"move to an existing balance": {
			issue:   map[string]uint64{string(a): 100, string(b): 5},
			amount:  10,
			wantSrc: 90,
			wantDst: 15,
		},
		"insufficient funds": {
			issue:   map[string]uint64{string(a): 10},
			amount:  11,
			wantErr: errors.ErrInsufficientAmount,
			wantSrc: 10,
		},
		"unknown source": {
			amount:  1,
			wantErr: errors.ErrInsufficientAmount,
		},
		"zero amount": {
			issue:   map[string]uint64{string(a): 10},
			amount:  0,
			wantErr: errors.ErrAmount,
			wantSrc: 10,
		},
		"destination overflow": {
			issue:   map[string]uint64{string(a): 10, string(b): math.MaxUint64 - 5},
			amount:  6,
			wantErr: errors.ErrOverflow,
			wantSrc: 10,
			wantDst: math.MaxUint64 - 5,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.NewMemStore()
			c := NewController()
			for addr, amount := range tc.issue {
				assert.Nil(t, c.IssueCoins(db, []byte(addr), amount))
			}

			// a failed move may leave a partial write, the caller discards it
			cache := db.CacheWrap()
			err := c.MoveCoins(cache, a, b, tc.amount)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %q", tc.wantErr, err)
			}
			if err == nil {
				assert.Nil(t, cache.Write())
			} else {
				cache.Discard()
			}

			gotSrc, err := c.Balance(db, a)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantSrc, gotSrc)
			gotDst, err := c.Balance(db, b)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantDst, gotDst)
		})
	}
}

func TestEmptyBalanceIsRemoved(t *testing.T) {
	db := store.NewMemStore()
	c := NewController()
	a := custodytest.NewCondition().Address()
	b := custodytest.NewCondition().Address()

	assert.Nil(t, c.IssueCoins(db, a, 7))
	assert.Nil(t, c.MoveCoins(db, a, b, 7))

	err := NewBucket().Has(db, a)
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.Nil(t, NewBucket().Has(db, b))
}

func TestIssueOverflow(t *testing.T) {
	db := store.NewMemStore()
	c := NewController()
	a := custodytest.NewCondition().Address()

	assert.Nil(t, c.IssueCoins(db, a, math.MaxUint64))
	assert.IsErr(t, errors.ErrOverflow, c.IssueCoins(db, a, 1))
	assert.IsErr(t, errors.ErrAmount, c.IssueCoins(db, a, 0))

	got, err := c.Balance(db, a)
	assert.Nil(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got)
}
