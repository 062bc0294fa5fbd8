package cash

import (
	"math"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// Controller is the functionality needed by cash.Handler.
// Extensions that move value, like wallets, depend on it as well.
type Controller interface {
	Balance(custody.ReadOnlyKVStore, custody.Address) (uint64, error)
	MoveCoins(db custody.KVStore, src, dest custody.Address, amount uint64) error
	IssueCoins(db custody.KVStore, dest custody.Address, amount uint64) error
}

// BaseController is a simple implementation of Controller.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the amount held by given address. An address that never
// received anything holds zero.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	var b Balance
	switch err := c.bucket.One(db, addr, &b); {
	case err == nil:
		return b.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "load balance")
	}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db custody.KVStore, src, dest custody.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	have, err := c.Balance(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if have < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "have %d, need %d", have, amount)
	}
	if err := c.save(db, src, have-amount); err != nil {
		return err
	}

	got, err := c.Balance(db, dest)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if got > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	return c.save(db, dest, got+amount)
}

// IssueCoins attempts to add the given amount of coins to the destination
// address. Fails if it overflows the balance.
func (c BaseController) IssueCoins(db custody.KVStore, dest custody.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	got, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	if got > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	return c.save(db, dest, got+amount)
}

func (c BaseController) save(db custody.KVStore, addr custody.Address, amount uint64) error {
	if amount == 0 {
		err := c.bucket.Delete(db, addr)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}
	return c.bucket.Put(db, addr, &Balance{Amount: amount})
}
