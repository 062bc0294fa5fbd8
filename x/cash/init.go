package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
// The address is in any form understood by custody.ParseAddress.
type GenesisAccount struct {
	Address custody.Address `json:"address"`
	Amount  uint64          `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database. The ledger configuration is optional, without
// it nobody can issue.
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	var conf Configuration
	switch err := gconf.InitConfig(kv, opts, confPkg, &conf); {
	case err == nil, errors.ErrNotFound.Is(err):
	default:
		return errors.Wrap(err, "init configuration")
	}

	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot parse cash genesis: "+err.Error())
	}
	control := NewController()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if acct.Amount == 0 {
			continue
		}
		if err := control.IssueCoins(kv, acct.Address, acct.Amount); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
