package wallet

import (
	"encoding/hex"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const optKey = "wallet"

// GenesisWallet is a wallet created from the genesis file. The seed is hex
// encoded.
type GenesisWallet struct {
	Creator   custody.Address   `json:"creator"`
	Seed      string            `json:"seed"`
	Owners    []custody.Address `json:"owners"`
	Threshold uint32            `json:"threshold"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis stores the program configuration and creates all wallets
// declared in the genesis. Wallets are validated exactly as CreateWalletMsg
// is.
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	conf := Configuration{}
	switch err := gconf.InitConfig(kv, opts, confPkg, &conf); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		conf.Program = DefaultProgram
		if err := gconf.Save(kv, confPkg, &conf); err != nil {
			return errors.Wrap(err, "save default configuration")
		}
	default:
		return errors.Wrap(err, "init configuration")
	}

	var wallets []GenesisWallet
	if err := opts.ReadOptions(optKey, &wallets); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot parse wallet genesis: "+err.Error())
	}
	bucket := NewBucket()
	for i, gw := range wallets {
		seed, err := hex.DecodeString(gw.Seed)
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "wallet %d: seed is not hex", i)
		}
		if len(seed) != SeedLength {
			return errors.Wrapf(errors.ErrInput, "wallet %d: seed must be %d bytes", i, SeedLength)
		}
		if err := gw.Creator.Validate(); err != nil {
			return errors.Wrapf(err, "wallet %d: creator", i)
		}
		if err := validateOwnership(gw.Owners, gw.Threshold); err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
		addr := DeriveAddress(conf.Program, gw.Creator, seed)
		if err := bucket.Has(kv, addr); err == nil {
			return errors.Wrapf(ErrAlreadyInitialized, "wallet %d at %s", i, addr)
		}
		w := &Wallet{
			Initialized: true,
			Program:     conf.Program,
			Creator:     gw.Creator,
			Seed:        seed,
			Owners:      gw.Owners,
			Threshold:   gw.Threshold,
			Proposal:    &Proposal{Settled: true},
		}
		if err := bucket.Put(kv, addr, w); err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
	}
	return nil
}
