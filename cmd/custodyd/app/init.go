package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/wallet"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultMaxIssue is the largest amount a single issue can create when the
// genesis is generated by GenInitOptions.
const DefaultMaxIssue uint64 = 1000000000000

// GenesisState is the app_state written into the tendermint genesis file.
type GenesisState struct {
	Conf   GenesisConf            `json:"conf"`
	Cash   []cash.GenesisAccount  `json:"cash"`
	Wallet []wallet.GenesisWallet `json:"wallet"`
}

// GenesisConf holds the configuration of every extension.
type GenesisConf struct {
	Cash   cash.Configuration   `json:"cash"`
	Wallet wallet.Configuration `json:"wallet"`
}

// GenInitOptions will produce the genesis app state with the given address
// as the minter. When no address is given a new key is generated and
// printed, so that the operator can issue tokens in dev mode.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var minter custody.Address
	if len(args) > 0 {
		addr, err := custody.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "minter")
		}
		minter = addr
	} else {
		addr, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		minter = addr
		fmt.Println(keys)
	}

	state := GenesisState{
		Conf: GenesisConf{
			Cash: cash.Configuration{
				Minter:   minter,
				MaxIssue: DefaultMaxIssue,
			},
			Wallet: wallet.Configuration{
				Program: wallet.DefaultProgram,
			},
		},
		Cash:   []cash.GenesisAccount{},
		Wallet: []wallet.GenesisWallet{},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

// GenerateApp builds the application served by the start command. An empty
// home keeps the state in memory.
func GenerateApp(home string, cacheSize int, logger log.Logger, reg prometheus.Registerer, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "custody.db")
	}

	application, err := Application(Name, Stack(reg), dbPath, cacheSize, debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
func GenerateCoinKey() (custody.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return addr, string(keys), nil
}
