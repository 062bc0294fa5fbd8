/*
Package app links together all the various components
to construct the custodyd app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/utils"
	"github.com/iov-one/custody/x/wallet"
	"github.com/prometheus/client_golang/prometheus"
)

// Name is reported by the ABCI info call.
const Name = "custody"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain(reg prometheus.Registerer) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		// metrics wrap recovery so panicked txs are counted
		utils.NewMetrics(reg),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the cash and wallet handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	control := cash.NewController()
	cash.RegisterRoutes(r, authFn, control)
	wallet.RegisterRoutes(r, authFn, control)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/auth", "/balances" and "/wallets"
func QueryRouter() custody.QueryRouter {
	r := custody.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		cash.RegisterQuery,
		wallet.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(reg prometheus.Registerer) custody.Handler {
	authFn := Authenticator()
	return Chain(reg).WithHandler(Router(authFn))
}

// Initializers loads the genesis of every extension.
func Initializers() custody.Initializer {
	return custody.ChainInitializers{
		cash.Initializer{},
		wallet.Initializer{},
	}
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h custody.Handler, dbPath string, cacheSize int, debug bool) (app.BaseApp, error) {
	ctx := context.Background()
	kv, err := CommitKVStore(dbPath, cacheSize)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx).WithInit(Initializers())
	return app.NewBaseApp(store, TxDecoder, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string, cacheSize int) (custody.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	kv, err := iavl.NewCommitStore(dir, name, cacheSize)
	if err != nil {
		return nil, err
	}
	return kv, nil
}
