/*
Package client talks to a custody node over the tendermint rpc. It submits
transactions and runs the queries the command line tools need.
*/
package client

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/wallet"
	cmn "github.com/tendermint/tendermint/libs/common"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// Conn is the part of the tendermint rpc client used by Client. The
// tendermint HTTP client implements it.
type Conn interface {
	ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error)
	BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error)
	Genesis() (*ctypes.ResultGenesis, error)
}

var _ Conn = (*rpcclient.HTTP)(nil)

// NewHTTPConnection takes a URL and sends all requests to the remote node
func NewHTTPConnection(remote string) Conn {
	return rpcclient.NewHTTP(remote, "/websocket")
}

// Client is a tendermint client wrapped to provide
// simple access to the basic data structures used in custody
type Client struct {
	conn Conn
}

// NewClient wraps a Client around an existing tendermint client connection.
func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// CommitResult is returned from the block (DeliverTx)
type CommitResult struct {
	ID     cmn.HexBytes
	Height int64
	Data   []byte
	Log    string
}

// ChainID returns the chain id declared in the genesis of the node.
func (c *Client) ChainID() (string, error) {
	res, err := c.conn.Genesis()
	if err != nil {
		return "", errors.Wrapf(errors.ErrNetwork, "genesis: %s", err)
	}
	if res.Genesis == nil {
		return "", errors.Wrap(errors.ErrNetwork, "empty genesis")
	}
	return res.Genesis.ChainID, nil
}

// BroadcastTxCommit submits the transaction and blocks until it is
// included in a block. A transaction rejected by check or deliver is
// returned as the error registered for its code.
func (c *Client) BroadcastTxCommit(tx custody.Tx) (*CommitResult, error) {
	bz, err := proto.Marshal(tx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err)
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast tx: %s", err)
	}
	if res.CheckTx.IsErr() {
		return nil, errors.Wrap(errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log), "check tx")
	}
	if res.DeliverTx.IsErr() {
		return nil, errors.Wrap(errors.ABCIError(res.DeliverTx.Code, res.DeliverTx.Log), "deliver tx")
	}
	return &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
		Data:   res.DeliverTx.Data,
		Log:    res.DeliverTx.Log,
	}, nil
}

// Query runs an abci query and returns all models of the response.
func (c *Client) Query(path string, data []byte) ([]custody.Model, error) {
	res, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query %s: %s", path, err)
	}
	resp := res.Response
	if resp.IsErr() {
		return nil, errors.Wrap(errors.ABCIError(resp.Code, resp.Log), path)
	}

	var keys, values app.ResultSet
	if err := keys.Unmarshal(resp.Key); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(resp.Value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return app.JoinResults(&keys, &values)
}

// QueryOne loads a single model stored under the key. It returns
// ErrNotFound when the key is not set.
func (c *Client) QueryOne(path string, key []byte, dest proto.Message) error {
	models, err := c.Query(path, key)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", path, key)
	}
	if err := proto.Unmarshal(models[0].Value, dest); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// NextNonce returns the sequence the next signature of the address must
// use. Nonce counting starts with zero.
func (c *Client) NextNonce(addr custody.Address) (int64, error) {
	var user sigs.UserData
	switch err := c.QueryOne("/auth", addr, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Balance returns the amount held by the address. An address that never
// received tokens has a zero balance.
func (c *Client) Balance(addr custody.Address) (uint64, error) {
	var b cash.Balance
	switch err := c.QueryOne("/balances", addr, &b); {
	case err == nil:
		return b.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Wallet returns the wallet stored at the address.
func (c *Client) Wallet(addr custody.Address) (*wallet.Wallet, error) {
	var w wallet.Wallet
	if err := c.QueryOne("/wallets", addr, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// OwnedWallets returns the addresses of all wallets the owner belongs to.
func (c *Client) OwnedWallets(owner custody.Address) ([]custody.Address, error) {
	models, err := c.Query("/wallets/owner", owner)
	if err != nil {
		return nil, err
	}
	addrs := make([]custody.Address, len(models))
	for i, m := range models {
		addrs[i] = custody.Address(m.Key)
	}
	return addrs, nil
}
