package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const confPkg = "cash"

// Configuration of the ledger, stored in the state.
type Configuration struct {
	// Minter is the only address allowed to issue new tokens.
	Minter custody.Address `protobuf:"bytes,1,opt,name=minter,proto3,casttype=github.com/iov-one/custody.Address" json:"minter,omitempty"`
	// MaxIssue is the greatest amount a single issue can create.
	MaxIssue uint64 `protobuf:"varint,2,opt,name=max_issue,json=maxIssue,proto3" json:"max_issue,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

func (c *Configuration) Validate() error {
	if err := c.Minter.Validate(); err != nil {
		return errors.Wrap(err, "minter address")
	}
	if c.MaxIssue == 0 {
		return errors.Wrap(errors.ErrAmount, "max issue must be positive")
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
