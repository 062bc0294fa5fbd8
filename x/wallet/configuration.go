package wallet

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

const (
	confPkg = "wallet"

	// DefaultProgram is the program id used when the genesis does not
	// configure one.
	DefaultProgram = "custody"
)

// Configuration of the wallet extension, stored in the state.
type Configuration struct {
	// Program is the id of this program instance. It is stamped into every
	// wallet and is part of the derived wallet address.
	Program string `protobuf:"bytes,1,opt,name=program,proto3" json:"program,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

func (c *Configuration) Validate() error {
	if !isProgramID(c.Program) {
		return errors.Wrapf(errors.ErrInput, "program id %q must match %s", c.Program, "[a-z0-9_-]{1,32}")
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
