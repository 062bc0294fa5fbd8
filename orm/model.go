package orm

import (
	"github.com/gogo/protobuf/proto"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	proto.Message
	Validate() error
}

// indexRefs is the value stored under a single index key: an ordered set of
// primary keys.
type indexRefs struct {
	Refs [][]byte `protobuf:"bytes,1,rep,name=refs,proto3" json:"refs,omitempty"`
}

func (m *indexRefs) Reset()         { *m = indexRefs{} }
func (m *indexRefs) String() string { return proto.CompactTextString(m) }
func (*indexRefs) ProtoMessage()    {}
