package gconf

import (
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

type testConf struct {
	Name  string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Limit uint64 `protobuf:"varint,2,opt,name=limit,proto3" json:"limit,omitempty"`
}

func (m *testConf) Reset()         { *m = testConf{} }
func (m *testConf) String() string { return proto.CompactTextString(m) }
func (*testConf) ProtoMessage()    {}

func (m *testConf) Validate() error {
	if m.Limit == 0 {
		return errors.Wrap(errors.ErrInput, "limit")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.NewMemStore()

	var got testConf
	if err := Load(db, "test", &got); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found, got %+v", err)
	}

	if err := Save(db, "test", &testConf{Name: "x"}); !errors.ErrInput.Is(err) {
		t.Fatalf("invalid configuration must not be saved, got %+v", err)
	}

	assert.Nil(t, Save(db, "test", &testConf{Name: "x", Limit: 5}))
	assert.Nil(t, Load(db, "test", &got))
	assert.Equal(t, "x", got.Name)
	assert.Equal(t, uint64(5), got.Limit)
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		want    testConf
	}{
		"valid configuration": {
			genesis: `{"conf": {"test": {"name": "custody", "limit": 3}}}`,
			want:    testConf{Name: "custody", Limit: 3},
		},
		"missing package": {
			genesis: `{"conf": {"other": {}}}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			genesis: `{"conf": {"test": {"name": "custody"}}}`,
			wantErr: errors.ErrInput,
		},
		"malformed json": {
			genesis: `{"conf": {"test": {"limit": "many"}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts custody.Options
			if err := json.Unmarshal([]byte(tc.genesis), &opts); err != nil {
				t.Fatalf("cannot decode genesis: %s", err)
			}
			db := store.NewMemStore()
			var conf testConf
			if err := InitConfig(db, opts, "test", &conf); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			var got testConf
			assert.Nil(t, Load(db, "test", &got))
			assert.Equal(t, tc.want, got)
		})
	}
}
