package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

// ResultSet is the payload of a query response. The key and the value of a
// response are both result sets of the same length, so a query can return
// zero or more models.
type ResultSet struct {
	Results [][]byte `json:"results"`
}

// Marshal returns the amino binary form of the result set.
func (r *ResultSet) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return bz, nil
}

// Unmarshal reads the amino binary form of a result set.
func (r *ResultSet) Unmarshal(bz []byte) error {
	*r = ResultSet{}
	if len(bz) == 0 {
		return nil
	}
	if err := cdc.UnmarshalBinaryBare(bz, r); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []custody.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []custody.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]custody.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]custody.Model, len(kref))
	for i := range mods {
		mods[i] = custody.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// if it is not empty, unmarshal the first result into o.
// It returns ErrNotFound for an empty result set.
func UnmarshalOneResult(bz []byte, o proto.Message) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	if err := proto.Unmarshal(res.Results[0], o); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}
