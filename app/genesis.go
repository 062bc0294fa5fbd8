package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState custody.Options `json:"app_state"`
}

// LoadGenesis reads the chain id and the application state from the
// tendermint genesis file.
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	return gen, nil
}

// AddGenesisAppState sets the app_state of the tendermint genesis file,
// keeping all other fields as they are. It refuses to overwrite an existing
// app_state.
func AddGenesisAppState(filePath string, appState json.RawMessage) error {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	if v, ok := doc["app_state"]; ok && len(v) > 0 && string(v) != "null" && string(v) != "{}" {
		return errors.Wrap(errors.ErrDuplicate, "app_state already set")
	}
	doc["app_state"] = appState

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filePath, out, 0600)
}
