package server

import (
	"fmt"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/spf13/cobra"
)

// ValidateGenesis loads every genesis file into a throw away store and
// returns the first error.
func ValidateGenesis(ini custody.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini custody.Initializer, genesisPath string) error {
	genesis, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}
	if !custody.IsValidChainID(genesis.ChainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", genesis.ChainID)
	}

	// Use in memory store because we want to discard the result.
	db := store.NewMemStore()
	if err := ini.FromGenesis(genesis.AppState, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}

// ValidateGenesisCmd checks that the given genesis files are accepted by
// the application.
func ValidateGenesisCmd(ini custody.Initializer) *cobra.Command {
	return &cobra.Command{
		Use:          "validate-genesis <genesis.json>...",
		Short:        "Load genesis files into a scratch state",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ValidateGenesis(ini, args); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "genesis is valid")
			return nil
		},
	}
}
