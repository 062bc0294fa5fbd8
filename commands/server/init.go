package server

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisPath returns the location of the tendermint genesis file.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd adds the application state produced by gen to the tendermint
// genesis file. The genesis file must exist, it is created by
// `tendermint init`.
func InitCmd(gen GenOptions, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:          "init [minter-address]",
		Short:        "Initialize app options in genesis file",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := gen(args)
			if err != nil {
				return err
			}
			genFile := GenesisPath(v.GetString(HomeKey))
			if err := app.AddGenesisAppState(genFile, options); err != nil {
				return errors.Wrap(err, genFile)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "app_state written to %s\n", genFile)
			return nil
		},
	}
}
