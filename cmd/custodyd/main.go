package main

import (
	"fmt"
	"os"

	"github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/commands/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const name = "custodyd"

func main() {
	if err := rootCmd(server.NewViper(name)).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   name,
		Short: "Custody wallet node",
		Long: `custodyd runs the custody wallet application as an ABCI server.

Initialize the tendermint home with "tendermint init", then add the
application state with "custodyd init" before the first start.`,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(server.HomeKey, v.GetString(server.HomeKey), "directory to store files under")
	if err := v.BindPFlag(server.HomeKey, root.PersistentFlags().Lookup(server.HomeKey)); err != nil {
		panic(err)
	}

	root.AddCommand(
		server.InitCmd(app.GenInitOptions, v),
		server.StartCmd(app.GenerateApp, name, v),
		server.ValidateGenesisCmd(app.Initializers()),
		server.VersionCmd(),
	)
	return root
}
