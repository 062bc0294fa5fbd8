package server

import (
	"fmt"

	"github.com/iov-one/custody"
	"github.com/spf13/cobra"
)

// VersionCmd prints the application version.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), custody.Version())
		},
	}
}
