package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/satchel/cmd/kv"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "satchel",
		Short: "embedded key-value store with background persistence",
		Long: fmt.Sprintf(`satchel (v%s)

An embedded key-value store library written in Go. All entries are kept
in memory, snapshots are persisted in the background through a pipeline
of serializer, encrypter and storage backend.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of satchel",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("satchel v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
