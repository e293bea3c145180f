package kv

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/satchel/cmd/util"
	"github.com/ValentinKolb/satchel/lib/common"
	"github.com/ValentinKolb/satchel/lib/store"
	"github.com/spf13/cobra"
)

var (
	localStore store.IStore
	closeStore func() error

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:   "kv",
		Short: "Perform key-value store operations on a local store",
		Long: `Perform key-value store operations on a local store.
The configuration can be set via command line flags or environment variables.
The format of the environment variables is SATCHEL_<flag> (e.g. SATCHEL_BACKEND=badger)`,
		PersistentPreRunE:  openStore,
		PersistentPostRunE: closeOpenStore,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// PersistentPostRunE is skipped when a command fails, the store is closed here in that case
	cobra.OnFinalize(closeAfterFailure)

	// Add store flags to the KV command
	util.SetupStoreFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(setIfAbsentCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(hasCmd)
	KeyValueCommands.AddCommand(keysCmd)
	KeyValueCommands.AddCommand(clearCmd)
	KeyValueCommands.AddCommand(sizeCmd)
	KeyValueCommands.AddCommand(infoCmd)
	KeyValueCommands.AddCommand(metricsCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// openStore opens the local store described by flags and environment
func openStore(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	config := util.GetStoreConfig()
	if err := common.InitLoggers(config.LogLevel); err != nil {
		return err
	}

	var err error
	localStore, closeStore, err = util.OpenStore(config)
	return err
}

// closeOpenStore flushes pending saves and releases the storer
func closeOpenStore(_ *cobra.Command, _ []string) error {
	if closeStore == nil {
		return nil
	}
	err := closeStore()
	closeStore = nil
	return err
}

// closeAfterFailure closes a store still open after the command returned
func closeAfterFailure() {
	if err := closeOpenStore(nil, nil); err != nil {
		fmt.Fprintf(os.Stderr, "closing store: %v\n", err)
	}
}
