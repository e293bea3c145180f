package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ValentinKolb/satchel/cmd/util"
	"github.com/ValentinKolb/satchel/lib/store/lstore"
	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseValue(cmd, args[1])
			if err != nil {
				return err
			}
			if err := localStore.Set(args[0], value); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	setIfAbsentCmd = &cobra.Command{
		Use:   "setIfAbsent [key] [value]",
		Short: "Sets the value for a key if the key is not already set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseValue(cmd, args[1])
			if err != nil {
				return err
			}
			set, err := localStore.SetIfAbsent(args[0], value)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, set=%t\n", args[0], set)
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, ok := localStore.Get(key)
			if !ok {
				fmt.Printf("key=%s, found=false\n", key)
				return nil
			}
			fmt.Printf("key=%s, found=true, type=%T, value=%v\n", key, value, value)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := localStore.Remove(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, removed=%t\n", args[0], removed)
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("key=%s, found=%t\n", args[0], localStore.Has(args[0]))
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists all keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range localStore.Keys() {
				fmt.Println(key)
			}
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := localStore.Clear(); err != nil {
				return err
			}
			fmt.Println("cleared successfully")
			return nil
		},
	}
	sizeCmd = &cobra.Command{
		Use:   "size",
		Short: "Prints the number of entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("size=%d, empty=%t\n", localStore.Size(), localStore.IsEmpty())
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints information about the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(util.GetStoreConfig().String())
			fmt.Println()
			out, err := json.MarshalIndent(localStore.GetInfo(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	metricsCmd = &cobra.Command{
		Use:   "metrics",
		Short: "Prints the metrics of the store in Prometheus format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lstore.WriteMetrics(os.Stdout)
			return nil
		},
	}
)

func init() {
	for _, c := range []*cobra.Command{setCmd, setIfAbsentCmd} {
		c.Flags().String("type", "string", util.WrapString("Type of the value (string, int, int64, float, bool)"))
	}
}

// parseValue converts the command line value to the type given by --type
func parseValue(cmd *cobra.Command, raw string) (any, error) {
	typ, _ := cmd.Flags().GetString("type")
	switch typ {
	case "string", "":
		return raw, nil
	case "int":
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("value must be an int: %w", err)
		}
		return v, nil
	case "int64":
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("value must be an int64: %w", err)
		}
		return v, nil
	case "float":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("value must be a float: %w", err)
		}
		return v, nil
	case "bool":
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("value must be a bool: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("invalid type %s", typ)
	}
}
