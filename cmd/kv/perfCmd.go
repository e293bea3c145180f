package kv

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/satchel/cmd/util"
	"github.com/ValentinKolb/satchel/lib/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for local stores",
		Long:    "Runs parallel benchmarks of the store operations against the configured store. The background saves run during the benchmarks, so the storage backend, serializer and encrypter influence the results of the write benchmarks.",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

// perfCase is a single benchmark. prepare runs before the timer starts, op is the measured
// operation on the i-th call of a worker.
type perfCase struct {
	name    string
	prepare bool
	op      func(getKey func(int) string, i int) error
}

func perfCases() []perfCase {
	largeValue := make([]byte, perfLargeValueSizeKB*1024)

	return []perfCase{
		{name: "set", op: func(getKey func(int) string, i int) error {
			return localStore.Set(getKey(i), "test")
		}},
		{name: "set-large", op: func(getKey func(int) string, i int) error {
			return localStore.Set(getKey(i), largeValue)
		}},
		{name: "get", prepare: true, op: func(getKey func(int) string, i int) error {
			localStore.Get(getKey(i))
			return nil
		}},
		{name: "delete", prepare: true, op: func(getKey func(int) string, i int) error {
			_, err := localStore.Remove(getKey(i))
			return err
		}},
		{name: "has", prepare: true, op: func(getKey func(int) string, i int) error {
			localStore.Has(getKey(i))
			return nil
		}},
		{name: "has-not", op: func(_ func(int) string, i int) error {
			localStore.Has(fmt.Sprintf("%s/has-not-%d", perfKeyPrefix, i%100))
			return nil
		}},
		{name: "mixed", prepare: true, op: func(getKey func(int) string, i int) error {
			key := getKey(i)
			var err error
			switch i % 4 {
			case 0: // set
				err = localStore.Set(key, "test")
			case 1: // get
				localStore.Get(key)
			case 2: // delete
				_, err = localStore.Remove(key)
			case 3: // has
				localStore.Has(key)
			}
			return err
		}},
	}
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for local stores")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetStoreConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("staring tests...")

	results := make(map[string]testing.BenchmarkResult)
	for _, pc := range perfCases() {
		if shouldSkip(pc.name) {
			results[pc.name] = testing.BenchmarkResult{}
			printResult(pc.name, testing.BenchmarkResult{})
			continue
		}
		result := testing.Benchmark(benchmark(pc))
		results[pc.name] = result
		printResult(pc.name, result)
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetStoreConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// benchmark turns a perfCase into a benchmark function
func benchmark(pc perfCase) func(b *testing.B) {
	return func(b *testing.B) {
		// prepare keys
		getKey, iter := getKeys(pc.name)

		if pc.prepare {
			iter(func(k string) {
				if err := localStore.Set(k, "test"); err != nil {
					log.Printf("(%s) - error setting key: %v\n", pc.name, err)
				}
			})
		}

		// cleanup
		b.Cleanup(func() {
			iter(func(k string) {
				if _, err := localStore.Remove(k); err != nil {
					log.Printf("(%s) - error deleting key: %v\n", pc.name, err)
				}
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				if err := pc.op(getKey, counter); err != nil {
					log.Printf("(%s) - error: %v\n", pc.name, err)
				}
				counter++
			}
		})
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *common.StoreConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Backend", "Serializer", "Encrypter",
		"Threads", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		skipped := "true"

		if result.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			string(config.Backend),
			config.Serializer,
			config.Encrypter,
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
