// Package cmd implements the command-line interface of satchel. It opens a local store
// from flags and environment variables and runs single operations against it.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value store operations (get, set, del, keys, info, metrics, perf, ...)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See satchel -help for a list of all commands.
package cmd
