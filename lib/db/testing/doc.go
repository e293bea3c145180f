// Package testing provides standardised tests and benchmarks for
// entry map implementations that satisfy the db.IEntryMap interface.
//
// The package contains:
//   - testing: A test suite for validating conformance to the IEntryMap interface contract
//   - benchmark: Performance tests for measuring throughput of common entry map operations
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func() db.IEntryMap {
//		return NewMyEntryMap()
//	}
//
//	// Running the standard test suite
//	dbtesting.RunEntryMapTests(t, "MyEntryMap", factory)
//
//	// Running performance benchmarks
//	dbtesting.RunEntryMapBenchmarks(b, "MyEntryMap", factory)
package testing
