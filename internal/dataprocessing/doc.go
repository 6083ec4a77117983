// Package dataprocessing contains the first two stages of the pipeline:
// loading the transactions and customers CSV files into typed tables, and
// aggregating them into the KPI set and breakdown tables.
//
// The Loader tolerates imperfect rows: values it cannot type are treated
// as nulls and the row is dropped from aggregation with a counted log
// entry. Structural problems, like a missing required column, fail the
// load with a data-format error.
//
// The Aggregator is a pure transform over already-loaded data. It runs
// single-threaded and produces deterministic output for identical inputs.
package dataprocessing
