// Package perform values investor stock portfolios against a fixed start
// date, tracks their value month by month using historical security prices,
// and compares the resulting performance curves against benchmark entities.
//
// The core functionalities include:
//   - Ticker Resolution: Mapping free-text security names to priced
//     instruments of a registry, with an explicit exact/fuzzy/unresolved
//     confidence so noisy holdings data never fails silently.
//   - Market Data: Storing historical daily closes and answering the single
//     temporal-alignment rule of the engine, the most recent price on or
//     before a date.
//   - Valuation: Computing a point-in-time value per entity from holdings,
//     with a covered-quantity fraction that makes partial price coverage a
//     visible data-quality signal.
//   - Performance Tracking: Bucketing valuations into calendar months and
//     deriving monthly and cumulative returns, keeping "missing" distinct
//     from "zero" throughout.
//   - Comparison: Aligning every entity on the union of months, ranking
//     them, and measuring alpha against benchmark entities, volatility and
//     drawdown.
//   - Data Persistence: Encoding and decoding all inputs and results in
//     human-readable, version-controllable JSONL files.
//
// Benchmarks are not a special case: a benchmark is an entity whose
// holdings are derived from constituent weights and a notional amount, and
// it flows through the identical pipeline.
//
// This package serves as the foundational logic for the `pfm` command-line
// tool.
package perform
