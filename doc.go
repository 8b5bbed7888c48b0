// Package papertrade provides the accounting and options-analytics core of a
// multi-strategy paper-trading simulator. It turns externally supplied market
// quotes into position valuations, computes option risk sensitivities via a
// closed-form pricing model, and maintains an append-only ledger of simulated
// cash flows with strict conservation invariants. No real order is ever
// placed.
//
// The core functionalities include:
//   - Pricing: Black-Scholes valuation and Greeks (delta, gamma, theta, vega)
//     for European options, with expired contracts degrading to intrinsic
//     value rather than erroring.
//   - Positions: individual instrument holdings (options or equities) with
//     live revaluation, stale-quote tolerance and guarded close semantics.
//   - Ledger: an immutable, chronological record of every simulated cash
//     movement, where each entry's resulting balance is derived from the one
//     before it and the whole history replays to the current balance exactly.
//   - Strategies: named books of positions sharing one cash sleeve, exposing
//     rebalancing decisions as auditable trade proposals that are applied in
//     a separate, explicit step.
//   - Accounting: a portfolio accountant aggregating every strategy into an
//     immutable point-in-time snapshot of value, P&L and portfolio Greeks.
//   - Data Persistence: encoding and decoding of ledger entries, positions
//     and daily history to human-readable, version-controllable JSONL.
//
// This package serves as the foundational logic for the `pts` command-line
// tool; market data fetching, rendering and scheduling live in subpackages
// and never inside the engine itself.
package papertrade
