// Package tracker keeps track of crypto and commodity holdings.
//
// It is local-first: every BUY, SELL and EARN is recorded in a JSONL ledger
// file, and all figures are derived from it on demand.
//
// The core functionalities include:
//   - Ledger management: appending, editing and deleting transactions while
//     keeping every position non-negative at all dates.
//   - Position aggregation: net quantity, buy value and earned quantity per
//     symbol.
//   - FIFO gain calculation: realized gains matched first in, first out,
//     unrealized gains on the remaining lots, both in a display currency.
//   - Portfolio summary: totals of buy value, current value, profit and
//     earnings.
//
// Prices and exchange rates are provided by the caller, through Prices and a
// Converter, see the market package for fetching them.
package tracker
