// Package tracker keeps a user-entered list of stock positions and annotates
// them with live quotes fetched from a market-data provider.
//
// The core functionalities include:
//   - Form: the three user inputs (symbol, quantity, purchase price) and
//     their validation.
//   - Tracker: the ordered list of positions, the add flow, and the refresh
//     cycle that re-quotes every position whenever the list changes.
//   - Position: a holding and its profit/loss against the latest quote.
//   - Persistence: positions encoded as JSON lines, so that the short lived
//     `trk` command-line tool can keep them between runs.
//
// Quotes are obtained through the Quoter interface; the alphavantage package
// provides the production implementation.
package tracker
