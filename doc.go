// Package qef implements U.S. tax-lot accounting for a holding in a
// Qualified Electing Fund (QEF) under the PFIC regime.
//
// The core functionalities include:
//   - Lot Ledger: tracking individual purchase lots of a fund, replaying buy
//     and sell transactions with FIFO matching, splitting lots on partial
//     sales, and degrading gracefully to synthetic zero-basis lots when the
//     transaction history is incomplete.
//   - QEF Allocation: turning the per-day-per-share income rates of an
//     Annual Information Statement (AIS) into dollar amounts per lot, and
//     adjusting each lot's cost basis by ordinary earnings, net capital
//     gains and distributions.
//   - Reporting: per-lot basis adjustment records, realized sale records,
//     per-fund Form 8621 aggregates, and a year-level activity report.
//   - Data Persistence: encoding and decoding transactions and lots to and
//     from human-readable, version-controllable JSONL files, so one year's
//     ending lots seed the next year's ledger.
//
// All monetary amounts entering the package are expressed in the reporting
// currency (USD); currency conversion, file discovery, and presentation are
// the caller's concern. This package serves as the foundational logic for
// the `pqt` command-line tool.
package qef
