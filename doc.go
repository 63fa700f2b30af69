// Package loanbook provides the types and computations for managing a book
// of loans: recording them together with the events that alter them, and
// deriving amortization schedules from those records.
//
// The core functionalities include:
//   - Book Management: Recording loans, extra payments, rate changes and
//     grace periods in a plain, chronological JSONL file.
//   - Schedule Computation: A stateless engine that replays the book month
//     by month, accruing interest on a 30-day-month scale and producing the
//     full payment schedule for every enabled loan.
//   - CPI Indexation: Applying consumer price index factors to linked loans
//     from a sidecar table of monthly figures.
//   - Data Persistence: Encoding and decoding the book to and from a
//     human-readable, version-controllable format.
//
// This package serves as the foundational logic for the `lbk` command-line
// tool; every report is recomputed from the records on demand, so the book
// remains the single source of truth.
package loanbook
