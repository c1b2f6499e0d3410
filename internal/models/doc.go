// Package models defines the core domain models for Lessmo.
//
// # Ledger Models
//
// An Event is the container people share costs in (a trip, a flat, a
// dinner). Everything else hangs off an event:
//   - Participant: a person taking part in the event, optionally linked to a User
//   - Expense: a shared cost paid by one participant and split among several
//   - ExpenseItem: a line of an itemised expense
//   - Payment: a recorded real-world transfer between two participants
//
// # Source of Truth
//
// The expense ledger (expenses + payments) is authoritative. The
// Participant.CurrentBalance field is a cached projection of the ledger,
// rewritten after every recomputation; readers that need a consistent
// answer recompute from the ledger instead of trusting the cache.
//
// # Design Principles
//
//  1. Amounts are decimal.Decimal, never float64
//  2. Relationships use ID strings, not pointers
//  3. Timestamps are Unix seconds
package models
