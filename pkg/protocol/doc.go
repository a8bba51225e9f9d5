// Package protocol implements the core state machines of the cross-chain
// Dutch-auction escrow protocol: hash-and-time-locked escrows, the falling
// price curve with first-bid-wins resolution, and the settlement step that
// ties a revealed secret to the auction winner.
//
// Every operation is a pure transition: it takes a state snapshot plus an
// explicit now (milliseconds since epoch) and returns a new state or a
// typed failure. Nothing here reads a clock, performs I/O, or locks. The
// hosting layer serializes conflicting mutations; the transitions are still
// retry-safe in that repeating one that already succeeded fails
// deterministically instead of taking effect twice.
//
// All settlement-relevant values are unsigned 256-bit integers with checked
// arithmetic. Floating point never touches a price, fee, or amount.
package protocol
