// Package ledger is the holdings ledger and derivation engine.
//
// Every operation is a pure function over an explicit State value: callers pass
// the current state in and get a new state back. The input state, including the
// holdings slice it points to, is never modified, so the same State can be
// shared by readers while a writer computes the next one.
//
// The package has no I/O: persistence, price fetching and HTTP live in the
// services that drive it.
package ledger
