// Package verify implements the read-only audit engine: it checks the same
// invariants the reconciliation engine enforces without issuing a single
// mutating call, and collects every violation as a human-readable reason.
package verify
