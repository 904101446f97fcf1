// Package roster parses classroom roster and alias files and builds the
// desired-state model consumed by the reconciliation and audit engines.
package roster
