// Package cli constructs the coursectl command-line interface, wiring the
// Cobra command hierarchy, configuration loader, structured logging, and the
// authenticated Gitea directory client shared by every subcommand.
package cli
