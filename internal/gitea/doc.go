// Package gitea provides a typed client for the Gitea REST API surface used
// by the coursectl CLI.
//
// It exposes Client for organization, team, repository, user, and commit
// operations, with transparent page-wise enumeration for list endpoints and
// typed errors distinguishing absence, conflicts, and read failures.
package gitea
