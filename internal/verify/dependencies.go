package verify

import (
	"context"

	"github.com/temirov/coursectl/internal/gitea"
)

// Directory aggregates the read-only remote directory operations the audit
// engine depends on. *gitea.Client satisfies it.
type Directory interface {
	GetOrganization(executionContext context.Context, organizationName string) (gitea.Organization, bool, error)
	ListTeams(executionContext context.Context, organizationName string) ([]gitea.Team, error)
	IsTeamMember(executionContext context.Context, teamIdentifier int64, username string) (bool, error)
	ListTeamMembers(executionContext context.Context, teamIdentifier int64) ([]string, error)
	ListTeamRepositories(executionContext context.Context, teamIdentifier int64) ([]string, error)
	ListOrganizationRepositories(executionContext context.Context, organizationName string) ([]gitea.Repository, error)
	GetUser(executionContext context.Context, username string) (gitea.User, bool, error)
	ListUserOrganizations(executionContext context.Context, username string) ([]string, error)
}

// DirectoryProvider supplies a Directory for command execution.
type DirectoryProvider func() (Directory, error)
