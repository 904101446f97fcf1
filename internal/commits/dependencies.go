package commits

import (
	"context"

	"github.com/temirov/coursectl/internal/gitea"
)

// Directory aggregates the read-only remote directory operations the activity
// checker depends on. *gitea.Client satisfies it.
type Directory interface {
	GetOrganization(executionContext context.Context, organizationName string) (gitea.Organization, bool, error)
	ListTeams(executionContext context.Context, organizationName string) ([]gitea.Team, error)
	ListTeamMembers(executionContext context.Context, teamIdentifier int64) ([]string, error)
	ListTeamRepositories(executionContext context.Context, teamIdentifier int64) ([]string, error)
	ListRepositoryCommits(executionContext context.Context, ownerName string, repositoryName string) ([]gitea.Commit, error)
	GetUser(executionContext context.Context, username string) (gitea.User, bool, error)
}

// DirectoryProvider supplies a Directory for command execution.
type DirectoryProvider func() (Directory, error)
