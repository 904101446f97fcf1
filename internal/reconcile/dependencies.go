package reconcile

import (
	"context"

	"github.com/temirov/coursectl/internal/gitea"
)

// OrganizationDirectory covers the organization operations the engine issues.
type OrganizationDirectory interface {
	GetOrganization(executionContext context.Context, organizationName string) (gitea.Organization, bool, error)
	CreateOrganization(executionContext context.Context, request gitea.CreateOrganizationRequest) (gitea.Organization, error)
	UpdateOrganization(executionContext context.Context, organizationName string, patch gitea.OrganizationPatch) (gitea.Organization, error)
}

// TeamDirectory covers the team and membership operations the engine issues.
type TeamDirectory interface {
	ListTeams(executionContext context.Context, organizationName string) ([]gitea.Team, error)
	FindTeam(executionContext context.Context, organizationName string, teamName string) (gitea.Team, bool, error)
	CreateTeam(executionContext context.Context, organizationName string, request gitea.CreateTeamRequest) (gitea.Team, error)
	UpdateTeam(executionContext context.Context, teamIdentifier int64, patch gitea.TeamPatch) (gitea.Team, error)
	IsTeamMember(executionContext context.Context, teamIdentifier int64, username string) (bool, error)
	AddTeamMember(executionContext context.Context, teamIdentifier int64, username string) error
	RemoveTeamMember(executionContext context.Context, teamIdentifier int64, username string) error
	ListTeamRepositories(executionContext context.Context, teamIdentifier int64) ([]string, error)
	AddTeamRepository(executionContext context.Context, teamIdentifier int64, organizationName string, repositoryName string) error
}

// RepositoryDirectory covers the repository operations the engine issues.
type RepositoryDirectory interface {
	GetRepository(executionContext context.Context, ownerName string, repositoryName string) (gitea.Repository, bool, error)
	CreateOrganizationRepository(executionContext context.Context, organizationName string, request gitea.CreateRepositoryRequest) (gitea.Repository, error)
	GenerateRepository(executionContext context.Context, templateOwner string, templateName string, request gitea.GenerateRepositoryRequest) (gitea.Repository, error)
	UpdateRepository(executionContext context.Context, ownerName string, repositoryName string, patch gitea.RepositoryPatch) (gitea.Repository, error)
}

// AccountDirectory covers the account operations the engine issues.
type AccountDirectory interface {
	GetUser(executionContext context.Context, username string) (gitea.User, bool, error)
	CreateUser(executionContext context.Context, request gitea.CreateUserRequest) (gitea.User, error)
	EditUser(executionContext context.Context, username string, request gitea.EditUserRequest) error
}

// Directory aggregates every remote directory operation the reconciliation
// engine depends on. *gitea.Client satisfies it.
type Directory interface {
	OrganizationDirectory
	TeamDirectory
	RepositoryDirectory
	AccountDirectory
}

// DirectoryProvider supplies a Directory for command execution.
type DirectoryProvider func() (Directory, error)
