package inventory

import (
	"context"

	"github.com/temirov/coursectl/internal/gitea"
)

// Directory aggregates the read-only remote directory operations the
// inventory listings depend on. *gitea.Client satisfies it.
type Directory interface {
	ListAllOrganizations(executionContext context.Context) ([]gitea.Organization, error)
	GetOrganization(executionContext context.Context, organizationName string) (gitea.Organization, bool, error)
	ListOrganizationRepositories(executionContext context.Context, organizationName string) ([]gitea.Repository, error)
	SearchTemplateRepositories(executionContext context.Context) ([]gitea.Repository, error)
}

// DirectoryProvider supplies a Directory for command execution.
type DirectoryProvider func() (Directory, error)
