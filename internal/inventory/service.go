package inventory

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const (
	organizationsHeaderTemplateConstant = "Organizations (%d):\n"
	organizationEntryTemplateConstant   = "  %s (%s)\n"
	organizationFullNameTemplate        = "  %s (%s) - %s\n"
	repositoriesHeaderTemplateConstant  = "Repos in '%s' (%d):\n"
	repositoryEntryTemplateConstant     = "  %s (%s)\n    web:   %s\n    clone: %s\n"
	templatesHeaderTemplateConstant     = "Template repos (%d):\n"
	templateEntryTemplateConstant       = "  %s/%s (%s)\n"
	noEntriesPlaceholderConstant        = "  (none)\n"
	privateLabelConstant                = "private"
	publicLabelConstant                 = "public"

	organizationNotFoundTemplateError = "organization %q not found"
)

// OrganizationNotFoundError reports an absent organization during a listing.
type OrganizationNotFoundError struct {
	Organization string
}

// Error names the missing organization.
func (notFoundError OrganizationNotFoundError) Error() string {
	return fmt.Sprintf(organizationNotFoundTemplateError, notFoundError.Organization)
}

// Service renders read-only platform inventory listings.
type Service struct {
	directory    Directory
	logger       *zap.Logger
	outputWriter io.Writer
}

// NewService constructs a Service using the provided collaborators.
func NewService(directory Directory, logger *zap.Logger, outputWriter io.Writer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	return &Service{
		directory:    directory,
		logger:       logger,
		outputWriter: outputWriter,
	}
}

// ListOrganizations prints every organization visible to the configured
// account, with visibility and full name when one is set.
func (service *Service) ListOrganizations(executionContext context.Context) error {
	organizations, listError := service.directory.ListAllOrganizations(executionContext)
	if listError != nil {
		return listError
	}

	fmt.Fprintf(service.outputWriter, organizationsHeaderTemplateConstant, len(organizations))
	if len(organizations) == 0 {
		fmt.Fprint(service.outputWriter, noEntriesPlaceholderConstant)
		return nil
	}
	for _, organization := range organizations {
		if len(organization.FullName) > 0 && organization.FullName != organization.Name {
			fmt.Fprintf(service.outputWriter, organizationFullNameTemplate, organization.Name, organization.Visibility, organization.FullName)
			continue
		}
		fmt.Fprintf(service.outputWriter, organizationEntryTemplateConstant, organization.Name, organization.Visibility)
	}
	return nil
}

// ListRepositories prints the organization's repositories with their privacy,
// web URL, and clone URL.
func (service *Service) ListRepositories(executionContext context.Context, organizationName string) error {
	_, organizationFound, organizationError := service.directory.GetOrganization(executionContext, organizationName)
	if organizationError != nil {
		return organizationError
	}
	if !organizationFound {
		return OrganizationNotFoundError{Organization: organizationName}
	}

	repositories, listError := service.directory.ListOrganizationRepositories(executionContext, organizationName)
	if listError != nil {
		return listError
	}

	fmt.Fprintf(service.outputWriter, repositoriesHeaderTemplateConstant, organizationName, len(repositories))
	if len(repositories) == 0 {
		fmt.Fprint(service.outputWriter, noEntriesPlaceholderConstant)
		return nil
	}
	for _, repository := range repositories {
		fmt.Fprintf(
			service.outputWriter,
			repositoryEntryTemplateConstant,
			repository.Name,
			privacyLabel(repository.Private),
			repository.HTMLURL,
			repository.CloneURL,
		)
	}
	return nil
}

// ListTemplates prints every repository on the instance marked as a template,
// qualified by its owner so it can be passed to repository provisioning.
func (service *Service) ListTemplates(executionContext context.Context) error {
	templates, searchError := service.directory.SearchTemplateRepositories(executionContext)
	if searchError != nil {
		return searchError
	}

	fmt.Fprintf(service.outputWriter, templatesHeaderTemplateConstant, len(templates))
	if len(templates) == 0 {
		fmt.Fprint(service.outputWriter, noEntriesPlaceholderConstant)
		return nil
	}
	for _, template := range templates {
		fmt.Fprintf(
			service.outputWriter,
			templateEntryTemplateConstant,
			template.Owner.Login,
			template.Name,
			privacyLabel(template.Private),
		)
	}
	return nil
}

func privacyLabel(isPrivate bool) string {
	if isPrivate {
		return privateLabelConstant
	}
	return publicLabelConstant
}
