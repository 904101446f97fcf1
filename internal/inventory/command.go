package inventory

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	listOrganizationsUseConstant   = "list-organizations"
	listOrganizationsShortConstant = "List every organization visible to the configured account"
	listRepositoriesUseConstant    = "list-repositories <organization>"
	listRepositoriesShortConstant  = "List an organization's repositories with web and clone URLs"
	listTemplatesUseConstant       = "list-templates"
	listTemplatesShortConstant     = "List template repositories available for provisioning"

	directoryProviderMissingMessageConstant = "directory provider not configured"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// OrganizationsCommandBuilder assembles the list-organizations command.
type OrganizationsCommandBuilder struct {
	LoggerProvider    LoggerProvider
	DirectoryProvider DirectoryProvider
}

// Build constructs the list-organizations cobra command.
func (builder *OrganizationsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   listOrganizationsUseConstant,
		Short: listOrganizationsShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := newCommandService(builder.LoggerProvider, builder.DirectoryProvider, command)
			if serviceError != nil {
				return serviceError
			}
			return service.ListOrganizations(command.Context())
		},
	}
	return command, nil
}

// RepositoriesCommandBuilder assembles the list-repositories command.
type RepositoriesCommandBuilder struct {
	LoggerProvider    LoggerProvider
	DirectoryProvider DirectoryProvider
}

// Build constructs the list-repositories cobra command.
func (builder *RepositoriesCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   listRepositoriesUseConstant,
		Short: listRepositoriesShortConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := newCommandService(builder.LoggerProvider, builder.DirectoryProvider, command)
			if serviceError != nil {
				return serviceError
			}
			return service.ListRepositories(command.Context(), arguments[0])
		},
	}
	return command, nil
}

// TemplatesCommandBuilder assembles the list-templates command.
type TemplatesCommandBuilder struct {
	LoggerProvider    LoggerProvider
	DirectoryProvider DirectoryProvider
}

// Build constructs the list-templates cobra command.
func (builder *TemplatesCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   listTemplatesUseConstant,
		Short: listTemplatesShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := newCommandService(builder.LoggerProvider, builder.DirectoryProvider, command)
			if serviceError != nil {
				return serviceError
			}
			return service.ListTemplates(command.Context())
		},
	}
	return command, nil
}

func newCommandService(loggerProvider LoggerProvider, directoryProvider DirectoryProvider, command *cobra.Command) (*Service, error) {
	if directoryProvider == nil {
		return nil, errors.New(directoryProviderMissingMessageConstant)
	}

	directory, directoryError := directoryProvider()
	if directoryError != nil {
		return nil, directoryError
	}

	logger := zap.NewNop()
	if loggerProvider != nil {
		if providedLogger := loggerProvider(); providedLogger != nil {
			logger = providedLogger
		}
	}

	return NewService(directory, logger, command.OutOrStdout()), nil
}
