package reconcile

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/coursectl/internal/roster"
)

const (
	createOrganizationUseConstant   = "create-organization <organization>"
	createOrganizationShortConstant = "Create a private organization or verify an existing one"
	createRepositoriesUseConstant   = "create-repositories <roster> [template-owner/template-repo]"
	createRepositoriesShortConstant = "Create teams and private repositories for every roster team"
	addStudentsUseConstant          = "add-students <roster>"
	addStudentsShortConstant        = "Create student accounts and converge team membership from a roster"
	resetPasswordUseConstant        = "reset-password <roster> <subject-id>"
	resetPasswordShortConstant      = "Reset a student's password to the default and require a change on login"

	directoryProviderMissingMessageConstant = "directory provider not configured"
	rosterFileMissingTemplateConstant       = "roster file %q not found"
	subjectNotInRosterTemplateConstant      = "subject %q not found in roster %q"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// EmailDomainProvider supplies the domain used to derive student email
// addresses.
type EmailDomainProvider func() string

// OrganizationCommandBuilder assembles the create-organization command.
type OrganizationCommandBuilder struct {
	LoggerProvider    LoggerProvider
	DirectoryProvider DirectoryProvider
}

// Build constructs the create-organization cobra command.
func (builder *OrganizationCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   createOrganizationUseConstant,
		Short: createOrganizationShortConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := newCommandService(builder.LoggerProvider, builder.DirectoryProvider, nil, command)
			if serviceError != nil {
				return serviceError
			}
			return service.EnsureOrganization(command.Context(), arguments[0])
		},
	}
	return command, nil
}

// RepositoriesCommandBuilder assembles the create-repositories command.
type RepositoriesCommandBuilder struct {
	LoggerProvider    LoggerProvider
	DirectoryProvider DirectoryProvider
}

// Build constructs the create-repositories cobra command.
func (builder *RepositoriesCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   createRepositoriesUseConstant,
		Short: createRepositoriesShortConstant,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(command *cobra.Command, arguments []string) error {
			var template *TemplateReference
			if len(arguments) == 2 {
				parsedTemplate, parseError := ParseTemplateReference(arguments[1])
				if parseError != nil {
					return parseError
				}
				template = &parsedTemplate
			}

			model, modelError := loadRosterModel(arguments[0])
			if modelError != nil {
				return modelError
			}

			service, serviceError := newCommandService(builder.LoggerProvider, builder.DirectoryProvider, nil, command)
			if serviceError != nil {
				return serviceError
			}
			return service.ProvisionRepositories(command.Context(), model, template)
		},
	}
	return command, nil
}

// StudentsCommandBuilder assembles the add-students command.
type StudentsCommandBuilder struct {
	LoggerProvider      LoggerProvider
	DirectoryProvider   DirectoryProvider
	EmailDomainProvider EmailDomainProvider
}

// Build constructs the add-students cobra command.
func (builder *StudentsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   addStudentsUseConstant,
		Short: addStudentsShortConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			model, modelError := loadRosterModel(arguments[0])
			if modelError != nil {
				return modelError
			}

			service, serviceError := newCommandService(builder.LoggerProvider, builder.DirectoryProvider, builder.EmailDomainProvider, command)
			if serviceError != nil {
				return serviceError
			}
			_, enrollmentError := service.EnrollStudents(command.Context(), model)
			return enrollmentError
		},
	}
	return command, nil
}

// PasswordResetCommandBuilder assembles the reset-password command.
type PasswordResetCommandBuilder struct {
	LoggerProvider    LoggerProvider
	DirectoryProvider DirectoryProvider
}

// Build constructs the reset-password cobra command.
func (builder *PasswordResetCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   resetPasswordUseConstant,
		Short: resetPasswordShortConstant,
		Args:  cobra.ExactArgs(2),
		RunE: func(command *cobra.Command, arguments []string) error {
			model, modelError := loadRosterModel(arguments[0])
			if modelError != nil {
				return modelError
			}

			subjectIdentifier := arguments[1]
			if !rosterContainsSubject(model, subjectIdentifier) {
				return fmt.Errorf(subjectNotInRosterTemplateConstant, subjectIdentifier, arguments[0])
			}

			service, serviceError := newCommandService(builder.LoggerProvider, builder.DirectoryProvider, nil, command)
			if serviceError != nil {
				return serviceError
			}
			return service.ResetPassword(command.Context(), subjectIdentifier)
		},
	}
	return command, nil
}

func newCommandService(loggerProvider LoggerProvider, directoryProvider DirectoryProvider, emailDomainProvider EmailDomainProvider, command *cobra.Command) (*Service, error) {
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

	emailDomain := ""
	if emailDomainProvider != nil {
		emailDomain = emailDomainProvider()
	}

	return NewService(directory, logger, command.OutOrStdout(), emailDomain), nil
}

func loadRosterModel(rosterPath string) (roster.Model, error) {
	entries, loadError := roster.LoadRoster(rosterPath)
	if loadError != nil {
		if os.IsNotExist(loadError) {
			return roster.Model{}, fmt.Errorf(rosterFileMissingTemplateConstant, rosterPath)
		}
		return roster.Model{}, loadError
	}
	return roster.BuildModel(entries)
}

func rosterContainsSubject(model roster.Model, subjectIdentifier string) bool {
	for _, entry := range model.Entries {
		if entry.SubjectID == subjectIdentifier {
			return true
		}
	}
	return false
}
