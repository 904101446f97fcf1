package verify

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/coursectl/internal/roster"
)

const (
	checkStudentsUseConstant   = "check-students <roster>"
	checkStudentsShortConstant = "Verify accounts, organization membership, and team assignments against a roster"
	checkLoginUseConstant      = "check-login <roster>"
	checkLoginShortConstant    = "Report roster accounts that have never signed in"
	checkCourseUseConstant     = "check-course <organization>"
	checkCourseShortConstant   = "Display an organization's teams, repositories, and memberships"

	directoryProviderMissingMessageConstant = "directory provider not configured"
	rosterFileMissingTemplateConstant       = "roster file %q not found"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// StudentsCommandBuilder assembles the check-students command.
type StudentsCommandBuilder struct {
	LoggerProvider    LoggerProvider
	DirectoryProvider DirectoryProvider
}

// Build constructs the check-students cobra command.
func (builder *StudentsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   checkStudentsUseConstant,
		Short: checkStudentsShortConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			model, modelError := loadRosterModel(arguments[0])
			if modelError != nil {
				return modelError
			}

			service, serviceError := newCommandService(builder.LoggerProvider, builder.DirectoryProvider, command)
			if serviceError != nil {
				return serviceError
			}
			_, auditError := service.CheckStudents(command.Context(), model)
			return auditError
		},
	}
	return command, nil
}

// LoginCommandBuilder assembles the check-login command.
type LoginCommandBuilder struct {
	LoggerProvider    LoggerProvider
	DirectoryProvider DirectoryProvider
}

// Build constructs the check-login cobra command.
func (builder *LoginCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   checkLoginUseConstant,
		Short: checkLoginShortConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			model, modelError := loadRosterModel(arguments[0])
			if modelError != nil {
				return modelError
			}

			service, serviceError := newCommandService(builder.LoggerProvider, builder.DirectoryProvider, command)
			if serviceError != nil {
				return serviceError
			}
			_, auditError := service.CheckLogin(command.Context(), model)
			return auditError
		},
	}
	return command, nil
}

// CourseCommandBuilder assembles the check-course command.
type CourseCommandBuilder struct {
	LoggerProvider    LoggerProvider
	DirectoryProvider DirectoryProvider
}

// Build constructs the check-course cobra command.
func (builder *CourseCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   checkCourseUseConstant,
		Short: checkCourseShortConstant,
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			service, serviceError := newCommandService(builder.LoggerProvider, builder.DirectoryProvider, command)
			if serviceError != nil {
				return serviceError
			}
			return service.InspectOrganization(command.Context(), arguments[0])
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
