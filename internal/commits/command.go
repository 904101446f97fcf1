package commits

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/coursectl/internal/roster"
)

const (
	checkCommitsUseConstant   = "check-commits <organization> [team]"
	checkCommitsShortConstant = "Report teams whose repositories carry no student commits"
	checkCommitsLongConstant  = "Scan every student team's repositories for commit activity, classifying " +
		"authors against team membership, the Owners team, and an optional alias file " +
		"that maps commit emails to platform logins."

	aliasFileFlagNameConstant        = "aliases"
	aliasFileFlagDescriptionConstant = "path to a CSV alias file mapping commit emails to logins (default <organization>.aliases.csv)"
	aliasFileDefaultTemplateConstant = "%s.aliases.csv"
	aliasesLoadedTemplateConstant    = "Loaded %d alias(es) from %s.\n"

	directoryProviderMissingMessageConstant = "directory provider not configured"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the check-commits command.
type CommandBuilder struct {
	LoggerProvider    LoggerProvider
	DirectoryProvider DirectoryProvider
}

// Build constructs the check-commits cobra command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	var aliasFilePath string

	command := &cobra.Command{
		Use:   checkCommitsUseConstant,
		Short: checkCommitsShortConstant,
		Long:  checkCommitsLongConstant,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(command *cobra.Command, arguments []string) error {
			organizationName := arguments[0]
			teamFilter := ""
			if len(arguments) > 1 {
				teamFilter = arguments[1]
			}

			if builder.DirectoryProvider == nil {
				return errors.New(directoryProviderMissingMessageConstant)
			}
			directory, directoryError := builder.DirectoryProvider()
			if directoryError != nil {
				return directoryError
			}

			logger := zap.NewNop()
			if builder.LoggerProvider != nil {
				if providedLogger := builder.LoggerProvider(); providedLogger != nil {
					logger = providedLogger
				}
			}

			resolvedAliasPath := aliasFilePath
			if len(resolvedAliasPath) == 0 {
				resolvedAliasPath = fmt.Sprintf(aliasFileDefaultTemplateConstant, organizationName)
			}
			aliases, aliasError := roster.LoadAliases(resolvedAliasPath)
			if aliasError != nil {
				return aliasError
			}
			if len(aliases) > 0 {
				fmt.Fprintf(command.OutOrStdout(), aliasesLoadedTemplateConstant, len(aliases), resolvedAliasPath)
			}

			service := NewService(directory, logger, command.OutOrStdout())
			_, activityError := service.CheckActivity(command.Context(), organizationName, teamFilter, aliases)
			return activityError
		},
	}
	command.Flags().StringVar(&aliasFilePath, aliasFileFlagNameConstant, "", aliasFileFlagDescriptionConstant)
	return command, nil
}
