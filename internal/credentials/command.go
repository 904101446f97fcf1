package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	authUseConstant         = "auth"
	authShortConstant       = "Manage stored platform administrator credentials"
	authLoginUseConstant    = "login"
	authLoginShortConstant  = "Verify admin credentials and store them in the OS keyring"
	authLogoutUseConstant   = "logout"
	authLogoutShortConstant = "Remove admin credentials from the OS keyring"
	authInfoUseConstant     = "info"
	authInfoShortConstant   = "Show which admin account has stored credentials"

	usernameFlagNameConstant        = "username"
	usernameFlagDescriptionConstant = "platform administrator username"
	passwordFlagNameConstant        = "password"
	passwordFlagDescriptionConstant = "platform administrator password"

	credentialsSavedTemplateConstant   = "Stored credentials for '%s'.\n"
	credentialsClearedMessageConstant  = "Stored credentials removed.\n"
	storedAccountTemplateConstant      = "Stored admin account: %s\n"
	noStoredAccountMessageConstant     = "No stored credentials. Run 'auth login' first.\n"
	verificationFailedTemplateConstant = "verifying credentials: %w"

	logMessageCredentialsStored  = "admin credentials stored"
	logFieldAdminAccountConstant = "admin_account"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CredentialVerifier checks a credential pair against the platform before it
// is stored. A nil verifier stores without checking.
type CredentialVerifier func(executionContext context.Context, credentials Credentials) error

// CommandBuilder assembles the auth command group.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	Resolver       *Resolver
	Verifier       CredentialVerifier
}

// Build constructs the auth cobra command with its login, logout, and info
// subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	authCommand := &cobra.Command{
		Use:   authUseConstant,
		Short: authShortConstant,
	}

	loginCommand, loginError := builder.buildLoginCommand()
	if loginError != nil {
		return nil, loginError
	}
	authCommand.AddCommand(loginCommand)
	authCommand.AddCommand(builder.buildLogoutCommand())
	authCommand.AddCommand(builder.buildInfoCommand())

	return authCommand, nil
}

func (builder *CommandBuilder) buildLoginCommand() (*cobra.Command, error) {
	var adminUsername string
	var adminPassword string

	loginCommand := &cobra.Command{
		Use:   authLoginUseConstant,
		Short: authLoginShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			pair := Credentials{Username: adminUsername, Password: adminPassword}
			if !pair.IsComplete() {
				return ErrIncompleteCredentials
			}

			if builder.Verifier != nil {
				if verifyError := builder.Verifier(command.Context(), pair); verifyError != nil {
					return fmt.Errorf(verificationFailedTemplateConstant, verifyError)
				}
			}

			resolver := builder.commandResolver()
			if saveError := resolver.Save(pair); saveError != nil {
				return saveError
			}

			builder.commandLogger().Info(
				logMessageCredentialsStored,
				zap.String(logFieldAdminAccountConstant, pair.Username),
			)
			fmt.Fprintf(command.OutOrStdout(), credentialsSavedTemplateConstant, pair.Username)
			return nil
		},
	}
	loginCommand.Flags().StringVar(&adminUsername, usernameFlagNameConstant, "", usernameFlagDescriptionConstant)
	loginCommand.Flags().StringVar(&adminPassword, passwordFlagNameConstant, "", passwordFlagDescriptionConstant)
	if markError := loginCommand.MarkFlagRequired(usernameFlagNameConstant); markError != nil {
		return nil, markError
	}
	if markError := loginCommand.MarkFlagRequired(passwordFlagNameConstant); markError != nil {
		return nil, markError
	}
	return loginCommand, nil
}

func (builder *CommandBuilder) buildLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   authLogoutUseConstant,
		Short: authLogoutShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if forgetError := builder.commandResolver().Forget(); forgetError != nil {
				return forgetError
			}
			fmt.Fprint(command.OutOrStdout(), credentialsClearedMessageConstant)
			return nil
		},
	}
}

func (builder *CommandBuilder) buildInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   authInfoUseConstant,
		Short: authInfoShortConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			storedUsername, readError := builder.commandResolver().StoredUsername()
			if readError != nil {
				if errors.Is(readError, ErrCredentialsNotFound) {
					fmt.Fprint(command.OutOrStdout(), noStoredAccountMessageConstant)
					return nil
				}
				return readError
			}
			fmt.Fprintf(command.OutOrStdout(), storedAccountTemplateConstant, storedUsername)
			return nil
		},
	}
}

func (builder *CommandBuilder) commandResolver() *Resolver {
	if builder.Resolver != nil {
		return builder.Resolver
	}
	return NewResolver(nil)
}

func (builder *CommandBuilder) commandLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if providedLogger := builder.LoggerProvider(); providedLogger != nil {
			return providedLogger
		}
	}
	return zap.NewNop()
}
