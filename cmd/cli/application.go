package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/coursectl/internal/commits"
	"github.com/temirov/coursectl/internal/credentials"
	"github.com/temirov/coursectl/internal/gitea"
	"github.com/temirov/coursectl/internal/inventory"
	"github.com/temirov/coursectl/internal/reconcile"
	"github.com/temirov/coursectl/internal/utils"
	"github.com/temirov/coursectl/internal/verify"
)

const (
	applicationNameConstant             = "coursectl"
	applicationShortDescriptionConstant = "Command-line interface for classroom Gitea administration"
	applicationLongDescriptionConstant  = "coursectl provisions organizations, teams, repositories, and student accounts " +
		"on a self-hosted Gitea instance from course roster files, and audits the resulting state without modifying it."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "COURSECTL"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."

	baseURLMissingMessageConstant = "platform base URL not configured: set platform.base_url in the configuration " +
		"file or the COURSECTL_PLATFORM_BASE_URL environment variable"
	adminAccountMissingTemplateConstant = "admin account %q not found on the platform"
)

// ApplicationConfiguration describes the persisted configuration for the CLI
// entrypoint.
type ApplicationConfiguration struct {
	Common   ApplicationCommonConfiguration `mapstructure:"common"`
	Platform PlatformConfiguration          `mapstructure:"platform"`
}

// ApplicationCommonConfiguration stores logging configuration shared across
// commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// PlatformConfiguration stores the Gitea connection settings. The admin
// password may be left empty and resolved from the OS keyring instead.
type PlatformConfiguration struct {
	BaseURL           string  `mapstructure:"base_url"`
	AdminUsername     string  `mapstructure:"admin_username"`
	AdminPassword     string  `mapstructure:"admin_password"`
	EmailDomain       string  `mapstructure:"email_domain"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// Application wires the Cobra root command, configuration loader, structured
// logger, and the shared Gitea directory client.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	credentialResolver    *credentials.Resolver
	directoryClient       *gitea.Client
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		credentialResolver:  credentials.NewResolver(nil),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	application.registerReconcileCommands(cobraCommand)
	application.registerVerifyCommands(cobraCommand)
	application.registerActivityCommand(cobraCommand)
	application.registerInventoryCommands(cobraCommand)
	application.registerAuthCommand(cobraCommand)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger
// flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command
// hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) registerReconcileCommands(rootCommand *cobra.Command) {
	organizationBuilder := reconcile.OrganizationCommandBuilder{
		LoggerProvider:    application.provideLogger,
		DirectoryProvider: application.provideReconcileDirectory,
	}
	if organizationCommand, buildError := organizationBuilder.Build(); buildError == nil {
		rootCommand.AddCommand(organizationCommand)
	}

	repositoriesBuilder := reconcile.RepositoriesCommandBuilder{
		LoggerProvider:    application.provideLogger,
		DirectoryProvider: application.provideReconcileDirectory,
	}
	if repositoriesCommand, buildError := repositoriesBuilder.Build(); buildError == nil {
		rootCommand.AddCommand(repositoriesCommand)
	}

	studentsBuilder := reconcile.StudentsCommandBuilder{
		LoggerProvider:      application.provideLogger,
		DirectoryProvider:   application.provideReconcileDirectory,
		EmailDomainProvider: application.provideEmailDomain,
	}
	if studentsCommand, buildError := studentsBuilder.Build(); buildError == nil {
		rootCommand.AddCommand(studentsCommand)
	}

	passwordResetBuilder := reconcile.PasswordResetCommandBuilder{
		LoggerProvider:    application.provideLogger,
		DirectoryProvider: application.provideReconcileDirectory,
	}
	if passwordResetCommand, buildError := passwordResetBuilder.Build(); buildError == nil {
		rootCommand.AddCommand(passwordResetCommand)
	}
}

func (application *Application) registerVerifyCommands(rootCommand *cobra.Command) {
	studentsBuilder := verify.StudentsCommandBuilder{
		LoggerProvider:    application.provideLogger,
		DirectoryProvider: application.provideVerifyDirectory,
	}
	if studentsCommand, buildError := studentsBuilder.Build(); buildError == nil {
		rootCommand.AddCommand(studentsCommand)
	}

	loginBuilder := verify.LoginCommandBuilder{
		LoggerProvider:    application.provideLogger,
		DirectoryProvider: application.provideVerifyDirectory,
	}
	if loginCommand, buildError := loginBuilder.Build(); buildError == nil {
		rootCommand.AddCommand(loginCommand)
	}

	courseBuilder := verify.CourseCommandBuilder{
		LoggerProvider:    application.provideLogger,
		DirectoryProvider: application.provideVerifyDirectory,
	}
	if courseCommand, buildError := courseBuilder.Build(); buildError == nil {
		rootCommand.AddCommand(courseCommand)
	}
}

func (application *Application) registerActivityCommand(rootCommand *cobra.Command) {
	activityBuilder := commits.CommandBuilder{
		LoggerProvider: application.provideLogger,
		DirectoryProvider: func() (commits.Directory, error) {
			return application.directory()
		},
	}
	if activityCommand, buildError := activityBuilder.Build(); buildError == nil {
		rootCommand.AddCommand(activityCommand)
	}
}

func (application *Application) registerInventoryCommands(rootCommand *cobra.Command) {
	inventoryDirectoryProvider := func() (inventory.Directory, error) {
		return application.directory()
	}

	organizationsBuilder := inventory.OrganizationsCommandBuilder{
		LoggerProvider:    application.provideLogger,
		DirectoryProvider: inventoryDirectoryProvider,
	}
	if organizationsCommand, buildError := organizationsBuilder.Build(); buildError == nil {
		rootCommand.AddCommand(organizationsCommand)
	}

	repositoriesBuilder := inventory.RepositoriesCommandBuilder{
		LoggerProvider:    application.provideLogger,
		DirectoryProvider: inventoryDirectoryProvider,
	}
	if repositoriesCommand, buildError := repositoriesBuilder.Build(); buildError == nil {
		rootCommand.AddCommand(repositoriesCommand)
	}

	templatesBuilder := inventory.TemplatesCommandBuilder{
		LoggerProvider:    application.provideLogger,
		DirectoryProvider: inventoryDirectoryProvider,
	}
	if templatesCommand, buildError := templatesBuilder.Build(); buildError == nil {
		rootCommand.AddCommand(templatesCommand)
	}
}

func (application *Application) registerAuthCommand(rootCommand *cobra.Command) {
	authBuilder := credentials.CommandBuilder{
		LoggerProvider: application.provideLogger,
		Resolver:       application.credentialResolver,
		Verifier:       application.verifyAdminCredentials,
	}
	if authCommand, buildError := authBuilder.Build(); buildError == nil {
		rootCommand.AddCommand(authCommand)
	}
}

func (application *Application) provideLogger() *zap.Logger {
	return application.logger
}

func (application *Application) provideEmailDomain() string {
	return application.configuration.Platform.EmailDomain
}

func (application *Application) provideReconcileDirectory() (reconcile.Directory, error) {
	return application.directory()
}

func (application *Application) provideVerifyDirectory() (verify.Directory, error) {
	return application.directory()
}

// directory lazily constructs the shared Gitea client, resolving admin
// credentials from configuration first and the OS keyring second.
func (application *Application) directory() (*gitea.Client, error) {
	if application.directoryClient != nil {
		return application.directoryClient, nil
	}

	baseURL := strings.TrimSpace(application.configuration.Platform.BaseURL)
	if len(baseURL) == 0 {
		return nil, errors.New(baseURLMissingMessageConstant)
	}

	adminCredentials, credentialsError := application.credentialResolver.Resolve(
		application.configuration.Platform.AdminUsername,
		application.configuration.Platform.AdminPassword,
	)
	if credentialsError != nil {
		return nil, credentialsError
	}

	directoryClient, clientError := gitea.NewClient(gitea.ClientConfiguration{
		BaseURL:           baseURL,
		Username:          adminCredentials.Username,
		Password:          adminCredentials.Password,
		RequestsPerSecond: application.configuration.Platform.RequestsPerSecond,
	})
	if clientError != nil {
		return nil, clientError
	}

	application.directoryClient = directoryClient
	return directoryClient, nil
}

// verifyAdminCredentials checks a credential pair against the platform before
// the auth login command stores it.
func (application *Application) verifyAdminCredentials(executionContext context.Context, pair credentials.Credentials) error {
	baseURL := strings.TrimSpace(application.configuration.Platform.BaseURL)
	if len(baseURL) == 0 {
		return errors.New(baseURLMissingMessageConstant)
	}

	probeClient, clientError := gitea.NewClient(gitea.ClientConfiguration{
		BaseURL:           baseURL,
		Username:          pair.Username,
		Password:          pair.Password,
		RequestsPerSecond: application.configuration.Platform.RequestsPerSecond,
	})
	if clientError != nil {
		return clientError
	}

	_, accountFound, probeError := probeClient.GetUser(executionContext, pair.Username)
	if probeError != nil {
		return probeError
	}
	if !accountFound {
		return fmt.Errorf(adminAccountMissingTemplateConstant, pair.Username)
	}
	return nil
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	// Environment files feed viper's AutomaticEnv lookup, so load them first.
	_ = godotenv.Load()

	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	return command.Help()
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
