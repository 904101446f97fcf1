package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/coursectl/internal/utils"
)

type testConfiguration struct {
	Common struct {
		LogLevel  string `mapstructure:"log_level"`
		LogFormat string `mapstructure:"log_format"`
	} `mapstructure:"common"`
	Platform struct {
		BaseURL     string `mapstructure:"base_url"`
		EmailDomain string `mapstructure:"email_domain"`
	} `mapstructure:"platform"`
}

func TestLoadConfiguration(testInstance *testing.T) {
	embeddedDefaults := []byte("common:\n  log_level: info\n  log_format: structured\nplatform:\n  email_domain: students.example.edu\n")
	fileContent := []byte("common:\n  log_level: debug\nplatform:\n  base_url: https://git.example.edu\n")

	testCases := []struct {
		name                  string
		writeConfigFile       bool
		environmentOverrides  map[string]string
		expectedConfiguration func(configuration testConfiguration, subtestInstance *testing.T)
	}{
		{
			name: "embedded_defaults_apply_without_file",
			expectedConfiguration: func(configuration testConfiguration, subtestInstance *testing.T) {
				require.Equal(subtestInstance, "info", configuration.Common.LogLevel)
				require.Equal(subtestInstance, "students.example.edu", configuration.Platform.EmailDomain)
			},
		},
		{
			name:            "file_overrides_embedded_defaults",
			writeConfigFile: true,
			expectedConfiguration: func(configuration testConfiguration, subtestInstance *testing.T) {
				require.Equal(subtestInstance, "debug", configuration.Common.LogLevel)
				require.Equal(subtestInstance, "structured", configuration.Common.LogFormat)
				require.Equal(subtestInstance, "https://git.example.edu", configuration.Platform.BaseURL)
			},
		},
		{
			name:                 "environment_overrides_file",
			writeConfigFile:      true,
			environmentOverrides: map[string]string{"COURSETEST_COMMON_LOG_LEVEL": "warn"},
			expectedConfiguration: func(configuration testConfiguration, subtestInstance *testing.T) {
				require.Equal(subtestInstance, "warn", configuration.Common.LogLevel)
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			for environmentKey, environmentValue := range testCase.environmentOverrides {
				subtestInstance.Setenv(environmentKey, environmentValue)
			}

			configurationFilePath := ""
			if testCase.writeConfigFile {
				configurationFilePath = filepath.Join(subtestInstance.TempDir(), "config.yaml")
				require.NoError(subtestInstance, os.WriteFile(configurationFilePath, fileContent, 0o600))
			}

			loader := utils.NewConfigurationLoader("config", "yaml", "COURSETEST", nil)
			loader.SetEmbeddedConfiguration(embeddedDefaults)

			var configuration testConfiguration
			loaded, loadError := loader.LoadConfiguration(configurationFilePath, nil, &configuration)
			require.NoError(subtestInstance, loadError)
			if testCase.writeConfigFile {
				require.Equal(subtestInstance, configurationFilePath, loaded.ConfigFileUsed)
			}
			testCase.expectedConfiguration(configuration, subtestInstance)
		})
	}
}

func TestLoadConfigurationRejectsMalformedFile(testInstance *testing.T) {
	configurationFilePath := filepath.Join(testInstance.TempDir(), "config.yaml")
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(":\n  - broken"), 0o600))

	loader := utils.NewConfigurationLoader("config", "yaml", "COURSETEST", nil)

	var configuration testConfiguration
	_, loadError := loader.LoadConfiguration(configurationFilePath, nil, &configuration)
	require.Error(testInstance, loadError)
}
