package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/coursectl/cmd/cli"
)

type embeddedConfigurationDocument struct {
	Common struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"common"`
	Platform struct {
		BaseURL           string  `yaml:"base_url"`
		AdminUsername     string  `yaml:"admin_username"`
		AdminPassword     string  `yaml:"admin_password"`
		EmailDomain       string  `yaml:"email_domain"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"platform"`
}

func TestEmbeddedDefaultConfigurationParses(testInstance *testing.T) {
	var document embeddedConfigurationDocument
	require.NoError(testInstance, yaml.Unmarshal(cli.EmbeddedDefaultConfiguration(), &document))

	require.Equal(testInstance, "info", document.Common.LogLevel)
	require.Equal(testInstance, "console", document.Common.LogFormat)
	require.Equal(testInstance, "students.example.edu", document.Platform.EmailDomain)
	require.Equal(testInstance, float64(10), document.Platform.RequestsPerSecond)
	require.Empty(testInstance, document.Platform.AdminPassword)
}
