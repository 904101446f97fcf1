package credentials_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/coursectl/internal/credentials"
)

func TestResolverResolve(testInstance *testing.T) {
	testCases := []struct {
		name                string
		storedUsername      string
		storedPassword      string
		configuredUsername  string
		configuredPassword  string
		expectedCredentials credentials.Credentials
		expectedError       error
	}{
		{
			name:                "configuration_wins_over_store",
			storedUsername:      "stored-admin",
			storedPassword:      "stored-secret",
			configuredUsername:  "configured-admin",
			configuredPassword:  "configured-secret",
			expectedCredentials: credentials.Credentials{Username: "configured-admin", Password: "configured-secret"},
		},
		{
			name:                "store_used_when_configuration_empty",
			storedUsername:      "stored-admin",
			storedPassword:      "stored-secret",
			expectedCredentials: credentials.Credentials{Username: "stored-admin", Password: "stored-secret"},
		},
		{
			name:               "half_configured_pair_rejected",
			configuredUsername: "configured-admin",
			expectedError:      credentials.ErrIncompleteCredentials,
		},
		{
			name:          "empty_store_reported_missing",
			expectedError: credentials.ErrCredentialsNotFound,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			store := credentials.NewMemoryStore()
			resolver := credentials.NewResolver(store)
			if len(testCase.storedUsername) > 0 {
				require.NoError(subtestInstance, resolver.Save(credentials.Credentials{
					Username: testCase.storedUsername,
					Password: testCase.storedPassword,
				}))
			}

			resolved, resolveError := resolver.Resolve(testCase.configuredUsername, testCase.configuredPassword)
			if testCase.expectedError != nil {
				require.ErrorIs(subtestInstance, resolveError, testCase.expectedError)
				return
			}

			require.NoError(subtestInstance, resolveError)
			require.Equal(subtestInstance, testCase.expectedCredentials, resolved)
		})
	}
}

func TestResolverForget(testInstance *testing.T) {
	resolver := credentials.NewResolver(credentials.NewMemoryStore())
	require.NoError(testInstance, resolver.Save(credentials.Credentials{Username: "admin", Password: "secret"}))
	require.NoError(testInstance, resolver.Forget())

	_, resolveError := resolver.Resolve("", "")
	require.ErrorIs(testInstance, resolveError, credentials.ErrCredentialsNotFound)

	require.NoError(testInstance, resolver.Forget())
}

func TestResolverSaveRejectsIncompletePair(testInstance *testing.T) {
	resolver := credentials.NewResolver(credentials.NewMemoryStore())
	saveError := resolver.Save(credentials.Credentials{Username: "admin"})
	require.ErrorIs(testInstance, saveError, credentials.ErrIncompleteCredentials)
}
