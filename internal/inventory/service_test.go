package inventory_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/coursectl/internal/gitea"
	"github.com/temirov/coursectl/internal/inventory"
)

type stubInventoryDirectory struct {
	organizations      []gitea.Organization
	organizationsByKey map[string]gitea.Organization
	repositories       map[string][]gitea.Repository
	templates          []gitea.Repository
	listError          error
}

func (stub *stubInventoryDirectory) ListAllOrganizations(_ context.Context) ([]gitea.Organization, error) {
	if stub.listError != nil {
		return nil, stub.listError
	}
	return stub.organizations, nil
}

func (stub *stubInventoryDirectory) GetOrganization(_ context.Context, organizationName string) (gitea.Organization, bool, error) {
	organization, found := stub.organizationsByKey[organizationName]
	return organization, found, nil
}

func (stub *stubInventoryDirectory) ListOrganizationRepositories(_ context.Context, organizationName string) ([]gitea.Repository, error) {
	return stub.repositories[organizationName], nil
}

func (stub *stubInventoryDirectory) SearchTemplateRepositories(_ context.Context) ([]gitea.Repository, error) {
	return stub.templates, nil
}

func TestListOrganizations(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		directory            *stubInventoryDirectory
		expectedError        bool
		expectedOutputPieces []string
	}{
		{
			name: "prints_name_visibility_and_full_name",
			directory: &stubInventoryDirectory{
				organizations: []gitea.Organization{
					{Name: "course-2026", Visibility: "private", FullName: "Systems Programming 2026"},
					{Name: "sandbox", Visibility: "public"},
				},
			},
			expectedOutputPieces: []string{
				"Organizations (2):",
				"course-2026 (private) - Systems Programming 2026",
				"sandbox (public)",
			},
		},
		{
			name:                 "empty_listing_prints_placeholder",
			directory:            &stubInventoryDirectory{},
			expectedOutputPieces: []string{"Organizations (0):", "(none)"},
		},
		{
			name:          "listing_failure_returned",
			directory:     &stubInventoryDirectory{listError: errors.New("boom")},
			expectedError: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			service := inventory.NewService(testCase.directory, nil, outputBuffer)

			listError := service.ListOrganizations(context.Background())
			if testCase.expectedError {
				require.Error(subtestInstance, listError)
				return
			}

			require.NoError(subtestInstance, listError)
			for _, expectedPiece := range testCase.expectedOutputPieces {
				require.Contains(subtestInstance, outputBuffer.String(), expectedPiece)
			}
		})
	}
}

func TestListRepositories(testInstance *testing.T) {
	directory := &stubInventoryDirectory{
		organizationsByKey: map[string]gitea.Organization{
			"course-2026": {Name: "course-2026", Visibility: "private"},
		},
		repositories: map[string][]gitea.Repository{
			"course-2026": {
				{
					Name:     "team-alpha",
					Private:  true,
					HTMLURL:  "https://git.example.edu/course-2026/team-alpha",
					CloneURL: "https://git.example.edu/course-2026/team-alpha.git",
				},
			},
		},
	}

	testInstance.Run("0_prints_urls_and_privacy", func(subtestInstance *testing.T) {
		outputBuffer := &bytes.Buffer{}
		service := inventory.NewService(directory, nil, outputBuffer)

		require.NoError(subtestInstance, service.ListRepositories(context.Background(), "course-2026"))
		require.Contains(subtestInstance, outputBuffer.String(), "Repos in 'course-2026' (1):")
		require.Contains(subtestInstance, outputBuffer.String(), "team-alpha (private)")
		require.Contains(subtestInstance, outputBuffer.String(), "web:   https://git.example.edu/course-2026/team-alpha")
		require.Contains(subtestInstance, outputBuffer.String(), "clone: https://git.example.edu/course-2026/team-alpha.git")
	})

	testInstance.Run("1_missing_organization_rejected", func(subtestInstance *testing.T) {
		service := inventory.NewService(directory, nil, &bytes.Buffer{})

		listError := service.ListRepositories(context.Background(), "absent-org")
		require.ErrorIs(subtestInstance, listError, inventory.OrganizationNotFoundError{Organization: "absent-org"})
	})
}

func TestListTemplates(testInstance *testing.T) {
	directory := &stubInventoryDirectory{
		templates: []gitea.Repository{
			{
				Name:    "assignment-template",
				Private: false,
				Owner:   gitea.RepositoryOwner{Login: "instructors"},
			},
		},
	}

	outputBuffer := &bytes.Buffer{}
	service := inventory.NewService(directory, nil, outputBuffer)

	require.NoError(testInstance, service.ListTemplates(context.Background()))
	require.Contains(testInstance, outputBuffer.String(), "Template repos (1):")
	require.Contains(testInstance, outputBuffer.String(), "instructors/assignment-template (public)")
}
