package gitea_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/coursectl/internal/gitea"
)

func newTestClient(testInstance *testing.T, handler http.Handler) *gitea.Client {
	server := httptest.NewServer(handler)
	testInstance.Cleanup(server.Close)

	client, clientError := gitea.NewClient(gitea.ClientConfiguration{
		BaseURL:           server.URL,
		Username:          "course-admin",
		Password:          "admin-secret",
		RequestsPerSecond: 1000,
	})
	require.NoError(testInstance, clientError)
	return client
}

func writeJSON(responseWriter http.ResponseWriter, statusCode int, payload any) {
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(statusCode)
	_ = json.NewEncoder(responseWriter).Encode(payload)
}

func TestNewClientRequiresBaseURL(testInstance *testing.T) {
	_, clientError := gitea.NewClient(gitea.ClientConfiguration{})
	require.ErrorIs(testInstance, clientError, gitea.ErrClientNotConfigured)
}

func TestGetOrganization(testInstance *testing.T) {
	testCases := []struct {
		name           string
		statusCode     int
		responseBody   any
		expectedFound  bool
		expectedError  bool
		expectedOrgRaw string
	}{
		{
			name:           "present_organization_decoded",
			statusCode:     http.StatusOK,
			responseBody:   map[string]any{"id": 7, "username": "course-2026", "visibility": "private"},
			expectedFound:  true,
			expectedOrgRaw: "course-2026",
		},
		{
			name:          "not_found_reported_as_absence",
			statusCode:    http.StatusNotFound,
			responseBody:  map[string]any{"message": "not found"},
			expectedFound: false,
		},
		{
			name:          "server_error_surfaced",
			statusCode:    http.StatusInternalServerError,
			responseBody:  map[string]any{"message": "boom"},
			expectedError: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			client := newTestClient(subtestInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
				require.Equal(subtestInstance, "/api/v1/orgs/course-2026", request.URL.Path)
				authenticatedUsername, _, hasBasicAuth := request.BasicAuth()
				require.True(subtestInstance, hasBasicAuth)
				require.Equal(subtestInstance, "course-admin", authenticatedUsername)
				writeJSON(responseWriter, testCase.statusCode, testCase.responseBody)
			}))

			organization, organizationFound, requestError := client.GetOrganization(context.Background(), "course-2026")
			if testCase.expectedError {
				require.Error(subtestInstance, requestError)
				var statusError gitea.StatusError
				require.ErrorAs(subtestInstance, requestError, &statusError)
				require.Equal(subtestInstance, testCase.statusCode, statusError.StatusCode)
				return
			}

			require.NoError(subtestInstance, requestError)
			require.Equal(subtestInstance, testCase.expectedFound, organizationFound)
			require.Equal(subtestInstance, testCase.expectedOrgRaw, organization.Name)
		})
	}
}

func TestCreateOrganizationConflictMapsToAlreadyExists(testInstance *testing.T) {
	for testCaseIndex, conflictStatus := range []int{http.StatusConflict, http.StatusUnprocessableEntity} {
		testInstance.Run(fmt.Sprintf("%d_status_%d", testCaseIndex, conflictStatus), func(subtestInstance *testing.T) {
			client := newTestClient(subtestInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
				require.Equal(subtestInstance, http.MethodPost, request.Method)
				writeJSON(responseWriter, conflictStatus, map[string]any{"message": "already exists"})
			}))

			_, createError := client.CreateOrganization(context.Background(), gitea.CreateOrganizationRequest{
				Name:       "course-2026",
				Visibility: "private",
			})
			require.ErrorIs(subtestInstance, createError, gitea.ErrAlreadyExists)
		})
	}
}

func TestListTeamsPaginatesUntilEmptyPage(testInstance *testing.T) {
	pageSize := 50
	firstPage := make([]map[string]any, 0, pageSize)
	for teamIndex := 0; teamIndex < pageSize; teamIndex++ {
		firstPage = append(firstPage, map[string]any{
			"id":   teamIndex + 1,
			"name": fmt.Sprintf("team-%02d", teamIndex),
		})
	}
	secondPage := []map[string]any{{"id": 51, "name": "team-50"}}

	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "/api/v1/orgs/course-2026/teams", request.URL.Path)
		pageNumber, _ := strconv.Atoi(request.URL.Query().Get("page"))
		switch pageNumber {
		case 1:
			writeJSON(responseWriter, http.StatusOK, firstPage)
		case 2:
			writeJSON(responseWriter, http.StatusOK, secondPage)
		default:
			writeJSON(responseWriter, http.StatusOK, []map[string]any{})
		}
	}))

	teams, listError := client.ListTeams(context.Background(), "course-2026")
	require.NoError(testInstance, listError)
	require.Len(testInstance, teams, pageSize+1)
	require.Equal(testInstance, "team-00", teams[0].Name)
	require.Equal(testInstance, "team-50", teams[pageSize].Name)
}

func TestIsTeamMember(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/api/v1/teams/11/members/s100":
			writeJSON(responseWriter, http.StatusOK, map[string]any{"login": "s100"})
		default:
			writeJSON(responseWriter, http.StatusNotFound, map[string]any{})
		}
	}))

	isMember, membershipError := client.IsTeamMember(context.Background(), 11, "s100")
	require.NoError(testInstance, membershipError)
	require.True(testInstance, isMember)

	isMember, membershipError = client.IsTeamMember(context.Background(), 11, "s200")
	require.NoError(testInstance, membershipError)
	require.False(testInstance, isMember)
}

func TestAddTeamMemberAcceptsNoContent(testInstance *testing.T) {
	var observedMethod string
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		observedMethod = request.Method
		require.Equal(testInstance, "/api/v1/teams/11/members/s100", request.URL.Path)
		responseWriter.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(testInstance, client.AddTeamMember(context.Background(), 11, "s100"))
	require.Equal(testInstance, http.MethodPut, observedMethod)
}

func TestSearchTemplateRepositoriesUnwrapsEnvelope(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "/api/v1/repos/search", request.URL.Path)
		require.Equal(testInstance, "true", request.URL.Query().Get("template"))
		pageNumber, _ := strconv.Atoi(request.URL.Query().Get("page"))
		if pageNumber > 1 {
			writeJSON(responseWriter, http.StatusOK, map[string]any{"data": []any{}})
			return
		}
		writeJSON(responseWriter, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"id": 3, "name": "assignment-template", "owner": map[string]any{"login": "instructors"}},
			},
		})
	}))

	templates, searchError := client.SearchTemplateRepositories(context.Background())
	require.NoError(testInstance, searchError)
	require.Len(testInstance, templates, 1)
	require.Equal(testInstance, "assignment-template", templates[0].Name)
	require.Equal(testInstance, "instructors", templates[0].Owner.Login)
}

func TestCreateUserPostsToAdminEndpoint(testInstance *testing.T) {
	client := newTestClient(testInstance, http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, http.MethodPost, request.Method)
		require.Equal(testInstance, "/api/v1/admin/users", request.URL.Path)

		var createRequest gitea.CreateUserRequest
		require.NoError(testInstance, json.NewDecoder(request.Body).Decode(&createRequest))
		require.Equal(testInstance, "s100", createRequest.Username)
		require.True(testInstance, createRequest.MustChangePassword)
		require.True(testInstance, createRequest.Restricted)

		writeJSON(responseWriter, http.StatusCreated, map[string]any{"id": 42, "login": "s100"})
	}))

	user, createError := client.CreateUser(context.Background(), gitea.CreateUserRequest{
		Username:           "s100",
		Password:           "001s",
		Email:              "s100@students.example.edu",
		MustChangePassword: true,
		Visibility:         "limited",
		Restricted:         true,
	})
	require.NoError(testInstance, createError)
	require.Equal(testInstance, "s100", user.Login)
}
