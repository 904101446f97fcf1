package gitea

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	apiPathPrefixConstant              = "/api/v1"
	pageQueryParameterConstant         = "page"
	limitQueryParameterConstant        = "limit"
	pageSizeConstant                   = 50
	defaultRequestsPerSecondConstant   = 10
	defaultRequestTimeoutConstant      = 30 * time.Second
	contentTypeHeaderConstant          = "Content-Type"
	jsonContentTypeConstant            = "application/json"
	organizationPathTemplateConstant   = "/orgs/%s"
	organizationsPathConstant          = "/orgs"
	adminOrganizationsPathConstant     = "/admin/orgs"
	userOrganizationsPathConstant      = "/user/orgs"
	organizationTeamsTemplateConstant  = "/orgs/%s/teams"
	organizationReposTemplateConstant  = "/orgs/%s/repos"
	teamPathTemplateConstant           = "/teams/%d"
	teamMembersTemplateConstant        = "/teams/%d/members"
	teamMemberTemplateConstant         = "/teams/%d/members/%s"
	teamRepositoriesTemplateConstant   = "/teams/%d/repos"
	teamRepositoryTemplateConstant     = "/teams/%d/repos/%s/%s"
	repositoryPathTemplateConstant     = "/repos/%s/%s"
	repositoryGenerateTemplateConstant = "/repos/%s/%s/generate"
	repositoryCommitsTemplateConstant  = "/repos/%s/%s/commits"
	repositorySearchPathConstant       = "/repos/search"
	templateQueryParameterConstant     = "template"
	userPathTemplateConstant           = "/users/%s"
	userOrgsTemplateConstant           = "/users/%s/orgs"
	adminUsersPathConstant             = "/admin/users"
	adminUserPathTemplateConstant      = "/admin/users/%s"
	organizationEntityDescription      = "organization"
	teamEntityDescription              = "team"
	repositoryEntityDescription        = "repository"
	userEntityDescription              = "user"
	requestBuildErrorTemplateConstant  = "unable to build %s request for %s: %w"
	requestSendErrorTemplateConstant   = "%s %s failed: %w"
	payloadEncodeErrorTemplateConstant = "unable to encode %s payload: %w"
)

// ClientConfiguration captures the connection settings for a Gitea instance.
type ClientConfiguration struct {
	BaseURL           string
	Username          string
	Password          string
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client issues authenticated requests against the Gitea REST API.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient constructs a Client from the provided configuration.
func NewClient(configuration ClientConfiguration) (*Client, error) {
	trimmedBaseURL := strings.TrimRight(strings.TrimSpace(configuration.BaseURL), "/")
	if len(trimmedBaseURL) == 0 {
		return nil, ErrClientNotConfigured
	}

	httpClient := configuration.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeoutConstant}
	}

	requestsPerSecond := configuration.RequestsPerSecond
	if requestsPerSecond <= 0 {
		requestsPerSecond = defaultRequestsPerSecondConstant
	}

	client := &Client{
		baseURL:    trimmedBaseURL,
		username:   configuration.Username,
		password:   configuration.Password,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}

	return client, nil
}

func (client *Client) performRequest(executionContext context.Context, method string, requestPath string, query url.Values, payload any) (int, []byte, error) {
	if waitError := client.limiter.Wait(executionContext); waitError != nil {
		return 0, nil, waitError
	}

	requestURL := client.baseURL + apiPathPrefixConstant + requestPath
	if len(query) > 0 {
		requestURL = requestURL + "?" + query.Encode()
	}

	var requestBody io.Reader
	if payload != nil {
		encodedPayload, encodingError := json.Marshal(payload)
		if encodingError != nil {
			return 0, nil, fmt.Errorf(payloadEncodeErrorTemplateConstant, requestPath, encodingError)
		}
		requestBody = bytes.NewReader(encodedPayload)
	}

	request, requestError := http.NewRequestWithContext(executionContext, method, requestURL, requestBody)
	if requestError != nil {
		return 0, nil, fmt.Errorf(requestBuildErrorTemplateConstant, method, requestPath, requestError)
	}

	request.SetBasicAuth(client.username, client.password)
	if payload != nil {
		request.Header.Set(contentTypeHeaderConstant, jsonContentTypeConstant)
	}

	response, sendError := client.httpClient.Do(request)
	if sendError != nil {
		return 0, nil, fmt.Errorf(requestSendErrorTemplateConstant, method, requestPath, sendError)
	}
	defer response.Body.Close()

	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return response.StatusCode, nil, fmt.Errorf(requestSendErrorTemplateConstant, method, requestPath, readError)
	}

	return response.StatusCode, responseBody, nil
}

func decodeResponse(method string, requestPath string, responseBody []byte, target any) error {
	if decodingError := json.Unmarshal(responseBody, target); decodingError != nil {
		return DecodingError{Method: method, Path: requestPath, Cause: decodingError}
	}
	return nil
}

// enumeratePages collects every element of a paged collection, terminating on
// the first page that returns zero elements. Count headers are never consulted.
func enumeratePages[Element any](executionContext context.Context, client *Client, requestPath string, extraQuery url.Values) ([]Element, error) {
	var collected []Element
	for pageNumber := 1; ; pageNumber++ {
		query := url.Values{}
		for queryKey, queryValues := range extraQuery {
			query[queryKey] = queryValues
		}
		query.Set(pageQueryParameterConstant, strconv.Itoa(pageNumber))
		query.Set(limitQueryParameterConstant, strconv.Itoa(pageSizeConstant))

		statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodGet, requestPath, query, nil)
		if requestError != nil {
			return nil, requestError
		}
		if statusCode != http.StatusOK {
			return nil, StatusError{Method: http.MethodGet, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
		}

		var pageElements []Element
		if decodingError := decodeResponse(http.MethodGet, requestPath, responseBody, &pageElements); decodingError != nil {
			return nil, decodingError
		}
		if len(pageElements) == 0 {
			return collected, nil
		}
		collected = append(collected, pageElements...)
	}
}

// GetOrganization fetches an organization by name. A 404 is reported as
// absence, not as an error.
func (client *Client) GetOrganization(executionContext context.Context, organizationName string) (Organization, bool, error) {
	requestPath := fmt.Sprintf(organizationPathTemplateConstant, organizationName)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodGet, requestPath, nil, nil)
	if requestError != nil {
		return Organization{}, false, requestError
	}
	if statusCode == http.StatusNotFound {
		return Organization{}, false, nil
	}
	if statusCode != http.StatusOK {
		return Organization{}, false, StatusError{Method: http.MethodGet, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}

	var organization Organization
	if decodingError := decodeResponse(http.MethodGet, requestPath, responseBody, &organization); decodingError != nil {
		return Organization{}, false, decodingError
	}
	return organization, true, nil
}

// CreateOrganization creates a new organization.
func (client *Client) CreateOrganization(executionContext context.Context, request CreateOrganizationRequest) (Organization, error) {
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodPost, organizationsPathConstant, nil, request)
	if requestError != nil {
		return Organization{}, requestError
	}
	if isConflictStatus(statusCode) {
		return Organization{}, ConflictError{EntityDescription: organizationEntityDescription, StatusCode: statusCode}
	}
	if statusCode != http.StatusCreated {
		return Organization{}, StatusError{Method: http.MethodPost, Path: organizationsPathConstant, StatusCode: statusCode, Body: string(responseBody)}
	}

	var organization Organization
	if decodingError := decodeResponse(http.MethodPost, organizationsPathConstant, responseBody, &organization); decodingError != nil {
		return Organization{}, decodingError
	}
	return organization, nil
}

// UpdateOrganization patches the provided organization fields.
func (client *Client) UpdateOrganization(executionContext context.Context, organizationName string, patch OrganizationPatch) (Organization, error) {
	requestPath := fmt.Sprintf(organizationPathTemplateConstant, organizationName)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodPatch, requestPath, nil, patch)
	if requestError != nil {
		return Organization{}, requestError
	}
	if statusCode != http.StatusOK {
		return Organization{}, StatusError{Method: http.MethodPatch, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}

	var organization Organization
	if decodingError := decodeResponse(http.MethodPatch, requestPath, responseBody, &organization); decodingError != nil {
		return Organization{}, decodingError
	}
	return organization, nil
}

// ListAllOrganizations enumerates every organization visible to the caller,
// preferring the administrative listing and falling back to the user-scoped
// listing when administrative access is unavailable.
func (client *Client) ListAllOrganizations(executionContext context.Context) ([]Organization, error) {
	organizations, adminListError := enumeratePages[Organization](executionContext, client, adminOrganizationsPathConstant, nil)
	if adminListError == nil {
		return organizations, nil
	}
	return enumeratePages[Organization](executionContext, client, userOrganizationsPathConstant, nil)
}

// ListTeams enumerates every team of an organization.
func (client *Client) ListTeams(executionContext context.Context, organizationName string) ([]Team, error) {
	requestPath := fmt.Sprintf(organizationTeamsTemplateConstant, organizationName)
	return enumeratePages[Team](executionContext, client, requestPath, nil)
}

// FindTeam locates a team by name through a linear scan of the organization's
// enumerated teams; the API offers no exact-match lookup.
func (client *Client) FindTeam(executionContext context.Context, organizationName string, teamName string) (Team, bool, error) {
	teams, listError := client.ListTeams(executionContext, organizationName)
	if listError != nil {
		return Team{}, false, listError
	}
	for _, team := range teams {
		if team.Name == teamName {
			return team, true, nil
		}
	}
	return Team{}, false, nil
}

// CreateTeam creates a team inside an organization.
func (client *Client) CreateTeam(executionContext context.Context, organizationName string, request CreateTeamRequest) (Team, error) {
	requestPath := fmt.Sprintf(organizationTeamsTemplateConstant, organizationName)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodPost, requestPath, nil, request)
	if requestError != nil {
		return Team{}, requestError
	}
	if isConflictStatus(statusCode) {
		return Team{}, ConflictError{EntityDescription: teamEntityDescription, StatusCode: statusCode}
	}
	if statusCode != http.StatusCreated {
		return Team{}, StatusError{Method: http.MethodPost, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}

	var team Team
	if decodingError := decodeResponse(http.MethodPost, requestPath, responseBody, &team); decodingError != nil {
		return Team{}, decodingError
	}
	return team, nil
}

// UpdateTeam patches the provided team fields.
func (client *Client) UpdateTeam(executionContext context.Context, teamIdentifier int64, patch TeamPatch) (Team, error) {
	requestPath := fmt.Sprintf(teamPathTemplateConstant, teamIdentifier)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodPatch, requestPath, nil, patch)
	if requestError != nil {
		return Team{}, requestError
	}
	if statusCode != http.StatusOK {
		return Team{}, StatusError{Method: http.MethodPatch, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}

	var team Team
	if decodingError := decodeResponse(http.MethodPatch, requestPath, responseBody, &team); decodingError != nil {
		return Team{}, decodingError
	}
	return team, nil
}

// ListTeamMembers enumerates the member logins of a team.
func (client *Client) ListTeamMembers(executionContext context.Context, teamIdentifier int64) ([]string, error) {
	requestPath := fmt.Sprintf(teamMembersTemplateConstant, teamIdentifier)
	members, listError := enumeratePages[User](executionContext, client, requestPath, nil)
	if listError != nil {
		return nil, listError
	}

	memberLogins := make([]string, 0, len(members))
	for _, member := range members {
		memberLogins = append(memberLogins, member.Login)
	}
	return memberLogins, nil
}

// IsTeamMember reports whether the user belongs to the team.
func (client *Client) IsTeamMember(executionContext context.Context, teamIdentifier int64, username string) (bool, error) {
	requestPath := fmt.Sprintf(teamMemberTemplateConstant, teamIdentifier, username)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodGet, requestPath, nil, nil)
	if requestError != nil {
		return false, requestError
	}
	if statusCode == http.StatusOK {
		return true, nil
	}
	if statusCode == http.StatusNotFound {
		return false, nil
	}
	return false, StatusError{Method: http.MethodGet, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
}

// AddTeamMember adds the user to the team. The operation is idempotent: the
// API responds with success whether or not the membership already existed.
func (client *Client) AddTeamMember(executionContext context.Context, teamIdentifier int64, username string) error {
	requestPath := fmt.Sprintf(teamMemberTemplateConstant, teamIdentifier, username)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodPut, requestPath, nil, nil)
	if requestError != nil {
		return requestError
	}
	if statusCode != http.StatusNoContent {
		return StatusError{Method: http.MethodPut, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}
	return nil
}

// RemoveTeamMember removes the user from the team. The operation is
// idempotent: the API responds with success whether or not the membership
// existed.
func (client *Client) RemoveTeamMember(executionContext context.Context, teamIdentifier int64, username string) error {
	requestPath := fmt.Sprintf(teamMemberTemplateConstant, teamIdentifier, username)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodDelete, requestPath, nil, nil)
	if requestError != nil {
		return requestError
	}
	if statusCode != http.StatusNoContent {
		return StatusError{Method: http.MethodDelete, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}
	return nil
}

// ListTeamRepositories enumerates the names of repositories bound to a team.
func (client *Client) ListTeamRepositories(executionContext context.Context, teamIdentifier int64) ([]string, error) {
	requestPath := fmt.Sprintf(teamRepositoriesTemplateConstant, teamIdentifier)
	repositories, listError := enumeratePages[Repository](executionContext, client, requestPath, nil)
	if listError != nil {
		return nil, listError
	}

	repositoryNames := make([]string, 0, len(repositories))
	for _, repository := range repositories {
		repositoryNames = append(repositoryNames, repository.Name)
	}
	return repositoryNames, nil
}

// AddTeamRepository binds an organization repository to a team.
func (client *Client) AddTeamRepository(executionContext context.Context, teamIdentifier int64, organizationName string, repositoryName string) error {
	requestPath := fmt.Sprintf(teamRepositoryTemplateConstant, teamIdentifier, organizationName, repositoryName)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodPut, requestPath, nil, nil)
	if requestError != nil {
		return requestError
	}
	if statusCode != http.StatusNoContent {
		return StatusError{Method: http.MethodPut, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}
	return nil
}

// GetRepository fetches a repository by owner and name. A 404 is reported as
// absence, not as an error.
func (client *Client) GetRepository(executionContext context.Context, ownerName string, repositoryName string) (Repository, bool, error) {
	requestPath := fmt.Sprintf(repositoryPathTemplateConstant, ownerName, repositoryName)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodGet, requestPath, nil, nil)
	if requestError != nil {
		return Repository{}, false, requestError
	}
	if statusCode == http.StatusNotFound {
		return Repository{}, false, nil
	}
	if statusCode != http.StatusOK {
		return Repository{}, false, StatusError{Method: http.MethodGet, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}

	var repository Repository
	if decodingError := decodeResponse(http.MethodGet, requestPath, responseBody, &repository); decodingError != nil {
		return Repository{}, false, decodingError
	}
	return repository, true, nil
}

// CreateOrganizationRepository creates a blank repository under an organization.
func (client *Client) CreateOrganizationRepository(executionContext context.Context, organizationName string, request CreateRepositoryRequest) (Repository, error) {
	requestPath := fmt.Sprintf(organizationReposTemplateConstant, organizationName)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodPost, requestPath, nil, request)
	if requestError != nil {
		return Repository{}, requestError
	}
	if isConflictStatus(statusCode) {
		return Repository{}, ConflictError{EntityDescription: repositoryEntityDescription, StatusCode: statusCode}
	}
	if statusCode != http.StatusCreated {
		return Repository{}, StatusError{Method: http.MethodPost, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}

	var repository Repository
	if decodingError := decodeResponse(http.MethodPost, requestPath, responseBody, &repository); decodingError != nil {
		return Repository{}, decodingError
	}
	return repository, nil
}

// GenerateRepository creates a repository from a template repository.
func (client *Client) GenerateRepository(executionContext context.Context, templateOwner string, templateName string, request GenerateRepositoryRequest) (Repository, error) {
	requestPath := fmt.Sprintf(repositoryGenerateTemplateConstant, templateOwner, templateName)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodPost, requestPath, nil, request)
	if requestError != nil {
		return Repository{}, requestError
	}
	if isConflictStatus(statusCode) {
		return Repository{}, ConflictError{EntityDescription: repositoryEntityDescription, StatusCode: statusCode}
	}
	if statusCode != http.StatusCreated {
		return Repository{}, StatusError{Method: http.MethodPost, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}

	var repository Repository
	if decodingError := decodeResponse(http.MethodPost, requestPath, responseBody, &repository); decodingError != nil {
		return Repository{}, decodingError
	}
	return repository, nil
}

// UpdateRepository patches the provided repository fields.
func (client *Client) UpdateRepository(executionContext context.Context, ownerName string, repositoryName string, patch RepositoryPatch) (Repository, error) {
	requestPath := fmt.Sprintf(repositoryPathTemplateConstant, ownerName, repositoryName)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodPatch, requestPath, nil, patch)
	if requestError != nil {
		return Repository{}, requestError
	}
	if statusCode != http.StatusOK {
		return Repository{}, StatusError{Method: http.MethodPatch, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}

	var repository Repository
	if decodingError := decodeResponse(http.MethodPatch, requestPath, responseBody, &repository); decodingError != nil {
		return Repository{}, decodingError
	}
	return repository, nil
}

// ListOrganizationRepositories enumerates every repository of an organization.
func (client *Client) ListOrganizationRepositories(executionContext context.Context, organizationName string) ([]Repository, error) {
	requestPath := fmt.Sprintf(organizationReposTemplateConstant, organizationName)
	return enumeratePages[Repository](executionContext, client, requestPath, nil)
}

// SearchTemplateRepositories enumerates every template repository visible to
// the caller.
func (client *Client) SearchTemplateRepositories(executionContext context.Context) ([]Repository, error) {
	var collected []Repository
	for pageNumber := 1; ; pageNumber++ {
		pageQuery := url.Values{}
		pageQuery.Set(templateQueryParameterConstant, "true")
		pageQuery.Set(pageQueryParameterConstant, strconv.Itoa(pageNumber))
		pageQuery.Set(limitQueryParameterConstant, strconv.Itoa(pageSizeConstant))

		statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodGet, repositorySearchPathConstant, pageQuery, nil)
		if requestError != nil {
			return nil, requestError
		}
		if statusCode != http.StatusOK {
			return nil, StatusError{Method: http.MethodGet, Path: repositorySearchPathConstant, StatusCode: statusCode, Body: string(responseBody)}
		}

		var searchResponse struct {
			Data []Repository `json:"data"`
		}
		if decodingError := decodeResponse(http.MethodGet, repositorySearchPathConstant, responseBody, &searchResponse); decodingError != nil {
			return nil, decodingError
		}
		if len(searchResponse.Data) == 0 {
			return collected, nil
		}
		collected = append(collected, searchResponse.Data...)
	}
}

// GetUser fetches a user by name. A 404 is reported as absence, not as an
// error.
func (client *Client) GetUser(executionContext context.Context, username string) (User, bool, error) {
	requestPath := fmt.Sprintf(userPathTemplateConstant, username)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodGet, requestPath, nil, nil)
	if requestError != nil {
		return User{}, false, requestError
	}
	if statusCode == http.StatusNotFound {
		return User{}, false, nil
	}
	if statusCode != http.StatusOK {
		return User{}, false, StatusError{Method: http.MethodGet, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}

	var user User
	if decodingError := decodeResponse(http.MethodGet, requestPath, responseBody, &user); decodingError != nil {
		return User{}, false, decodingError
	}
	return user, true, nil
}

// CreateUser creates a new account through the admin API.
func (client *Client) CreateUser(executionContext context.Context, request CreateUserRequest) (User, error) {
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodPost, adminUsersPathConstant, nil, request)
	if requestError != nil {
		return User{}, requestError
	}
	if isConflictStatus(statusCode) {
		return User{}, ConflictError{EntityDescription: userEntityDescription, StatusCode: statusCode}
	}
	if statusCode != http.StatusCreated {
		return User{}, StatusError{Method: http.MethodPost, Path: adminUsersPathConstant, StatusCode: statusCode, Body: string(responseBody)}
	}

	var user User
	if decodingError := decodeResponse(http.MethodPost, adminUsersPathConstant, responseBody, &user); decodingError != nil {
		return User{}, decodingError
	}
	return user, nil
}

// EditUser patches account fields through the admin API.
func (client *Client) EditUser(executionContext context.Context, username string, request EditUserRequest) error {
	requestPath := fmt.Sprintf(adminUserPathTemplateConstant, username)
	statusCode, responseBody, requestError := client.performRequest(executionContext, http.MethodPatch, requestPath, nil, request)
	if requestError != nil {
		return requestError
	}
	if statusCode != http.StatusOK {
		return StatusError{Method: http.MethodPatch, Path: requestPath, StatusCode: statusCode, Body: string(responseBody)}
	}
	return nil
}

// ListUserOrganizations enumerates the names of organizations a user belongs to.
func (client *Client) ListUserOrganizations(executionContext context.Context, username string) ([]string, error) {
	requestPath := fmt.Sprintf(userOrgsTemplateConstant, username)
	organizations, listError := enumeratePages[Organization](executionContext, client, requestPath, nil)
	if listError != nil {
		return nil, listError
	}

	organizationNames := make([]string, 0, len(organizations))
	for _, organization := range organizations {
		organizationNames = append(organizationNames, organization.Name)
	}
	return organizationNames, nil
}

// ListRepositoryCommits enumerates every commit of a repository.
func (client *Client) ListRepositoryCommits(executionContext context.Context, ownerName string, repositoryName string) ([]Commit, error) {
	requestPath := fmt.Sprintf(repositoryCommitsTemplateConstant, ownerName, repositoryName)
	return enumeratePages[Commit](executionContext, client, requestPath, nil)
}
