package gitea

// Organization models the organization fields read or written by the client.
type Organization struct {
	ID          int64  `json:"id"`
	Name        string `json:"username"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

// CreateOrganizationRequest describes a new organization.
type CreateOrganizationRequest struct {
	Name       string `json:"username"`
	Visibility string `json:"visibility"`
}

// OrganizationPatch carries the organization fields subject to correction.
type OrganizationPatch struct {
	Visibility *string `json:"visibility,omitempty"`
}

// Team models the team fields read or written by the client.
type Team struct {
	ID                      int64    `json:"id"`
	Name                    string   `json:"name"`
	Permission              string   `json:"permission"`
	IncludesAllRepositories bool     `json:"includes_all_repositories"`
	Units                   []string `json:"units"`
}

// CreateTeamRequest describes a new team.
type CreateTeamRequest struct {
	Name                    string   `json:"name"`
	Permission              string   `json:"permission"`
	IncludesAllRepositories bool     `json:"includes_all_repositories"`
	Units                   []string `json:"units"`
}

// TeamPatch carries the team fields subject to correction.
type TeamPatch struct {
	Permission              *string  `json:"permission,omitempty"`
	IncludesAllRepositories *bool    `json:"includes_all_repositories,omitempty"`
	Units                   []string `json:"units,omitempty"`
}

// Repository models the repository fields read or written by the client.
type Repository struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Private     bool            `json:"private"`
	Template    bool            `json:"template"`
	HTMLURL     string          `json:"html_url"`
	CloneURL    string          `json:"clone_url"`
	Owner       RepositoryOwner `json:"owner"`
}

// RepositoryOwner identifies the account owning a repository.
type RepositoryOwner struct {
	Login string `json:"login"`
}

// CreateRepositoryRequest describes a new blank repository.
type CreateRepositoryRequest struct {
	Name           string `json:"name"`
	Private        bool   `json:"private"`
	AutoInitialize bool   `json:"auto_init"`
}

// GenerateRepositoryRequest describes a repository generated from a template.
type GenerateRepositoryRequest struct {
	Owner      string `json:"owner"`
	Name       string `json:"name"`
	Private    bool   `json:"private"`
	GitContent bool   `json:"git_content"`
	Topics     bool   `json:"topics"`
	Labels     bool   `json:"labels"`
}

// RepositoryPatch carries the repository fields subject to correction.
type RepositoryPatch struct {
	Private *bool `json:"private,omitempty"`
}

// User models the account fields read or written by the client.
type User struct {
	ID         int64  `json:"id"`
	Login      string `json:"login"`
	Email      string `json:"email"`
	Visibility string `json:"visibility"`
	Restricted bool   `json:"restricted"`
	LastLogin  string `json:"last_login"`
	SourceID   int64  `json:"source_id"`
}

// CreateUserRequest describes a new account created through the admin API.
type CreateUserRequest struct {
	Username           string `json:"username"`
	Password           string `json:"password"`
	Email              string `json:"email"`
	MustChangePassword bool   `json:"must_change_password"`
	Visibility         string `json:"visibility"`
	Restricted         bool   `json:"restricted"`
}

// EditUserRequest carries the account fields adjusted through the admin API.
// LoginName and SourceID are required by the endpoint to address the account.
type EditUserRequest struct {
	LoginName          string  `json:"login_name"`
	SourceID           int64   `json:"source_id"`
	Password           *string `json:"password,omitempty"`
	MustChangePassword *bool   `json:"must_change_password,omitempty"`
	Visibility         *string `json:"visibility,omitempty"`
	Restricted         *bool   `json:"restricted,omitempty"`
}

// Commit models a single repository commit as returned by the commit listing.
type Commit struct {
	SHA     string         `json:"sha"`
	Author  *CommitAccount `json:"author"`
	Details CommitDetails  `json:"commit"`
}

// CommitAccount identifies the platform account linked to a commit, when any.
type CommitAccount struct {
	Login string `json:"login"`
}

// CommitDetails carries the raw git metadata of a commit.
type CommitDetails struct {
	Author CommitSignature `json:"author"`
}

// CommitSignature holds the git author identity recorded in a commit.
type CommitSignature struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
