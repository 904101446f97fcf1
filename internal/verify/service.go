package verify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/coursectl/internal/gitea"
	"github.com/temirov/coursectl/internal/roster"
)

const (
	ownersTeamNameConstant             = "Owners"
	accountVisibilityConstant          = "limited"
	organizationVisibilityConstant     = "private"
	checkingStudentsTemplateConstant   = "Checking %d student(s) in org '%s'...\n"
	studentPassedTemplateConstant      = "  OK: %s%s\n"
	studentFailedTemplateConstant      = "  FAIL: %s - %s\n"
	studentContextTeamTemplateConstant = " (org: %s, team: %s)"
	studentContextOrgTemplateConstant  = " (org: %s)"
	auditSummaryTemplateConstant       = "\nDone. OK: %d, Issues: %d\n"
	teamListWarnTemplateConstant       = "  WARN: Could not list teams in '%s': %v\n"

	reasonUserAbsentConstant              = "user does not exist"
	reasonUserUnreadableTemplateConstant  = "could not fetch user: %v"
	reasonVisibilityTemplateConstant      = "visibility is '%s', expected 'limited'"
	reasonNotRestrictedConstant           = "not restricted"
	reasonOrgsUnreadableConstant          = "could not fetch orgs"
	reasonNotInOrgTemplateConstant        = "not in org '%s'"
	reasonTeamAbsentTemplateConstant      = "team '%s' does not exist"
	reasonNotInTeamTemplateConstant       = "not in team '%s'"
	reasonMembershipCheckTemplateConstant = "could not check membership of '%s'"
	reasonWrongTeamTemplateConstant       = "also in wrong team '%s'"
	reasonTeamReposTemplateConstant       = "could not fetch team repos"
	reasonNoMatchingRepoTemplateConstant  = "team has no matching repo '%s'"
	reasonMismatchedRepoTemplateConstant  = "team has mismatched repo '%s'"
	reasonSeparatorConstant               = "; "

	neverLoggedInTemplateConstant     = "  NEVER: %s\n"
	loginObservedTemplateConstant     = "  OK: %s (last login: %s)\n"
	loginSummaryTemplateConstant      = "\nDone. Never signed in: %d/%d\n"
	loginListHeaderMessageConstant    = "\nStudents who never signed in:\n"
	loginListEntryTemplateConstant    = "  %s\n"
	loginStudentAbsentTemplate        = "  FAIL: %s - student does not exist\n"
	loginStudentUnreadableTemplate    = "  FAIL: %s - could not fetch user: %v\n"
	organizationNotFoundTemplateError = "organization %q not found"

	inspectionHeaderTemplateConstant       = "Organization: %s\n"
	inspectionVisibilityTemplateConstant   = "  Visibility: %s\n"
	inspectionDescriptionTemplateConstant  = "  Description: %s\n"
	inspectionNoDescriptionPlaceholder     = "(none)"
	inspectionRepoHeaderTemplateConstant   = "\nRepos (%d):\n"
	inspectionRepoEntryTemplateConstant    = "  %s (%s)\n"
	inspectionRepoPrivateLabelConstant     = "private"
	inspectionRepoPublicLabelConstant      = "public"
	inspectionNonePlaceholderConstant      = "  (none)\n"
	inspectionTeamHeaderTemplateConstant   = "\nTeams (%d):\n"
	inspectionTeamEntryTemplateConstant    = "  %s (ID: %d, %s, %s)\n"
	inspectionTeamNoRepoWarnTemplate       = "  %s (ID: %d, %s, %s) WARN: no matching repo\n"
	inspectionAllReposLabelConstant        = "all repos"
	inspectionSpecificReposLabelConstant   = "specific repos"
	inspectionTeamRepoTemplateConstant     = "    Repo: %s\n"
	inspectionTeamRepoMismatchTemplate     = "    Repo: %s WARN: name mismatch with team\n"
	inspectionTeamNoRepoAssignedWarning    = "    Repos: (none) WARN: no repo assigned\n"
	inspectionTeamNoRepoPlaceholder        = "    Repos: (none)\n"
	inspectionTeamMemberTemplateConstant   = "    Student: %s\n"
	inspectionTeamNoMembersPlaceholder     = "    Students: (none)\n"
	inspectionUnitSeparatorConstant        = ", "
	checkingLoginTemplateConstant          = "Checking %d student(s) in org '%s'...\n"
	logMessageTeamEnumerationFailed        = "team enumeration failed"
	logFieldOrganizationNameConstant       = "organization"
)

// neverLoggedInMarkers are last_login timestamps Gitea reports for accounts
// that have never signed in through the web UI.
var neverLoggedInMarkers = []string{"0001-01-01", "1970-01-01"}

// AuditTotals tallies per-student audit outcomes.
type AuditTotals struct {
	Passed int
	Issues int
}

// LoginTotals tallies the never-signed-in audit outcome.
type LoginTotals struct {
	NeverSignedIn int
	Checked       int
}

// OrganizationNotFoundError reports an absent organization during an audit.
type OrganizationNotFoundError struct {
	Organization string
}

// Error names the missing organization.
func (notFoundError OrganizationNotFoundError) Error() string {
	return fmt.Sprintf(organizationNotFoundTemplateError, notFoundError.Organization)
}

// Service performs read-only audits of platform state against a roster.
type Service struct {
	directory    Directory
	logger       *zap.Logger
	outputWriter io.Writer
}

// NewService constructs a Service using the provided collaborators.
func NewService(directory Directory, logger *zap.Logger, outputWriter io.Writer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	return &Service{
		directory:    directory,
		logger:       logger,
		outputWriter: outputWriter,
	}
}

// CheckStudents verifies, for every roster entry, account existence, account
// flags, organization membership, exactly-one-correct-team membership, and
// team/repository name equality. Violations are reported per student; no
// mutating call is ever issued.
func (service *Service) CheckStudents(executionContext context.Context, model roster.Model) (AuditTotals, error) {
	totals := AuditTotals{}

	fmt.Fprintf(service.outputWriter, checkingStudentsTemplateConstant, len(model.Entries), model.Organization)

	organizationTeams := service.loadOrganizationTeams(executionContext, model.Organization)

	for _, entry := range model.Entries {
		reasons := service.auditStudent(executionContext, model.Organization, organizationTeams, entry)
		if len(reasons) > 0 {
			fmt.Fprintf(service.outputWriter, studentFailedTemplateConstant, entry.SubjectID, strings.Join(reasons, reasonSeparatorConstant))
			totals.Issues++
			continue
		}

		contextLabel := fmt.Sprintf(studentContextOrgTemplateConstant, entry.Organization)
		if len(entry.Team) > 0 {
			contextLabel = fmt.Sprintf(studentContextTeamTemplateConstant, entry.Organization, entry.Team)
		}
		fmt.Fprintf(service.outputWriter, studentPassedTemplateConstant, entry.SubjectID, contextLabel)
		totals.Passed++
	}

	fmt.Fprintf(service.outputWriter, auditSummaryTemplateConstant, totals.Passed, totals.Issues)
	return totals, nil
}

func (service *Service) auditStudent(executionContext context.Context, organizationName string, organizationTeams []gitea.Team, entry roster.Entry) []string {
	var reasons []string

	user, userFound, readError := service.directory.GetUser(executionContext, entry.SubjectID)
	if readError != nil {
		return []string{fmt.Sprintf(reasonUserUnreadableTemplateConstant, readError)}
	}
	if !userFound {
		return []string{reasonUserAbsentConstant}
	}

	if user.Visibility != accountVisibilityConstant {
		reasons = append(reasons, fmt.Sprintf(reasonVisibilityTemplateConstant, user.Visibility))
	}
	if !user.Restricted {
		reasons = append(reasons, reasonNotRestrictedConstant)
	}

	userOrganizations, organizationsError := service.directory.ListUserOrganizations(executionContext, entry.SubjectID)
	if organizationsError != nil {
		reasons = append(reasons, reasonOrgsUnreadableConstant)
	} else if !containsName(userOrganizations, organizationName) {
		reasons = append(reasons, fmt.Sprintf(reasonNotInOrgTemplateConstant, organizationName))
	}

	if len(entry.Team) > 0 {
		reasons = append(reasons, service.auditTeamMembership(executionContext, organizationTeams, entry)...)
	}

	return reasons
}

func (service *Service) auditTeamMembership(executionContext context.Context, organizationTeams []gitea.Team, entry roster.Entry) []string {
	var reasons []string

	targetTeam, teamExists := findTeamByName(organizationTeams, entry.Team)
	if !teamExists {
		return []string{fmt.Sprintf(reasonTeamAbsentTemplateConstant, entry.Team)}
	}

	isMember, membershipError := service.directory.IsTeamMember(executionContext, targetTeam.ID, entry.SubjectID)
	if membershipError != nil {
		reasons = append(reasons, fmt.Sprintf(reasonMembershipCheckTemplateConstant, entry.Team))
	} else if !isMember {
		reasons = append(reasons, fmt.Sprintf(reasonNotInTeamTemplateConstant, entry.Team))
	}

	for _, organizationTeam := range organizationTeams {
		if organizationTeam.Name == entry.Team || organizationTeam.Name == ownersTeamNameConstant {
			continue
		}
		wrongMember, wrongMembershipError := service.directory.IsTeamMember(executionContext, organizationTeam.ID, entry.SubjectID)
		if wrongMembershipError != nil {
			continue
		}
		if wrongMember {
			reasons = append(reasons, fmt.Sprintf(reasonWrongTeamTemplateConstant, organizationTeam.Name))
		}
	}

	teamRepositories, repositoriesError := service.directory.ListTeamRepositories(executionContext, targetTeam.ID)
	if repositoriesError != nil {
		reasons = append(reasons, reasonTeamReposTemplateConstant)
		return reasons
	}
	if !containsName(teamRepositories, entry.Team) {
		reasons = append(reasons, fmt.Sprintf(reasonNoMatchingRepoTemplateConstant, entry.Team))
	}
	for _, repositoryName := range teamRepositories {
		if repositoryName != entry.Team {
			reasons = append(reasons, fmt.Sprintf(reasonMismatchedRepoTemplateConstant, repositoryName))
		}
	}

	return reasons
}

// CheckLogin reports roster accounts that have never signed in through the
// platform's web UI, based on the last_login field.
func (service *Service) CheckLogin(executionContext context.Context, model roster.Model) (LoginTotals, error) {
	totals := LoginTotals{}

	fmt.Fprintf(service.outputWriter, checkingLoginTemplateConstant, len(model.Entries), model.Organization)

	var neverSignedIn []string
	for _, entry := range model.Entries {
		totals.Checked++

		user, userFound, readError := service.directory.GetUser(executionContext, entry.SubjectID)
		if readError != nil {
			fmt.Fprintf(service.outputWriter, loginStudentUnreadableTemplate, entry.SubjectID, readError)
			continue
		}
		if !userFound {
			fmt.Fprintf(service.outputWriter, loginStudentAbsentTemplate, entry.SubjectID)
			continue
		}

		if NeverLoggedIn(user.LastLogin) {
			fmt.Fprintf(service.outputWriter, neverLoggedInTemplateConstant, entry.SubjectID)
			neverSignedIn = append(neverSignedIn, entry.SubjectID)
			totals.NeverSignedIn++
		} else {
			fmt.Fprintf(service.outputWriter, loginObservedTemplateConstant, entry.SubjectID, user.LastLogin)
		}
	}

	fmt.Fprintf(service.outputWriter, loginSummaryTemplateConstant, totals.NeverSignedIn, totals.Checked)
	if len(neverSignedIn) > 0 {
		fmt.Fprint(service.outputWriter, loginListHeaderMessageConstant)
		for _, subjectIdentifier := range neverSignedIn {
			fmt.Fprintf(service.outputWriter, loginListEntryTemplateConstant, subjectIdentifier)
		}
	}
	return totals, nil
}

// InspectOrganization renders an organization's visibility, repositories,
// teams, and memberships, warning on teams lacking a matching repository or
// carrying a mismatched one.
func (service *Service) InspectOrganization(executionContext context.Context, organizationName string) error {
	organization, organizationFound, readError := service.directory.GetOrganization(executionContext, organizationName)
	if readError != nil {
		return readError
	}
	if !organizationFound {
		return OrganizationNotFoundError{Organization: organizationName}
	}

	fmt.Fprintf(service.outputWriter, inspectionHeaderTemplateConstant, organizationName)
	fmt.Fprintf(service.outputWriter, inspectionVisibilityTemplateConstant, organization.Visibility)
	description := organization.Description
	if len(description) == 0 {
		description = inspectionNoDescriptionPlaceholder
	}
	fmt.Fprintf(service.outputWriter, inspectionDescriptionTemplateConstant, description)

	repositories, repositoriesError := service.directory.ListOrganizationRepositories(executionContext, organizationName)
	if repositoriesError != nil {
		return repositoriesError
	}

	repositoryNames := map[string]struct{}{}
	fmt.Fprintf(service.outputWriter, inspectionRepoHeaderTemplateConstant, len(repositories))
	if len(repositories) == 0 {
		fmt.Fprint(service.outputWriter, inspectionNonePlaceholderConstant)
	}
	for _, repository := range repositories {
		repositoryNames[repository.Name] = struct{}{}
		privacyLabel := inspectionRepoPublicLabelConstant
		if repository.Private {
			privacyLabel = inspectionRepoPrivateLabelConstant
		}
		fmt.Fprintf(service.outputWriter, inspectionRepoEntryTemplateConstant, repository.Name, privacyLabel)
	}

	teams, teamsError := service.directory.ListTeams(executionContext, organizationName)
	if teamsError != nil {
		return teamsError
	}

	fmt.Fprintf(service.outputWriter, inspectionTeamHeaderTemplateConstant, len(teams))
	for _, team := range teams {
		service.inspectTeam(executionContext, team, repositoryNames)
	}
	return nil
}

func (service *Service) inspectTeam(executionContext context.Context, team gitea.Team, repositoryNames map[string]struct{}) {
	scopeLabel := inspectionSpecificReposLabelConstant
	if team.IncludesAllRepositories {
		scopeLabel = inspectionAllReposLabelConstant
	}
	unitsLabel := strings.Join(team.Units, inspectionUnitSeparatorConstant)
	isOwnersTeam := team.Name == ownersTeamNameConstant

	_, hasMatchingRepository := repositoryNames[team.Name]
	if !isOwnersTeam && !hasMatchingRepository {
		fmt.Fprintf(service.outputWriter, inspectionTeamNoRepoWarnTemplate, team.Name, team.ID, scopeLabel, unitsLabel)
	} else {
		fmt.Fprintf(service.outputWriter, inspectionTeamEntryTemplateConstant, team.Name, team.ID, scopeLabel, unitsLabel)
	}

	teamRepositories, repositoriesError := service.directory.ListTeamRepositories(executionContext, team.ID)
	if repositoriesError == nil && len(teamRepositories) > 0 {
		for _, repositoryName := range teamRepositories {
			if !isOwnersTeam && repositoryName != team.Name {
				fmt.Fprintf(service.outputWriter, inspectionTeamRepoMismatchTemplate, repositoryName)
			} else {
				fmt.Fprintf(service.outputWriter, inspectionTeamRepoTemplateConstant, repositoryName)
			}
		}
	} else if !isOwnersTeam {
		fmt.Fprint(service.outputWriter, inspectionTeamNoRepoAssignedWarning)
	} else {
		fmt.Fprint(service.outputWriter, inspectionTeamNoRepoPlaceholder)
	}

	memberLogins, membersError := service.directory.ListTeamMembers(executionContext, team.ID)
	if membersError == nil && len(memberLogins) > 0 {
		for _, memberLogin := range memberLogins {
			fmt.Fprintf(service.outputWriter, inspectionTeamMemberTemplateConstant, memberLogin)
		}
	} else {
		fmt.Fprint(service.outputWriter, inspectionTeamNoMembersPlaceholder)
	}
}

// loadOrganizationTeams caches the organization's teams once per audit run.
// A read failure degrades to an empty listing with a warning.
func (service *Service) loadOrganizationTeams(executionContext context.Context, organizationName string) []gitea.Team {
	teams, listError := service.directory.ListTeams(executionContext, organizationName)
	if listError != nil {
		service.logger.Warn(
			logMessageTeamEnumerationFailed,
			zap.String(logFieldOrganizationNameConstant, organizationName),
			zap.Error(listError),
		)
		fmt.Fprintf(service.outputWriter, teamListWarnTemplateConstant, organizationName, listError)
		return nil
	}
	return teams
}

func findTeamByName(teams []gitea.Team, teamName string) (gitea.Team, bool) {
	for _, team := range teams {
		if team.Name == teamName {
			return team, true
		}
	}
	return gitea.Team{}, false
}

// NeverLoggedIn reports whether a last_login timestamp indicates the account
// has never signed in.
func NeverLoggedIn(lastLogin string) bool {
	if len(strings.TrimSpace(lastLogin)) == 0 {
		return true
	}
	for _, marker := range neverLoggedInMarkers {
		if strings.Contains(lastLogin, marker) {
			return true
		}
	}
	return false
}

func containsName(names []string, candidate string) bool {
	for _, name := range names {
		if name == candidate {
			return true
		}
	}
	return false
}
