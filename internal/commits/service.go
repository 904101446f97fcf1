package commits

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/coursectl/internal/gitea"
)

const (
	ownersTeamNameConstant = "Owners"

	organizationNotFoundTemplateError = "organization %q not found"
	teamNotFoundTemplateError         = "team %q not found in organization %q"

	checkingTeamsTemplateConstant       = "Checking %d team(s) in org '%s'...\n"
	noTeamsFoundTemplateConstant        = "No teams found in org '%s'.\n"
	repositoryActiveTemplateConstant    = "  OK: %s/%s (%d non-admin commit(s) out of %d)\n"
	repositoryInactiveTemplateConstant  = "  NO COMMITS: %s/%s (%d commit(s), all from admin)\n"
	teamWithoutRepoTemplateConstant     = "  SKIP: %s - no repo assigned\n"
	repositoryUnreadableTemplate        = "  FAIL: %s - could not read repo '%s/%s': %v\n"
	teamReposUnreadableTemplateConstant = "  WARN: Could not list repos for team '%s': %v\n"
	memberListWarnTemplateConstant      = "  WARN: Could not list members of team '%s': %v\n"

	activitySummaryTemplateConstant    = "\nDone. Teams without activity: %d/%d\n"
	inactiveListHeaderMessageConstant  = "\nTeams without any non-admin commits:\n"
	inactiveListEntryTemplateConstant  = "  %s\n"
	unknownHeaderMessageConstant       = "\nCommits from authors outside the team:\n"
	unknownTeamHeaderTemplateConstant  = "  %s (repo: %s):\n"
	unknownAuthorEntryTemplateConstant = "    %s\n"

	logMessageOwnersTeamMissing  = "owners team not found"
	logFieldOrganizationConstant = "organization"
)

// ActivityTotals tallies the per-team outcome of a commit activity check.
type ActivityTotals struct {
	CheckedTeams  int
	InactiveTeams int
}

// UnknownAuthorFinding records a commit author that could not be matched to
// the repository's team membership.
type UnknownAuthorFinding struct {
	Team       string
	Repository string
	Author     string
}

// OrganizationNotFoundError reports an absent organization.
type OrganizationNotFoundError struct {
	Organization string
}

// Error names the missing organization.
func (notFoundError OrganizationNotFoundError) Error() string {
	return fmt.Sprintf(organizationNotFoundTemplateError, notFoundError.Organization)
}

// TeamNotFoundError reports a requested team filter matching no team.
type TeamNotFoundError struct {
	Organization string
	Team         string
}

// Error names the missing team.
func (notFoundError TeamNotFoundError) Error() string {
	return fmt.Sprintf(teamNotFoundTemplateError, notFoundError.Team, notFoundError.Organization)
}

// Service checks student teams for genuine commit activity.
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

// CheckActivity inspects every non-Owners team in the organization, or only
// the named team when teamFilter is non-empty, and reports repositories whose
// commit history contains no non-admin commit. Aliases map commit emails to
// platform logins for authors who committed without a linked account.
func (service *Service) CheckActivity(executionContext context.Context, organizationName string, teamFilter string, aliases map[string]string) (ActivityTotals, error) {
	totals := ActivityTotals{}

	_, organizationFound, organizationError := service.directory.GetOrganization(executionContext, organizationName)
	if organizationError != nil {
		return totals, organizationError
	}
	if !organizationFound {
		return totals, OrganizationNotFoundError{Organization: organizationName}
	}

	organizationTeams, teamsError := service.directory.ListTeams(executionContext, organizationName)
	if teamsError != nil {
		return totals, teamsError
	}

	classifier := service.buildClassifier(executionContext, organizationName, organizationTeams, aliases)

	studentTeams := selectStudentTeams(organizationTeams, teamFilter)
	if len(teamFilter) > 0 && len(studentTeams) == 0 {
		return totals, TeamNotFoundError{Organization: organizationName, Team: teamFilter}
	}
	if len(studentTeams) == 0 {
		fmt.Fprintf(service.outputWriter, noTeamsFoundTemplateConstant, organizationName)
		return totals, nil
	}

	fmt.Fprintf(service.outputWriter, checkingTeamsTemplateConstant, len(studentTeams), organizationName)

	var inactiveTeams []string
	var unknownFindings []UnknownAuthorFinding

	for _, team := range studentTeams {
		totals.CheckedTeams++

		teamActive, teamUnknownFindings := service.checkTeam(executionContext, organizationName, team, classifier)
		if !teamActive {
			inactiveTeams = append(inactiveTeams, team.Name)
			totals.InactiveTeams++
		}
		unknownFindings = append(unknownFindings, teamUnknownFindings...)
	}

	fmt.Fprintf(service.outputWriter, activitySummaryTemplateConstant, totals.InactiveTeams, totals.CheckedTeams)
	if len(inactiveTeams) > 0 {
		fmt.Fprint(service.outputWriter, inactiveListHeaderMessageConstant)
		for _, teamName := range inactiveTeams {
			fmt.Fprintf(service.outputWriter, inactiveListEntryTemplateConstant, teamName)
		}
	}
	service.reportUnknownAuthors(unknownFindings)

	return totals, nil
}

// checkTeam reports whether any of the team's repositories carries non-admin
// activity. A team without an assigned repository counts as active so it is
// not flagged for a provisioning gap this check does not own.
func (service *Service) checkTeam(executionContext context.Context, organizationName string, team gitea.Team, classifier Classifier) (bool, []UnknownAuthorFinding) {
	memberLogins := service.loadMemberLogins(executionContext, team)

	repositoryNames, repositoriesError := service.directory.ListTeamRepositories(executionContext, team.ID)
	if repositoriesError != nil {
		fmt.Fprintf(service.outputWriter, teamReposUnreadableTemplateConstant, team.Name, repositoriesError)
		return true, nil
	}
	if len(repositoryNames) == 0 {
		fmt.Fprintf(service.outputWriter, teamWithoutRepoTemplateConstant, team.Name)
		return true, nil
	}

	teamActive := false
	var unknownFindings []UnknownAuthorFinding

	for _, repositoryName := range repositoryNames {
		commitList, commitsError := service.directory.ListRepositoryCommits(executionContext, organizationName, repositoryName)
		if commitsError != nil {
			fmt.Fprintf(service.outputWriter, repositoryUnreadableTemplate, team.Name, organizationName, repositoryName, commitsError)
			teamActive = true
			continue
		}

		analysis := classifier.Analyze(commitList, memberLogins)
		if analysis.HasGenuineActivity() {
			fmt.Fprintf(service.outputWriter, repositoryActiveTemplateConstant, team.Name, repositoryName, analysis.NonAdminCommitCount, len(commitList))
			teamActive = true
		} else {
			fmt.Fprintf(service.outputWriter, repositoryInactiveTemplateConstant, team.Name, repositoryName, len(commitList))
		}

		for _, unknownAuthor := range analysis.UnknownAuthors {
			unknownFindings = append(unknownFindings, UnknownAuthorFinding{
				Team:       team.Name,
				Repository: repositoryName,
				Author:     unknownAuthor,
			})
		}
	}

	return teamActive, unknownFindings
}

// buildClassifier gathers the Owners team's logins and emails so commits by
// course staff are never mistaken for student activity.
func (service *Service) buildClassifier(executionContext context.Context, organizationName string, organizationTeams []gitea.Team, aliases map[string]string) Classifier {
	classifier := Classifier{
		OrganizationName: organizationName,
		AdminLogins:      map[string]struct{}{},
		AdminEmails:      map[string]struct{}{},
		Aliases:          aliases,
	}
	if classifier.Aliases == nil {
		classifier.Aliases = map[string]string{}
	}

	ownersTeam, ownersFound := findTeamByName(organizationTeams, ownersTeamNameConstant)
	if !ownersFound {
		service.logger.Warn(
			logMessageOwnersTeamMissing,
			zap.String(logFieldOrganizationConstant, organizationName),
		)
		return classifier
	}

	ownerLogins, membersError := service.directory.ListTeamMembers(executionContext, ownersTeam.ID)
	if membersError != nil {
		fmt.Fprintf(service.outputWriter, memberListWarnTemplateConstant, ownersTeam.Name, membersError)
		return classifier
	}

	for _, ownerLogin := range ownerLogins {
		classifier.AdminLogins[strings.ToLower(ownerLogin)] = struct{}{}

		owner, ownerFound, ownerError := service.directory.GetUser(executionContext, ownerLogin)
		if ownerError != nil || !ownerFound {
			continue
		}
		if len(owner.Email) > 0 {
			classifier.AdminEmails[strings.ToLower(owner.Email)] = struct{}{}
		}
	}

	return classifier
}

func (service *Service) loadMemberLogins(executionContext context.Context, team gitea.Team) map[string]struct{} {
	memberLogins := map[string]struct{}{}
	logins, membersError := service.directory.ListTeamMembers(executionContext, team.ID)
	if membersError != nil {
		fmt.Fprintf(service.outputWriter, memberListWarnTemplateConstant, team.Name, membersError)
		return memberLogins
	}
	for _, login := range logins {
		memberLogins[strings.ToLower(login)] = struct{}{}
	}
	return memberLogins
}

func (service *Service) reportUnknownAuthors(unknownFindings []UnknownAuthorFinding) {
	if len(unknownFindings) == 0 {
		return
	}

	sort.SliceStable(unknownFindings, func(first int, second int) bool {
		if unknownFindings[first].Team != unknownFindings[second].Team {
			return unknownFindings[first].Team < unknownFindings[second].Team
		}
		if unknownFindings[first].Repository != unknownFindings[second].Repository {
			return unknownFindings[first].Repository < unknownFindings[second].Repository
		}
		return unknownFindings[first].Author < unknownFindings[second].Author
	})

	fmt.Fprint(service.outputWriter, unknownHeaderMessageConstant)
	previousGroup := ""
	for _, finding := range unknownFindings {
		currentGroup := finding.Team + "/" + finding.Repository
		if currentGroup != previousGroup {
			fmt.Fprintf(service.outputWriter, unknownTeamHeaderTemplateConstant, finding.Team, finding.Repository)
			previousGroup = currentGroup
		}
		fmt.Fprintf(service.outputWriter, unknownAuthorEntryTemplateConstant, finding.Author)
	}
}

func selectStudentTeams(teams []gitea.Team, teamFilter string) []gitea.Team {
	var studentTeams []gitea.Team
	for _, team := range teams {
		if team.Name == ownersTeamNameConstant {
			continue
		}
		if len(teamFilter) > 0 && team.Name != teamFilter {
			continue
		}
		studentTeams = append(studentTeams, team)
	}
	return studentTeams
}

func findTeamByName(teams []gitea.Team, teamName string) (gitea.Team, bool) {
	for _, team := range teams {
		if team.Name == teamName {
			return team, true
		}
	}
	return gitea.Team{}, false
}
