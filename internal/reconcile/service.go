package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/coursectl/internal/gitea"
	"github.com/temirov/coursectl/internal/roster"
)

const (
	rosterSummaryTemplateConstant             = "Found %d student(s) in org '%s'.\n"
	organizationExistsTemplateConstant        = "Organization '%s' already exists.\n"
	organizationCreatedTemplateConstant       = "OK: Organization '%s' created.\n"
	organizationVerifiedTemplateConstant      = "  OK: Organization '%s' exists (private).\n"
	organizationVisibilityOKMessageConstant   = "  Visibility: private (OK)\n"
	organizationVisibilityFixedConstant       = "  FIXED: Visibility set to private.\n"
	organizationVisibilityWarnTemplate        = "  WARN: Could not update visibility: %v\n"
	organizationVisibilityCheckTemplate       = "  WARN: Organization visibility is '%s', expected 'private'.\n"
	accountCreatedTemplateConstant            = "  OK: %s created.\n"
	accountExistsTemplateConstant             = "  SKIP: %s already exists.\n"
	accountFailedTemplateConstant             = "  FAIL: %s - %v\n"
	accountFixedTemplateConstant              = "    FIXED: %s\n"
	accountPatchWarnTemplateConstant          = "    WARN: Could not update account settings: %v\n"
	teamReadyTemplateConstant                 = "    Team '%s/%s' %s (ID: %d).\n"
	teamFailedTemplateConstant                = "    FAIL: Could not create or verify team '%s': %v\n"
	teamFixedTemplateConstant                 = "  FIXED: Team settings updated (%s).\n"
	teamPatchWarnTemplateConstant             = "  WARN: Could not update team settings: %v\n"
	teamListWarnTemplateConstant              = "  WARN: Could not list teams in '%s': %v\n"
	teamProvisionedTemplateConstant           = "  OK: Team '%s' %s (ID: %d).\n"
	teamProvisionFailedTemplateConstant       = "  FAIL: Could not create or verify team: %v\n"
	teamRepositoriesWarnTemplateConstant      = "  WARN: Could not list repos of team '%s': %v\n"
	teamRepositoryMismatchWarnTemplate        = "  WARN: Team '%s' has mismatched repo '%s'.\n"
	membershipCheckWarnTemplateConstant       = "    WARN: Could not check membership of team '%s': %v\n"
	memberRemovedTemplateConstant             = "    FIXED: Removed %s from wrong team '%s'.\n"
	memberRemoveWarnTemplateConstant          = "    WARN: Could not remove %s from team '%s': %v\n"
	memberAddedTemplateConstant               = "    OK: %s added to team '%s'.\n"
	memberAddWarnTemplateConstant             = "    WARN: Could not add %s to team '%s': %v\n"
	repositoryHeaderTemplateConstant          = "\n--- Team: %s ---\n"
	repositoryCreatedBlankTemplateConstant    = "  OK: Repo '%s/%s' created (blank).\n"
	repositoryCreatedTemplateConstant         = "  OK: Repo '%s/%s' created from template.\n"
	repositoryExistsTemplateConstant          = "  OK: Repo '%s/%s' already exists (verified private).\n"
	repositoryFailedTemplateConstant          = "  FAIL: Could not create repo '%s/%s': %v\n"
	repositoryPrivateFixedTemplateConstant    = "  FIXED: Repo '%s/%s' set to private.\n"
	repositoryPrivateWarnTemplateConstant     = "  WARN: Could not set repo '%s/%s' to private: %v\n"
	repositoryAssignedTemplateConstant        = "  OK: Repo '%s' assigned to team.\n"
	repositoryAssignWarnTemplateConstant      = "  WARN: Could not assign repo '%s' to team: %v\n"
	enrollmentSummaryTemplateConstant         = "\nDone. Created: %d, Skipped: %d, Failed: %d\n"
	provisioningDoneMessageConstant           = "\nDone.\n"
	passwordResetTemplateConstant             = "  OK: %s password reset (must change on next login).\n"
	teamCreatedLabelConstant                  = "created"
	teamExistsLabelConstant                   = "exists"
	teamVerifiedLabelConstant                 = "exists (verified)"
	visibilityCorrectionConstant              = "visibility=limited"
	restrictionCorrectionConstant             = "restricted=true"
	permissionCorrectionTemplateConstant      = "permission: %s -> %s"
	includesAllCorrectionConstant             = "includes_all_repositories: true -> false"
	unitsCorrectionTemplateConstant           = "units: %v -> %v"
	correctionSeparatorConstant               = ", "
	rosterWithoutTeamsMessageConstant         = "roster declares no team assignments"
	teamNotFoundAfterConflictTemplateConstant = "team %q reported as existing but absent from the team listing"
	userNotFoundTemplateConstant              = "user %q not found"
	logFieldOrganizationConstant              = "organization"
	logFieldTeamConstant                      = "team"
	logFieldSubjectConstant                   = "subject_id"
	logMessageTeamListFailedConstant          = "team enumeration failed"
	logMessageMembershipCheckFailedConstant   = "membership check failed"
)

// ErrRosterWithoutTeams indicates a provisioning roster with no team column.
var ErrRosterWithoutTeams = errors.New(rosterWithoutTeamsMessageConstant)

// Service converges remote organization, team, repository, account, and
// membership state toward the desired model.
type Service struct {
	directory    Directory
	logger       *zap.Logger
	outputWriter io.Writer
	emailDomain  string
}

// NewService constructs a Service using the provided collaborators.
func NewService(directory Directory, logger *zap.Logger, outputWriter io.Writer, emailDomain string) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	if len(strings.TrimSpace(emailDomain)) == 0 {
		emailDomain = defaultEmailDomainConstant
	}
	return &Service{
		directory:    directory,
		logger:       logger,
		outputWriter: outputWriter,
		emailDomain:  emailDomain,
	}
}

// EnsureOrganization creates the organization with private visibility or
// verifies and corrects the visibility of an existing one.
func (service *Service) EnsureOrganization(executionContext context.Context, organizationName string) error {
	organization, organizationFound, readError := service.directory.GetOrganization(executionContext, organizationName)
	if readError != nil {
		return readError
	}

	if organizationFound {
		fmt.Fprintf(service.outputWriter, organizationExistsTemplateConstant, organizationName)
		service.verifyOrganizationVisibility(executionContext, organization)
		return nil
	}

	createdOrganization, createError := service.directory.CreateOrganization(executionContext, gitea.CreateOrganizationRequest{
		Name:       organizationName,
		Visibility: organizationVisibilityConstant,
	})
	if createError != nil {
		if errors.Is(createError, gitea.ErrAlreadyExists) {
			// A prior create landed before our read observed it.
			existingOrganization, existingFound, refetchError := service.directory.GetOrganization(executionContext, organizationName)
			if refetchError == nil && existingFound {
				fmt.Fprintf(service.outputWriter, organizationExistsTemplateConstant, organizationName)
				service.verifyOrganizationVisibility(executionContext, existingOrganization)
				return nil
			}
		}
		return createError
	}

	fmt.Fprintf(service.outputWriter, organizationCreatedTemplateConstant, createdOrganization.Name)
	if createdOrganization.Visibility == organizationVisibilityConstant {
		fmt.Fprint(service.outputWriter, organizationVisibilityOKMessageConstant)
	} else {
		fmt.Fprintf(service.outputWriter, organizationVisibilityCheckTemplate, createdOrganization.Visibility)
	}
	return nil
}

func (service *Service) verifyOrganizationVisibility(executionContext context.Context, organization gitea.Organization) {
	if organization.Visibility == organizationVisibilityConstant {
		fmt.Fprint(service.outputWriter, organizationVisibilityOKMessageConstant)
		return
	}

	desiredVisibility := organizationVisibilityConstant
	_, patchError := service.directory.UpdateOrganization(executionContext, organization.Name, gitea.OrganizationPatch{Visibility: &desiredVisibility})
	if patchError != nil {
		fmt.Fprintf(service.outputWriter, organizationVisibilityWarnTemplate, patchError)
		return
	}
	fmt.Fprint(service.outputWriter, organizationVisibilityFixedConstant)
}

// EnrollStudents creates or verifies accounts for every roster entry and
// converges team membership for entries carrying a team assignment. One
// entry's failure never aborts the run.
func (service *Service) EnrollStudents(executionContext context.Context, model roster.Model) (EnrollmentTotals, error) {
	totals := EnrollmentTotals{}

	fmt.Fprintf(service.outputWriter, rosterSummaryTemplateConstant, len(model.Entries), model.Organization)

	if model.HasTeams() {
		_, organizationFound, readError := service.directory.GetOrganization(executionContext, model.Organization)
		if readError != nil {
			return totals, readError
		}
		if !organizationFound {
			return totals, OrganizationNotFoundError{Organization: model.Organization}
		}
	}

	cleanupTeams := service.listCleanupTeams(executionContext, model.Organization, model.HasTeams())
	teamCache := map[string]gitea.Team{}

	for _, entry := range model.Entries {
		switch service.ensureAccount(executionContext, entry.SubjectID) {
		case accountOutcomeCreated:
			totals.Created++
		case accountOutcomeVerified:
			totals.Skipped++
		case accountOutcomeFailed:
			totals.Failed++
			continue
		}

		if len(entry.Team) == 0 {
			continue
		}

		targetTeam, teamCached := teamCache[entry.Team]
		if !teamCached {
			ensuredTeam, teamCreated, teamError := service.ensureTeam(executionContext, model.Organization, entry.Team)
			if teamError != nil {
				fmt.Fprintf(service.outputWriter, teamFailedTemplateConstant, entry.Team, teamError)
				continue
			}
			teamCache[entry.Team] = ensuredTeam
			targetTeam = ensuredTeam

			teamLabel := teamExistsLabelConstant
			if teamCreated {
				teamLabel = teamCreatedLabelConstant
			}
			fmt.Fprintf(service.outputWriter, teamReadyTemplateConstant, model.Organization, entry.Team, teamLabel, ensuredTeam.ID)
		}

		service.convergeMembership(executionContext, cleanupTeams, targetTeam, entry.SubjectID)
	}

	fmt.Fprintf(service.outputWriter, enrollmentSummaryTemplateConstant, totals.Created, totals.Skipped, totals.Failed)
	return totals, nil
}

// ProvisionRepositories ensures every roster team exists with canonical
// settings, owns a private repository named after it, and contains exactly
// its roster members.
func (service *Service) ProvisionRepositories(executionContext context.Context, model roster.Model, template *TemplateReference) error {
	if !model.HasTeams() {
		return ErrRosterWithoutTeams
	}

	organization, organizationFound, readError := service.directory.GetOrganization(executionContext, model.Organization)
	if readError != nil {
		return readError
	}
	if !organizationFound {
		return OrganizationNotFoundError{Organization: model.Organization}
	}

	if organization.Visibility == organizationVisibilityConstant {
		fmt.Fprintf(service.outputWriter, organizationVerifiedTemplateConstant, model.Organization)
	} else {
		fmt.Fprintf(service.outputWriter, organizationVisibilityCheckTemplate, organization.Visibility)
	}

	cleanupTeams := service.listCleanupTeams(executionContext, model.Organization, true)

	for _, teamGroup := range model.Teams {
		fmt.Fprintf(service.outputWriter, repositoryHeaderTemplateConstant, teamGroup.Name)

		ensuredTeam, teamCreated, teamError := service.ensureTeam(executionContext, model.Organization, teamGroup.Name)
		if teamError != nil {
			fmt.Fprintf(service.outputWriter, teamProvisionFailedTemplateConstant, teamError)
			continue
		}

		teamLabel := teamVerifiedLabelConstant
		if teamCreated {
			teamLabel = teamCreatedLabelConstant
		}
		fmt.Fprintf(service.outputWriter, teamProvisionedTemplateConstant, teamGroup.Name, teamLabel, ensuredTeam.ID)

		if !teamCreated {
			service.reportMismatchedTeamRepositories(executionContext, ensuredTeam)
		}

		if !service.ensureRepository(executionContext, model.Organization, teamGroup.Name, template) {
			continue
		}

		if assignError := service.directory.AddTeamRepository(executionContext, ensuredTeam.ID, model.Organization, teamGroup.Name); assignError != nil {
			fmt.Fprintf(service.outputWriter, repositoryAssignWarnTemplateConstant, teamGroup.Name, assignError)
		} else {
			fmt.Fprintf(service.outputWriter, repositoryAssignedTemplateConstant, teamGroup.Name)
		}

		for _, memberIdentifier := range teamGroup.Members {
			service.convergeMembership(executionContext, cleanupTeams, ensuredTeam, memberIdentifier)
		}
	}

	fmt.Fprint(service.outputWriter, provisioningDoneMessageConstant)
	return nil
}

// ResetPassword sets the account password back to the reversed subject
// identifier and requires a change on next login. Reconciliation never
// touches passwords; this explicit operation is the only path that does.
func (service *Service) ResetPassword(executionContext context.Context, subjectIdentifier string) error {
	user, userFound, readError := service.directory.GetUser(executionContext, subjectIdentifier)
	if readError != nil {
		return readError
	}
	if !userFound {
		return fmt.Errorf(userNotFoundTemplateConstant, subjectIdentifier)
	}

	defaultPassword := ReversedIdentifier(subjectIdentifier)
	mustChangePassword := true
	editRequest := gitea.EditUserRequest{
		LoginName:          user.Login,
		SourceID:           user.SourceID,
		Password:           &defaultPassword,
		MustChangePassword: &mustChangePassword,
	}
	if editError := service.directory.EditUser(executionContext, subjectIdentifier, editRequest); editError != nil {
		return editError
	}

	fmt.Fprintf(service.outputWriter, passwordResetTemplateConstant, subjectIdentifier)
	return nil
}

type accountOutcome int

const (
	accountOutcomeCreated accountOutcome = iota
	accountOutcomeVerified
	accountOutcomeFailed
)

func (service *Service) ensureAccount(executionContext context.Context, subjectIdentifier string) accountOutcome {
	user, userFound, readError := service.directory.GetUser(executionContext, subjectIdentifier)
	if readError != nil {
		fmt.Fprintf(service.outputWriter, accountFailedTemplateConstant, subjectIdentifier, readError)
		return accountOutcomeFailed
	}

	if userFound {
		fmt.Fprintf(service.outputWriter, accountExistsTemplateConstant, subjectIdentifier)
		service.verifyAccountSettings(executionContext, user)
		return accountOutcomeVerified
	}

	createRequest := gitea.CreateUserRequest{
		Username:           subjectIdentifier,
		Password:           ReversedIdentifier(subjectIdentifier),
		Email:              fmt.Sprintf(emailAddressTemplateConstant, subjectIdentifier, service.emailDomain),
		MustChangePassword: true,
		Visibility:         accountVisibilityConstant,
		Restricted:         true,
	}

	_, createError := service.directory.CreateUser(executionContext, createRequest)
	if createError == nil {
		fmt.Fprintf(service.outputWriter, accountCreatedTemplateConstant, subjectIdentifier)
		return accountOutcomeCreated
	}

	if errors.Is(createError, gitea.ErrAlreadyExists) {
		// A prior create landed before our read observed it.
		existingUser, existingFound, refetchError := service.directory.GetUser(executionContext, subjectIdentifier)
		if refetchError == nil && existingFound {
			fmt.Fprintf(service.outputWriter, accountExistsTemplateConstant, subjectIdentifier)
			service.verifyAccountSettings(executionContext, existingUser)
			return accountOutcomeVerified
		}
	}

	fmt.Fprintf(service.outputWriter, accountFailedTemplateConstant, subjectIdentifier, createError)
	return accountOutcomeFailed
}

// verifyAccountSettings corrects visibility and restriction divergence on an
// existing account. The password is deliberately left untouched.
func (service *Service) verifyAccountSettings(executionContext context.Context, user gitea.User) {
	var corrections []string
	editRequest := gitea.EditUserRequest{
		LoginName: user.Login,
		SourceID:  user.SourceID,
	}

	if user.Visibility != accountVisibilityConstant {
		desiredVisibility := accountVisibilityConstant
		editRequest.Visibility = &desiredVisibility
		corrections = append(corrections, visibilityCorrectionConstant)
	}
	if !user.Restricted {
		desiredRestriction := true
		editRequest.Restricted = &desiredRestriction
		corrections = append(corrections, restrictionCorrectionConstant)
	}
	if len(corrections) == 0 {
		return
	}

	if editError := service.directory.EditUser(executionContext, user.Login, editRequest); editError != nil {
		fmt.Fprintf(service.outputWriter, accountPatchWarnTemplateConstant, editError)
		return
	}
	fmt.Fprintf(service.outputWriter, accountFixedTemplateConstant, strings.Join(corrections, correctionSeparatorConstant))
}

// ensureTeam attempts unconditional creation with the canonical team
// configuration and falls back to verify-and-correct when the team exists.
func (service *Service) ensureTeam(executionContext context.Context, organizationName string, teamName string) (gitea.Team, bool, error) {
	createdTeam, createError := service.directory.CreateTeam(executionContext, organizationName, gitea.CreateTeamRequest{
		Name:                    teamName,
		Permission:              teamPermissionConstant,
		IncludesAllRepositories: false,
		Units:                   canonicalTeamUnits,
	})
	if createError == nil {
		return createdTeam, true, nil
	}
	if !errors.Is(createError, gitea.ErrAlreadyExists) {
		return gitea.Team{}, false, createError
	}

	existingTeam, teamFound, findError := service.directory.FindTeam(executionContext, organizationName, teamName)
	if findError != nil {
		return gitea.Team{}, false, findError
	}
	if !teamFound {
		return gitea.Team{}, false, fmt.Errorf(teamNotFoundAfterConflictTemplateConstant, teamName)
	}

	service.verifyTeamSettings(executionContext, &existingTeam)
	return existingTeam, false, nil
}

// verifyTeamSettings diffs an existing team against the canonical
// configuration and patches only when a field diverges. A failed patch is a
// warning; the stale team is still returned so processing continues.
func (service *Service) verifyTeamSettings(executionContext context.Context, team *gitea.Team) {
	var corrections []string

	if team.Permission != teamPermissionConstant {
		corrections = append(corrections, fmt.Sprintf(permissionCorrectionTemplateConstant, team.Permission, teamPermissionConstant))
	}
	if team.IncludesAllRepositories {
		corrections = append(corrections, includesAllCorrectionConstant)
	}

	currentUnits := append([]string{}, team.Units...)
	sort.Strings(currentUnits)
	desiredUnits := append([]string{}, canonicalTeamUnits...)
	sort.Strings(desiredUnits)
	if strings.Join(currentUnits, correctionSeparatorConstant) != strings.Join(desiredUnits, correctionSeparatorConstant) {
		corrections = append(corrections, fmt.Sprintf(unitsCorrectionTemplateConstant, currentUnits, desiredUnits))
	}

	if len(corrections) == 0 {
		return
	}

	desiredPermission := teamPermissionConstant
	includesAllRepositories := false
	updatedTeam, patchError := service.directory.UpdateTeam(executionContext, team.ID, gitea.TeamPatch{
		Permission:              &desiredPermission,
		IncludesAllRepositories: &includesAllRepositories,
		Units:                   canonicalTeamUnits,
	})
	if patchError != nil {
		fmt.Fprintf(service.outputWriter, teamPatchWarnTemplateConstant, patchError)
		return
	}

	*team = updatedTeam
	fmt.Fprintf(service.outputWriter, teamFixedTemplateConstant, strings.Join(corrections, correctionSeparatorConstant))
}

// convergeMembership removes the student from every non-target team before
// adding the target membership, so a student is never simultaneously correct
// and incorrect. Both remote operations are idempotent.
func (service *Service) convergeMembership(executionContext context.Context, cleanupTeams []gitea.Team, targetTeam gitea.Team, subjectIdentifier string) {
	for _, candidateTeam := range cleanupTeams {
		if candidateTeam.Name == targetTeam.Name {
			continue
		}

		isMember, membershipError := service.directory.IsTeamMember(executionContext, candidateTeam.ID, subjectIdentifier)
		if membershipError != nil {
			service.logger.Warn(
				logMessageMembershipCheckFailedConstant,
				zap.String(logFieldTeamConstant, candidateTeam.Name),
				zap.String(logFieldSubjectConstant, subjectIdentifier),
				zap.Error(membershipError),
			)
			fmt.Fprintf(service.outputWriter, membershipCheckWarnTemplateConstant, candidateTeam.Name, membershipError)
			continue
		}
		if !isMember {
			continue
		}

		if removeError := service.directory.RemoveTeamMember(executionContext, candidateTeam.ID, subjectIdentifier); removeError != nil {
			fmt.Fprintf(service.outputWriter, memberRemoveWarnTemplateConstant, subjectIdentifier, candidateTeam.Name, removeError)
		} else {
			fmt.Fprintf(service.outputWriter, memberRemovedTemplateConstant, subjectIdentifier, candidateTeam.Name)
		}
	}

	if addError := service.directory.AddTeamMember(executionContext, targetTeam.ID, subjectIdentifier); addError != nil {
		fmt.Fprintf(service.outputWriter, memberAddWarnTemplateConstant, subjectIdentifier, targetTeam.Name, addError)
	} else {
		fmt.Fprintf(service.outputWriter, memberAddedTemplateConstant, subjectIdentifier, targetTeam.Name)
	}
}

// listCleanupTeams loads the organization's non-Owners teams once per run. A
// read failure degrades to an empty list with a warning so the run proceeds.
func (service *Service) listCleanupTeams(executionContext context.Context, organizationName string, rosterHasTeams bool) []gitea.Team {
	if !rosterHasTeams {
		return nil
	}

	teams, listError := service.directory.ListTeams(executionContext, organizationName)
	if listError != nil {
		service.logger.Warn(
			logMessageTeamListFailedConstant,
			zap.String(logFieldOrganizationConstant, organizationName),
			zap.Error(listError),
		)
		fmt.Fprintf(service.outputWriter, teamListWarnTemplateConstant, organizationName, listError)
		return nil
	}

	cleanupTeams := make([]gitea.Team, 0, len(teams))
	for _, team := range teams {
		if team.Name == ownersTeamNameConstant {
			continue
		}
		cleanupTeams = append(cleanupTeams, team)
	}
	return cleanupTeams
}

func (service *Service) reportMismatchedTeamRepositories(executionContext context.Context, team gitea.Team) {
	repositoryNames, listError := service.directory.ListTeamRepositories(executionContext, team.ID)
	if listError != nil {
		fmt.Fprintf(service.outputWriter, teamRepositoriesWarnTemplateConstant, team.Name, listError)
		return
	}
	for _, repositoryName := range repositoryNames {
		if repositoryName != team.Name {
			fmt.Fprintf(service.outputWriter, teamRepositoryMismatchWarnTemplate, team.Name, repositoryName)
		}
	}
}

// ensureRepository creates the team repository (blank or from a template) or
// verifies that an existing one is private. The verify branch is identical
// regardless of which creation path produced the repository.
func (service *Service) ensureRepository(executionContext context.Context, organizationName string, repositoryName string, template *TemplateReference) bool {
	existingRepository, repositoryFound, readError := service.directory.GetRepository(executionContext, organizationName, repositoryName)
	if readError != nil {
		fmt.Fprintf(service.outputWriter, repositoryFailedTemplateConstant, organizationName, repositoryName, readError)
		return false
	}

	if repositoryFound {
		service.verifyRepositoryPrivacy(executionContext, organizationName, existingRepository)
		fmt.Fprintf(service.outputWriter, repositoryExistsTemplateConstant, organizationName, repositoryName)
		return true
	}

	var createError error
	if template != nil {
		_, createError = service.directory.GenerateRepository(executionContext, template.Owner, template.Name, gitea.GenerateRepositoryRequest{
			Owner:      organizationName,
			Name:       repositoryName,
			Private:    true,
			GitContent: true,
			Topics:     true,
			Labels:     true,
		})
	} else {
		_, createError = service.directory.CreateOrganizationRepository(executionContext, organizationName, gitea.CreateRepositoryRequest{
			Name:           repositoryName,
			Private:        true,
			AutoInitialize: true,
		})
	}

	if createError == nil {
		if template != nil {
			fmt.Fprintf(service.outputWriter, repositoryCreatedTemplateConstant, organizationName, repositoryName)
		} else {
			fmt.Fprintf(service.outputWriter, repositoryCreatedBlankTemplateConstant, organizationName, repositoryName)
		}
		return true
	}

	if errors.Is(createError, gitea.ErrAlreadyExists) {
		// A prior create landed before our read observed it.
		conflictedRepository, conflictedFound, refetchError := service.directory.GetRepository(executionContext, organizationName, repositoryName)
		if refetchError == nil && conflictedFound {
			service.verifyRepositoryPrivacy(executionContext, organizationName, conflictedRepository)
			fmt.Fprintf(service.outputWriter, repositoryExistsTemplateConstant, organizationName, repositoryName)
			return true
		}
	}

	fmt.Fprintf(service.outputWriter, repositoryFailedTemplateConstant, organizationName, repositoryName, createError)
	return false
}

func (service *Service) verifyRepositoryPrivacy(executionContext context.Context, organizationName string, repository gitea.Repository) {
	if repository.Private {
		return
	}

	desiredPrivacy := true
	_, patchError := service.directory.UpdateRepository(executionContext, organizationName, repository.Name, gitea.RepositoryPatch{Private: &desiredPrivacy})
	if patchError != nil {
		fmt.Fprintf(service.outputWriter, repositoryPrivateWarnTemplateConstant, organizationName, repository.Name, patchError)
		return
	}
	fmt.Fprintf(service.outputWriter, repositoryPrivateFixedTemplateConstant, organizationName, repository.Name)
}
