package commits_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/coursectl/internal/commits"
	"github.com/temirov/coursectl/internal/gitea"
)

type stubActivityDirectory struct {
	organizations     map[string]gitea.Organization
	teams             []gitea.Team
	teamMembers       map[int64][]string
	teamRepositories  map[int64][]string
	repositoryCommits map[string][]gitea.Commit
	users             map[string]gitea.User
	commitsError      error
}

func (stub *stubActivityDirectory) GetOrganization(_ context.Context, organizationName string) (gitea.Organization, bool, error) {
	organization, found := stub.organizations[organizationName]
	return organization, found, nil
}

func (stub *stubActivityDirectory) ListTeams(_ context.Context, _ string) ([]gitea.Team, error) {
	return stub.teams, nil
}

func (stub *stubActivityDirectory) ListTeamMembers(_ context.Context, teamIdentifier int64) ([]string, error) {
	return stub.teamMembers[teamIdentifier], nil
}

func (stub *stubActivityDirectory) ListTeamRepositories(_ context.Context, teamIdentifier int64) ([]string, error) {
	return stub.teamRepositories[teamIdentifier], nil
}

func (stub *stubActivityDirectory) ListRepositoryCommits(_ context.Context, ownerName string, repositoryName string) ([]gitea.Commit, error) {
	if stub.commitsError != nil {
		return nil, stub.commitsError
	}
	return stub.repositoryCommits[ownerName+"/"+repositoryName], nil
}

func (stub *stubActivityDirectory) GetUser(_ context.Context, username string) (gitea.User, bool, error) {
	user, found := stub.users[username]
	return user, found, nil
}

func studentCommit(login string) gitea.Commit {
	return gitea.Commit{
		SHA:    "abc123",
		Author: &gitea.CommitAccount{Login: login},
		Details: gitea.CommitDetails{
			Author: gitea.CommitSignature{Name: "Student", Email: login + "@students.example.edu"},
		},
	}
}

func instructorCommit() gitea.Commit {
	return gitea.Commit{
		SHA:    "def456",
		Author: &gitea.CommitAccount{Login: "instructor"},
		Details: gitea.CommitDetails{
			Author: gitea.CommitSignature{Name: "Instructor", Email: "instructor@example.edu"},
		},
	}
}

func newPopulatedDirectory() *stubActivityDirectory {
	return &stubActivityDirectory{
		organizations: map[string]gitea.Organization{
			"course-2026": {ID: 1, Name: "course-2026", Visibility: "private"},
		},
		teams: []gitea.Team{
			{ID: 10, Name: "Owners"},
			{ID: 11, Name: "team-alpha"},
			{ID: 12, Name: "team-beta"},
		},
		teamMembers: map[int64][]string{
			10: {"instructor"},
			11: {"s100"},
			12: {"s200"},
		},
		teamRepositories: map[int64][]string{
			11: {"team-alpha"},
			12: {"team-beta"},
		},
		repositoryCommits: map[string][]gitea.Commit{
			"course-2026/team-alpha": {studentCommit("s100"), instructorCommit()},
			"course-2026/team-beta":  {instructorCommit()},
		},
		users: map[string]gitea.User{
			"instructor": {ID: 5, Login: "instructor", Email: "instructor@example.edu"},
		},
	}
}

func TestCheckActivity(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		teamFilter            string
		mutateDirectory       func(directory *stubActivityDirectory)
		expectedChecked       int
		expectedInactive      int
		expectedError         error
		expectedOutputPieces  []string
		forbiddenOutputPieces []string
	}{
		{
			name:             "flags_team_with_only_admin_commits",
			expectedChecked:  2,
			expectedInactive: 1,
			expectedOutputPieces: []string{
				"OK: team-alpha/team-alpha (1 non-admin commit(s) out of 2)",
				"NO COMMITS: team-beta/team-beta (1 commit(s), all from admin)",
				"Teams without activity: 1/2",
				"Teams without any non-admin commits:\n  team-beta",
			},
		},
		{
			name:             "team_filter_restricts_scan",
			teamFilter:       "team-alpha",
			expectedChecked:  1,
			expectedInactive: 0,
			expectedOutputPieces: []string{
				"Checking 1 team(s) in org 'course-2026'",
			},
			forbiddenOutputPieces: []string{"team-beta"},
		},
		{
			name:          "unknown_team_filter_rejected",
			teamFilter:    "team-gamma",
			expectedError: commits.TeamNotFoundError{Organization: "course-2026", Team: "team-gamma"},
		},
		{
			name: "missing_organization_rejected",
			mutateDirectory: func(directory *stubActivityDirectory) {
				directory.organizations = map[string]gitea.Organization{}
			},
			expectedError: commits.OrganizationNotFoundError{Organization: "course-2026"},
		},
		{
			name: "team_without_repository_skipped_not_flagged",
			mutateDirectory: func(directory *stubActivityDirectory) {
				delete(directory.teamRepositories, 12)
			},
			expectedChecked:  2,
			expectedInactive: 0,
			expectedOutputPieces: []string{
				"SKIP: team-beta - no repo assigned",
			},
		},
		{
			name: "unreadable_repository_reported_not_flagged",
			mutateDirectory: func(directory *stubActivityDirectory) {
				directory.commitsError = errors.New("boom")
			},
			expectedChecked:  2,
			expectedInactive: 0,
			expectedOutputPieces: []string{
				"FAIL: team-alpha - could not read repo 'course-2026/team-alpha'",
			},
		},
		{
			name: "outside_author_reported",
			mutateDirectory: func(directory *stubActivityDirectory) {
				directory.repositoryCommits["course-2026/team-beta"] = []gitea.Commit{studentCommit("s999")}
			},
			expectedChecked:  2,
			expectedInactive: 0,
			expectedOutputPieces: []string{
				"Commits from authors outside the team:",
				"team-beta (repo: team-beta):",
				"(gitea: s999)",
			},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			directory := newPopulatedDirectory()
			if testCase.mutateDirectory != nil {
				testCase.mutateDirectory(directory)
			}

			outputBuffer := &bytes.Buffer{}
			service := commits.NewService(directory, nil, outputBuffer)

			totals, activityError := service.CheckActivity(context.Background(), "course-2026", testCase.teamFilter, nil)
			if testCase.expectedError != nil {
				require.ErrorIs(subtestInstance, activityError, testCase.expectedError)
				return
			}

			require.NoError(subtestInstance, activityError)
			require.Equal(subtestInstance, testCase.expectedChecked, totals.CheckedTeams)
			require.Equal(subtestInstance, testCase.expectedInactive, totals.InactiveTeams)
			for _, expectedPiece := range testCase.expectedOutputPieces {
				require.Contains(subtestInstance, outputBuffer.String(), expectedPiece)
			}
			for _, forbiddenPiece := range testCase.forbiddenOutputPieces {
				require.NotContains(subtestInstance, outputBuffer.String(), forbiddenPiece)
			}
		})
	}
}
