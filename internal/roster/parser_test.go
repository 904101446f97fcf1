package roster_test

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/coursectl/internal/roster"
)

func TestParseRoster(testInstance *testing.T) {
	testCases := []struct {
		name            string
		rosterContent   string
		expectedEntries []roster.Entry
	}{
		{
			name:          "parses_entries_with_and_without_teams",
			rosterContent: "course-2026 s100 Alice team-alpha\ncourse-2026 s200 Bob\n",
			expectedEntries: []roster.Entry{
				{Organization: "course-2026", SubjectID: "s100", DisplayName: "Alice", Team: "team-alpha"},
				{Organization: "course-2026", SubjectID: "s200", DisplayName: "Bob"},
			},
		},
		{
			name:          "skips_blank_lines_and_comments",
			rosterContent: "\n# header comment\n   \ncourse-2026 s100 Alice team-alpha\n",
			expectedEntries: []roster.Entry{
				{Organization: "course-2026", SubjectID: "s100", DisplayName: "Alice", Team: "team-alpha"},
			},
		},
		{
			name:          "skips_short_records",
			rosterContent: "course-2026 s100\ncourse-2026 s200 Bob team-beta\n",
			expectedEntries: []roster.Entry{
				{Organization: "course-2026", SubjectID: "s200", DisplayName: "Bob", Team: "team-beta"},
			},
		},
		{
			name:            "empty_input_yields_no_entries",
			rosterContent:   "# only comments\n",
			expectedEntries: nil,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			entries, parseError := roster.ParseRoster(strings.NewReader(testCase.rosterContent))
			require.NoError(subtestInstance, parseError)
			require.Equal(subtestInstance, testCase.expectedEntries, entries)
		})
	}
}

func TestParseAliases(testInstance *testing.T) {
	aliasContent := "# personal addresses\nAlice.Personal@Mail.Example S100\nbob@mail.example s200\nshort\n"

	aliases, parseError := roster.ParseAliases(strings.NewReader(aliasContent))
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, map[string]string{
		"alice.personal@mail.example": "s100",
		"bob@mail.example":            "s200",
	}, aliases)
}

func TestLoadAliasesMissingFileYieldsEmptyTable(testInstance *testing.T) {
	aliases, loadError := roster.LoadAliases(filepath.Join(testInstance.TempDir(), "absent.aliases.csv"))
	require.NoError(testInstance, loadError)
	require.Empty(testInstance, aliases)
}

func TestBuildModel(testInstance *testing.T) {
	testCases := []struct {
		name          string
		entries       []roster.Entry
		expectedError error
		inspect       func(model roster.Model, subtestInstance *testing.T)
	}{
		{
			name: "groups_teams_in_first_seen_order",
			entries: []roster.Entry{
				{Organization: "course-2026", SubjectID: "s100", DisplayName: "Alice", Team: "team-beta"},
				{Organization: "course-2026", SubjectID: "s200", DisplayName: "Bob", Team: "team-alpha"},
				{Organization: "course-2026", SubjectID: "s300", DisplayName: "Cleo", Team: "team-beta"},
			},
			inspect: func(model roster.Model, subtestInstance *testing.T) {
				require.Equal(subtestInstance, "course-2026", model.Organization)
				require.True(subtestInstance, model.HasTeams())
				require.Equal(subtestInstance, []string{"team-beta", "team-alpha"}, model.TeamNames())
				require.Len(subtestInstance, model.Teams[0].Members, 2)
			},
		},
		{
			name: "roster_without_teams_builds_model",
			entries: []roster.Entry{
				{Organization: "course-2026", SubjectID: "s100", DisplayName: "Alice"},
			},
			inspect: func(model roster.Model, subtestInstance *testing.T) {
				require.False(subtestInstance, model.HasTeams())
				require.Empty(subtestInstance, model.Teams)
			},
		},
		{
			name:          "empty_roster_rejected",
			entries:       nil,
			expectedError: roster.ErrEmptyRoster,
		},
		{
			name: "multiple_organizations_rejected",
			entries: []roster.Entry{
				{Organization: "course-2026", SubjectID: "s100", DisplayName: "Alice"},
				{Organization: "course-2025", SubjectID: "s200", DisplayName: "Bob"},
			},
			expectedError: roster.MultipleOrganizationsError{Organizations: []string{"course-2026", "course-2025"}},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			model, buildError := roster.BuildModel(testCase.entries)
			if testCase.expectedError != nil {
				require.Error(subtestInstance, buildError)
				require.Equal(subtestInstance, testCase.expectedError.Error(), buildError.Error())
				return
			}
			require.NoError(subtestInstance, buildError)
			testCase.inspect(model, subtestInstance)
		})
	}
}
