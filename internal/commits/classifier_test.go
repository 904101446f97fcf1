package commits_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/coursectl/internal/commits"
	"github.com/temirov/coursectl/internal/gitea"
)

func linkedCommit(authorName string, authorEmail string, login string) gitea.Commit {
	return gitea.Commit{
		SHA:    "abc123",
		Author: &gitea.CommitAccount{Login: login},
		Details: gitea.CommitDetails{
			Author: gitea.CommitSignature{Name: authorName, Email: authorEmail},
		},
	}
}

func unlinkedCommit(authorName string, authorEmail string) gitea.Commit {
	return gitea.Commit{
		SHA: "def456",
		Details: gitea.CommitDetails{
			Author: gitea.CommitSignature{Name: authorName, Email: authorEmail},
		},
	}
}

func TestClassifierAnalyze(testInstance *testing.T) {
	testCases := []struct {
		name                    string
		classifier              commits.Classifier
		commitList              []gitea.Commit
		memberLogins            map[string]struct{}
		expectedNonAdminCount   int
		expectedUnknownAuthors  []string
		expectedGenuineActivity bool
	}{
		{
			name:       "organization_named_author_ignored",
			classifier: commits.Classifier{OrganizationName: "course-2026"},
			commitList: []gitea.Commit{
				unlinkedCommit("course-2026", "noreply@example.com"),
			},
			expectedNonAdminCount:   0,
			expectedGenuineActivity: false,
		},
		{
			name: "linked_admin_login_ignored",
			classifier: commits.Classifier{
				OrganizationName: "course-2026",
				AdminLogins:      map[string]struct{}{"instructor": {}},
			},
			commitList: []gitea.Commit{
				linkedCommit("Instructor", "instructor@example.edu", "Instructor"),
			},
			expectedNonAdminCount:   0,
			expectedGenuineActivity: false,
		},
		{
			name:       "linked_member_counts_without_unknown",
			classifier: commits.Classifier{OrganizationName: "course-2026"},
			commitList: []gitea.Commit{
				linkedCommit("Student One", "s100@students.example.edu", "s100"),
			},
			memberLogins:            map[string]struct{}{"s100": {}},
			expectedNonAdminCount:   1,
			expectedGenuineActivity: true,
		},
		{
			name:       "linked_non_member_reported_unknown",
			classifier: commits.Classifier{OrganizationName: "course-2026"},
			commitList: []gitea.Commit{
				linkedCommit("Student Two", "s200@students.example.edu", "s200"),
			},
			memberLogins:          map[string]struct{}{"s100": {}},
			expectedNonAdminCount: 1,
			expectedUnknownAuthors: []string{
				"Student Two <s200@students.example.edu> (gitea: s200)",
			},
			expectedGenuineActivity: true,
		},
		{
			name: "alias_resolves_unlinked_member",
			classifier: commits.Classifier{
				OrganizationName: "course-2026",
				Aliases:          map[string]string{"personal@mail.example": "s100"},
			},
			commitList: []gitea.Commit{
				unlinkedCommit("Student One", "Personal@Mail.Example"),
			},
			memberLogins:            map[string]struct{}{"s100": {}},
			expectedNonAdminCount:   1,
			expectedGenuineActivity: true,
		},
		{
			name: "alias_resolving_to_admin_ignored",
			classifier: commits.Classifier{
				OrganizationName: "course-2026",
				AdminLogins:      map[string]struct{}{"instructor": {}},
				Aliases:          map[string]string{"personal@mail.example": "instructor"},
			},
			commitList: []gitea.Commit{
				unlinkedCommit("Instructor", "personal@mail.example"),
			},
			expectedNonAdminCount:   0,
			expectedGenuineActivity: false,
		},
		{
			name: "alias_resolving_outside_team_reported_unknown",
			classifier: commits.Classifier{
				OrganizationName: "course-2026",
				Aliases:          map[string]string{"personal@mail.example": "s200"},
			},
			commitList: []gitea.Commit{
				unlinkedCommit("Student Two", "personal@mail.example"),
			},
			memberLogins:          map[string]struct{}{"s100": {}},
			expectedNonAdminCount: 1,
			expectedUnknownAuthors: []string{
				"Student Two <personal@mail.example> (alias: s200)",
			},
			expectedGenuineActivity: true,
		},
		{
			name: "admin_email_ignored",
			classifier: commits.Classifier{
				OrganizationName: "course-2026",
				AdminEmails:      map[string]struct{}{"instructor@example.edu": {}},
			},
			commitList: []gitea.Commit{
				unlinkedCommit("Instructor", "Instructor@Example.edu"),
			},
			expectedNonAdminCount:   0,
			expectedGenuineActivity: false,
		},
		{
			name:       "unrecognized_author_counts_and_reported",
			classifier: commits.Classifier{OrganizationName: "course-2026"},
			commitList: []gitea.Commit{
				unlinkedCommit("Mystery Person", "mystery@mail.example"),
			},
			memberLogins:          map[string]struct{}{"s100": {}},
			expectedNonAdminCount: 1,
			expectedUnknownAuthors: []string{
				"Mystery Person <mystery@mail.example>",
			},
			expectedGenuineActivity: true,
		},
		{
			name: "duplicate_unknown_authors_deduplicated",
			classifier: commits.Classifier{
				OrganizationName: "course-2026",
			},
			commitList: []gitea.Commit{
				unlinkedCommit("Mystery Person", "mystery@mail.example"),
				unlinkedCommit("Mystery Person", "mystery@mail.example"),
			},
			expectedNonAdminCount: 2,
			expectedUnknownAuthors: []string{
				"Mystery Person <mystery@mail.example>",
			},
			expectedGenuineActivity: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(subtestInstance *testing.T) {
			analysis := testCase.classifier.Analyze(testCase.commitList, testCase.memberLogins)
			require.Equal(subtestInstance, testCase.expectedNonAdminCount, analysis.NonAdminCommitCount)
			require.Equal(subtestInstance, testCase.expectedUnknownAuthors, analysis.UnknownAuthors)
			require.Equal(subtestInstance, testCase.expectedGenuineActivity, analysis.HasGenuineActivity())
		})
	}
}
