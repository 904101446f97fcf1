package commits

import (
	"fmt"
	"sort"
	"strings"

	"github.com/temirov/coursectl/internal/gitea"
)

const (
	linkedAuthorTemplateConstant  = "%s <%s> (gitea: %s)"
	aliasedAuthorTemplateConstant = "%s <%s> (alias: %s)"
	bareAuthorTemplateConstant    = "%s <%s>"
)

// Classifier resolves commit authors against an organization's admin set and
// alias table.
type Classifier struct {
	OrganizationName string
	AdminLogins      map[string]struct{}
	AdminEmails      map[string]struct{}
	Aliases          map[string]string
}

// Analysis is the outcome of classifying one repository's commit list.
type Analysis struct {
	NonAdminCommitCount int
	UnknownAuthors      []string
}

// HasGenuineActivity reports whether any non-admin commit was observed.
func (analysis Analysis) HasGenuineActivity() bool {
	return analysis.NonAdminCommitCount > 0
}

// Analyze classifies every commit. First match wins: organization-named
// authors are synthetic and ignored entirely; linked logins and alias-mapped
// emails are checked against the admin set and then the member set; known
// admin emails are ignored; anything else counts as non-admin and unknown.
func (classifier Classifier) Analyze(commitList []gitea.Commit, memberLogins map[string]struct{}) Analysis {
	analysis := Analysis{}
	unknownAuthors := map[string]struct{}{}

	for _, commit := range commitList {
		authorName := commit.Details.Author.Name
		authorEmail := strings.ToLower(commit.Details.Author.Email)

		if authorName == classifier.OrganizationName {
			continue
		}

		if commit.Author != nil && len(commit.Author.Login) > 0 {
			linkedLogin := strings.ToLower(commit.Author.Login)
			if _, isAdmin := classifier.AdminLogins[linkedLogin]; isAdmin {
				continue
			}
			analysis.NonAdminCommitCount++
			if _, isMember := memberLogins[linkedLogin]; !isMember {
				unknownAuthors[formatLinkedAuthor(authorName, authorEmail, commit.Author.Login)] = struct{}{}
			}
			continue
		}

		if aliasedSubject, aliasKnown := classifier.Aliases[authorEmail]; aliasKnown {
			if _, isAdmin := classifier.AdminLogins[aliasedSubject]; isAdmin {
				continue
			}
			analysis.NonAdminCommitCount++
			if _, isMember := memberLogins[aliasedSubject]; !isMember {
				unknownAuthors[formatAliasedAuthor(authorName, authorEmail, aliasedSubject)] = struct{}{}
			}
			continue
		}

		if _, isAdminEmail := classifier.AdminEmails[authorEmail]; isAdminEmail {
			continue
		}

		analysis.NonAdminCommitCount++
		unknownAuthors[formatBareAuthor(authorName, authorEmail)] = struct{}{}
	}

	for unknownAuthor := range unknownAuthors {
		analysis.UnknownAuthors = append(analysis.UnknownAuthors, unknownAuthor)
	}
	sort.Strings(analysis.UnknownAuthors)
	return analysis
}

func formatLinkedAuthor(authorName string, authorEmail string, linkedLogin string) string {
	return fmt.Sprintf(linkedAuthorTemplateConstant, authorName, authorEmail, linkedLogin)
}

func formatAliasedAuthor(authorName string, authorEmail string, aliasedSubject string) string {
	return fmt.Sprintf(aliasedAuthorTemplateConstant, authorName, authorEmail, aliasedSubject)
}

func formatBareAuthor(authorName string, authorEmail string) string {
	return fmt.Sprintf(bareAuthorTemplateConstant, authorName, authorEmail)
}
