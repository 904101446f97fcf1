package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

const (
	organizationVisibilityConstant = "private"
	accountVisibilityConstant      = "limited"
	teamPermissionConstant         = "write"
	ownersTeamNameConstant         = "Owners"
	defaultEmailDomainConstant     = "students.example.edu"
	emailAddressTemplateConstant   = "%s@%s"

	templateReferenceSeparatorConstant = "/"
	templateReferenceFormatMessage     = "template reference must use the owner/repository format"
)

// canonicalTeamUnits is the exact capability-unit set every student team must
// carry.
var canonicalTeamUnits = []string{"repo.code", "repo.issues", "repo.pulls"}

// ErrInvalidTemplateReference indicates a template argument missing the
// owner/repository separator.
var ErrInvalidTemplateReference = errors.New(templateReferenceFormatMessage)

// TemplateReference identifies a template repository by owner and name.
type TemplateReference struct {
	Owner string
	Name  string
}

// ParseTemplateReference splits an owner/repository argument.
func ParseTemplateReference(reference string) (TemplateReference, error) {
	separatorIndex := strings.Index(reference, templateReferenceSeparatorConstant)
	if separatorIndex <= 0 || separatorIndex == len(reference)-1 {
		return TemplateReference{}, ErrInvalidTemplateReference
	}
	return TemplateReference{
		Owner: reference[:separatorIndex],
		Name:  reference[separatorIndex+1:],
	}, nil
}

// String renders the reference in owner/repository form.
func (reference TemplateReference) String() string {
	return reference.Owner + templateReferenceSeparatorConstant + reference.Name
}

// EnrollmentTotals tallies per-student outcomes of one enrollment run.
type EnrollmentTotals struct {
	Created int
	Skipped int
	Failed  int
}

// OrganizationNotFoundError reports a required organization that is absent
// from the platform. It is a fatal precondition: no partial work is attempted.
type OrganizationNotFoundError struct {
	Organization string
}

// Error names the missing organization.
func (notFoundError OrganizationNotFoundError) Error() string {
	return fmt.Sprintf("organization %q does not exist; create it first with create-organization", notFoundError.Organization)
}

// ReversedIdentifier returns the subject identifier with its character order
// reversed, the default account password.
func ReversedIdentifier(subjectIdentifier string) string {
	identifierRunes := []rune(subjectIdentifier)
	for leftIndex, rightIndex := 0, len(identifierRunes)-1; leftIndex < rightIndex; leftIndex, rightIndex = leftIndex+1, rightIndex-1 {
		identifierRunes[leftIndex], identifierRunes[rightIndex] = identifierRunes[rightIndex], identifierRunes[leftIndex]
	}
	return string(identifierRunes)
}
