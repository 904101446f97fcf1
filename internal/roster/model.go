package roster

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	multipleOrganizationsTemplateConstant = "multiple organizations found in roster: %s"
	organizationSeparatorConstant         = ", "
	emptyRosterMessageConstant            = "roster contains no entries"
)

// ErrEmptyRoster indicates a roster file without any usable records.
var ErrEmptyRoster = errors.New(emptyRosterMessageConstant)

// MultipleOrganizationsError reports a roster referencing more than one
// organization. All records of one roster must share a single organization.
type MultipleOrganizationsError struct {
	Organizations []string
}

// Error lists the conflicting organization names in sorted order.
func (organizationsError MultipleOrganizationsError) Error() string {
	sortedOrganizations := append([]string{}, organizationsError.Organizations...)
	sort.Strings(sortedOrganizations)
	return fmt.Sprintf(multipleOrganizationsTemplateConstant, strings.Join(sortedOrganizations, organizationSeparatorConstant))
}

// TeamGroup holds one team and its members in roster order.
type TeamGroup struct {
	Name    string
	Members []string
}

// Model is the normalized desired state derived from one roster: a single
// organization, the flat entry list, and insertion-order-stable team groups.
type Model struct {
	Organization string
	Entries      []Entry
	Teams        []TeamGroup
}

// HasTeams reports whether any roster entry declares a team assignment.
func (model Model) HasTeams() bool {
	return len(model.Teams) > 0
}

// TeamNames returns the team names in roster order.
func (model Model) TeamNames() []string {
	teamNames := make([]string, 0, len(model.Teams))
	for _, teamGroup := range model.Teams {
		teamNames = append(teamNames, teamGroup.Name)
	}
	return teamNames
}

// BuildModel validates that every entry shares one organization and groups
// team assignments preserving first-seen order, so repeated runs process
// teams deterministically.
func BuildModel(entries []Entry) (Model, error) {
	if len(entries) == 0 {
		return Model{}, ErrEmptyRoster
	}

	seenOrganizations := map[string]struct{}{}
	var organizationNames []string
	for _, entry := range entries {
		if _, alreadySeen := seenOrganizations[entry.Organization]; alreadySeen {
			continue
		}
		seenOrganizations[entry.Organization] = struct{}{}
		organizationNames = append(organizationNames, entry.Organization)
	}
	if len(organizationNames) > 1 {
		return Model{}, MultipleOrganizationsError{Organizations: organizationNames}
	}

	teamIndexByName := map[string]int{}
	var teamGroups []TeamGroup
	for _, entry := range entries {
		if len(entry.Team) == 0 {
			continue
		}

		teamIndex, teamKnown := teamIndexByName[entry.Team]
		if !teamKnown {
			teamIndex = len(teamGroups)
			teamIndexByName[entry.Team] = teamIndex
			teamGroups = append(teamGroups, TeamGroup{Name: entry.Team})
		}
		teamGroups[teamIndex].Members = append(teamGroups[teamIndex].Members, entry.SubjectID)
	}

	model := Model{
		Organization: organizationNames[0],
		Entries:      entries,
		Teams:        teamGroups,
	}
	return model, nil
}
