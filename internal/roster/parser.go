package roster

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const (
	commentPrefixConstant          = "#"
	minimumEntryFieldCountConstant = 3
	teamFieldIndexConstant         = 3
	minimumAliasFieldCountConstant = 2
)

// Entry is one roster record: an organization, a subject identifier, a
// display name, and an optional team assignment.
type Entry struct {
	Organization string
	SubjectID    string
	DisplayName  string
	Team         string
}

// ParseRoster reads whitespace-delimited roster records. Blank lines and
// lines starting with # are ignored; records with fewer than three fields are
// skipped.
func ParseRoster(reader io.Reader) ([]Entry, error) {
	var entries []Entry

	lineScanner := bufio.NewScanner(reader)
	for lineScanner.Scan() {
		trimmedLine := strings.TrimSpace(lineScanner.Text())
		if len(trimmedLine) == 0 || strings.HasPrefix(trimmedLine, commentPrefixConstant) {
			continue
		}

		fields := strings.Fields(trimmedLine)
		if len(fields) < minimumEntryFieldCountConstant {
			continue
		}

		entry := Entry{
			Organization: fields[0],
			SubjectID:    fields[1],
			DisplayName:  fields[2],
		}
		if len(fields) > teamFieldIndexConstant {
			entry.Team = fields[teamFieldIndexConstant]
		}
		entries = append(entries, entry)
	}

	if scanError := lineScanner.Err(); scanError != nil {
		return nil, scanError
	}
	return entries, nil
}

// LoadRoster parses the roster file at the provided path.
func LoadRoster(rosterPath string) ([]Entry, error) {
	rosterFile, openError := os.Open(rosterPath)
	if openError != nil {
		return nil, openError
	}
	defer rosterFile.Close()

	return ParseRoster(rosterFile)
}

// ParseAliases reads git-email to subject-id mappings, one per line. Both
// sides are lowercased; blank lines and # comments are ignored.
func ParseAliases(reader io.Reader) (map[string]string, error) {
	aliases := map[string]string{}

	lineScanner := bufio.NewScanner(reader)
	for lineScanner.Scan() {
		trimmedLine := strings.TrimSpace(lineScanner.Text())
		if len(trimmedLine) == 0 || strings.HasPrefix(trimmedLine, commentPrefixConstant) {
			continue
		}

		fields := strings.Fields(trimmedLine)
		if len(fields) < minimumAliasFieldCountConstant {
			continue
		}
		aliases[strings.ToLower(fields[0])] = strings.ToLower(fields[1])
	}

	if scanError := lineScanner.Err(); scanError != nil {
		return nil, scanError
	}
	return aliases, nil
}

// LoadAliases parses the alias file at the provided path. A missing file is
// not an error and yields an empty table.
func LoadAliases(aliasPath string) (map[string]string, error) {
	aliasFile, openError := os.Open(aliasPath)
	if openError != nil {
		if os.IsNotExist(openError) {
			return map[string]string{}, nil
		}
		return nil, openError
	}
	defer aliasFile.Close()

	return ParseAliases(aliasFile)
}
