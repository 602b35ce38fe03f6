// Package manifest parses flat dependency manifests of the form
//
//	# section header
//	name
//	name>=1.2.3
//
// Blank lines separate sections and lines starting with '#' are comments;
// the first comment above a group of requirements names the section.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// requirementPattern matches a single requirement line: a package name with
// an optional ">=version" lower bound.
var requirementPattern = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)(?:>=([0-9]+(?:\.[0-9]+)*))?$`)

// Requirement is a single dependency declaration.
type Requirement struct {
	Name       string
	MinVersion string
	Line       int
	Section    string
}

// Manifest is the parsed form of a dependency manifest.
type Manifest struct {
	Requirements []Requirement
	Sections     []string
}

// ParseError reports a line that does not match the requirement grammar.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: malformed requirement %q", e.Line, e.Text)
}

// Parse reads a manifest from r. It returns the parsed manifest and a slice
// of parse errors, one per malformed line; well-formed lines are always kept
// so callers can report all problems at once.
func Parse(r io.Reader) (*Manifest, []error, error) {
	m := &Manifest{}
	var errs []error

	section := ""
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			// Blank lines end the current section; the next comment
			// header starts a new one.
			section = ""
			continue
		}

		if strings.HasPrefix(line, "#") {
			title := strings.TrimSpace(strings.TrimPrefix(line, "#"))
			if section == "" && title != "" {
				section = title
				m.Sections = append(m.Sections, title)
			}
			continue
		}

		match := requirementPattern.FindStringSubmatch(line)
		if match == nil {
			errs = append(errs, &ParseError{Line: lineNo, Text: line})
			continue
		}

		m.Requirements = append(m.Requirements, Requirement{
			Name:       match[1],
			MinVersion: match[2],
			Line:       lineNo,
			Section:    section,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return m, errs, nil
}

// Names returns the declared package names in file order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Requirements))
	for i, req := range m.Requirements {
		names[i] = req.Name
	}
	return names
}

// Lookup returns the requirement for name, if declared. Names are compared
// case-insensitively.
func (m *Manifest) Lookup(name string) (Requirement, bool) {
	for _, req := range m.Requirements {
		if strings.EqualFold(req.Name, name) {
			return req, true
		}
	}
	return Requirement{}, false
}
