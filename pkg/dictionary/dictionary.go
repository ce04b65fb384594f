// Package dictionary parses ACS PUMS data dictionary documents.
//
// The Census Bureau publishes one data dictionary per survey year as an
// unstructured plain-text file. This package locates the subsection
// relevant to a survey level and extracts per-variable code-to-label
// mappings by line-pattern matching. Parse failures are soft: a missing
// marker or variable resolves to an empty section or an empty mapping
// rather than an error, so callers get partial results instead of a
// fatal parse error.
package dictionary

import (
	"os"
	"strings"

	"github.com/censuskit/censuskit/pkg/errors"
)

// SurveyLevel selects which subsection of the data dictionary applies.
type SurveyLevel string

const (
	// PersonLevel selects variables describing a person within a housing unit
	PersonLevel SurveyLevel = "Person-Level"
	// HousingLevel selects variables describing the housing unit itself
	HousingLevel SurveyLevel = "Housing-Level"
)

// Marker lines separating the dictionary's top-level sections.
const (
	housingSectionMarker = "HOUSING RECORD-BASIC VARIABLES"
	personSectionMarker  = "PERSON RECORD-BASIC VARIABLES"
)

// ParseSurveyLevel converts a configuration string into a SurveyLevel.
func ParseSurveyLevel(s string) (SurveyLevel, error) {
	switch SurveyLevel(s) {
	case PersonLevel:
		return PersonLevel, nil
	case HousingLevel:
		return HousingLevel, nil
	default:
		return "", errors.New(errors.ErrorTypeConfig, "unknown survey level").
			WithDetail("survey_level", s)
	}
}

// Dictionary holds the ordered lines of one PUMS data dictionary document.
type Dictionary struct {
	lines []string
}

// New creates a Dictionary from already-split lines.
func New(lines []string) *Dictionary {
	return &Dictionary{lines: lines}
}

// FromText creates a Dictionary by splitting the raw document text into
// lines. Both Unix and Windows line endings are handled; the Census
// Bureau has published the document with either over the years.
func FromText(text string) *Dictionary {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	return &Dictionary{lines: lines}
}

// Len returns the number of lines in the document.
func (d *Dictionary) Len() int {
	return len(d.lines)
}

// Text returns the document joined back into a single string.
func (d *Dictionary) Text() string {
	return strings.Join(d.lines, "\n")
}

// WriteFile writes the document text to a file.
func (d *Dictionary) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(d.Text()), 0o644); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write data dictionary").
			WithDetail("path", path)
	}
	return nil
}

// Section returns the contiguous run of lines relevant to the given
// survey level.
//
// For PersonLevel the section starts at the first line containing the
// person marker and runs to the end of the document. For HousingLevel it
// starts at the first line containing the housing marker and ends just
// before the first subsequent line containing the person marker. When a
// required marker is missing the section is empty; no error is raised.
func (d *Dictionary) Section(level SurveyLevel) []string {
	switch level {
	case HousingLevel:
		startIndex := -1
		for i, line := range d.lines {
			if strings.Contains(line, housingSectionMarker) {
				if startIndex == -1 {
					startIndex = i
				}
			} else if strings.Contains(line, personSectionMarker) && startIndex != -1 {
				return d.lines[startIndex:i]
			}
		}
		return nil

	case PersonLevel:
		for i, line := range d.lines {
			if strings.Contains(line, personSectionMarker) {
				return d.lines[i:]
			}
		}
		return nil
	}

	return nil
}
