package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Section is a top-level subject classification.
type Section string

const (
	SectionEnglish Section = "english"
	SectionMath    Section = "math"
	SectionReading Section = "reading"
	SectionScience Section = "science"
	SectionGeneral Section = "general"

	// SectionAll is a filter value matching every section. It never appears on a record.
	SectionAll Section = "all"
)

// CategoryAll is the category filter value matching every category.
const CategoryAll = "all"

// ErrUnknownSection is returned when a section tag is outside the fixed enumeration.
var ErrUnknownSection = errors.New("unknown section")

// AllSections returns the record sections in display order.
func AllSections() []Section {
	return []Section{
		SectionEnglish,
		SectionMath,
		SectionReading,
		SectionScience,
		SectionGeneral,
	}
}

// TestedSections returns the sections that carry a timed exam allotment.
func TestedSections() []Section {
	return []Section{
		SectionEnglish,
		SectionMath,
		SectionReading,
		SectionScience,
	}
}

// ParseSection converts a tag into a Section. "all" is accepted as a filter value.
func ParseSection(s string) (Section, error) {
	sec := Section(strings.ToLower(strings.TrimSpace(s)))
	if sec == SectionAll || sec.Valid() {
		return sec, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// Valid reports whether s is one of the record sections.
func (s Section) Valid() bool {
	switch s {
	case SectionEnglish, SectionMath, SectionReading, SectionScience, SectionGeneral:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for a section.
func (s Section) DisplayName() string {
	switch s {
	case SectionEnglish:
		return "English"
	case SectionMath:
		return "Math"
	case SectionReading:
		return "Reading"
	case SectionScience:
		return "Science"
	case SectionGeneral:
		return "General"
	case SectionAll:
		return "Full Test"
	default:
		return string(s)
	}
}

// Matches reports whether a record tagged with section passes the filter s.
func (s Section) Matches(section Section) bool {
	return s == SectionAll || s == section
}

// MatchCategory reports whether category passes the filter. An empty filter matches everything.
func MatchCategory(filter, category string) bool {
	return filter == "" || filter == CategoryAll || filter == category
}
