package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Variant selects one of the two exam timing tables.
type Variant string

const (
	VariantEnhanced Variant = "enhanced"
	VariantLegacy   Variant = "legacy"
)

// DefaultSectionMinutes is the allotment for a section absent from the timing table.
const DefaultSectionMinutes = 35

// TotalLessons is the size of the eight-week plan used for overall progress.
const TotalLessons = 56

// SectionTiming is the official question count and time limit for one section.
type SectionTiming struct {
	Questions int `json:"questions"`
	Minutes   int `json:"minutes"`
}

// TimingTable maps each tested section to its allotment.
type TimingTable map[Section]SectionTiming

var timingTables = map[Variant]TimingTable{
	VariantEnhanced: {
		SectionEnglish: {Questions: 50, Minutes: 35},
		SectionMath:    {Questions: 45, Minutes: 50},
		SectionReading: {Questions: 36, Minutes: 40},
		SectionScience: {Questions: 40, Minutes: 40},
	},
	VariantLegacy: {
		SectionEnglish: {Questions: 75, Minutes: 45},
		SectionMath:    {Questions: 60, Minutes: 60},
		SectionReading: {Questions: 40, Minutes: 35},
		SectionScience: {Questions: 40, Minutes: 35},
	},
}

// ErrUnknownVariant is returned for a variant tag other than enhanced or legacy.
var ErrUnknownVariant = errors.New("unknown variant")

// ParseVariant converts a tag into a Variant.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
	return v, nil
}

// Variants returns both variants, enhanced first.
func Variants() []Variant {
	return []Variant{VariantEnhanced, VariantLegacy}
}

func (v Variant) Valid() bool {
	_, ok := timingTables[v]
	return ok
}

// DisplayName returns a human-readable variant name.
func (v Variant) DisplayName() string {
	switch v {
	case VariantEnhanced:
		return "Enhanced ACT"
	case VariantLegacy:
		return "Legacy ACT"
	default:
		return string(v)
	}
}

// ExamCode returns the short form code shown on the setup screen.
func (v Variant) ExamCode() string {
	switch v {
	case VariantEnhanced:
		return "E01"
	case VariantLegacy:
		return "A09"
	default:
		return ""
	}
}

// Timing returns a copy of the variant's table. Unknown variants yield an empty table.
func Timing(v Variant) TimingTable {
	out := make(TimingTable, len(timingTables[v]))
	for sec, t := range timingTables[v] {
		out[sec] = t
	}
	return out
}

// BaseMinutes returns the unextended allotment for a section.
// SectionAll sums the whole table.
func BaseMinutes(v Variant, section Section) int {
	table := timingTables[v]
	if section == SectionAll {
		total := 0
		for _, t := range table {
			total += t.Minutes
		}
		return total
	}
	if t, ok := table[section]; ok {
		return t.Minutes
	}
	return DefaultSectionMinutes
}
