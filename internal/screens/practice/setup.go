package practice

import (
	"slices"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/practice"
)

type setupField int

const (
	fieldMode setupField = iota
	fieldVariant
	fieldSection
	fieldCategory
	fieldExtended
)

// setupForm edits a practice.Setup one field at a time. Only the fields that
// apply to the selected mode are reachable.
type setupForm struct {
	catalog *catalog.Catalog
	setup   practice.Setup
	cursor  int
}

func newSetupForm(cat *catalog.Catalog, initial practice.Setup) setupForm {
	f := setupForm{catalog: cat, setup: initial}
	f.normalize()
	return f
}

func (f setupForm) fields() []setupField {
	if f.setup.Mode == practice.ModeSimulate {
		return []setupField{fieldMode, fieldVariant, fieldSection, fieldExtended}
	}
	return []setupField{fieldMode, fieldSection, fieldCategory}
}

func (f setupForm) current() setupField {
	fs := f.fields()
	return fs[min(f.cursor, len(fs)-1)]
}

func (f *setupForm) up() {
	if f.cursor > 0 {
		f.cursor--
	}
}

func (f *setupForm) down() {
	if f.cursor < len(f.fields())-1 {
		f.cursor++
	}
}

// change cycles the focused field by delta.
func (f *setupForm) change(delta int) {
	switch f.current() {
	case fieldMode:
		if f.setup.Mode == practice.ModeStudy {
			f.setup.Mode = practice.ModeSimulate
		} else {
			f.setup.Mode = practice.ModeStudy
		}
	case fieldVariant:
		f.setup.Variant = cycle(catalog.Variants(), f.setup.Variant, delta)
	case fieldSection:
		f.setup.Section = cycle(f.sections(), f.setup.Section, delta)
		f.setup.Category = catalog.CategoryAll
	case fieldCategory:
		f.setup.Category = cycle(f.categories(), f.setup.Category, delta)
	case fieldExtended:
		f.setup.ExtendedTime = !f.setup.ExtendedTime
	}
	f.normalize()
}

func (f setupForm) sections() []catalog.Section {
	if f.setup.Mode == practice.ModeSimulate {
		return append(catalog.TestedSections(), catalog.SectionAll)
	}
	return catalog.TestedSections()
}

func (f setupForm) categories() []string {
	return append([]string{catalog.CategoryAll}, f.catalog.CategoriesFor(f.setup.Section)...)
}

// normalize resolves the selection so it is always startable.
func (f *setupForm) normalize() {
	if f.setup.Mode != practice.ModeSimulate {
		f.setup.Mode = practice.ModeStudy
	}
	if !f.setup.Variant.Valid() {
		f.setup.Variant = catalog.VariantEnhanced
	}
	if !slices.Contains(f.sections(), f.setup.Section) {
		f.setup.Section = catalog.SectionEnglish
	}
	if f.setup.Mode == practice.ModeSimulate || !slices.Contains(f.categories(), f.setup.Category) {
		f.setup.Category = catalog.CategoryAll
	}
	f.cursor = min(f.cursor, len(f.fields())-1)
}

// questionCount is the deck size the current selection would produce.
func (f setupForm) questionCount() int {
	return f.catalog.CountQuestions(f.setup.Section, f.setup.Category)
}

func cycle[T comparable](values []T, current T, delta int) T {
	if len(values) == 0 {
		return current
	}
	i := slices.Index(values, current)
	if i < 0 {
		return values[0]
	}
	n := len(values)
	return values[((i+delta)%n+n)%n]
}
