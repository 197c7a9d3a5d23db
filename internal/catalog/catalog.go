package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.json
var defaultCatalog []byte

// Catalog is a read-only collection of content records with precomputed indices.
type Catalog struct {
	questions  []Question
	lessons    []Lesson
	flashcards []Flashcard
	resources  []Resource
	categories map[Section][]string

	questionByID  map[string]int
	lessonByID    map[string]int
	flashcardByID map[string]int
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(bytes.NewReader(defaultCatalog))
	})
	return defaultCat, defaultErr
}

// Load reads, validates and indexes a JSON catalog document.
func Load(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parse(raw)
}

// LoadFile reads a catalog from disk. Files ending in .yaml or .yml are decoded as YAML.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err = yamlToJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", path, err)
		}
	}
	return parse(raw)
}

func parse(raw []byte) (*Catalog, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validateRecords(doc); err != nil {
		return nil, err
	}
	return build(doc), nil
}

// yamlToJSON normalizes a YAML document into JSON so both formats share one schema.
func yamlToJSON(raw []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func build(doc document) *Catalog {
	c := &Catalog{
		questions:    doc.Questions,
		lessons:      doc.Lessons,
		flashcards:   doc.Flashcards,
		resources:    doc.Resources,
		categories:   make(map[Section][]string),
		questionByID:  make(map[string]int, len(doc.Questions)),
		lessonByID:    make(map[string]int, len(doc.Lessons)),
		flashcardByID: make(map[string]int, len(doc.Flashcards)),
	}
	for i, q := range c.questions {
		c.questionByID[q.ID] = i
	}
	for i, l := range c.lessons {
		c.lessonByID[l.ID] = i
	}
	for i, f := range c.flashcards {
		c.flashcardByID[f.ID] = i
	}

	for sec, cats := range doc.Categories {
		c.categories[sec] = append([]string(nil), cats...)
	}
	// Categories used by questions but missing from the declared list are appended in order.
	for _, q := range c.questions {
		if !contains(c.categories[q.Section], q.Category) {
			c.categories[q.Section] = append(c.categories[q.Section], q.Category)
		}
	}
	return c
}

// Questions returns all questions in catalog order.
func (c *Catalog) Questions() []Question {
	return append([]Question(nil), c.questions...)
}

// Question looks up a question by ID.
func (c *Catalog) Question(id string) (Question, bool) {
	i, ok := c.questionByID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// FilterQuestions returns the questions matching the section and category filters,
// preserving catalog order.
func (c *Catalog) FilterQuestions(section Section, category string) []Question {
	var out []Question
	for _, q := range c.questions {
		if section.Matches(q.Section) && MatchCategory(category, q.Category) {
			out = append(out, q)
		}
	}
	return out
}

// CountQuestions returns how many questions match the filters.
func (c *Catalog) CountQuestions(section Section, category string) int {
	return len(c.FilterQuestions(section, category))
}

// FilterFlashcards returns the flashcards matching the section and category filters.
func (c *Catalog) FilterFlashcards(section Section, category string) []Flashcard {
	var out []Flashcard
	for _, f := range c.flashcards {
		if section.Matches(f.Section) && MatchCategory(category, f.Category) {
			out = append(out, f)
		}
	}
	return out
}

// Flashcard looks up a flashcard by ID.
func (c *Catalog) Flashcard(id string) (Flashcard, bool) {
	i, ok := c.flashcardByID[id]
	if !ok {
		return Flashcard{}, false
	}
	return c.flashcards[i], true
}

// Lessons returns the study-plan lessons in catalog order.
func (c *Catalog) Lessons() []Lesson {
	return append([]Lesson(nil), c.lessons...)
}

// Lesson looks up a lesson by ID.
func (c *Catalog) Lesson(id string) (Lesson, bool) {
	i, ok := c.lessonByID[id]
	if !ok {
		return Lesson{}, false
	}
	return c.lessons[i], true
}

// Resources returns the external references.
func (c *Catalog) Resources() []Resource {
	return append([]Resource(nil), c.resources...)
}

// CategoriesFor returns the categories of a section in declaration order.
func (c *Catalog) CategoriesFor(section Section) []string {
	return append([]string(nil), c.categories[section]...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
