package catalog

import (
	"encoding/json"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed data/catalog.schema.json
var schemaDoc []byte

const schemaURL = "schema://catalog.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// ValidationError describes a catalog that failed structural or record checks.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid catalog: " + strings.Join(e.Problems, "; ")
}

func catalogSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaDoc, &def); err != nil {
			schemaErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// validateDocument checks raw JSON against the catalog schema.
func validateDocument(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := catalogSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}
	return nil
}

// validateRecords performs the cross-record checks the schema cannot express.
func validateRecords(doc document) error {
	var errs []string

	seen := make(map[string]bool, len(doc.Questions))
	for _, q := range doc.Questions {
		if seen[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question ID: %q", q.ID))
		}
		seen[q.ID] = true

		if !q.HasOption(q.Correct) {
			errs = append(errs, fmt.Sprintf("question %q: correct label %q is not an option", q.ID, q.Correct))
		}
		labels := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if labels[o.Label] {
				errs = append(errs, fmt.Sprintf("question %q: duplicate option label %q", q.ID, o.Label))
			}
			labels[o.Label] = true
		}
	}

	lessons := make(map[string]bool, len(doc.Lessons))
	for _, l := range doc.Lessons {
		if lessons[l.ID] {
			errs = append(errs, fmt.Sprintf("duplicate lesson ID: %q", l.ID))
		}
		lessons[l.ID] = true
	}

	cards := make(map[string]bool, len(doc.Flashcards))
	for _, f := range doc.Flashcards {
		if cards[f.ID] {
			errs = append(errs, fmt.Sprintf("duplicate flashcard ID: %q", f.ID))
		}
		cards[f.ID] = true
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}
