package catalog

// Option is one labeled answer choice.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Text  string `json:"text" yaml:"text"`
}

// Question is an immutable multiple-choice item.
type Question struct {
	ID          string   `json:"id" yaml:"id"`
	Section     Section  `json:"section" yaml:"section"`
	Category    string   `json:"category" yaml:"category"`
	Prompt      string   `json:"prompt" yaml:"prompt"`
	Passage     string   `json:"passage,omitempty" yaml:"passage,omitempty"`
	Options     []Option `json:"options" yaml:"options"`
	Correct     string   `json:"correct" yaml:"correct"`
	Explanation string   `json:"explanation" yaml:"explanation"`
}

// HasOption reports whether label is one of the question's choices.
func (q Question) HasOption(label string) bool {
	for _, o := range q.Options {
		if o.Label == label {
			return true
		}
	}
	return false
}

// Lesson is one day of the study plan.
type Lesson struct {
	ID      string  `json:"id" yaml:"id"`
	Week    int     `json:"week" yaml:"week"`
	Day     int     `json:"day" yaml:"day"`
	Title   string  `json:"title" yaml:"title"`
	Section Section `json:"section" yaml:"section"`
}

// Flashcard is a two-sided review card.
type Flashcard struct {
	ID       string  `json:"id" yaml:"id"`
	Section  Section `json:"section" yaml:"section"`
	Category string  `json:"category" yaml:"category"`
	Front    string  `json:"front" yaml:"front"`
	Back     string  `json:"back" yaml:"back"`
}

// Resource is an external study reference.
type Resource struct {
	ID      string  `json:"id" yaml:"id"`
	Section Section `json:"section" yaml:"section"`
	Title   string  `json:"title" yaml:"title"`
	URL     string  `json:"url,omitempty" yaml:"url,omitempty"`
}

// document is the on-disk catalog shape.
type document struct {
	Questions  []Question           `json:"questions" yaml:"questions"`
	Lessons    []Lesson             `json:"lessons" yaml:"lessons"`
	Flashcards []Flashcard          `json:"flashcards" yaml:"flashcards"`
	Resources  []Resource           `json:"resources" yaml:"resources"`
	Categories map[Section][]string `json:"categories" yaml:"categories"`
}
