package flashcards

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/deck"
	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/screen"
	"github.com/actualize/actualize/internal/ui/components"
	"github.com/actualize/actualize/internal/ui/layout"
	"github.com/actualize/actualize/internal/ui/theme"
)

type keyMap struct {
	Flip     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Known    key.Binding
	Unknown  key.Binding
	Section  key.Binding
	Category key.Binding
	Shuffle  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Flip:     key.NewBinding(key.WithKeys("space", "enter"), key.WithHelp("Space", "Flip")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "Next")),
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "Prev")),
		Known:    key.NewBinding(key.WithKeys("y"), key.WithHelp("Y", "Knew it")),
		Unknown:  key.NewBinding(key.WithKeys("n"), key.WithHelp("N", "Didn't")),
		Section:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "Section")),
		Category: key.NewBinding(key.WithKeys("c"), key.WithHelp("C", "Category")),
		Shuffle:  key.NewBinding(key.WithKeys("s"), key.WithHelp("S", "Shuffle")),
	}
}

// FlashcardScreen flips through a filtered deck and logs recall.
type FlashcardScreen struct {
	catalog *catalog.Catalog
	store   *progress.Store
	rng     *rand.Rand
	keys    keyMap

	section  catalog.Section
	category string
	deck     *deck.Deck[catalog.Flashcard]
	reviewed int
	known    int
	warning  string
}

var _ screen.Screen = (*FlashcardScreen)(nil)
var _ screen.KeyHintProvider = (*FlashcardScreen)(nil)

// New creates a FlashcardScreen over every flashcard in catalog order. rng
// drives the shuffle key; nil seeds one on first use.
func New(cat *catalog.Catalog, store *progress.Store, rng *rand.Rand) *FlashcardScreen {
	s := &FlashcardScreen{
		catalog:  cat,
		store:    store,
		rng:      rng,
		keys:     defaultKeyMap(),
		section:  catalog.SectionAll,
		category: catalog.CategoryAll,
	}
	s.rebuild()
	return s
}

func (s *FlashcardScreen) rebuild() {
	s.deck = deck.New(s.catalog.FilterFlashcards(s.section, s.category))
}

func (s *FlashcardScreen) shuffle() {
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.deck.Shuffle(s.rng)
}

func (s *FlashcardScreen) Init() tea.Cmd {
	return nil
}

func (s *FlashcardScreen) Title() string {
	return "Flashcards"
}

func (s *FlashcardScreen) KeyHints() []layout.KeyHint {
	k := s.keys
	hints := layout.HintsFor(k.Flip, k.Prev, k.Next)
	if s.deck.Revealed() {
		hints = append(hints, layout.HintsFor(k.Known, k.Unknown)...)
	}
	hints = append(hints, layout.HintsFor(k.Section, k.Category, k.Shuffle)...)
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *FlashcardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	k := s.keys
	switch {
	case key.Matches(kmsg, k.Flip):
		s.deck.Flip()
	case key.Matches(kmsg, k.Next):
		s.deck.Next()
	case key.Matches(kmsg, k.Prev):
		s.deck.Prev()
	case key.Matches(kmsg, k.Known):
		s.record(true)
	case key.Matches(kmsg, k.Unknown):
		s.record(false)
	case key.Matches(kmsg, k.Section):
		s.nextSection()
	case key.Matches(kmsg, k.Category):
		s.nextCategory()
	case key.Matches(kmsg, k.Shuffle):
		s.shuffle()
	}
	return s, nil
}

// record logs recall for the current card once it has been flipped, then advances.
func (s *FlashcardScreen) record(known bool) {
	card, ok := s.deck.Current()
	if !ok || !s.deck.Revealed() {
		return
	}
	if err := s.store.ReviewFlashcard(context.Background(), card.ID, known); err != nil {
		s.warning = "Review not saved: " + err.Error()
	}
	s.reviewed++
	if known {
		s.known++
	}
	s.deck.Next()
}

func (s *FlashcardScreen) nextSection() {
	order := append([]catalog.Section{catalog.SectionAll}, catalog.AllSections()...)
	for i, sec := range order {
		if sec == s.section {
			s.section = order[(i+1)%len(order)]
			break
		}
	}
	s.category = catalog.CategoryAll
	s.rebuild()
}

// nextCategory cycles "all" followed by the section's categories.
func (s *FlashcardScreen) nextCategory() {
	order := append([]string{catalog.CategoryAll}, s.catalog.CategoriesFor(s.section)...)
	next := order[0]
	for i, c := range order {
		if c == s.category {
			next = order[(i+1)%len(order)]
			break
		}
	}
	s.category = next
	s.rebuild()
}

func (s *FlashcardScreen) filterLabel() string {
	if s.category == catalog.CategoryAll {
		return s.section.DisplayName()
	}
	return s.section.DisplayName() + " · " + s.category
}

func (s *FlashcardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	header := dim.Render(fmt.Sprintf("%s  ·  reviewed %d, knew %d", s.filterLabel(), s.reviewed, s.known))

	card, ok := s.deck.Current()
	if !ok {
		body := theme.Hint.Render("No flashcards match this filter.")
		return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, header+"\n\n"+components.Panel("", body, cw))
	}

	var b strings.Builder
	b.WriteString(dim.Render(fmt.Sprintf("Card %d/%d  ·  %s · %s",
		s.deck.Index()+1, s.deck.Len(), card.Section.DisplayName(), card.Category)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw - 6).Render(card.Front))
	b.WriteString("\n\n")
	if s.deck.Revealed() {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Width(cw - 6).Render(card.Back))
	} else {
		b.WriteString(theme.Hint.Render("Press Space to reveal"))
	}

	content := header + "\n\n" + components.Panel("", b.String(), cw)
	if s.warning != "" {
		content += "\n\n" + lipgloss.NewStyle().Foreground(theme.Warning).Render(s.warning)
	}
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}
