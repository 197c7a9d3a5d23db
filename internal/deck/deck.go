// Package deck provides a navigable, flippable, shuffleable card sequence.
package deck

import "math/rand/v2"

// Deck is an ordered sequence with a cursor and a reveal toggle.
// Navigation clamps at both ends.
type Deck[T any] struct {
	items    []T
	index    int
	revealed bool
}

// New returns a Deck over a copy of items.
func New[T any](items []T) *Deck[T] {
	return &Deck[T]{items: append([]T(nil), items...)}
}

// Current returns the item under the cursor.
func (d *Deck[T]) Current() (T, bool) {
	var zero T
	if len(d.items) == 0 {
		return zero, false
	}
	return d.items[d.index], true
}

// Index returns the cursor position.
func (d *Deck[T]) Index() int { return d.index }

// Len returns the number of items.
func (d *Deck[T]) Len() int { return len(d.items) }

// Revealed reports whether the current card is flipped.
func (d *Deck[T]) Revealed() bool { return d.revealed }

// Items returns the items in their current order.
func (d *Deck[T]) Items() []T {
	return append([]T(nil), d.items...)
}

// Next moves forward one item and hides the back. It reports whether the cursor moved.
func (d *Deck[T]) Next() bool {
	if d.index >= len(d.items)-1 {
		return false
	}
	d.index++
	d.revealed = false
	return true
}

// Prev moves back one item and hides the back. It reports whether the cursor moved.
func (d *Deck[T]) Prev() bool {
	if d.index == 0 {
		return false
	}
	d.index--
	d.revealed = false
	return true
}

// Flip toggles the reveal state of the current item.
func (d *Deck[T]) Flip() {
	if len(d.items) == 0 {
		return
	}
	d.revealed = !d.revealed
}

// Shuffle applies a uniform random permutation drawn from r and returns to the first item.
func (d *Deck[T]) Shuffle(r *rand.Rand) {
	r.Shuffle(len(d.items), func(i, j int) {
		d.items[i], d.items[j] = d.items[j], d.items[i]
	})
	d.index = 0
	d.revealed = false
}
