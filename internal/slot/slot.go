// Package slot defines the named quantum slots a page can display and the
// values each one may collapse to.
package slot

import (
	"errors"
	"fmt"
	"strings"

	"quantum-fen/assets"
)

// Kind distinguishes palette slots from narrative sequences.
type Kind uint8

const (
	// Random slots collapse to a uniformly chosen palette entry.
	Random Kind = iota
	// Sequence slots are seeded with their first value by a level transition.
	Sequence
)

func (k Kind) String() string {
	switch k {
	case Random:
		return "random"
	case Sequence:
		return "sequence"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Slot is one named placeholder and its ordered candidate values.
type Slot struct {
	Name   string
	Kind   Kind
	Values []string
}

// First returns the slot's seed value.
func (s Slot) First() string {
	if len(s.Values) == 0 {
		return ""
	}
	return s.Values[0]
}

// Index returns the position of value in the palette, or -1.
func (s Slot) Index(value string) int {
	for i, v := range s.Values {
		if v == value {
			return i
		}
	}
	return -1
}

var (
	ErrEmptyName    = errors.New("slot: name is required")
	ErrEmptyPalette = errors.New("slot: palette is empty")
	ErrDuplicate    = errors.New("slot: duplicate name")
)

// Registry is an immutable lookup table of slots.
type Registry struct {
	slots map[string]Slot
	order []string
}

// New validates slots and builds a Registry. Names keep declaration order.
func New(slots ...Slot) (*Registry, error) {
	r := &Registry{slots: make(map[string]Slot, len(slots))}
	for _, s := range slots {
		if strings.TrimSpace(s.Name) == "" {
			return nil, ErrEmptyName
		}
		if len(s.Values) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyPalette, s.Name)
		}
		if _, dup := r.slots[s.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, s.Name)
		}
		values := make([]string, len(s.Values))
		copy(values, s.Values)
		s.Values = values
		r.slots[s.Name] = s
		r.order = append(r.order, s.Name)
	}
	return r, nil
}

// Lookup returns the slot registered under name.
func (r *Registry) Lookup(name string) (Slot, bool) {
	if r == nil {
		return Slot{}, false
	}
	s, ok := r.slots[name]
	return s, ok
}

// Names returns slot names in declaration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered slots.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Slot names used by the game.
const (
	NameSelector = "Level Selector"
	NameClue     = "clue"
	NameClue2    = "clue2"
)

// Default returns the game's registry: the level selector, both clue lines
// and the twelve fruit slots.
func Default() *Registry {
	slots := []Slot{
		{Name: NameSelector, Kind: Sequence, Values: assets.SelectorButtons},
		{Name: NameClue, Kind: Sequence, Values: assets.Clues},
		{Name: NameClue2, Kind: Sequence, Values: assets.Clues2},
	}
	for _, level := range []int{3, 4} {
		for _, name := range assets.RainbowSlots[level] {
			slots = append(slots, Slot{Name: name, Kind: Random, Values: assets.Rainbow})
		}
	}
	r, err := New(slots...)
	if err != nil {
		// The tables above are static; a failure here is a programming error.
		panic(err)
	}
	return r
}
