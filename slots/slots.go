// Package slots holds the fixed mapping from experience categories to the
// filenames the marketing site imports.
package slots

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// DefaultExtension is used for every slot without a registered override.
const DefaultExtension = ".jpg"

var ErrInvalidCategory = errors.New("invalid experience type")

// Mapping describes one experience category.
type Mapping struct {
	Category    string         `json:"category"`
	DisplayName string         `json:"displayName"`
	Prefix      string         `json:"prefix"`
	Slots       []int          `json:"slots"`
	Overrides   map[int]string `json:"overrides,omitempty"`
}

// Extension returns the file extension for the given slot, including the leading dot.
func (m Mapping) Extension(slot int) string {
	if ext, ok := m.Overrides[slot]; ok {
		return ext
	}

	return DefaultExtension
}

// Filename builds the deterministic filename for a slot, e.g. "b3.jpg".
func (m Mapping) Filename(slot int) string {
	return m.Prefix + strconv.Itoa(slot) + m.Extension(slot)
}

// ValidSlot reports whether slot is one of the registered positions.
func (m Mapping) ValidSlot(slot int) bool {
	return slices.Contains(m.Slots, slot)
}

// Table is a read-only set of mappings keyed by category.
type Table struct {
	order    []string
	mappings map[string]Mapping
}

// NewTable builds a table from the given mappings. Categories keep their argument order.
func NewTable(mappings ...Mapping) (*Table, error) {
	t := &Table{mappings: make(map[string]Mapping, len(mappings))}

	for _, m := range mappings {
		if m.Category == "" || m.Prefix == "" {
			return nil, fmt.Errorf("slot mapping requires a category and prefix: %+v", m)
		}
		if _, dup := t.mappings[m.Category]; dup {
			return nil, fmt.Errorf("duplicate slot mapping for category %q", m.Category)
		}

		m.Slots = slices.Clone(m.Slots)
		slices.Sort(m.Slots)

		t.order = append(t.order, m.Category)
		t.mappings[m.Category] = m
	}

	return t, nil
}

// Lookup returns the mapping for a category or ErrInvalidCategory.
func (t *Table) Lookup(category string) (Mapping, error) {
	m, ok := t.mappings[category]
	if !ok {
		return Mapping{}, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	return m, nil
}

// Categories lists the category keys in registration order.
func (t *Table) Categories() []string {
	return slices.Clone(t.order)
}

// Mappings lists every mapping in registration order.
func (t *Table) Mappings() []Mapping {
	out := make([]Mapping, 0, len(t.order))
	for _, c := range t.order {
		out = append(out, t.mappings[c])
	}

	return out
}

func oneToTen() []int {
	return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
}

var defaultTable = mustTable(
	Mapping{Category: "balloon", DisplayName: "Balloon Flight", Prefix: "b", Slots: oneToTen()},
	Mapping{Category: "breakfast", DisplayName: "Bush Breakfast", Prefix: "r", Slots: oneToTen()},
	Mapping{Category: "accommodation", DisplayName: "Luxury Accommodation", Prefix: "ac", Slots: oneToTen(), Overrides: map[int]string{1: ".webp"}},
	Mapping{Category: "vehicle", DisplayName: "Safari Vehicle", Prefix: "v", Slots: oneToTen()},
	Mapping{Category: "meals", DisplayName: "All-Inclusive Meals", Prefix: "m", Slots: oneToTen()},
	Mapping{Category: "wildlife", DisplayName: "Wildlife Safari", Prefix: "w", Slots: oneToTen()},
	Mapping{Category: "landscape", DisplayName: "Landscape Views", Prefix: "l", Slots: oneToTen()},
	Mapping{Category: "activities", DisplayName: "Safari Activities", Prefix: "a", Slots: oneToTen()},
	Mapping{Category: "sunset", DisplayName: "Sunset & Sunrise", Prefix: "s", Slots: oneToTen()},
	Mapping{Category: "guides", DisplayName: "Safari Guides", Prefix: "g", Slots: oneToTen()},
)

// Default returns the site's built-in slot table.
func Default() *Table {
	return defaultTable
}

func mustTable(mappings ...Mapping) *Table {
	t, err := NewTable(mappings...)
	if err != nil {
		panic(err)
	}

	return t
}
