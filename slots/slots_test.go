package slots

import (
	"errors"
	"slices"
	"testing"
)

func TestDefaultTable_Filenames(t *testing.T) {
	table := Default()

	tests := []struct {
		category string
		slot     int
		want     string
	}{
		{"balloon", 3, "b3.jpg"},
		{"accommodation", 1, "ac1.webp"},
		{"accommodation", 2, "ac2.jpg"},
		{"meals", 4, "m4.jpg"},
		{"guides", 10, "g10.jpg"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			m, err := table.Lookup(tc.category)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tc.category, err)
			}
			if got := m.Filename(tc.slot); got != tc.want {
				t.Fatalf("Filename(%d) = %q, want %q", tc.slot, got, tc.want)
			}
		})
	}
}

func TestDefaultTable_StableAcrossCalls(t *testing.T) {
	table := Default()

	for _, category := range table.Categories() {
		first, err := table.Lookup(category)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", category, err)
		}

		for i := 0; i < 3; i++ {
			again, _ := table.Lookup(category)
			if again.Prefix != first.Prefix {
				t.Fatalf("prefix for %q changed between calls", category)
			}
			for _, slot := range first.Slots {
				if again.Filename(slot) != first.Filename(slot) {
					t.Fatalf("filename for %q/%d changed between calls", category, slot)
				}
			}
		}
	}
}

func TestLookup_UnknownCategory(t *testing.T) {
	_, err := Default().Lookup("submarine")
	if !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestMapping_ValidSlot(t *testing.T) {
	m, _ := Default().Lookup("balloon")

	if !m.ValidSlot(3) {
		t.Fatalf("expected slot 3 to be valid")
	}
	if m.ValidSlot(11) {
		t.Fatalf("expected slot 11 to be outside the table")
	}

	// out-of-table slots still resolve to a filename
	if got := m.Filename(42); got != "b42.jpg" {
		t.Fatalf("unexpected filename for out-of-range slot: %q", got)
	}
}

func TestNewTable_Rejects(t *testing.T) {
	if _, err := NewTable(Mapping{Category: "x"}); err == nil {
		t.Fatalf("expected error for missing prefix")
	}

	if _, err := NewTable(Mapping{Category: "x", Prefix: "x"}, Mapping{Category: "x", Prefix: "y"}); err == nil {
		t.Fatalf("expected error for duplicate category")
	}
}

func TestNewTable_SortsSlotsWithoutAliasing(t *testing.T) {
	in := []int{5, 3}
	table, err := NewTable(Mapping{Category: "balloon", Prefix: "b", Slots: in})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	m, _ := table.Lookup("balloon")
	if !slices.Equal(m.Slots, []int{3, 5}) {
		t.Fatalf("expected sorted slots, got %v", m.Slots)
	}
	if in[0] != 5 {
		t.Fatalf("input slice should not be modified")
	}
}

func TestCategories_ReturnsCopy(t *testing.T) {
	table := Default()
	cats := table.Categories()
	cats[0] = "mutated"

	if table.Categories()[0] != "balloon" {
		t.Fatalf("Categories should return a copy")
	}
}
