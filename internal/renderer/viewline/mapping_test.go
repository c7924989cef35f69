package viewline

import (
	"reflect"
	"testing"
)

func mappingFrom(entries ...MappingEntry) *CharacterMapping {
	m := NewCharacterMapping(len(entries))
	for i, e := range entries {
		m.SetColumnInfo(i+1, e.PartIndex, e.CharIndex, e.HorizontalOffset)
	}
	return m
}

func TestCharacterMappingDomPosition(t *testing.T) {
	m := mappingFrom(
		MappingEntry{0, 0, 0},
		MappingEntry{0, 1, 1},
		MappingEntry{1, 0, 2},
	)

	tests := []struct {
		column   int
		expected DomPosition
	}{
		{1, DomPosition{0, 0}},
		{2, DomPosition{0, 1}},
		{3, DomPosition{1, 0}},
		{0, DomPosition{0, 0}},  // before the line clamps to first
		{-5, DomPosition{0, 0}}, // negative clamps to first
		{4, DomPosition{1, 0}},  // beyond the line clamps to last
		{100, DomPosition{1, 0}},
	}

	for _, tt := range tests {
		if got := m.DomPosition(tt.column); got != tt.expected {
			t.Errorf("DomPosition(%d): expected %+v, got %+v", tt.column, tt.expected, got)
		}
	}
}

func TestCharacterMappingColumnExact(t *testing.T) {
	m := mappingFrom(
		MappingEntry{0, 0, 0},
		MappingEntry{0, 1, 1},
		MappingEntry{0, 2, 2},
		MappingEntry{1, 0, 3},
		MappingEntry{1, 1, 4},
		MappingEntry{2, 0, 5},
	)
	for column := 1; column <= m.Length(); column++ {
		pos := m.DomPosition(column)
		if got := m.Column(pos, 3); got != column {
			t.Errorf("Column(%+v): expected %d, got %d", pos, column, got)
		}
	}
}

func TestCharacterMappingColumnTieBreak(t *testing.T) {
	// A tab rendered as two characters between columns 1 and 2.
	m := mappingFrom(
		MappingEntry{0, 0, 0},
		MappingEntry{0, 2, 2},
		MappingEntry{1, 0, 3},
	)

	tests := []struct {
		name       string
		pos        DomPosition
		partLength int
		expected   int
	}{
		{"tie inside part resolves to earlier column", DomPosition{0, 1}, 3, 1},
		{"exact match", DomPosition{0, 2}, 3, 2},
		{"part boundary tie resolves to earlier column", DomPosition{0, 3}, 4, 2},
		{"closer to part end", DomPosition{0, 4}, 4, 3},
		{"start of next part", DomPosition{1, 0}, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Column(tt.pos, tt.partLength); got != tt.expected {
				t.Errorf("Column(%+v, %d): expected %d, got %d", tt.pos, tt.partLength, tt.expected, got)
			}
		})
	}
}

func TestCharacterMappingEmpty(t *testing.T) {
	m := NewCharacterMapping(0)
	if m.Length() != 0 {
		t.Errorf("expected length 0, got %d", m.Length())
	}
	if got := m.HorizontalOffset(1); got != 0 {
		t.Errorf("HorizontalOffset on empty mapping: expected 0, got %d", got)
	}
	if got := m.DomPosition(1); got != (DomPosition{}) {
		t.Errorf("DomPosition on empty mapping: expected zero, got %+v", got)
	}
	if got := m.Column(DomPosition{3, 3}, 5); got != 1 {
		t.Errorf("Column on empty mapping: expected 1, got %d", got)
	}
	if got := m.Inflate(); len(got) != 0 {
		t.Errorf("Inflate on empty mapping: expected no entries, got %v", got)
	}
}

func TestCharacterMappingSingleEntry(t *testing.T) {
	m := mappingFrom(MappingEntry{2, 0, 0})
	if got := m.Column(DomPosition{0, 0}, 0); got != 1 {
		t.Errorf("expected column 1, got %d", got)
	}
}

func TestCharacterMappingHorizontalOffset(t *testing.T) {
	m := mappingFrom(
		MappingEntry{0, 0, 0},
		MappingEntry{0, 4, 4},
		MappingEntry{0, 5, 5},
	)
	tests := []struct {
		column   int
		expected int
	}{
		{1, 0},
		{2, 4},
		{3, 5},
	}
	for _, tt := range tests {
		if got := m.HorizontalOffset(tt.column); got != tt.expected {
			t.Errorf("HorizontalOffset(%d): expected %d, got %d", tt.column, tt.expected, got)
		}
	}
}

func TestCharacterMappingInflate(t *testing.T) {
	entries := []MappingEntry{
		{0, 0, 0},
		{0, 1, 1},
		{3, 0, 2},
	}
	m := mappingFrom(entries...)
	if got := m.Inflate(); !reflect.DeepEqual(got, entries) {
		t.Errorf("Inflate: expected %v, got %v", entries, got)
	}
}

func TestCharacterMappingValidate(t *testing.T) {
	good := mappingFrom(
		MappingEntry{0, 0, 0},
		MappingEntry{0, 1, 1},
		MappingEntry{1, 0, 1},
	)
	if err := good.Validate(); err != nil {
		t.Errorf("expected valid mapping, got %v", err)
	}

	bad := mappingFrom(
		MappingEntry{1, 0, 0},
		MappingEntry{0, 3, 1},
	)
	if err := bad.Validate(); err == nil {
		t.Error("expected error for decreasing entries")
	}

	badOffset := mappingFrom(
		MappingEntry{0, 0, 4},
		MappingEntry{0, 1, 2},
	)
	if err := badOffset.Validate(); err == nil {
		t.Error("expected error for decreasing horizontal offsets")
	}
}
