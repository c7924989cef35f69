package viewline

import "fmt"

// Packing of a (part index, char index) pair into one mapping entry.
const (
	partIndexShift = 16
	charIndexMask  = 0x0000FFFF
)

func packPosition(partIndex, charIndex int) uint32 {
	return uint32(partIndex)<<partIndexShift | uint32(charIndex)&charIndexMask
}

func unpackPartIndex(entry uint32) int {
	return int(entry >> partIndexShift)
}

func unpackCharIndex(entry uint32) int {
	return int(entry & charIndexMask)
}

// DomPosition is a position inside the rendered output: the index of a
// part and the index of a rendered character inside that part.
type DomPosition struct {
	PartIndex int
	CharIndex int
}

// MappingEntry is one materialized CharacterMapping entry.
type MappingEntry struct {
	PartIndex        int
	CharIndex        int
	HorizontalOffset int
}

// CharacterMapping maps 1-based line columns to rendered positions and
// back. Entries are written left to right during rendering and are
// non-decreasing in (part index, char index) order.
type CharacterMapping struct {
	length           int
	data             []uint32
	horizontalOffset []uint32
}

// NewCharacterMapping allocates a mapping for length columns.
func NewCharacterMapping(length int) *CharacterMapping {
	if length < 0 {
		length = 0
	}
	return &CharacterMapping{
		length:           length,
		data:             make([]uint32, length),
		horizontalOffset: make([]uint32, length),
	}
}

// Length returns the number of columns in the mapping.
func (m *CharacterMapping) Length() int {
	return m.length
}

// SetColumnInfo records where column is rendered. Callers write columns
// in increasing order.
func (m *CharacterMapping) SetColumnInfo(column, partIndex, charIndex, horizontalOffset int) {
	m.data[column-1] = packPosition(partIndex, charIndex)
	m.horizontalOffset[column-1] = uint32(horizontalOffset)
}

// HorizontalOffset returns the offset of column in character widths
// from the start of the line.
func (m *CharacterMapping) HorizontalOffset(column int) int {
	if len(m.horizontalOffset) == 0 {
		return 0
	}
	return int(m.horizontalOffset[m.clamp(column-1)])
}

func (m *CharacterMapping) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset >= m.length {
		return m.length - 1
	}
	return offset
}

func (m *CharacterMapping) charOffsetToPartData(charOffset int) uint32 {
	if m.length == 0 {
		return 0
	}
	return m.data[m.clamp(charOffset)]
}

// DomPosition returns the rendered position of column. Columns outside
// the mapping clamp to the first or last entry.
func (m *CharacterMapping) DomPosition(column int) DomPosition {
	entry := m.charOffsetToPartData(column - 1)
	return DomPosition{PartIndex: unpackPartIndex(entry), CharIndex: unpackCharIndex(entry)}
}

// Column returns the column rendered at pos. partLength is the rendered
// length of the part containing pos. Positions between two entries
// resolve to the nearer one; ties resolve to the earlier column.
func (m *CharacterMapping) Column(pos DomPosition, partLength int) int {
	return m.partDataToCharOffset(pos.PartIndex, partLength, pos.CharIndex) + 1
}

func (m *CharacterMapping) partDataToCharOffset(partIndex, partLength, charIndex int) int {
	if m.length == 0 {
		return 0
	}

	search := packPosition(partIndex, charIndex)

	lo, hi := 0, m.length-1
	for lo+1 < hi {
		mid := int(uint(lo+hi) >> 1)
		entry := m.data[mid]
		switch {
		case entry == search:
			return mid
		case entry > search:
			hi = mid
		default:
			lo = mid
		}
	}

	if lo == hi {
		return lo
	}

	loEntry := m.data[lo]
	hiEntry := m.data[hi]
	if loEntry == search {
		return lo
	}
	if hiEntry == search {
		return hi
	}

	loCharIndex := unpackCharIndex(loEntry)
	hiCharIndex := unpackCharIndex(hiEntry)
	if unpackPartIndex(loEntry) != unpackPartIndex(hiEntry) {
		// Sitting between parts: the part end is exclusive.
		hiCharIndex = partLength
	}

	loDistance := charIndex - loCharIndex
	hiDistance := hiCharIndex - charIndex
	if loDistance <= hiDistance {
		return lo
	}
	return hi
}

// Inflate materializes every entry.
func (m *CharacterMapping) Inflate() []MappingEntry {
	result := make([]MappingEntry, 0, m.length)
	for i := 0; i < m.length; i++ {
		entry := m.data[i]
		result = append(result, MappingEntry{
			PartIndex:        unpackPartIndex(entry),
			CharIndex:        unpackCharIndex(entry),
			HorizontalOffset: int(m.horizontalOffset[i]),
		})
	}
	return result
}

// Validate checks that entries and horizontal offsets never decrease.
func (m *CharacterMapping) Validate() error {
	for i := 1; i < m.length; i++ {
		if m.data[i] < m.data[i-1] {
			return fmt.Errorf("column %d maps to part %d char %d, before column %d at part %d char %d",
				i+1, unpackPartIndex(m.data[i]), unpackCharIndex(m.data[i]),
				i, unpackPartIndex(m.data[i-1]), unpackCharIndex(m.data[i-1]))
		}
		if m.horizontalOffset[i] < m.horizontalOffset[i-1] {
			return fmt.Errorf("column %d horizontal offset %d is before column %d offset %d",
				i+1, m.horizontalOffset[i], i, m.horizontalOffset[i-1])
		}
	}
	return nil
}
