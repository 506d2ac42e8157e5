package table

import "strings"

// Align represents a cell alignment hint for renderers.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Cell is the display form of a single row field.
type Cell struct {
	Text  string
	Align Align
}

// TextCell returns a left aligned cell.
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// NumberCell returns a right aligned cell.
func NumberCell(s string) Cell {
	return Cell{Text: s, Align: AlignRight}
}

// CheckCell renders a boolean flag.
func CheckCell(b bool) Cell {
	if b {
		return Cell{Text: "[x]", Align: AlignCenter}
	}
	return Cell{Text: "[ ]", Align: AlignCenter}
}

// Row represents a record that can be displayed in a table.
type Row interface {
	// Display returns the display form of a field.
	Display(field string) (Cell, error)

	// SortKey returns the value used to order rows by a field.
	SortKey(field string) (Value, error)

	// MatchesSearch returns true if the row matches the search needle.
	// An empty needle always matches.
	MatchesSearch(needle string) bool
}

// Record constrains table row types. Rows compare with == so snapshots can
// be compared structurally.
type Record interface {
	comparable
	Row
}

// ContainsFold reports whether needle is a case-insensitive substring of
// haystack. An empty needle always matches.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// RenderCell projects a column's field off a row.
func RenderCell[T Row](row T, col Column) (Cell, error) {
	return row.Display(col.Field())
}
