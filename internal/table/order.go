package table

import (
	"fmt"
	"slices"
	"strings"
)

// Order represents a column sort direction.
type Order int

const (
	Unordered Order = iota
	Ascending
	Descending
)

// String returns the order name.
func (o Order) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return "unordered"
	}
}

// ParseOrder parses an order name. Short forms asc and desc are accepted and
// an empty string is unordered.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unordered", "none":
		return Unordered, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Unordered, fmt.Errorf("unknown sort order %q", s)
	}
}

// Rotate returns the next order: unordered, ascending, descending, unordered.
func (o Order) Rotate() Order {
	switch o {
	case Unordered:
		return Ascending
	case Ascending:
		return Descending
	default:
		return Unordered
	}
}

// SortState tracks the order of each column, index aligned with the column
// registry. At most one entry is ever ordered.
type SortState []Order

// NewSortState returns an all unordered state for n columns.
func NewSortState(n int) SortState {
	if n < 0 {
		n = 0
	}
	return make(SortState, n)
}

// Toggle returns a new state where column i is rotated and every other
// column is unordered. An out of range index returns an unchanged copy.
func (s SortState) Toggle(i int) SortState {
	out := slices.Clone(s)
	if i < 0 || i >= len(s) {
		return out
	}
	for j := range out {
		if j == i {
			out[j] = s[j].Rotate()
		} else {
			out[j] = Unordered
		}
	}

	return out
}

// Active returns the ordered column, if any.
func (s SortState) Active() (int, Order, bool) {
	for i, o := range s {
		if o != Unordered {
			return i, o, true
		}
	}
	return -1, Unordered, false
}

// At returns the order of column i. Out of range columns are unordered.
func (s SortState) At(i int) Order {
	if i < 0 || i >= len(s) {
		return Unordered
	}
	return s[i]
}

// Equal returns true if both states are identical.
func (s SortState) Equal(o SortState) bool {
	return slices.Equal(s, o)
}
