// Package table implements a presentation agnostic table engine: a column
// registry, tri-state column sorting and a filter, sort, paginate view
// pipeline over rows of any type implementing Row.
//
// Snapshots are immutable. Dispatching an action returns a new snapshot and
// leaves the receiver untouched, so a snapshot may be read concurrently while
// a writer computes the next one.
package table

import (
	"fmt"
	"slices"
)

// Action represents a table state transition.
type Action interface {
	action()
}

// SetRows replaces every row of the table. Columns and sort state are kept.
type SetRows[T Record] struct {
	Rows []T
}

func (SetRows[T]) action() {}

// ToggleColumn rotates the sort order of a column and clears every other
// column. Toggling a column that is not orderable, an index out of range or
// any column of a table that is not orderable is a no-op.
type ToggleColumn struct {
	Index int
}

func (ToggleColumn) action() {}

// Snapshot is an immutable point in time table state.
type Snapshot[T Record] struct {
	columns   Columns
	rows      []T
	sort      SortState
	orderable bool
	revision  uint64
}

// New returns a table snapshot with every column unordered.
func New[T Record](cols Columns, rows []T, orderable bool) *Snapshot[T] {
	return &Snapshot[T]{
		columns:   cols,
		rows:      slices.Clone(rows),
		sort:      NewSortState(cols.Len()),
		orderable: orderable,
	}
}

// Columns returns the column registry.
func (s *Snapshot[T]) Columns() Columns {
	return s.columns
}

// Rows returns a copy of the full, unfiltered row set.
func (s *Snapshot[T]) Rows() []T {
	return slices.Clone(s.rows)
}

// RowCount returns the number of rows.
func (s *Snapshot[T]) RowCount() int {
	return len(s.rows)
}

// Sort returns a copy of the sort state.
func (s *Snapshot[T]) Sort() SortState {
	return slices.Clone(s.sort)
}

// Orderable returns true if the table accepts sort toggles.
func (s *Snapshot[T]) Orderable() bool {
	return s.orderable
}

// CanToggle returns true if toggling column i changes the sort state.
func (s *Snapshot[T]) CanToggle(i int) bool {
	col, ok := s.columns.At(i)
	return ok && s.orderable && col.Orderable
}

// Revision increases with every effective state change.
func (s *Snapshot[T]) Revision() uint64 {
	return s.revision
}

// Dispatch applies an action and returns the resulting snapshot. When the
// action changes nothing the receiver itself is returned.
func (s *Snapshot[T]) Dispatch(a Action) *Snapshot[T] {
	next := s.clone()
	switch act := a.(type) {
	case ToggleColumn:
		if !s.CanToggle(act.Index) {
			return s
		}
		next.sort = s.sort.Toggle(act.Index)
	case SetRows[T]:
		if slices.Equal(s.rows, act.Rows) {
			return s
		}
		next.rows = slices.Clone(act.Rows)
	case *SetRows[T]:
		return s.Dispatch(*act)
	default:
		return s
	}
	next.revision++

	return next
}

// Visible runs the view pipeline over the snapshot.
func (s *Snapshot[T]) Visible(search string, page Page) (View[T], error) {
	return Pipeline(s.rows, s.columns, s.sort, search, page)
}

// Equal returns true if both snapshots hold the same columns, rows and sort
// state.
func (s *Snapshot[T]) Equal(o *Snapshot[T]) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	return s.orderable == o.orderable &&
		s.columns.Equal(o.columns) &&
		s.sort.Equal(o.sort) &&
		slices.Equal(s.rows, o.rows)
}

func (s *Snapshot[T]) String() string {
	return fmt.Sprintf("table[rev=%d rows=%d cols=%d sort=%v]", s.revision, len(s.rows), s.columns.Len(), s.sort)
}

func (s *Snapshot[T]) clone() *Snapshot[T] {
	return &Snapshot[T]{
		columns:   s.columns,
		rows:      s.rows,
		sort:      s.sort,
		orderable: s.orderable,
		revision:  s.revision,
	}
}
