package table

import (
	"slices"
)

// View is the visible, ordered and paginated subset of a table's rows.
type View[T Row] struct {
	Columns    Columns
	Sort       SortState
	Rows       []T
	Total      int
	TotalPages int
	Page       Page
	Search     string
}

// Empty returns true if no row is visible.
func (v View[T]) Empty() bool {
	return len(v.Rows) == 0
}

// Cells renders every column of row. A cell that fails to render is left
// empty and its error is returned alongside; rendering never stops early.
func (v View[T]) Cells(row T) ([]Cell, []error) {
	cells := make([]Cell, v.Columns.Len())
	var errs []error
	for i, col := range v.Columns.cols {
		c, err := RenderCell(row, col)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cells[i] = c
	}

	return cells, errs
}

// Pager returns the pagination control state for the view.
func (v View[T]) Pager(maxPages int) Pager {
	return NewPager(v.Total, v.Page.Limit, v.Page.Index, maxPages)
}

// Pipeline derives the visible rows: filter by search, sort by the active
// column, then paginate. When a sort key cannot be extracted the rows are
// left in filtered order and a *SortError is returned with the view.
func Pipeline[T Row](rows []T, cols Columns, sort SortState, search string, page Page) (View[T], error) {
	filtered := Filter(rows, search)
	sorted, err := Sort(filtered, cols, sort)
	if err != nil {
		sorted = filtered
	}

	return View[T]{
		Columns:    cols,
		Sort:       slices.Clone(sort),
		Rows:       Paginate(sorted, page),
		Total:      len(sorted),
		TotalPages: TotalPages(len(sorted), page.Limit),
		Page:       page,
		Search:     search,
	}, err
}

// Filter returns the rows matching the search needle, in their original
// order. The input slice is never modified.
func Filter[T Row](rows []T, needle string) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if r.MatchesSearch(needle) {
			out = append(out, r)
		}
	}

	return out
}

// Sort returns a stably sorted copy of rows ordered by the active column of
// the sort state. Rows are returned unchanged when no column is active or
// the active column is not bound to a field.
func Sort[T Row](rows []T, cols Columns, sort SortState) ([]T, error) {
	idx, order, ok := sort.Active()
	if !ok {
		return rows, nil
	}
	col, ok := cols.At(idx)
	if !ok || !col.Bound() {
		return rows, nil
	}

	type keyed struct {
		key Value
		row T
	}
	kk := make([]keyed, len(rows))
	for i, r := range rows {
		k, err := r.SortKey(col.DataProperty)
		if err != nil {
			return nil, &SortError{Column: col.Name, Field: col.DataProperty, Row: i, Err: err}
		}
		kk[i] = keyed{key: k, row: r}
	}

	sign := 1
	if order == Descending {
		sign = -1
	}
	slices.SortStableFunc(kk, func(a, b keyed) int {
		return sign * Compare(a.key, b.key)
	})

	out := make([]T, len(kk))
	for i, k := range kk {
		out[i] = k.row
	}

	return out, nil
}
