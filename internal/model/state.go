package model

import (
	"github.com/a1s/tabula/internal/table"
	"github.com/wI2L/jsondiff"
)

// State summarizes a table view for change tracking.
type State struct {
	Revision   uint64 `json:"revision"`
	Rows       int    `json:"rows"`
	SortColumn string `json:"sortColumn"`
	SortOrder  string `json:"sortOrder"`
	Search     string `json:"search"`
	Limit      int    `json:"limit"`
	Page       int    `json:"page"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
}

// NewState summarizes a snapshot and its view.
func NewState[T table.Record](s *table.Snapshot[T], v table.View[T]) State {
	st := State{
		Revision:   s.Revision(),
		Rows:       s.RowCount(),
		SortOrder:  table.Unordered.String(),
		Search:     v.Search,
		Limit:      v.Page.Limit,
		Page:       v.Page.Index,
		Total:      v.Total,
		TotalPages: v.TotalPages,
	}
	if idx, o, ok := v.Sort.Active(); ok {
		if col, ok := s.Columns().At(idx); ok {
			st.SortColumn = col.Name
		}
		st.SortOrder = o.String()
	}

	return st
}

// Diff returns an RFC 6902 patch turning old into new.
func Diff(old, new State) (jsondiff.Patch, error) {
	return jsondiff.Compare(old, new)
}
