package model

import (
	"context"

	"github.com/a1s/tabula/internal/table"
)

// Source lists the rows of a table.
type Source[T table.Record] interface {
	// List returns the full row set.
	List(ctx context.Context) ([]T, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc[T table.Record] func(ctx context.Context) ([]T, error)

// List calls f.
func (f SourceFunc[T]) List(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// TableListener represents a table model listener.
type TableListener[T table.Record] interface {
	// TableNoData notifies listener no data was found.
	TableNoData(table.View[T])

	// TableDataChanged notifies the model data changed.
	TableDataChanged(table.View[T])

	// TableLoadFailed notifies the load failed.
	TableLoadFailed(error)
}

// TableModel defines the interface for a table data model that fetches data.
type TableModel[T table.Record] interface {
	// Columns returns the column registry.
	Columns() table.Columns

	// RowCount returns the number of rows.
	RowCount() int

	// View returns the visible rows.
	View() (table.View[T], error)

	// Toggle rotates the sort order of a column.
	Toggle(int) bool

	// SetSearch sets the search needle.
	SetSearch(string)

	// SetPage sets the pagination window.
	SetPage(table.Page)

	// Watch starts watching/refreshing data periodically.
	Watch(context.Context) error

	// Refresh fetches data from the source immediately.
	Refresh(context.Context) error

	// AddListener registers a table listener.
	AddListener(TableListener[T])

	// RemoveListener unregisters a table listener.
	RemoveListener(TableListener[T])
}
