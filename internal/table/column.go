package table

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Column describes a displayable table field.
type Column struct {
	Name          string
	ShortName     string
	DataProperty  string
	Orderable     bool
	HeaderClasses []string
}

// Title returns the column display label.
func (c Column) Title() string {
	if c.ShortName != "" {
		return c.ShortName
	}
	return c.Name
}

// Field returns the row field a cell is projected from.
func (c Column) Field() string {
	if c.DataProperty != "" {
		return c.DataProperty
	}
	return c.Name
}

// Bound returns true if the column is bound to a row field for sorting.
func (c Column) Bound() bool {
	return c.DataProperty != ""
}

func (c Column) String() string {
	return c.Title()
}

// Equal returns true if both columns are identical.
func (c Column) Equal(o Column) bool {
	return c.Name == o.Name &&
		c.ShortName == o.ShortName &&
		c.DataProperty == o.DataProperty &&
		c.Orderable == o.Orderable &&
		slices.Equal(c.HeaderClasses, o.HeaderClasses)
}

// ColumnBuilder builds a column.
type ColumnBuilder struct {
	col Column
}

// NewColumnBuilder returns a builder for a column with the given name.
func NewColumnBuilder(name string) *ColumnBuilder {
	return &ColumnBuilder{col: Column{Name: name}}
}

// ShortName sets the display label.
func (b *ColumnBuilder) ShortName(s string) *ColumnBuilder {
	b.col.ShortName = s
	return b
}

// DataProperty binds the column to a row field.
func (b *ColumnBuilder) DataProperty(p string) *ColumnBuilder {
	b.col.DataProperty = p
	return b
}

// Orderable marks the column as orderable.
func (b *ColumnBuilder) Orderable(o bool) *ColumnBuilder {
	b.col.Orderable = o
	return b
}

// HeaderClass appends a header class.
func (b *ColumnBuilder) HeaderClass(c string) *ColumnBuilder {
	b.col.HeaderClasses = append(b.col.HeaderClasses, c)
	return b
}

// Build returns the column.
func (b *ColumnBuilder) Build() Column {
	c := b.col
	c.HeaderClasses = slices.Clone(b.col.HeaderClasses)
	return c
}

// Columns is an immutable, ordered column registry.
type Columns struct {
	cols []Column
}

// NewColumns returns a registry. Column names must be unique and non empty.
func NewColumns(cc ...Column) (Columns, error) {
	seen := make(map[string]struct{}, len(cc))
	out := make([]Column, 0, len(cc))
	for i, c := range cc {
		if c.Name == "" {
			return Columns{}, fmt.Errorf("column %d has no name", i)
		}
		if _, ok := seen[c.Name]; ok {
			return Columns{}, fmt.Errorf("duplicate column name %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		c.HeaderClasses = slices.Clone(c.HeaderClasses)
		out = append(out, c)
	}

	return Columns{cols: out}, nil
}

// MustColumns is like NewColumns but panics on error. Use for static
// column definitions only.
func MustColumns(cc ...Column) Columns {
	cols, err := NewColumns(cc...)
	if err != nil {
		panic(err)
	}
	return cols
}

// Len returns the number of columns.
func (c Columns) Len() int {
	return len(c.cols)
}

// At returns the column at index i.
func (c Columns) At(i int) (Column, bool) {
	if i < 0 || i >= len(c.cols) {
		return Column{}, false
	}
	return c.cols[i], true
}

// IndexOf returns the index of the named column.
func (c Columns) IndexOf(name string) (int, bool) {
	for i, col := range c.cols {
		if col.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Lookup finds a column by exact name, falling back to a case insensitive
// match on the name or the display label.
func (c Columns) Lookup(name string) (int, bool) {
	if i, ok := c.IndexOf(name); ok {
		return i, true
	}
	for i, col := range c.cols {
		if strings.EqualFold(col.Name, name) || strings.EqualFold(col.Title(), name) {
			return i, true
		}
	}
	return -1, false
}

// All returns a copy of the columns.
func (c Columns) All() []Column {
	out := make([]Column, len(c.cols))
	for i, col := range c.cols {
		col.HeaderClasses = slices.Clone(col.HeaderClasses)
		out[i] = col
	}
	return out
}

// Titles returns the column display labels.
func (c Columns) Titles() []string {
	if len(c.cols) == 0 {
		return nil
	}
	tt := make([]string, 0, len(c.cols))
	for _, col := range c.cols {
		tt = append(tt, col.Title())
	}
	return tt
}

// Equal returns true if both registries hold identical columns.
func (c Columns) Equal(o Columns) bool {
	return slices.EqualFunc(c.cols, o.cols, Column.Equal)
}

// ParseColumnSpec parses a colon separated column shorthand:
//
//	field
//	field:Name
//	field:Name:Short
//	field:Name:Short:orderable
//
// The field becomes the data property. A missing name defaults to the field
// and a missing short name to the name.
func ParseColumnSpec(spec string) (Column, error) {
	parts := strings.Split(spec, ":")
	if len(parts) > 4 {
		return Column{}, fmt.Errorf("invalid column spec %q: too many parts", spec)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if parts[0] == "" {
		return Column{}, fmt.Errorf("invalid column spec %q: missing field", spec)
	}

	b := NewColumnBuilder(parts[0]).DataProperty(parts[0])
	name := parts[0]
	if len(parts) > 1 && parts[1] != "" {
		name = parts[1]
		b.col.Name = name
	}
	short := name
	if len(parts) > 2 && parts[2] != "" {
		short = parts[2]
	}
	b.ShortName(short)
	if len(parts) > 3 {
		o, err := strconv.ParseBool(parts[3])
		if err != nil {
			return Column{}, fmt.Errorf("invalid column spec %q: orderable flag: %w", spec, err)
		}
		b.Orderable(o)
	}

	return b.Build(), nil
}
