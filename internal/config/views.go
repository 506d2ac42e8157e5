package config

import (
	"fmt"
	"strings"

	"github.com/a1s/tabula/internal/config/data"
	"github.com/a1s/tabula/internal/dataset"
	"github.com/a1s/tabula/internal/table"
)

// ViewColumns builds the table columns of a view definition.
func ViewColumns(v *data.View) (table.Columns, error) {
	cc := make([]table.Column, 0, len(v.Columns))
	for _, d := range v.Columns {
		b := table.NewColumnBuilder(d.Name).
			ShortName(d.ShortName).
			DataProperty(d.Field()).
			Orderable(d.Orderable)
		for _, c := range d.HeaderClasses {
			b.HeaderClass(c)
		}
		cc = append(cc, b.Build())
	}

	return table.NewColumns(cc...)
}

// ViewSchema returns the dataset schema a view binds to, one field per
// distinct column field. A view without columns yields a nil schema so every
// field is inferred.
func ViewSchema(v *data.View) (*dataset.Schema, error) {
	if len(v.Columns) == 0 {
		return nil, nil
	}

	seen := make(map[string]int, len(v.Columns))
	ff := make([]dataset.Field, 0, len(v.Columns))
	for _, d := range v.Columns {
		t, err := dataset.ParseFieldType(d.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", d.Name, err)
		}
		f := dataset.Field{Name: d.Field(), Path: d.Path, Type: t}
		if i, ok := seen[f.Name]; ok {
			if ff[i] != f && (f.Path != "" || f.Type != dataset.TypeAuto) {
				return nil, fmt.Errorf("column %q: conflicting definition of field %q", d.Name, f.Name)
			}
			continue
		}
		seen[f.Name] = len(ff)
		ff = append(ff, f)
	}

	return dataset.NewSchema(ff...)
}

// ParseColumns parses CLI column specs. Each entry may hold several comma
// separated specs.
func ParseColumns(specs []string) (table.Columns, error) {
	var cc []table.Column
	for _, s := range specs {
		for _, spec := range strings.Split(s, ",") {
			if strings.TrimSpace(spec) == "" {
				continue
			}
			c, err := table.ParseColumnSpec(spec)
			if err != nil {
				return table.Columns{}, err
			}
			cc = append(cc, c)
		}
	}

	return table.NewColumns(cc...)
}

// ParseSort splits a sort flag into a column name and an order: "name" sorts
// ascending and "-name" descending.
func ParseSort(s string) (string, table.Order) {
	s = strings.TrimSpace(s)
	if name, ok := strings.CutPrefix(s, "-"); ok {
		return name, table.Descending
	}
	return strings.TrimPrefix(s, "+"), table.Ascending
}
