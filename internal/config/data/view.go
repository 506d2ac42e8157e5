package data

import "fmt"

// View represents a named table definition: an optional default dataset and
// the columns to show.
type View struct {
	Path     string      `yaml:"path,omitempty"`
	Format   string      `yaml:"format,omitempty"`
	Selector string      `yaml:"selector,omitempty"`
	Sort     string      `yaml:"sort,omitempty"`
	Search   string      `yaml:"search,omitempty"`
	Columns  []ColumnDef `yaml:"columns"`
}

// ColumnDef represents a column definition. Path and Type type the dataset
// field the column is bound to.
type ColumnDef struct {
	Name          string   `yaml:"name"`
	ShortName     string   `yaml:"shortName,omitempty"`
	DataProperty  string   `yaml:"dataProperty,omitempty"`
	Orderable     bool     `yaml:"orderable"`
	HeaderClasses []string `yaml:"headerClasses,omitempty"`
	Path          string   `yaml:"path,omitempty"`
	Type          string   `yaml:"type,omitempty"`
}

// Field returns the row field the column projects.
func (c ColumnDef) Field() string {
	if c.DataProperty != "" {
		return c.DataProperty
	}
	return c.Name
}

// Validate ensures the view is usable.
func (v *View) Validate() error {
	if len(v.Columns) == 0 && v.Path == "" {
		return fmt.Errorf("view defines neither columns nor a path")
	}
	for i, c := range v.Columns {
		if c.Name == "" {
			return fmt.Errorf("column %d has no name", i)
		}
	}

	return nil
}
