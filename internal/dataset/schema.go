package dataset

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/a1s/tabula/internal/table"
	"github.com/tidwall/gjson"
)

// FieldType is the value type of a dataset field.
type FieldType string

const (
	TypeAuto   FieldType = ""
	TypeString FieldType = "string"
	TypeInt    FieldType = "int"
	TypeFloat  FieldType = "float"
	TypeBool   FieldType = "bool"
	TypeTime   FieldType = "time"
)

// ParseFieldType validates a field type name.
func ParseFieldType(s string) (FieldType, error) {
	switch t := FieldType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeAuto, TypeString, TypeInt, TypeFloat, TypeBool, TypeTime:
		return t, nil
	default:
		return TypeAuto, fmt.Errorf("unknown field type %q", s)
	}
}

// Time layouts recognized by time fields, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Field describes a record field. Path is a gjson path into the record,
// defaulting to the escaped field name.
type Field struct {
	Name string    `yaml:"name"`
	Path string    `yaml:"path,omitempty"`
	Type FieldType `yaml:"type,omitempty"`
}

func (f Field) path() string {
	if f.Path != "" {
		return f.Path
	}
	return escapePath(f.Name)
}

// Schema is an ordered set of uniquely named fields.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema returns a schema. Field names must be unique and non empty.
func NewSchema(ff ...Field) (*Schema, error) {
	s := Schema{
		fields: make([]Field, 0, len(ff)),
		index:  make(map[string]int, len(ff)),
	}
	for i, f := range ff {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
		if _, ok := s.index[f.Name]; ok {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		t, err := ParseFieldType(string(f.Type))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		f.Type = t
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	return &s, nil
}

// Fields returns a copy of the schema fields.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// IndexOf returns the position of a field.
func (s *Schema) IndexOf(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Columns returns one orderable column per field, in schema order.
func (s *Schema) Columns() (table.Columns, error) {
	cc := make([]table.Column, 0, len(s.fields))
	for _, f := range s.fields {
		cc = append(cc, table.NewColumnBuilder(f.Name).DataProperty(f.Name).Orderable(true).Build())
	}

	return table.NewColumns(cc...)
}

// Check verifies every bound column names a schema field.
func (s *Schema) Check(cols table.Columns) error {
	var errs []error
	for _, c := range cols.All() {
		if _, ok := s.index[c.Field()]; !ok {
			errs = append(errs, fmt.Errorf("column %q: unknown dataset field %q", c.Name, c.Field()))
		}
	}

	return errors.Join(errs...)
}

// InferSchema derives a schema from the keys of the given JSON objects,
// in order of first appearance. Fields whose values disagree fall back to
// strings; mixed integers and floats widen to float.
func InferSchema(rows []gjson.Result) *Schema {
	s := Schema{index: make(map[string]int)}
	types := make([]FieldType, 0)
	for _, r := range rows {
		r.ForEach(func(k, v gjson.Result) bool {
			name := k.String()
			i, ok := s.index[name]
			if !ok {
				i = len(s.fields)
				s.index[name] = i
				s.fields = append(s.fields, Field{Name: name})
				types = append(types, TypeAuto)
			}
			types[i] = widen(types[i], typeOf(v))
			return true
		})
	}
	for i, t := range types {
		if t == TypeAuto {
			t = TypeString
		}
		s.fields[i].Type = t
	}

	return &s
}

// Resolve fills the types a schema left to inference from the rows.
func (s *Schema) Resolve(rows []gjson.Result) *Schema {
	out := Schema{fields: s.Fields(), index: s.index}
	for i, f := range out.fields {
		if f.Type != TypeAuto {
			continue
		}
		t := TypeAuto
		for _, r := range rows {
			t = widen(t, typeOf(r.Get(f.path())))
		}
		if t == TypeAuto {
			t = TypeString
		}
		out.fields[i].Type = t
	}

	return &out
}

func typeOf(v gjson.Result) FieldType {
	switch v.Type {
	case gjson.Null:
		return TypeAuto
	case gjson.True, gjson.False:
		return TypeBool
	case gjson.Number:
		if isIntegral(v) {
			return TypeInt
		}
		return TypeFloat
	case gjson.String:
		if _, ok := parseTime(v.Str); ok {
			return TypeTime
		}
		return TypeString
	default:
		return TypeString
	}
}

func widen(a, b FieldType) FieldType {
	switch {
	case a == TypeAuto:
		return b
	case b == TypeAuto, a == b:
		return a
	case (a == TypeInt && b == TypeFloat) || (a == TypeFloat && b == TypeInt):
		return TypeFloat
	default:
		return TypeString
	}
}

func isIntegral(v gjson.Result) bool {
	return !strings.ContainsAny(v.Raw, ".eE") && float64(v.Int()) == v.Num
}

func parseTime(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// escapePath escapes gjson path syntax in a plain key.
func escapePath(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
