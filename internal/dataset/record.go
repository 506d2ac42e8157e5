package dataset

import (
	"strconv"
	"strings"

	"github.com/a1s/tabula/internal/render"
	"github.com/a1s/tabula/internal/table"
	"github.com/tidwall/gjson"
)

// Set holds decoded records and the values projected by its schema.
type Set struct {
	schema *Schema
	values [][]table.Value
	cells  [][]table.Cell
	search []string
}

// NewSet projects rows through a schema. Fields left to inference are typed
// from the rows.
func NewSet(schema *Schema, rows []gjson.Result) *Set {
	if schema == nil {
		schema = InferSchema(rows)
	} else {
		schema = schema.Resolve(rows)
	}

	s := Set{
		schema: schema,
		values: make([][]table.Value, len(rows)),
		cells:  make([][]table.Cell, len(rows)),
		search: make([]string, len(rows)),
	}
	for i, r := range rows {
		vv := make([]table.Value, len(schema.fields))
		cc := make([]table.Cell, len(schema.fields))
		texts := make([]string, 0, len(vv))
		for j, f := range schema.fields {
			vv[j], cc[j] = project(r.Get(f.path()), f.Type)
			if k := vv[j].Kind(); k != table.KindNull && k != table.KindBool {
				texts = append(texts, cc[j].Text)
			}
		}
		s.values[i], s.cells[i] = vv, cc
		s.search[i] = strings.Join(texts, "\x00")
	}

	return &s
}

// Schema returns the set schema.
func (s *Set) Schema() *Schema {
	return s.schema
}

// Len returns the number of records.
func (s *Set) Len() int {
	return len(s.values)
}

// Records returns the set records in decoding order.
func (s *Set) Records() []Record {
	out := make([]Record, len(s.values))
	for i := range s.values {
		out[i] = Record{set: s, idx: i}
	}
	return out
}

// Record is a single dataset row. Records compare equal when they point at
// the same row of the same set.
type Record struct {
	set *Set
	idx int
}

// Value returns the typed value of a field.
func (r Record) Value(field string) (table.Value, bool) {
	i, ok := r.field(field)
	if !ok {
		return table.Null(), false
	}
	return r.set.values[r.idx][i], true
}

// Display returns the display form of a field. Null values render empty.
func (r Record) Display(field string) (table.Cell, error) {
	i, ok := r.field(field)
	if !ok {
		return table.Cell{}, table.InvalidField(field)
	}
	return r.set.cells[r.idx][i], nil
}

// SortKey returns the sort key of a field.
func (r Record) SortKey(field string) (table.Value, error) {
	v, ok := r.Value(field)
	if !ok {
		return table.Null(), table.InvalidField(field)
	}
	return v, nil
}

// MatchesSearch matches the needle against every non null, non flag field.
func (r Record) MatchesSearch(needle string) bool {
	if needle == "" {
		return true
	}
	if r.set == nil {
		return false
	}
	return table.ContainsFold(r.set.search[r.idx], needle)
}

func (r Record) field(name string) (int, bool) {
	if r.set == nil {
		return 0, false
	}
	return r.set.schema.IndexOf(name)
}

func project(res gjson.Result, t FieldType) (table.Value, table.Cell) {
	v := convert(res, t)
	switch v.Kind() {
	case table.KindNull:
		return v, table.TextCell("")
	case table.KindBool:
		return v, table.CheckCell(v.String() == "true")
	case table.KindInt, table.KindUint, table.KindFloat:
		return v, table.NumberCell(v.String())
	case table.KindTime:
		ts, _ := parseTime(res.String())
		return v, table.TextCell(render.FormatTime(ts))
	default:
		return v, table.TextCell(v.String())
	}
}

func convert(res gjson.Result, t FieldType) table.Value {
	if !res.Exists() || res.Type == gjson.Null {
		return table.Null()
	}

	switch t {
	case TypeBool:
		if res.Type == gjson.String {
			b, err := strconv.ParseBool(res.Str)
			if err != nil {
				return table.Null()
			}
			return table.Bool(b)
		}
		return table.Bool(res.Bool())
	case TypeInt:
		if res.Type == gjson.String {
			i, err := strconv.ParseInt(res.Str, 10, 64)
			if err != nil {
				return table.Null()
			}
			return table.Int(i)
		}
		return table.Int(res.Int())
	case TypeFloat:
		if res.Type == gjson.String {
			f, err := strconv.ParseFloat(res.Str, 64)
			if err != nil {
				return table.Null()
			}
			return table.Float(f)
		}
		return table.Float(res.Float())
	case TypeTime:
		if ts, ok := parseTime(res.String()); ok {
			return table.Time(ts)
		}
		return table.Null()
	default:
		if res.Type == gjson.JSON {
			return table.String(res.Raw)
		}
		return table.String(res.String())
	}
}
