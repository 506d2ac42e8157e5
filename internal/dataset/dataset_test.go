package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/a1s/tabula/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const people = `[
  {"id": 1, "name": "Fox", "score": 2.5, "ok": true, "at": "2024-01-02T03:04:05Z"},
  {"id": 2, "name": "ant", "score": 3, "ok": false, "extra": {"a": 1}},
  {"id": 3, "name": "Bee", "score": null, "ok": true, "at": "2023-12-31T00:00:00Z"}
]`

func mustDecode(t *testing.T, raw string, f Format, selector string) *Set {
	rows, err := Decode([]byte(raw), f, selector)
	require.NoError(t, err)
	return NewSet(nil, rows)
}

func fieldTypes(s *Schema) map[string]FieldType {
	out := make(map[string]FieldType, s.Len())
	for _, f := range s.Fields() {
		out[f.Name] = f.Type
	}
	return out
}

func fieldNames(s *Schema) []string {
	out := make([]string, 0, s.Len())
	for _, f := range s.Fields() {
		out = append(out, f.Name)
	}
	return out
}

func TestInferSchema(t *testing.T) {
	set := mustDecode(t, people, FormatJSON, "")

	assert.Equal(t, []string{"id", "name", "score", "ok", "at", "extra"}, fieldNames(set.Schema()))
	assert.Equal(t, map[string]FieldType{
		"id":    TypeInt,
		"name":  TypeString,
		"score": TypeFloat,
		"ok":    TypeBool,
		"at":    TypeTime,
		"extra": TypeString,
	}, fieldTypes(set.Schema()))
	assert.Equal(t, 3, set.Len())
}

func TestRecordProjection(t *testing.T) {
	rr := mustDecode(t, people, FormatJSON, "").Records()
	require.Len(t, rr, 3)

	uu := map[string]struct {
		rec   Record
		field string
		cell  table.Cell
		value table.Value
	}{
		"int":       {rec: rr[0], field: "id", cell: table.NumberCell("1"), value: table.Int(1)},
		"string":    {rec: rr[1], field: "name", cell: table.TextCell("ant"), value: table.String("ant")},
		"float":     {rec: rr[1], field: "score", cell: table.NumberCell("3"), value: table.Float(3)},
		"bool":      {rec: rr[0], field: "ok", cell: table.CheckCell(true), value: table.Bool(true)},
		"null":      {rec: rr[2], field: "score", cell: table.TextCell(""), value: table.Null()},
		"missing":   {rec: rr[1], field: "at", cell: table.TextCell(""), value: table.Null()},
		"object":    {rec: rr[1], field: "extra", cell: table.TextCell(`{"a": 1}`), value: table.String(`{"a": 1}`)},
		"timestamp": {rec: rr[0], field: "at", cell: table.TextCell("2024-01-02 03:04:05"), value: table.Time(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			c, err := u.rec.Display(u.field)
			require.NoError(t, err)
			assert.Equal(t, u.cell, c)

			v, err := u.rec.SortKey(u.field)
			require.NoError(t, err)
			assert.Equal(t, u.value.Kind(), v.Kind())
			assert.Zero(t, table.Compare(u.value, v))
		})
	}
}

func TestRecordUnknownField(t *testing.T) {
	r := mustDecode(t, people, FormatJSON, "").Records()[0]

	_, err := r.Display("bozo")
	assert.ErrorIs(t, err, table.ErrInvalidFieldName)
	_, err = r.SortKey("bozo")
	assert.ErrorIs(t, err, table.ErrInvalidFieldName)

	var zero Record
	_, err = zero.Display("id")
	assert.ErrorIs(t, err, table.ErrInvalidFieldName)
	assert.False(t, zero.MatchesSearch("x"))
}

func TestRecordSearch(t *testing.T) {
	rr := mustDecode(t, people, FormatJSON, "").Records()

	assert.True(t, rr[0].MatchesSearch(""))
	assert.True(t, rr[0].MatchesSearch("fox"))
	assert.False(t, rr[1].MatchesSearch("fox"))
	assert.True(t, rr[1].MatchesSearch(`"a"`))
	assert.True(t, rr[2].MatchesSearch("2023-12"))
	assert.False(t, rr[0].MatchesSearch("fox1"))
}

func TestRecordSearchSkipsFlags(t *testing.T) {
	rr := mustDecode(t, `[{"name":"alpha","ok":true},{"name":"beta","ok":false}]`, FormatJSON, "").Records()

	uu := map[string]struct {
		needle string
		e      []bool
	}{
		"checked":   {needle: "x", e: []bool{false, false}},
		"open":      {needle: "[", e: []bool{false, false}},
		"close":     {needle: "]", e: []bool{false, false}},
		"name":      {needle: "ALP", e: []bool{true, false}},
		"raw-value": {needle: "true", e: []bool{false, false}},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			for i, r := range rr {
				assert.Equal(t, u.e[i], r.MatchesSearch(u.needle), "row %d", i)
			}
		})
	}
}

func TestRecordsEquality(t *testing.T) {
	set := mustDecode(t, people, FormatJSON, "")

	assert.Equal(t, set.Records(), set.Records())
	assert.True(t, set.Records()[0] == set.Records()[0])
	assert.False(t, set.Records()[0] == mustDecode(t, people, FormatJSON, "").Records()[0])
}

func TestSnapshotSort(t *testing.T) {
	set := mustDecode(t, people, FormatJSON, "")
	cols, err := set.Schema().Columns()
	require.NoError(t, err)

	score, ok := cols.IndexOf("score")
	require.True(t, ok)

	s := table.New(cols, set.Records(), true).Dispatch(table.ToggleColumn{Index: score})
	v, err := s.Visible("", table.Page{})
	require.NoError(t, err)

	names := make([]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		c, _ := r.Display("name")
		names = append(names, c.Text)
	}
	assert.Equal(t, []string{"Bee", "Fox", "ant"}, names)
}

func TestDecodeFormats(t *testing.T) {
	uu := map[string]struct {
		raw      string
		format   Format
		selector string
		names    []string
		types    map[string]FieldType
		rows     int
	}{
		"yaml": {
			raw:    "- name: b\n  n: 2\n- name: a\n  n: 10\n  when: 2024-01-02\n  ok: yes\n",
			format: FormatYAML,
			names:  []string{"name", "n", "when", "ok"},
			types:  map[string]FieldType{"name": TypeString, "n": TypeInt, "when": TypeTime, "ok": TypeString},
			rows:   2,
		},
		"yaml-selector": {
			raw:      "kind: List\nitems:\n  - a: 1.5\n  - a: 2\n",
			format:   FormatYAML,
			selector: "items",
			names:    []string{"a"},
			types:    map[string]FieldType{"a": TypeFloat},
			rows:     2,
		},
		"csv": {
			raw:    "name,count,ratio\nx,1,0.5\ny,,2\nz,3\n",
			format: FormatCSV,
			names:  []string{"name", "count", "ratio"},
			types:  map[string]FieldType{"name": TypeString, "count": TypeInt, "ratio": TypeFloat},
			rows:   3,
		},
		"tsv": {
			raw:    "name\tactive\nx\ttrue\n",
			format: FormatTSV,
			names:  []string{"name", "active"},
			types:  map[string]FieldType{"name": TypeString, "active": TypeBool},
			rows:   1,
		},
		"jsonl": {
			raw:    "{\"a\": 1}\n\n{\"b\": \"x\"}\n",
			format: FormatJSONL,
			names:  []string{"a", "b"},
			types:  map[string]FieldType{"a": TypeInt, "b": TypeString},
			rows:   2,
		},
		"json-object": {
			raw:    `{"data": {"a": true}}`,
			format: FormatJSON,
			names:  []string{"data"},
			types:  map[string]FieldType{"data": TypeString},
			rows:   1,
		},
		"dotted-key": {
			raw:    `[{"a.b": 1}]`,
			format: FormatJSON,
			names:  []string{"a.b"},
			types:  map[string]FieldType{"a.b": TypeInt},
			rows:   1,
		},
		"empty-csv": {
			format: FormatCSV,
			names:  []string{},
			types:  map[string]FieldType{},
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			set := mustDecode(t, u.raw, u.format, u.selector)
			assert.Equal(t, u.names, fieldNames(set.Schema()))
			assert.Equal(t, u.types, fieldTypes(set.Schema()))
			assert.Equal(t, u.rows, set.Len())
		})
	}
}

func TestDecodeDottedKeyValue(t *testing.T) {
	r := mustDecode(t, `[{"a.b": 7}]`, FormatJSON, "").Records()[0]

	v, ok := r.Value("a.b")
	require.True(t, ok)
	assert.Equal(t, table.Int(7), v)
}

func TestDecodeErrors(t *testing.T) {
	uu := map[string]struct {
		raw      string
		format   Format
		selector string
		err      string
	}{
		"invalid-json":  {raw: `[{"a": }]`, format: FormatJSON, err: "invalid JSON document"},
		"scalar":        {raw: `42`, format: FormatJSON, err: "expected an object or an array of objects"},
		"scalar-record": {raw: `[1]`, format: FormatJSON, err: "record 0 is not an object"},
		"selector":      {raw: `{"a": []}`, format: FormatJSON, selector: "b", err: `selector "b" matched nothing`},
		"jsonl":         {raw: "{\"a\": 1}\n[1]\n", format: FormatJSONL, err: "line 2 is not an object"},
		"yaml":          {raw: "a: [", format: FormatYAML, err: "failed to parse YAML"},
		"format":        {raw: "", format: "xml", err: "unknown dataset format"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			_, err := Decode([]byte(u.raw), u.format, u.selector)
			require.Error(t, err)
			assert.Contains(t, err.Error(), u.err)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("data/people.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatFromPath("s3://bucket/x.ndjson")
	require.NoError(t, err)
	assert.Equal(t, FormatJSONL, f)

	_, err = FormatFromPath("notes.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = FormatFromPath("Makefile")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExplicitSchema(t *testing.T) {
	schema, err := NewSchema(
		Field{Name: "who", Path: "user.name"},
		Field{Name: "age", Path: "user.age", Type: "int"},
		Field{Name: "tags", Path: "tags.#"},
	)
	require.NoError(t, err)

	rows, err := Decode([]byte(`[{"user": {"name": "zed", "age": "42"}, "tags": ["a", "b"], "skip": 1}]`), FormatJSON, "")
	require.NoError(t, err)
	set := NewSet(schema, rows)

	assert.Equal(t, map[string]FieldType{"who": TypeString, "age": TypeInt, "tags": TypeInt}, fieldTypes(set.Schema()))
	assert.Equal(t, map[string]FieldType{"who": TypeAuto, "age": TypeInt, "tags": TypeAuto}, fieldTypes(schema))

	r := set.Records()[0]
	v, _ := r.Value("age")
	assert.Equal(t, table.Int(42), v)
	v, _ = r.Value("tags")
	assert.Equal(t, table.Int(2), v)
	_, ok := r.Value("skip")
	assert.False(t, ok)
}

func TestNewSchemaErrors(t *testing.T) {
	_, err := NewSchema(Field{Name: "a"}, Field{Name: "a"})
	assert.EqualError(t, err, `duplicate field "a"`)

	_, err = NewSchema(Field{})
	assert.EqualError(t, err, "field 0 has no name")

	_, err = NewSchema(Field{Name: "a", Type: "blob"})
	assert.EqualError(t, err, `field "a": unknown field type "blob"`)
}

func TestSchemaCheck(t *testing.T) {
	schema, err := NewSchema(Field{Name: "a"}, Field{Name: "b"})
	require.NoError(t, err)

	ok := table.MustColumns(
		table.NewColumnBuilder("A").DataProperty("a").Build(),
		table.NewColumnBuilder("b").Build(),
	)
	assert.NoError(t, schema.Check(ok))

	bad := table.MustColumns(
		table.NewColumnBuilder("A").DataProperty("a").Build(),
		table.NewColumnBuilder("C").DataProperty("c").Build(),
	)
	assert.EqualError(t, schema.Check(bad), `column "C": unknown dataset field "c"`)
}

type fakeFetcher struct {
	data   map[string]string
	bucket string
	key    string
}

func (f *fakeFetcher) Fetch(_ context.Context, bucket, key string) ([]byte, error) {
	f.bucket, f.key = bucket, key
	raw, ok := f.data[bucket+"/"+key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return []byte(raw), nil
}

func TestSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.json")
	require.NoError(t, os.WriteFile(path, []byte(people), 0o600))

	s, err := NewSource(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, s.Format())

	ctx := context.Background()
	r1, err := s.List(ctx)
	require.NoError(t, err)
	r2, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 9}]`), 0o600))
	r3, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, r3, 1)
	v, _ := r3[0].Value("id")
	assert.Equal(t, table.Int(9), v)

	require.NoError(t, os.WriteFile(path, []byte(`nope`), 0o600))
	_, err = s.List(ctx)
	assert.ErrorContains(t, err, "failed to decode")
}

func TestSourceMissingFile(t *testing.T) {
	s, err := NewSource(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.NoError(t, err)

	_, err = s.List(context.Background())
	assert.ErrorContains(t, err, "failed to read dataset")
}

func TestSourceStdin(t *testing.T) {
	_, err := NewSource(StdinPath, Options{})
	assert.Error(t, err)

	s, err := NewSource(StdinPath, Options{Format: FormatCSV, Stdin: strings.NewReader("a\n1\n2\n")})
	require.NoError(t, err)

	r1, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, r1, 2)
	r2, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

func TestSourceS3(t *testing.T) {
	_, err := NewSource("s3://bucket/people.json", Options{})
	assert.EqualError(t, err, "no S3 fetcher configured for s3://bucket/people.json")

	f := fakeFetcher{data: map[string]string{"bucket/dir/people.yaml": "- a: 1\n"}}
	s, err := NewSource("s3://bucket/dir/people.yaml", Options{Fetcher: &f})
	require.NoError(t, err)

	rr, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, rr, 1)
	assert.Equal(t, "bucket", f.bucket)
	assert.Equal(t, "dir/people.yaml", f.key)

	s, err = NewSource("s3://bucket/missing.json", Options{Fetcher: &f})
	require.NoError(t, err)
	_, err = s.List(context.Background())
	assert.EqualError(t, err, "no such key")
}
