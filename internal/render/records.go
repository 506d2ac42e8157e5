package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a1s/tabula/internal/table"
	"gopkg.in/yaml.v3"
)

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatText, FormatCSV, FormatJSON, FormatYAML, FormatHTML}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	for _, ff := range Formats {
		if ff == f {
			return f, nil
		}
	}

	return "", fmt.Errorf("unsupported output format %q", s)
}

// CSV writes the view as comma separated values with a title row.
func CSV[T table.Row](w io.Writer, v table.View[T]) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(v.Columns.Titles()); err != nil {
		return err
	}
	for _, r := range v.Rows {
		cells, _ := v.Cells(r)
		rec := make([]string, len(cells))
		for i, c := range cells {
			rec[i] = c.Text
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// JSON writes the view as an array of objects keyed by column title, keys in
// column order.
func JSON[T table.Row](w io.Writer, v table.View[T]) error {
	titles := v.Columns.Titles()
	var buff bytes.Buffer
	buff.WriteString("[")
	for i, r := range v.Rows {
		if i > 0 {
			buff.WriteString(",")
		}
		buff.WriteString("\n  {")
		cells, _ := v.Cells(r)
		for j, c := range cells {
			if j > 0 {
				buff.WriteString(", ")
			}
			k, err := json.Marshal(titles[j])
			if err != nil {
				return err
			}
			val, err := json.Marshal(c.Text)
			if err != nil {
				return err
			}
			buff.Write(k)
			buff.WriteString(": ")
			buff.Write(val)
		}
		buff.WriteString("}")
	}
	if len(v.Rows) > 0 {
		buff.WriteString("\n")
	}
	buff.WriteString("]\n")

	_, err := w.Write(buff.Bytes())
	return err
}

// YAML writes the view as a sequence of mappings keyed by column title.
func YAML[T table.Row](w io.Writer, v table.View[T]) error {
	titles := v.Columns.Titles()
	doc := yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range v.Rows {
		cells, _ := v.Cells(r)
		m := yaml.Node{Kind: yaml.MappingNode}
		for j, c := range cells {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: titles[j]},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Text},
			)
		}
		doc.Content = append(doc.Content, &m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("yaml encode failed: %w", err)
	}

	return enc.Close()
}
