package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format names a dataset encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
	FormatTSV   Format = "tsv"
)

// ErrUnknownFormat is returned when a dataset encoding cannot be determined.
var ErrUnknownFormat = errors.New("unknown dataset format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONL, FormatYAML, FormatCSV, FormatTSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "ndjson":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath guesses the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Decode parses raw data into JSON objects, one per record. When selector is
// set it is a gjson path to the records inside the document. A document that
// is a single object yields a single record.
func Decode(data []byte, f Format, selector string) ([]gjson.Result, error) {
	switch f {
	case FormatJSON:
		return decodeJSON(data, selector)
	case FormatJSONL:
		return decodeJSONLines(data, selector)
	case FormatYAML:
		raw, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		return decodeJSON(raw, selector)
	case FormatCSV:
		return decodeCSV(data, ',')
	case FormatTSV:
		return decodeCSV(data, '\t')
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func decodeJSON(data []byte, selector string) ([]gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON document")
	}
	root := gjson.ParseBytes(data)
	if selector != "" {
		root = root.Get(selector)
		if !root.Exists() {
			return nil, fmt.Errorf("selector %q matched nothing", selector)
		}
	}

	return records(root)
}

func decodeJSONLines(data []byte, selector string) ([]gjson.Result, error) {
	var (
		out  []gjson.Result
		err  error
		line int
	)
	gjson.ForEachLine(string(data), func(r gjson.Result) bool {
		line++
		if !gjson.Valid(r.Raw) {
			err = fmt.Errorf("invalid JSON on line %d", line)
			return false
		}
		if selector != "" {
			r = r.Get(selector)
		}
		if !r.IsObject() {
			err = fmt.Errorf("line %d is not an object", line)
			return false
		}
		out = append(out, r)
		return true
	})

	return out, err
}

func records(root gjson.Result) ([]gjson.Result, error) {
	switch {
	case root.IsObject():
		return []gjson.Result{root}, nil
	case root.IsArray():
		rr := root.Array()
		for i, r := range rr {
			if !r.IsObject() {
				return nil, fmt.Errorf("record %d is not an object", i)
			}
		}
		return rr, nil
	default:
		return nil, fmt.Errorf("expected an object or an array of objects, got %s", root.Type)
	}
}

func decodeCSV(data []byte, comma rune) ([]gjson.Result, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var out []gjson.Result
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", len(out)+1, err)
		}

		var buff bytes.Buffer
		buff.WriteByte('{')
		for i, h := range header {
			if i > 0 {
				buff.WriteByte(',')
			}
			writeJSONString(&buff, h)
			buff.WriteByte(':')
			if i < len(rec) {
				buff.WriteString(csvValue(rec[i]))
			} else {
				buff.WriteString("null")
			}
		}
		buff.WriteByte('}')
		out = append(out, gjson.ParseBytes(buff.Bytes()))
	}

	return out, nil
}

// csvValue types a CSV cell: empty is null, then int, float, bool, string.
func csvValue(s string) string {
	switch {
	case s == "":
		return "null"
	case s == "true", s == "false":
		return s
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return formatFloat(f)
	}

	var buff bytes.Buffer
	writeJSONString(&buff, s)
	return buff.String()
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	var buff bytes.Buffer
	if len(doc.Content) == 0 {
		buff.WriteString("[]")
		return buff.Bytes(), nil
	}
	if err := writeNode(&buff, doc.Content[0]); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// writeNode converts a YAML node to JSON, keeping mapping key order.
func writeNode(buff *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buff.WriteString("null")
			return nil
		}
		return writeNode(buff, n.Content[0])
	case yaml.AliasNode:
		return writeNode(buff, n.Alias)
	case yaml.SequenceNode:
		buff.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buff.WriteByte(',')
			}
			if err := writeNode(buff, c); err != nil {
				return err
			}
		}
		buff.WriteByte(']')
	case yaml.MappingNode:
		buff.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buff.WriteByte(',')
			}
			writeJSONString(buff, n.Content[i].Value)
			buff.WriteByte(':')
			if err := writeNode(buff, n.Content[i+1]); err != nil {
				return err
			}
		}
		buff.WriteByte('}')
	case yaml.ScalarNode:
		writeScalar(buff, n)
	default:
		return fmt.Errorf("unsupported YAML node at line %d", n.Line)
	}

	return nil
}

func writeScalar(buff *bytes.Buffer, n *yaml.Node) {
	switch n.ShortTag() {
	case "!!null":
		buff.WriteString("null")
		return
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			buff.WriteString(strconv.FormatBool(b))
			return
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			buff.WriteString(strconv.FormatInt(i, 10))
			return
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			buff.WriteString(formatFloat(f))
			return
		}
	}
	writeJSONString(buff, n.Value)
}

// formatFloat keeps a fraction or exponent so the number stays a float.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func writeJSONString(buff *bytes.Buffer, s string) {
	bb, _ := json.Marshal(s)
	buff.Write(bb)
}
