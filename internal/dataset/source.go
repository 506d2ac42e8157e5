package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/a1s/tabula/internal/aws"
)

// StdinPath reads the dataset from standard input.
const StdinPath = "-"

// Fetcher reads remote objects.
type Fetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// Options configure a dataset source.
type Options struct {
	// Format overrides the encoding guessed from the path extension.
	Format Format
	// Selector is a gjson path to the records inside the document.
	Selector string
	// Schema restricts and types the fields. Nil infers every field.
	Schema *Schema
	// Fetcher reads s3:// paths.
	Fetcher Fetcher
	// Stdin is read when the path is StdinPath.
	Stdin io.Reader
}

// Source loads records from a local file, standard input or an s3:// URI.
// Every List rereads the data; unchanged data yields the same records.
type Source struct {
	path   string
	format Format
	opts   Options

	mx  sync.Mutex
	raw []byte
	set *Set
}

// NewSource returns a dataset source.
func NewSource(path string, opts Options) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("dataset path is required")
	}

	f := opts.Format
	if f == "" {
		if path == StdinPath {
			return nil, fmt.Errorf("a format is required to read standard input")
		}
		var err error
		if f, err = FormatFromPath(path); err != nil {
			return nil, err
		}
	}
	if isS3(path) && opts.Fetcher == nil {
		return nil, fmt.Errorf("no S3 fetcher configured for %s", path)
	}
	if path == StdinPath && opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}

	return &Source{path: path, format: f, opts: opts}, nil
}

// Path returns the source location.
func (s *Source) Path() string {
	return s.path
}

// Format returns the source encoding.
func (s *Source) Format() Format {
	return s.format
}

// List loads the dataset records.
func (s *Source) List(ctx context.Context) ([]Record, error) {
	set, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return set.Records(), nil
}

// Load reads and decodes the dataset.
func (s *Source) Load(ctx context.Context) (*Set, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.path == StdinPath && s.set != nil {
		return s.set, nil
	}
	raw, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if s.set != nil && bytes.Equal(raw, s.raw) {
		return s.set, nil
	}

	rows, err := Decode(raw, s.format, s.opts.Selector)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}
	s.raw, s.set = raw, NewSet(s.opts.Schema, rows)

	return s.set, nil
}

func (s *Source) read(ctx context.Context) ([]byte, error) {
	switch {
	case s.path == StdinPath:
		bb, err := io.ReadAll(s.opts.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return bb, nil
	case isS3(s.path):
		bucket, key, err := aws.ParseS3URI(s.path)
		if err != nil {
			return nil, err
		}
		return s.opts.Fetcher.Fetch(ctx, bucket, key)
	default:
		bb, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset: %w", err)
		}
		return bb, nil
	}
}

func isS3(path string) bool {
	return strings.HasPrefix(path, "s3://")
}
