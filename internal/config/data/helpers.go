package data

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// invalidPathCharsRX matches characters not allowed in file paths
var invalidPathCharsRX = regexp.MustCompile(`[:/\\]+`)

// SanitizeFileName replaces invalid characters in a filename
func SanitizeFileName(name string) string {
	return invalidPathCharsRX.ReplaceAllString(name, "-")
}

// EnsureFullPath ensures both the directory and parent directories exist
func EnsureFullPath(path string, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("failed to create full path for %q: %w", path, err)
	}
	return nil
}

// SaveYAML saves a struct to a YAML file
func SaveYAML(path string, data any) error {
	if err := EnsureFullPath(path, 0700); err != nil {
		return err
	}

	bytes, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, bytes, 0600); err != nil {
		return fmt.Errorf("failed to write YAML file %q: %w", path, err)
	}

	return nil
}

// LoadYAML loads a YAML file into a struct. Unknown keys are rejected.
func LoadYAML(path string, data any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file %q: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(data); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to unmarshal YAML from %q: %w", path, err)
	}

	return nil
}
