package config

import (
	"github.com/a1s/tabula/internal/config/data"
)

// DefaultRefreshRate is the default data refresh interval in seconds.
const DefaultRefreshRate = 2.0

// DefaultLogLevel is the default logging level.
const DefaultLogLevel = "info"

// NewFlags creates a new Flags instance with default values set. Settings
// that also live in the configuration start unset so the file wins.
func NewFlags() *data.Flags {
	f := data.NewFlags()
	*f.LogLevel = DefaultLogLevel
	*f.LogFile = AppLogFile
	*f.PageSize = -1
	*f.MaxPages = -1
	*f.Page = 1

	return f
}

// IsBoolSet returns true if a bool pointer is non-nil and true.
func IsBoolSet(b *bool) bool {
	return b != nil && *b
}

// IsStringSet returns true if a string pointer is non-nil and non-empty.
func IsStringSet(s *string) bool {
	return s != nil && *s != ""
}

// IsIntSet returns true if an int pointer is non-nil and not negative.
func IsIntSet(i *int) bool {
	return i != nil && *i >= 0
}
