package render

import (
	"fmt"
	"strings"
	"time"
)

// ToAge converts time to human-readable duration
func ToAge(t time.Time) string {
	if t.IsZero() {
		return UnknownValue
	}
	return HumanDuration(time.Since(t))
}

// HumanDuration converts duration to human readable format (e.g., "5d", "3h", "2m")
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 365 {
		years := days / 365
		return fmt.Sprintf("%dy", years)
	}
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", seconds)
}

// FormatTime formats an absolute timestamp, MissingValue when unset.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return MissingValue
	}
	return t.Format(TimeFormat)
}

// Missing returns MissingValue if string is empty
func Missing(s string) string {
	if s == "" {
		return MissingValue
	}
	return s
}

// NA returns NAValue if string is empty
func NA(s string) string {
	if s == "" {
		return NAValue
	}
	return s
}

// FormatSize formats bytes to human readable format
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Truncate truncates a string to max runes
func Truncate(s string, max int) string {
	rr := []rune(s)
	if len(rr) <= max {
		return s
	}
	if max <= 3 {
		return string(rr[:max])
	}
	return string(rr[:max-3]) + "..."
}

// JoinStrings joins strings with separator, skipping empty ones
func JoinStrings(sep string, ss ...string) string {
	var parts []string
	for _, s := range ss {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}
