package aws

// SafeString safely dereferences a string pointer, returning empty string if nil.
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Int64Value safely dereferences an int64 pointer, returning 0 if nil.
func Int64Value(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}
