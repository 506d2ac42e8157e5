package render

const (
	// Display values
	MissingValue = "<none>"
	NAValue      = "n/a"
	UnknownValue = "<unknown>"

	// TimeFormat is the layout used for absolute timestamps.
	TimeFormat = "2006-01-02 15:04:05"
)

// Sort indicators appended to the active header in text output.
const (
	AscendingIndicator  = "↑"
	DescendingIndicator = "↓"
)
