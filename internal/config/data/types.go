// Package data provides configuration data types for the tabula application.
package data

// Flags represents CLI command-line flags for the tabula application.
type Flags struct {
	RefreshRate *float32 // Refresh rate in seconds
	LogLevel    *string  // Log level (e.g., debug, info, warn, error)
	LogFile     *string  // Path to log file
	Profile     *string  // AWS profile to use
	Region      *string  // AWS region to use

	View     *string   // Named view from the configuration
	Columns  *[]string // Column specs, overriding the view columns
	Sort     *string   // Initial sort column, "-" prefix for descending
	Search   *string   // Initial search needle
	PageSize *int      // Rows per page, 0 disables pagination
	Page     *int      // One based page to render
	MaxPages *int      // Page numbers listed by pagers
	Output   *string   // Output format
	NoHeader *bool     // Omit the header line of text output
	Format   *string   // Dataset encoding, guessed from the path when empty
	Selector *string   // gjson path to the records inside a dataset
	Browse   *bool     // Open the interactive table instead of printing
}

// NewFlags creates a new Flags instance with all pointer fields initialized.
// All pointers are allocated but their values are not set.
func NewFlags() *Flags {
	return &Flags{
		RefreshRate: new(float32),
		LogLevel:    new(string),
		LogFile:     new(string),
		Profile:     new(string),
		Region:      new(string),
		View:        new(string),
		Columns:     new([]string),
		Sort:        new(string),
		Search:      new(string),
		PageSize:    new(int),
		Page:        new(int),
		MaxPages:    new(int),
		Output:      new(string),
		NoHeader:    new(bool),
		Format:      new(string),
		Selector:    new(string),
		Browse:      new(bool),
	}
}

// Table represents table view settings. A zero page size disables
// pagination and a zero max column width leaves text cells untruncated.
type Table struct {
	PageSize       int   `yaml:"pageSize"`
	MaxPages       int   `yaml:"maxPages"`
	Orderable      *bool `yaml:"orderable,omitempty"`
	MaxColumnWidth int   `yaml:"maxColumnWidth"`
}

// Table configuration constants.
const (
	DefaultMaxPages       = 10
	DefaultMaxColumnWidth = 60
)

// Validate ensures the table settings are usable.
func (t *Table) Validate() {
	if t.PageSize < 0 {
		t.PageSize = 0
	}
	if t.MaxPages <= 0 {
		t.MaxPages = DefaultMaxPages
	}
	if t.MaxColumnWidth < 0 {
		t.MaxColumnWidth = 0
	}
	if t.Orderable == nil {
		orderable := true
		t.Orderable = &orderable
	}
}

// IsOrderable returns whether column sorting is enabled. Unset means enabled.
func (t Table) IsOrderable() bool {
	return t.Orderable == nil || *t.Orderable
}

// HTML represents HTML output settings. Class names are emitted as is.
type HTML struct {
	Title        string   `yaml:"title"`
	Stylesheet   string   `yaml:"stylesheet"`
	TableClasses []string `yaml:"tableClasses"`
	QuickFilter  bool     `yaml:"quickFilter"`
	ColumnsTab   bool     `yaml:"columnsTab"`

	OrderableClass  string `yaml:"orderableClass"`
	UnorderedClass  string `yaml:"unorderedClass"`
	AscendingClass  string `yaml:"ascendingClass"`
	DescendingClass string `yaml:"descendingClass"`

	ListClasses     []string `yaml:"listClasses"`
	ItemClass       string   `yaml:"itemClass"`
	LinkClass       string   `yaml:"linkClass"`
	ActiveItemClass string   `yaml:"activeItemClass"`
	DisabledClass   string   `yaml:"disabledClass"`
	ShowPrevNext    *bool    `yaml:"showPrevNext,omitempty"`
	ShowFirstLast   bool     `yaml:"showFirstLast"`
	FirstText       string   `yaml:"firstText"`
	PrevText        string   `yaml:"prevText"`
	NextText        string   `yaml:"nextText"`
	LastText        string   `yaml:"lastText"`

	TabListClasses []string `yaml:"tabListClasses"`
	TabLinkClass   string   `yaml:"tabLinkClass"`
}

// UI represents user interface configuration settings.
type UI struct {
	EnableMouse bool   `yaml:"enableMouse"`
	Styles      Styles `yaml:"styles"`
}

// Styles holds the table view colors, as tcell color names or #rrggbb.
type Styles struct {
	Fg         string `yaml:"fg"`
	Bg         string `yaml:"bg"`
	HeaderFg   string `yaml:"headerFg"`
	SortFg     string `yaml:"sortFg"`
	SelectedFg string `yaml:"selectedFg"`
	SelectedBg string `yaml:"selectedBg"`
	BorderFg   string `yaml:"borderFg"`
}

// Style defaults.
const (
	DefaultFg         = "white"
	DefaultBg         = "black"
	DefaultHeaderFg   = "aqua"
	DefaultSortFg     = "orange"
	DefaultSelectedFg = "black"
	DefaultSelectedBg = "aqua"
	DefaultBorderFg   = "dodgerblue"
)

// Validate fills unset colors with defaults.
func (s *Styles) Validate() {
	set := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	set(&s.Fg, DefaultFg)
	set(&s.Bg, DefaultBg)
	set(&s.HeaderFg, DefaultHeaderFg)
	set(&s.SortFg, DefaultSortFg)
	set(&s.SelectedFg, DefaultSelectedFg)
	set(&s.SelectedBg, DefaultSelectedBg)
	set(&s.BorderFg, DefaultBorderFg)
}
