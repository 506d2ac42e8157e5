package render

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/a1s/tabula/internal/table"
	"github.com/mattn/go-runewidth"
)

const (
	columnGap = "  "
	ellipsis  = "…"
)

// TextOptions configure plain text output.
type TextOptions struct {
	// MaxColumnWidth truncates wider cells. Zero means unlimited.
	MaxColumnWidth int
	// NoHeader omits the header line.
	NoHeader bool
	// Footer appends a row count and, when paginated, the page window.
	Footer bool
	// MaxPages bounds the page window in the footer.
	MaxPages int
	// Logger receives cell rendering failures.
	Logger *slog.Logger
}

// Text writes the view as aligned columns. The active sort column carries an
// arrow indicator. Cells that fail to render are left blank.
func Text[T table.Row](w io.Writer, v table.View[T], opts TextOptions) error {
	cols := v.Columns.All()
	lines := make([][]table.Cell, 0, len(v.Rows)+1)
	if !opts.NoHeader {
		lines = append(lines, headerCells(v))
	}

	errs := newCellErrors(opts.Logger)
	for _, r := range v.Rows {
		cells, ee := v.Cells(r)
		errs.report(ee)
		lines = append(lines, cells)
	}

	widths := make([]int, len(cols))
	for _, l := range lines {
		for i, c := range l {
			widths[i] = max(widths[i], runewidth.StringWidth(c.Text))
		}
	}
	if opts.MaxColumnWidth > 0 {
		for i := range widths {
			widths[i] = min(widths[i], opts.MaxColumnWidth)
		}
	}

	bw := bufio.NewWriter(w)
	for _, l := range lines {
		var sb strings.Builder
		for i, c := range l {
			if i > 0 {
				sb.WriteString(columnGap)
			}
			sb.WriteString(pad(c, widths[i]))
		}
		if _, err := fmt.Fprintln(bw, strings.TrimRight(sb.String(), " ")); err != nil {
			return err
		}
	}

	if opts.Footer {
		if _, err := fmt.Fprintln(bw, Footer(v, opts.MaxPages)); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Footer summarizes the view rows and pages.
func Footer[T table.Row](v table.View[T], maxPages int) string {
	if !v.Page.Paginated() {
		return fmt.Sprintf("%d rows", v.Total)
	}

	p := v.Pager(maxPages)
	if p.TotalPages == 0 {
		return "0 rows"
	}
	pages := make([]string, 0, len(p.Pages))
	for _, i := range p.Pages {
		if p.IsCurrent(i) {
			pages = append(pages, fmt.Sprintf("[%d]", i+1))
			continue
		}
		pages = append(pages, fmt.Sprintf("%d", i+1))
	}

	return fmt.Sprintf("page %d/%d (%d rows)  %s", v.Page.Index+1, p.TotalPages, v.Total, strings.Join(pages, " "))
}

func headerCells[T table.Row](v table.View[T]) []table.Cell {
	cols := v.Columns.All()
	idx, order, active := v.Sort.Active()

	cells := make([]table.Cell, len(cols))
	for i, c := range cols {
		title := c.Title()
		if active && i == idx {
			title += " " + Indicator(order)
		}
		cells[i] = table.TextCell(title)
	}

	return cells
}

// Indicator returns the arrow of a sort order.
func Indicator(o table.Order) string {
	switch o {
	case table.Ascending:
		return AscendingIndicator
	case table.Descending:
		return DescendingIndicator
	default:
		return ""
	}
}

func pad(c table.Cell, width int) string {
	s := c.Text
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, ellipsis)
	}

	switch c.Align {
	case table.AlignRight:
		return runewidth.FillLeft(s, width)
	case table.AlignCenter:
		gap := width - runewidth.StringWidth(s)
		return strings.Repeat(" ", gap/2) + s + strings.Repeat(" ", gap-gap/2)
	default:
		return runewidth.FillRight(s, width)
	}
}

// cellErrors logs each distinct cell failure once per render.
type cellErrors struct {
	log  *slog.Logger
	seen map[string]struct{}
}

func newCellErrors(l *slog.Logger) *cellErrors {
	if l == nil {
		l = slog.Default()
	}
	return &cellErrors{log: l, seen: make(map[string]struct{})}
}

func (c *cellErrors) report(errs []error) {
	for _, err := range errs {
		if _, ok := c.seen[err.Error()]; ok {
			continue
		}
		c.seen[err.Error()] = struct{}{}
		c.log.Warn("cell render failed", "error", err)
	}
}
