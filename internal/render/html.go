package render

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/a1s/tabula/internal/table"
	g "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	h "maragu.dev/gomponents/html"
)

const datastarBundle = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.7/bundles/datastar.js"

// Options configure HTML output. Class names are passed through untouched.
type Options struct {
	Title        string
	Stylesheet   string
	TableClasses []string

	// Orderable renders sort indicators on orderable columns.
	Orderable       bool
	OrderableClass  string
	UnorderedClass  string
	AscendingClass  string
	DescendingClass string
	// SortHref links orderable headers. Nil renders plain headers.
	SortHref func(col int) string

	ListClasses     []string
	ItemClass       string
	LinkClass       string
	ActiveItemClass string
	DisabledClass   string
	ShowPrevNext    bool
	ShowFirstLast   bool
	FirstText       string
	PrevText        string
	NextText        string
	LastText        string
	MaxPages        int
	// PageHref links pagination items. Nil links to "#".
	PageHref func(page int) string

	// ColumnsTab splits a page into a rows tab and a columns tab.
	ColumnsTab      bool
	TabListClasses  []string
	TabItemClass    string
	TabLinkClass    string
	TabContentClass string
	TabPaneClasses  []string
	ShowClass       string

	// QuickFilter adds a client-side search box.
	QuickFilter bool
	Logger      *slog.Logger
}

// DefaultOptions returns bootstrap flavored defaults.
func DefaultOptions() Options {
	return Options{
		TableClasses:    []string{"table"},
		Orderable:       true,
		OrderableClass:  "sort",
		UnorderedClass:  "sort-none",
		AscendingClass:  "sort-up",
		DescendingClass: "sort-down",
		ListClasses:     []string{"pagination"},
		ItemClass:       "page-item",
		LinkClass:       "page-link",
		ActiveItemClass: "active",
		DisabledClass:   "disabled",
		ShowPrevNext:    true,
		FirstText:       "First",
		PrevText:        "Previous",
		NextText:        "Next",
		LastText:        "Last",
		TabListClasses:  []string{"nav", "nav-tabs"},
		TabItemClass:    "nav-item",
		TabLinkClass:    "nav-link",
		TabContentClass: "tab-content",
		TabPaneClasses:  []string{"tab-pane", "fade"},
		ShowClass:       "show",
	}
}

// HTMLTable renders the view as a table element.
func HTMLTable[T table.Row](v table.View[T], opts Options) g.Node {
	cols := v.Columns.All()
	head := make([]g.Node, 0, len(cols))
	for i, c := range cols {
		head = append(head, headerNode(i, c, v.Sort.At(i), opts))
	}

	errs := newCellErrors(opts.Logger)
	body := make([]g.Node, 0, len(v.Rows))
	for _, r := range v.Rows {
		cells, ee := v.Cells(r)
		errs.report(ee)

		tds := make([]g.Node, 0, len(cells)+1)
		texts := make([]string, 0, len(cells))
		if opts.QuickFilter {
			tds = append(tds, nil)
		}
		for _, c := range cells {
			texts = append(texts, c.Text)
			tds = append(tds, h.Td(g.If(c.Align != table.AlignLeft, h.Class(alignClass(c.Align))), g.Text(c.Text)))
		}
		if opts.QuickFilter {
			tds[0] = data.Show(containsExpr(strings.Join(texts, " ")))
		}
		body = append(body, h.Tr(tds...))
	}

	return h.Table(
		g.If(len(opts.TableClasses) > 0, h.Class(classes(opts.TableClasses...))),
		h.THead(h.Tr(head...)),
		h.TBody(body...),
	)
}

func headerNode(i int, c table.Column, o table.Order, opts Options) g.Node {
	orderable := opts.Orderable && c.Orderable
	label := []g.Node{g.Text(c.Title())}
	if orderable {
		label = append(label, h.I(h.Class(classes(opts.OrderableClass, sortClass(o, opts)))))
	}
	var content g.Node = h.Span(label...)
	if orderable && opts.SortHref != nil {
		content = h.A(h.Href(opts.SortHref(i)), content)
	}

	return h.Th(
		g.If(len(c.HeaderClasses) > 0, h.Class(classes(c.HeaderClasses...))),
		g.Attr("scope", "col"),
		g.If(orderable, g.Attr("aria-sort", ariaSort(o))),
		content,
	)
}

// HTMLPagination renders the pager as a nav list. Nothing is rendered for an
// unpaginated or empty view.
func HTMLPagination(p table.Pager, opts Options) g.Node {
	if p.TotalPages == 0 {
		return g.Group(nil)
	}

	items := make([]g.Node, 0, len(p.Pages)+4)
	if opts.ShowFirstLast {
		items = append(items, pageItem(opts.FirstText, p.First(), !p.HasPrev(), opts))
	}
	if opts.ShowPrevNext {
		items = append(items, pageItem(opts.PrevText, p.Prev(), !p.HasPrev(), opts))
	}
	for _, i := range p.Pages {
		if p.IsCurrent(i) {
			items = append(items, h.Li(
				h.Class(classes(opts.ItemClass, opts.ActiveItemClass)),
				h.Span(h.Class(opts.LinkClass), g.Text(strconv.Itoa(i+1))),
			))
			continue
		}
		items = append(items, pageItem(strconv.Itoa(i+1), i, false, opts))
	}
	if opts.ShowPrevNext {
		items = append(items, pageItem(opts.NextText, p.Next(), !p.HasNext(), opts))
	}
	if opts.ShowFirstLast {
		items = append(items, pageItem(opts.LastText, p.Last(), !p.HasNext(), opts))
	}

	return h.Nav(h.Ul(
		h.Class(classes(append([]string{"flex-wrap"}, opts.ListClasses...)...)),
		g.Group(items),
	))
}

func pageItem(label string, page int, disabled bool, opts Options) g.Node {
	cls := opts.ItemClass
	if disabled {
		cls = classes(cls, opts.DisabledClass)
	}
	href := "#"
	if opts.PageHref != nil && !disabled {
		href = opts.PageHref(page)
	}

	return h.Li(
		h.Class(cls),
		h.A(h.Class(opts.LinkClass), h.Href(href), g.Text(label)),
	)
}

// HTMLPage renders a standalone document holding the table, its pagination
// and an optional quick filter. With ColumnsTab the table and pagination
// share a tab strip with the column registry.
func HTMLPage[T table.Row](v table.View[T], opts Options) g.Node {
	title := opts.Title
	if title == "" {
		title = "tabula"
	}

	var filter g.Node
	if opts.QuickFilter {
		filter = h.Div(
			h.Class("toolbar"),
			data.Signals(map[string]any{"q": ""}),
			h.Label(h.Class("sr-only"), g.Text("Quick filter")),
			h.Input(h.Type("search"), h.Placeholder("Filter rows"), data.Bind("q"), h.AutoComplete("off")),
		)
	}

	var content g.Node = g.Group([]g.Node{
		HTMLTable(v, opts),
		HTMLPagination(v.Pager(opts.MaxPages), opts),
	})
	if opts.ColumnsTab {
		content = HTMLTabs([]Tab{
			{Name: "Rows", Pane: content},
			{Name: "Columns", Pane: HTMLColumns(v.Columns, opts)},
		}, 0, opts)
	}

	return h.Doctype(h.HTML(
		h.Lang("en"),
		h.Head(
			h.Meta(h.Charset("utf-8")),
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.TitleEl(g.Text(title)),
			g.If(opts.Stylesheet != "", h.Link(h.Rel("stylesheet"), h.Href(opts.Stylesheet))),
			g.If(opts.QuickFilter || opts.ColumnsTab, h.Script(h.Type("module"), h.Src(datastarBundle))),
		),
		h.Body(
			h.Main(
				h.H1(g.Text(title)),
				filter,
				content,
				h.P(h.Class("footer"), g.Text(Footer(v, opts.MaxPages))),
			),
		),
	))
}

// WriteHTML renders a node.
func WriteHTML(w io.Writer, n g.Node) error {
	if err := n.Render(w); err != nil {
		return fmt.Errorf("html render failed: %w", err)
	}
	return nil
}

func sortClass(o table.Order, opts Options) string {
	switch o {
	case table.Ascending:
		return opts.AscendingClass
	case table.Descending:
		return opts.DescendingClass
	default:
		return opts.UnorderedClass
	}
}

func ariaSort(o table.Order) string {
	switch o {
	case table.Ascending:
		return "ascending"
	case table.Descending:
		return "descending"
	default:
		return "none"
	}
}

func alignClass(a table.Align) string {
	switch a {
	case table.AlignRight:
		return "text-right"
	case table.AlignCenter:
		return "text-center"
	default:
		return ""
	}
}

func containsExpr(value string) string {
	lower := strings.ToLower(value)
	return "$q === '' || " + strconv.Quote(lower) + ".includes($q.toLowerCase())"
}

func classes(cc ...string) string {
	out := make([]string, 0, len(cc))
	for _, c := range cc {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}
