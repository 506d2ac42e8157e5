package render

import (
	"strconv"

	"github.com/a1s/tabula/internal/table"
	g "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	h "maragu.dev/gomponents/html"
)

const tabSignal = "tab"

// Tab is a named pane of a tab strip.
type Tab struct {
	Name string
	Pane g.Node
}

// HTMLTabs renders a tab strip over panes. The active tab is marked when
// rendered and switched in the browser through a datastar signal. An out of
// range active index selects the first tab.
func HTMLTabs(tabs []Tab, active int, opts Options) g.Node {
	if len(tabs) == 0 {
		return g.Group(nil)
	}
	if active < 0 || active >= len(tabs) {
		active = 0
	}

	items := make([]g.Node, 0, len(tabs))
	panes := make([]g.Node, 0, len(tabs))
	for i, tab := range tabs {
		on := "$" + tabSignal + " === " + strconv.Itoa(i)
		link, pane := opts.TabLinkClass, classes(opts.TabPaneClasses...)
		if i == active {
			link = classes(link, opts.ActiveItemClass)
			pane = classes(pane, opts.ShowClass, opts.ActiveItemClass)
		}

		items = append(items, h.Li(
			h.Class(opts.TabItemClass),
			h.A(
				h.Class(link),
				h.Href("#"),
				data.On("click", "$"+tabSignal+" = "+strconv.Itoa(i), data.ModifierPrevent),
				g.If(opts.ActiveItemClass != "", data.Class(opts.ActiveItemClass, on)),
				g.Text(tab.Name),
			),
		))
		panes = append(panes, h.Div(
			h.Class(pane),
			g.If(opts.ShowClass != "" && opts.ActiveItemClass != "", data.Class(opts.ShowClass, on, opts.ActiveItemClass, on)),
			tab.Pane,
		))
	}

	return h.Div(
		data.Signals(map[string]any{tabSignal: active}),
		h.Ul(h.Class(classes(opts.TabListClasses...)), g.Group(items)),
		h.Div(h.Class(opts.TabContentClass), g.Group(panes)),
	)
}

// HTMLColumns renders the column registry as a table.
func HTMLColumns(cols table.Columns, opts Options) g.Node {
	rows := make([]g.Node, 0, cols.Len())
	for i, c := range cols.All() {
		orderable := "no"
		if opts.Orderable && c.Orderable {
			orderable = "yes"
		}
		rows = append(rows, h.Tr(
			h.Td(h.Class("text-right"), g.Text(strconv.Itoa(i+1))),
			h.Td(g.Text(c.Name)),
			h.Td(g.Text(c.Title())),
			h.Td(g.Text(c.Field())),
			h.Td(h.Class("text-center"), g.Text(orderable)),
		))
	}

	head := make([]g.Node, 0, 5)
	for _, s := range []string{"#", "Name", "Title", "Field", "Orderable"} {
		head = append(head, h.Th(g.Attr("scope", "col"), g.Text(s)))
	}

	return h.Table(
		g.If(len(opts.TableClasses) > 0, h.Class(classes(opts.TableClasses...))),
		h.THead(h.Tr(head...)),
		h.TBody(rows...),
	)
}
