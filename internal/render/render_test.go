package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/a1s/tabula/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
)

type fruit struct {
	Name  string
	Count int
	Ripe  bool
}

func (f fruit) Display(field string) (table.Cell, error) {
	switch field {
	case "name":
		return table.TextCell(f.Name), nil
	case "count":
		return table.NumberCell(strconv.Itoa(f.Count)), nil
	case "ripe":
		return table.CheckCell(f.Ripe), nil
	case "secret":
		return table.Cell{}, table.NonRenderable(field)
	default:
		return table.Cell{}, table.InvalidField(field)
	}
}

func (f fruit) SortKey(field string) (table.Value, error) {
	switch field {
	case "name":
		return table.String(f.Name), nil
	case "count":
		return table.Int(int64(f.Count)), nil
	default:
		return table.Null(), table.InvalidField(field)
	}
}

func (f fruit) MatchesSearch(needle string) bool {
	return table.ContainsFold(f.Name, needle)
}

func fruitColumns(extra ...table.Column) table.Columns {
	cc := []table.Column{
		table.NewColumnBuilder("Name").DataProperty("name").Orderable(true).Build(),
		table.NewColumnBuilder("Count").DataProperty("count").Orderable(true).HeaderClass("num").Build(),
		table.NewColumnBuilder("Ripe").DataProperty("ripe").Build(),
	}
	return table.MustColumns(append(cc, extra...)...)
}

func fruitView(t *testing.T, toggles []int, page table.Page, extra ...table.Column) table.View[fruit] {
	s := table.New(fruitColumns(extra...), []fruit{
		{Name: "banana", Count: 12, Ripe: true},
		{Name: "apple", Count: 3},
		{Name: "cherry", Count: 120, Ripe: true},
	}, true)
	for _, i := range toggles {
		s = s.Dispatch(table.ToggleColumn{Index: i})
	}
	v, err := s.Visible("", page)
	require.NoError(t, err)

	return v
}

func TestText(t *testing.T) {
	v := fruitView(t, []int{0}, table.Page{})

	var buff bytes.Buffer
	require.NoError(t, Text(&buff, v, TextOptions{Footer: true}))
	assert.Equal(t, strings.Join([]string{
		"Name ↑  Count  Ripe",
		"apple       3  [ ]",
		"banana     12  [x]",
		"cherry    120  [x]",
		"3 rows",
		"",
	}, "\n"), buff.String())
}

func TestTextTruncatePaginated(t *testing.T) {
	v := fruitView(t, []int{1, 1}, table.Page{Limit: 2})

	var buff bytes.Buffer
	require.NoError(t, Text(&buff, v, TextOptions{MaxColumnWidth: 4, NoHeader: true, Footer: true}))
	assert.Equal(t, strings.Join([]string{
		"che…  120  [x]",
		"ban…   12  [x]",
		"page 1/2 (3 rows)  [1] 2",
		"",
	}, "\n"), buff.String())
}

func TestTextCellErrors(t *testing.T) {
	v := fruitView(t, nil, table.Page{Limit: 1}, table.NewColumnBuilder("Secret").DataProperty("secret").Build())

	var logs bytes.Buffer
	var buff bytes.Buffer
	require.NoError(t, Text(&buff, v, TextOptions{
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	}))
	assert.Equal(t, "Name    Count  Ripe  Secret\nbanana     12  [x]\n", buff.String())
	assert.Equal(t, 1, strings.Count(logs.String(), "cell render failed"))
}

func TestFooter(t *testing.T) {
	uu := map[string]struct {
		page table.Page
		e    string
	}{
		"unpaginated": {e: "3 rows"},
		"first":       {page: table.Page{Limit: 1}, e: "page 1/3 (3 rows)  [1] 2 3"},
		"last":        {page: table.Page{Limit: 1, Index: 2}, e: "page 3/3 (3 rows)  1 2 [3]"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, Footer(fruitView(t, nil, u.page), 0))
		})
	}
}

func TestRecords(t *testing.T) {
	v := fruitView(t, []int{0, 0}, table.Page{Limit: 2})

	var buff bytes.Buffer
	require.NoError(t, CSV(&buff, v))
	assert.Equal(t, "Name,Count,Ripe\ncherry,120,[x]\nbanana,12,[x]\n", buff.String())

	buff.Reset()
	require.NoError(t, JSON(&buff, v))
	assert.Equal(t, `[
  {"Name": "cherry", "Count": "120", "Ripe": "[x]"},
  {"Name": "banana", "Count": "12", "Ripe": "[x]"}
]
`, buff.String())

	buff.Reset()
	require.NoError(t, YAML(&buff, v))
	assert.Equal(t, `- Name: cherry
  Count: "120"
  Ripe: '[x]'
- Name: banana
  Count: "12"
  Ripe: '[x]'
`, buff.String())
}

func TestRecordsEmpty(t *testing.T) {
	v := fruitView(t, nil, table.Page{Limit: 2, Index: 9})

	var buff bytes.Buffer
	require.NoError(t, JSON(&buff, v))
	assert.Equal(t, "[]\n", buff.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func renderNode(t *testing.T, fn func(*bytes.Buffer) error) string {
	var buff bytes.Buffer
	require.NoError(t, fn(&buff))
	return buff.String()
}

func TestHTMLTable(t *testing.T) {
	v := fruitView(t, []int{1}, table.Page{})
	opts := DefaultOptions()
	opts.SortHref = func(i int) string { return fmt.Sprintf("?sort=%d", i) }

	out := renderNode(t, func(b *bytes.Buffer) error { return WriteHTML(b, HTMLTable(v, opts)) })

	assert.Contains(t, out, `<table class="table">`)
	assert.Contains(t, out, `<th scope="col" aria-sort="none"><a href="?sort=0"><span>Name<i class="sort sort-none"></i></span></a></th>`)
	assert.Contains(t, out, `<th class="num" scope="col" aria-sort="ascending"><a href="?sort=1"><span>Count<i class="sort sort-up"></i></span></a></th>`)
	assert.Contains(t, out, `<th scope="col"><span>Ripe</span></th>`)
	assert.Contains(t, out, `<tr><td>apple</td><td class="text-right">3</td><td class="text-center">[ ]</td></tr>`)
	assert.Less(t, strings.Index(out, "apple"), strings.Index(out, "banana"))
	assert.Less(t, strings.Index(out, "banana"), strings.Index(out, "cherry"))
}

func TestHTMLTableNotOrderable(t *testing.T) {
	v := fruitView(t, nil, table.Page{})
	opts := DefaultOptions()
	opts.Orderable = false

	out := renderNode(t, func(b *bytes.Buffer) error { return WriteHTML(b, HTMLTable(v, opts)) })
	assert.NotContains(t, out, "<i ")
	assert.NotContains(t, out, "aria-sort")
}

func TestHTMLPagination(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowFirstLast = true
	opts.PageHref = func(i int) string { return fmt.Sprintf("page-%d.html", i+1) }

	out := renderNode(t, func(b *bytes.Buffer) error {
		return WriteHTML(b, HTMLPagination(table.NewPager(30, 10, 0, 0), opts))
	})
	assert.Equal(t, `<nav><ul class="flex-wrap pagination">`+
		`<li class="page-item disabled"><a class="page-link" href="#">First</a></li>`+
		`<li class="page-item disabled"><a class="page-link" href="#">Previous</a></li>`+
		`<li class="page-item active"><span class="page-link">1</span></li>`+
		`<li class="page-item"><a class="page-link" href="page-2.html">2</a></li>`+
		`<li class="page-item"><a class="page-link" href="page-3.html">3</a></li>`+
		`<li class="page-item"><a class="page-link" href="page-2.html">Next</a></li>`+
		`<li class="page-item"><a class="page-link" href="page-3.html">Last</a></li>`+
		`</ul></nav>`, out)

	out = renderNode(t, func(b *bytes.Buffer) error {
		return WriteHTML(b, HTMLPagination(table.NewPager(0, 10, 0, 0), opts))
	})
	assert.Empty(t, out)
}

func TestHTMLPage(t *testing.T) {
	v := fruitView(t, nil, table.Page{Limit: 2})
	opts := DefaultOptions()
	opts.Title = "Fruits"
	opts.QuickFilter = true

	out := renderNode(t, func(b *bytes.Buffer) error { return WriteHTML(b, HTMLPage(v, opts)) })

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>Fruits</title>")
	assert.Contains(t, out, datastarBundle)
	assert.Contains(t, out, `data-bind`)
	assert.Contains(t, out, `data-show="$q === &#39;&#39; || &#34;banana 12 [x]&#34;.includes($q.toLowerCase())"`)
	assert.Contains(t, out, "page 1/2 (3 rows)")
}

func TestHTMLTabs(t *testing.T) {
	opts := DefaultOptions()
	tabs := []Tab{
		{Name: "Rows", Pane: g.Text("rows")},
		{Name: "Columns", Pane: g.Text("cols")},
	}

	uu := map[string]struct {
		active int
		e      []string
	}{
		"first": {
			active: 0,
			e: []string{
				`<div data-signals="{&#34;tab&#34;:0}"><ul class="nav nav-tabs">`,
				`<li class="nav-item"><a class="nav-link active" href="#" data-on:click__prevent="$tab = 0" data-class="{active: $tab === 0}">Rows</a></li>`,
				`<li class="nav-item"><a class="nav-link" href="#" data-on:click__prevent="$tab = 1" data-class="{active: $tab === 1}">Columns</a></li>`,
				`<div class="tab-content"><div class="tab-pane fade show active" data-class="{show: $tab === 0, active: $tab === 0}">rows</div>`,
				`<div class="tab-pane fade" data-class="{show: $tab === 1, active: $tab === 1}">cols</div></div>`,
			},
		},
		"second": {
			active: 1,
			e: []string{
				`{&#34;tab&#34;:1}`,
				`<a class="nav-link active" href="#" data-on:click__prevent="$tab = 1"`,
				`<div class="tab-pane fade show active" data-class="{show: $tab === 1, active: $tab === 1}">cols</div>`,
			},
		},
		"out-of-range": {
			active: 7,
			e: []string{
				`{&#34;tab&#34;:0}`,
				`<div class="tab-pane fade show active" data-class="{show: $tab === 0, active: $tab === 0}">rows</div>`,
			},
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			out := renderNode(t, func(b *bytes.Buffer) error { return WriteHTML(b, HTMLTabs(tabs, u.active, opts)) })
			for _, e := range u.e {
				assert.Contains(t, out, e)
			}
		})
	}

	out := renderNode(t, func(b *bytes.Buffer) error { return WriteHTML(b, HTMLTabs(nil, 0, opts)) })
	assert.Empty(t, out)
}

func TestHTMLPageColumnsTab(t *testing.T) {
	v := fruitView(t, nil, table.Page{Limit: 2})
	opts := DefaultOptions()
	opts.ColumnsTab = true

	out := renderNode(t, func(b *bytes.Buffer) error { return WriteHTML(b, HTMLPage(v, opts)) })

	assert.Contains(t, out, datastarBundle)
	assert.Contains(t, out, `>Rows</a>`)
	assert.Contains(t, out, `>Columns</a>`)
	assert.Contains(t, out, `<td>Ripe</td>`)
	assert.Less(t, strings.Index(out, "apple"), strings.Index(out, `<td>Ripe</td>`))
	assert.Contains(t, out, `<td class="text-center">no</td>`)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "2d", HumanDuration(49*time.Hour))
	assert.Equal(t, "0s", HumanDuration(time.Millisecond))
	assert.Equal(t, "1y", HumanDuration(400*24*time.Hour))
	assert.Equal(t, UnknownValue, ToAge(time.Time{}))
	assert.Equal(t, MissingValue, FormatTime(time.Time{}))
	assert.Equal(t, "1.5 MiB", FormatSize(1536*1024))
	assert.Equal(t, "12 B", FormatSize(12))
	assert.Equal(t, "héll...", Truncate("héllo world", 7))
	assert.Equal(t, "a,b", JoinStrings(",", "a", "", "b"))
	assert.Equal(t, NAValue, NA(""))
	assert.Equal(t, "x", Missing("x"))
	assert.Equal(t, "", Indicator(table.Unordered))
}
