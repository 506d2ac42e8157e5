package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/a1s/tabula/internal/config"
	"github.com/a1s/tabula/internal/config/data"
	"github.com/a1s/tabula/internal/model"
	"github.com/a1s/tabula/internal/render"
	"github.com/a1s/tabula/internal/table"
	"github.com/a1s/tabula/internal/ui"
)

// listing describes a table to show.
type listing[T table.Record] struct {
	name    string
	columns table.Columns
	source  model.Source[T]
	// Defaults used when the matching flags are not set.
	sort   string
	search string
}

// present prints the listing, opens it interactively or writes an HTML
// site, depending on the flags.
func present[T table.Record](ctx context.Context, s *session, l listing[T]) error {
	m, err := newModel(s, l)
	if err != nil {
		return err
	}
	if *tabulaFlags.Browse {
		return browse(ctx, s, l.name, m)
	}

	if err := m.Refresh(ctx); err != nil {
		return err
	}
	v, err := m.View()
	if err != nil {
		if !errors.As(err, new(*table.SortError)) {
			return err
		}
		s.log.Warn("rows left unsorted", "table", l.name, "error", err)
	}

	return writeView(s, l.name, v)
}

func newModel[T table.Record](s *session, l listing[T]) (*model.Table[T], error) {
	tc := s.cfg.Tabula
	page := *tabulaFlags.Page
	if page < 1 {
		return nil, fmt.Errorf("page must be at least 1, got %d", page)
	}

	m := model.NewTable[T](l.columns, tc.Table.IsOrderable(), tc.RefreshInterval())
	m.SetLogger(s.log)
	m.SetSource(l.source)
	m.SetPage(table.Page{Limit: tc.Table.PageSize, Index: page - 1})
	m.SetSearch(firstOf(*tabulaFlags.Search, l.search))

	if sort := firstOf(*tabulaFlags.Sort, l.sort); sort != "" {
		name, o := config.ParseSort(sort)
		idx, ok := l.columns.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown sort column %q", name)
		}
		if !m.SortBy(idx, o) {
			return nil, fmt.Errorf("column %q is not orderable", name)
		}
	}

	return m, nil
}

func browse[T table.Record](ctx context.Context, s *session, name string, m *model.Table[T]) error {
	app := ui.NewApp(s.cfg.Tabula.UI, s.log)

	tv := ui.NewTable[T](name, m)
	tv.SetStyles(app.Styles())
	tv.SetMaxPages(s.cfg.Tabula.Table.MaxPages)
	tv.SetLogger(s.log)
	if err := tv.BindHotKeys(s.hotkeys); err != nil {
		s.log.Warn("skipping hotkeys", "error", err)
	}

	if err := m.Watch(ctx); err != nil {
		s.log.Error("initial load failed", "table", name, "error", err)
	}
	defer m.Stop()

	return app.Run(ctx, tv)
}

func writeView[T table.Record](s *session, name string, v table.View[T]) error {
	f, err := render.ParseFormat(*tabulaFlags.Output)
	if err != nil {
		return err
	}

	switch f {
	case render.FormatCSV:
		return render.CSV(s.out, v)
	case render.FormatJSON:
		return render.JSON(s.out, v)
	case render.FormatYAML:
		return render.YAML(s.out, v)
	case render.FormatHTML:
		return render.WriteHTML(s.out, render.HTMLPage(v, htmlOptions(s, name)))
	default:
		return render.Text(s.out, v, render.TextOptions{
			MaxColumnWidth: s.textWidth(v.Columns.Len()),
			NoHeader:       *tabulaFlags.NoHeader,
			Footer:         s.tty && !*tabulaFlags.NoHeader,
			MaxPages:       s.cfg.Tabula.Table.MaxPages,
			Logger:         s.log,
		})
	}
}

func htmlOptions(s *session, name string) render.Options {
	opts := s.cfg.Tabula.HTMLOptions()
	if opts.Title == "" {
		opts.Title = name
	}
	opts.Logger = s.log

	return opts
}

// writeSite renders every page of the listing as linked HTML files in dir.
// Each sort state reachable from the headers gets its own set of pages.
func writeSite[T table.Record](ctx context.Context, s *session, l listing[T], dir string) error {
	m, err := newModel(s, l)
	if err != nil {
		return err
	}
	if err := m.Refresh(ctx); err != nil {
		return err
	}

	opts := htmlOptions(s, l.name)
	opts.ColumnsTab = true
	snap := m.Snapshot()
	start := variantOf(snap.Sort())
	limit := m.Page().Limit

	var files int
	for _, sv := range siteVariants(snap) {
		if sv.order == table.Unordered {
			if i, _, ok := m.Snapshot().Sort().Active(); ok {
				m.SortBy(i, table.Unordered)
			}
		} else if !m.SortBy(sv.col, sv.order) {
			continue
		}
		n, err := writeVariant(s, m, sv, opts, dir, limit)
		if err != nil {
			return err
		}
		files += n
	}
	fmt.Fprintf(s.out, "%d pages written to %s, start at %s\n", files, dir, start.file(0))

	return nil
}

func writeVariant[T table.Record](s *session, m *model.Table[T], sv siteVariant, opts render.Options, dir string, limit int) (int, error) {
	opts.PageHref = sv.file
	opts.SortHref = func(col int) string { return sv.toggle(col).file(0) }
	for i := 0; ; i++ {
		m.SetPage(table.Page{Limit: limit, Index: i})
		v, err := m.View()
		if err != nil && !errors.As(err, new(*table.SortError)) {
			return i, err
		}

		path := filepath.Join(dir, sv.file(i))
		if err := writePage(path, v, opts); err != nil {
			return i, err
		}
		s.log.Debug("page written", "path", path)

		if i+1 >= v.TotalPages {
			return i + 1, nil
		}
	}
}

// siteVariant is one sort state of an HTML site.
type siteVariant struct {
	col   int
	order table.Order
}

func variantOf(s table.SortState) siteVariant {
	if i, o, ok := s.Active(); ok {
		return siteVariant{col: i, order: o}
	}
	return siteVariant{col: -1}
}

// siteVariants lists the unsorted state then both orders of every orderable
// column.
func siteVariants[T table.Record](snap *table.Snapshot[T]) []siteVariant {
	vv := []siteVariant{{col: -1}}
	for i := range snap.Columns().Len() {
		if snap.CanToggle(i) {
			vv = append(vv, siteVariant{col: i, order: table.Ascending}, siteVariant{col: i, order: table.Descending})
		}
	}

	return vv
}

// toggle returns the state reached by clicking the header of column col.
func (sv siteVariant) toggle(col int) siteVariant {
	if col == sv.col {
		return siteVariant{col: col, order: sv.order.Rotate()}
	}
	return siteVariant{col: col, order: table.Ascending}
}

func (sv siteVariant) file(page int) string {
	switch sv.order {
	case table.Ascending:
		return "sort-" + strconv.Itoa(sv.col+1) + "-asc-" + pageFile(page)
	case table.Descending:
		return "sort-" + strconv.Itoa(sv.col+1) + "-desc-" + pageFile(page)
	default:
		return pageFile(page)
	}
}

func writePage[T table.Record](path string, v table.View[T], opts render.Options) error {
	if err := data.EnsureFullPath(path, 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render.WriteHTML(f, render.HTMLPage(v, opts)); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func pageFile(page int) string {
	return "page-" + strconv.Itoa(page+1) + ".html"
}

func firstOf(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
