// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/a1s/tabula/internal/config"
	"github.com/a1s/tabula/internal/model"
	"github.com/a1s/tabula/internal/render"
	"github.com/a1s/tabula/internal/table"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Tabular represents the table model a view drives.
type Tabular[T table.Record] interface {
	model.TableModel[T]

	// Snapshot returns the current snapshot.
	Snapshot() *table.Snapshot[T]

	// SortBy sorts a column in a given order.
	SortBy(int, table.Order) bool

	// Search returns the search needle.
	Search() string

	// Page returns the pagination window.
	Page() table.Page
}

// Table represents a browsable table view over a table model.
type Table[T table.Record] struct {
	*tview.Table

	name     string
	model    Tabular[T]
	actions  *KeyActions
	styles   Styles
	maxPages int
	view     table.View[T]
	loaded   bool
	queue    func(func())
	promptFn func(IndicatorMode)
	errorFn  func(error)
	showFn   func(Component)
	log      *slog.Logger
	seen     map[string]struct{}
	mx       sync.RWMutex
}

// NewTable returns a new table view.
func NewTable[T table.Record](name string, m Tabular[T]) *Table[T] {
	t := Table[T]{
		Table:    tview.NewTable(),
		name:     name,
		model:    m,
		actions:  NewKeyActions(),
		styles:   DefaultStyles(),
		maxPages: 10,
		queue:    func(f func()) { f() },
		log:      slog.New(slog.DiscardHandler),
		seen:     make(map[string]struct{}),
	}
	t.bindKeys()

	return &t
}

// Name returns the view name.
func (t *Table[T]) Name() string {
	return t.name
}

// SetStyles sets the table colors.
func (t *Table[T]) SetStyles(s Styles) {
	t.styles = s
}

// SetMaxPages bounds the page window shown in the title.
func (t *Table[T]) SetMaxPages(n int) {
	if n > 0 {
		t.maxPages = n
	}
}

// SetLogger sets the logger receiving cell render failures.
func (t *Table[T]) SetLogger(l *slog.Logger) {
	if l != nil {
		t.log = l
	}
}

// SetQueue sets how ui updates are scheduled. Updates run inline by default.
func (t *Table[T]) SetQueue(q func(func())) {
	if q != nil {
		t.queue = q
	}
}

// SetPromptFn sets the callback that opens the filter or command prompt.
func (t *Table[T]) SetPromptFn(fn func(IndicatorMode)) {
	t.promptFn = fn
}

// SetErrorFn sets the callback receiving load failures.
func (t *Table[T]) SetErrorFn(fn func(error)) {
	t.errorFn = fn
}

// SetShowFn sets the callback presenting a component over the table.
func (t *Table[T]) SetShowFn(fn func(Component)) {
	t.showFn = fn
}

// Init initializes the table component.
func (t *Table[T]) Init(context.Context) error {
	t.SetFixed(1, 0)
	t.SetBorder(true)
	t.SetBorderAttributes(tcell.AttrBold)
	t.SetBorderPadding(0, 0, 1, 1)
	t.SetSelectable(true, false)
	t.SetBackgroundColor(t.styles.Bg)
	t.SetBorderColor(t.styles.BorderFg)
	t.SetSelectedStyle(t.styles.Selected())
	t.SetTitle(fmt.Sprintf(" <%s> ", t.name))
	t.showMessage("Loading...", tcell.ColorGray)

	t.SetInputCapture(t.keyboard)

	return nil
}

// Start registers the view with its model.
func (t *Table[T]) Start() {
	t.model.AddListener(t)
	if t.model.RowCount() > 0 {
		v, _ := t.model.View()
		t.update(v)
	}
}

// Stop unregisters the view from its model.
func (t *Table[T]) Stop() {
	t.model.RemoveListener(t)
}

// Actions returns the key actions.
func (t *Table[T]) Actions() *KeyActions {
	return t.actions
}

// Hints returns menu hints for key bindings.
func (t *Table[T]) Hints() MenuHints {
	return t.actions.Hints()
}

// CurrentView returns the last rendered view.
func (t *Table[T]) CurrentView() table.View[T] {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.view
}

// SelectedRow returns the record under the cursor.
func (t *Table[T]) SelectedRow() (T, bool) {
	var zero T
	row, _ := t.GetSelection()
	c := t.GetCell(row, 0)
	if c == nil || row == 0 {
		return zero, false
	}
	r, ok := c.GetReference().(T)
	return r, ok
}

// BindHotKeys binds configured shortcuts to column sorts.
func (t *Table[T]) BindHotKeys(hh *config.HotKeys) error {
	if hh == nil {
		return nil
	}
	var errs []error
	for _, name := range hh.Names() {
		hk := hh.Get(name)
		key, err := ParseKey(hk.ShortCut)
		if err != nil {
			errs = append(errs, fmt.Errorf("hotkey %q: %w", name, err))
			continue
		}
		idx, ok := t.columnIndex(hk.Column)
		if !ok {
			errs = append(errs, fmt.Errorf("hotkey %q: unknown column %q", name, hk.Column))
			continue
		}
		desc := hk.Description
		if desc == "" {
			desc = "Sort " + hk.Column
		}
		if hk.Order == "" {
			t.actions.Add(key, NewKeyAction(desc, t.toggleHandler(idx), true))
			continue
		}
		o, err := table.ParseOrder(hk.Order)
		if err != nil {
			errs = append(errs, fmt.Errorf("hotkey %q: %w", name, err))
			continue
		}
		t.actions.Add(key, NewKeyAction(desc, t.sortByHandler(idx, o), true))
	}

	return errors.Join(errs...)
}

// SortColumn sorts the named column, matched by name or title, in order o.
func (t *Table[T]) SortColumn(name string, o table.Order) error {
	idx, ok := t.columnIndex(name)
	if !ok {
		return fmt.Errorf("unknown column %q", name)
	}
	if !t.model.SortBy(idx, o) {
		return fmt.Errorf("column %q is not sortable", name)
	}
	return nil
}

// Filter returns the search needle.
func (t *Table[T]) Filter() string {
	return t.model.Search()
}

// SetFilter sets the search needle and rewinds to the first page.
func (t *Table[T]) SetFilter(s string) {
	p := t.model.Page()
	p.Index = 0
	t.model.SetPage(p)
	t.model.SetSearch(s)
}

// GotoPage shows the zero based page i.
func (t *Table[T]) GotoPage(i int) {
	p := t.model.Page()
	if !p.Paginated() || i < 0 {
		return
	}
	if tp := t.CurrentView().TotalPages; tp > 0 && i >= tp {
		i = tp - 1
	}
	p.Index = i
	t.model.SetPage(p)
}

func (t *Table[T]) columnIndex(name string) (int, bool) {
	return t.model.Columns().Lookup(name)
}

func (t *Table[T]) bindKeys() {
	t.actions.Bulk(KeyMap{
		KeySlash:         NewKeyAction("Filter", t.filterHandler, true),
		KeyColon:         NewKeyAction("Command", t.commandHandler, true),
		tcell.KeyEsc:     NewKeyAction("Clear Filter", t.clearFilterHandler, false),
		KeyN:             NewKeyAction("Next Page", t.nextPageHandler, true),
		KeyP:             NewKeyAction("Prev Page", t.prevPageHandler, true),
		tcell.KeyCtrlR:   NewKeyAction("Refresh", t.refreshHandler, true),
		tcell.KeyCtrlF:   NewKeyAction("Last Page", t.lastPageHandler, false),
		tcell.KeyCtrlB:   NewKeyAction("First Page", t.firstPageHandler, false),
		tcell.KeyEnter:   NewKeyAction("Describe", t.describeHandler, true),
		tcell.KeyCtrlS:   NewKeyAction("Sort Next", t.cycleSortHandler, true),
		tcell.KeyBacktab: NewKeyAction("Clear Sort", t.clearSortHandler, false),
	})

	// 1..9 map to the nth orderable column.
	snap, n := t.model.Snapshot(), 0
	for i, c := range t.model.Columns().All() {
		if n > 8 {
			break
		}
		if !snap.CanToggle(i) {
			continue
		}
		t.actions.Add(Key1+tcell.Key(n), NewKeyAction("Sort "+c.Title(), t.toggleHandler(i), true))
		n++
	}
}

func (t *Table[T]) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, col := t.GetSelection()
	rowCount := t.GetRowCount()

	switch AsKey(evt) {
	case KeyJ, tcell.KeyDown:
		if row < rowCount-1 {
			t.Select(row+1, col)
		}
		return nil
	case KeyK, tcell.KeyUp:
		if row > 1 {
			t.Select(row-1, col)
		}
		return nil
	case KeyG, tcell.KeyHome:
		if rowCount > 1 {
			t.Select(1, col)
		}
		return nil
	case KeyShiftG, tcell.KeyEnd:
		if rowCount > 1 {
			t.Select(rowCount-1, col)
		}
		return nil
	}

	if a, ok := t.actions.Get(AsKey(evt)); ok {
		return a.Action(evt)
	}

	return evt
}

func (t *Table[T]) toggleHandler(i int) ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		t.model.Toggle(i)
		return nil
	}
}

func (t *Table[T]) sortByHandler(i int, o table.Order) ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		t.model.SortBy(i, o)
		return nil
	}
}

// cycleSortHandler moves the ascending sort to the next orderable column.
func (t *Table[T]) cycleSortHandler(*tcell.EventKey) *tcell.EventKey {
	snap := t.model.Snapshot()
	n := snap.Columns().Len()
	cur, _, ok := snap.Sort().Active()
	if !ok {
		cur = -1
	}
	for step := 1; step <= n; step++ {
		i := (cur + step) % n
		if snap.CanToggle(i) {
			t.model.SortBy(i, table.Ascending)
			return nil
		}
	}
	return nil
}

func (t *Table[T]) clearSortHandler(*tcell.EventKey) *tcell.EventKey {
	if i, _, ok := t.model.Snapshot().Sort().Active(); ok {
		t.model.SortBy(i, table.Unordered)
	}
	return nil
}

func (t *Table[T]) filterHandler(*tcell.EventKey) *tcell.EventKey {
	if t.promptFn != nil {
		t.promptFn(ModeFilter)
	}
	return nil
}

func (t *Table[T]) commandHandler(*tcell.EventKey) *tcell.EventKey {
	if t.promptFn != nil {
		t.promptFn(ModeCommand)
	}
	return nil
}

func (t *Table[T]) clearFilterHandler(evt *tcell.EventKey) *tcell.EventKey {
	if t.model.Search() == "" {
		return evt
	}
	t.SetFilter("")
	return nil
}

func (t *Table[T]) nextPageHandler(*tcell.EventKey) *tcell.EventKey {
	if p := t.CurrentView().Pager(t.maxPages); p.HasNext() {
		t.GotoPage(p.Next())
	}
	return nil
}

func (t *Table[T]) prevPageHandler(*tcell.EventKey) *tcell.EventKey {
	if p := t.CurrentView().Pager(t.maxPages); p.HasPrev() {
		t.GotoPage(p.Prev())
	}
	return nil
}

func (t *Table[T]) firstPageHandler(*tcell.EventKey) *tcell.EventKey {
	t.GotoPage(0)
	return nil
}

func (t *Table[T]) lastPageHandler(*tcell.EventKey) *tcell.EventKey {
	if p := t.CurrentView().Pager(t.maxPages); p.TotalPages > 0 {
		t.GotoPage(p.Last())
	}
	return nil
}

func (t *Table[T]) refreshHandler(*tcell.EventKey) *tcell.EventKey {
	go func() {
		if err := t.model.Refresh(context.Background()); err != nil {
			t.log.Warn("refresh failed", "view", t.name, "error", err)
			t.TableLoadFailed(err)
		}
	}()
	return nil
}

func (t *Table[T]) describeHandler(*tcell.EventKey) *tcell.EventKey {
	if t.showFn == nil {
		return nil
	}
	d, ok := t.Describe()
	if ok {
		t.showFn(d)
	}
	return nil
}

// Describe returns a detail view of the selected row.
func (t *Table[T]) Describe() (*Describe, bool) {
	r, ok := t.SelectedRow()
	if !ok {
		return nil, false
	}
	v := t.CurrentView()
	cells, errs := v.Cells(r)
	t.report(errs)

	ff := make([]Field, 0, len(cells))
	for i, c := range v.Columns.All() {
		ff = append(ff, Field{Name: c.Title(), Value: cells[i].Text})
	}
	title := t.name
	if len(ff) > 0 && ff[0].Value != "" {
		title += "/" + ff[0].Value
	}

	return NewDescribe(t.styles, title, ff), true
}

// TableDataChanged implements model.TableListener.
func (t *Table[T]) TableDataChanged(v table.View[T]) {
	t.queue(func() { t.update(v) })
}

// TableNoData implements model.TableListener.
func (t *Table[T]) TableNoData(v table.View[T]) {
	t.queue(func() { t.update(v) })
}

// TableLoadFailed implements model.TableListener.
func (t *Table[T]) TableLoadFailed(err error) {
	t.queue(func() {
		t.mx.RLock()
		loaded := t.loaded
		t.mx.RUnlock()
		if !loaded {
			t.showMessage("Load failed", tcell.ColorRed)
			t.SetTitle(fmt.Sprintf(" <%s> [Error] %s ", t.name, tview.Escape(err.Error())))
		}
		if t.errorFn != nil {
			t.errorFn(err)
		}
	})
}

func (t *Table[T]) update(v table.View[T]) {
	t.mx.Lock()
	t.view, t.loaded = v, true
	t.mx.Unlock()

	row, _ := t.GetSelection()
	t.Clear()
	t.buildHeader(v)
	if v.Empty() {
		msg := "No data"
		if v.Total > 0 {
			msg = "Page out of range"
		} else if v.Search != "" {
			msg = "No matching rows"
		}
		t.showMessageAt(1, msg, tcell.ColorGray)
	}
	for i, r := range v.Rows {
		t.buildRow(v, r, i+1)
	}
	t.updateTitle(v)

	switch {
	case len(v.Rows) == 0:
	case row < 1:
		t.Select(1, 0)
	case row > len(v.Rows):
		t.Select(len(v.Rows), 0)
	}
}

func (t *Table[T]) buildHeader(v table.View[T]) {
	idx, order, active := v.Sort.Active()
	for c, col := range v.Columns.All() {
		title := col.Title()
		fg := t.styles.HeaderFg
		if active && idx == c {
			title += " " + render.Indicator(order)
			fg = t.styles.SortFg
		}
		cell := tview.NewTableCell(tview.Escape(title))
		cell.SetTextColor(fg)
		cell.SetBackgroundColor(t.styles.Bg)
		cell.SetAttributes(tcell.AttrBold)
		cell.SetExpansion(1)
		cell.SetSelectable(false)
		t.SetCell(0, c, cell)
	}
}

func (t *Table[T]) buildRow(v table.View[T], r T, rowIdx int) {
	cells, errs := v.Cells(r)
	t.report(errs)
	for c, tc := range cells {
		cell := tview.NewTableCell(tview.Escape(tc.Text))
		cell.SetTextColor(t.styles.Fg)
		cell.SetBackgroundColor(t.styles.Bg)
		cell.SetAlign(align(tc.Align))
		cell.SetExpansion(1)
		if c == 0 {
			cell.SetReference(r)
		}
		t.SetCell(rowIdx, c, cell)
	}
}

// report logs each distinct cell failure once.
func (t *Table[T]) report(errs []error) {
	for _, err := range errs {
		t.mx.Lock()
		_, ok := t.seen[err.Error()]
		t.seen[err.Error()] = struct{}{}
		t.mx.Unlock()
		if !ok {
			t.log.Warn("cell render failed", "view", t.name, "error", err)
		}
	}
}

func (t *Table[T]) updateTitle(v table.View[T]) {
	title := fmt.Sprintf(" <%s> %s ", t.name, render.Footer(v, t.maxPages))
	if v.Search != "" {
		title += fmt.Sprintf("/%s ", v.Search)
	}
	t.SetTitle(tview.Escape(title))
}

func (t *Table[T]) showMessage(msg string, color tcell.Color) {
	t.Clear()
	t.showMessageAt(0, msg, color)
}

func (t *Table[T]) showMessageAt(row int, msg string, color tcell.Color) {
	cell := tview.NewTableCell(msg)
	cell.SetTextColor(color)
	cell.SetAlign(tview.AlignCenter)
	cell.SetSelectable(false)
	t.SetCell(row, 0, cell)
}

func align(a table.Align) int {
	switch a {
	case table.AlignRight:
		return tview.AlignRight
	case table.AlignCenter:
		return tview.AlignCenter
	default:
		return tview.AlignLeft
	}
}
