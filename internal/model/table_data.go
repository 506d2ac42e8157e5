package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/a1s/tabula/internal/table"
)

// DefaultRefreshRate is used by Watch when no refresh rate is configured.
const DefaultRefreshRate = 5 * time.Second

// Table owns a table snapshot and its view state. It serializes writers and
// notifies listeners whenever the visible data changes.
type Table[T table.Record] struct {
	snap        *table.Snapshot[T]
	search      string
	page        table.Page
	source      Source[T]
	refreshRate time.Duration
	listeners   []TableListener[T]
	reported    map[string]struct{}
	state       State
	log         *slog.Logger
	cancelFn    context.CancelFunc
	gen         uint64
	fired       uint64
	fireMx      sync.Mutex
	mx          sync.RWMutex
}

// NewTable creates a new table model.
func NewTable[T table.Record](cols table.Columns, orderable bool, refreshRate time.Duration) *Table[T] {
	return &Table[T]{
		snap:        table.New[T](cols, nil, orderable),
		refreshRate: refreshRate,
		listeners:   make([]TableListener[T], 0, 2),
		reported:    make(map[string]struct{}),
		log:         slog.Default(),
	}
}

// SetSource sets the row source used by Refresh and Watch.
func (t *Table[T]) SetSource(s Source[T]) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.source = s
}

// SetLogger sets the logger.
func (t *Table[T]) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	t.mx.Lock()
	defer t.mx.Unlock()
	t.log = l
}

// Columns returns the column registry.
func (t *Table[T]) Columns() table.Columns {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.snap.Columns()
}

// RowCount returns the number of rows.
func (t *Table[T]) RowCount() int {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.snap.RowCount()
}

// Snapshot returns the current table snapshot. Snapshots are immutable and
// safe to read while the model changes.
func (t *Table[T]) Snapshot() *table.Snapshot[T] {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.snap
}

// Search returns the search needle.
func (t *Table[T]) Search() string {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.search
}

// Page returns the pagination window.
func (t *Table[T]) Page() table.Page {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.page
}

// View returns the visible rows for the current state. A sort failure is
// logged once per column and the rows are returned unsorted.
func (t *Table[T]) View() (table.View[T], error) {
	t.mx.RLock()
	snap, search, page := t.snap, t.search, t.page
	t.mx.RUnlock()

	return t.view(snap, search, page)
}

func (t *Table[T]) view(snap *table.Snapshot[T], search string, page table.Page) (table.View[T], error) {
	v, err := snap.Visible(search, page)
	if err != nil {
		t.report(err)
	}

	return v, err
}

// SetRows replaces every row.
func (t *Table[T]) SetRows(rows []T) {
	t.dispatch(table.SetRows[T]{Rows: rows})
}

// Toggle rotates the sort order of column i. It returns false when the
// column cannot be sorted.
func (t *Table[T]) Toggle(i int) bool {
	t.mx.RLock()
	ok := t.snap.CanToggle(i)
	t.mx.RUnlock()
	if !ok {
		return false
	}
	t.dispatch(table.ToggleColumn{Index: i})

	return true
}

// SortBy rotates column i until it is sorted in order o. It returns false
// when the column cannot be sorted.
func (t *Table[T]) SortBy(i int, o table.Order) bool {
	for range 3 {
		if t.Snapshot().Sort().At(i) == o {
			return true
		}
		if !t.Toggle(i) {
			return false
		}
	}

	return t.Snapshot().Sort().At(i) == o
}

// SetSearch sets the search needle.
func (t *Table[T]) SetSearch(s string) {
	t.mx.Lock()
	if t.search == s {
		t.mx.Unlock()
		return
	}
	t.search = s
	t.gen++
	t.mx.Unlock()
	t.fireChanged()
}

// SetPage sets the pagination window.
func (t *Table[T]) SetPage(p table.Page) {
	t.mx.Lock()
	if t.page == p {
		t.mx.Unlock()
		return
	}
	t.page = p
	t.gen++
	t.mx.Unlock()
	t.fireChanged()
}

// AddListener registers a table listener. Notifications are delivered one
// at a time, so a listener must not mutate the table synchronously.
func (t *Table[T]) AddListener(l TableListener[T]) {
	t.mx.Lock()
	defer t.mx.Unlock()
	t.listeners = append(t.listeners, l)
}

// RemoveListener unregisters a table listener.
func (t *Table[T]) RemoveListener(l TableListener[T]) {
	t.mx.Lock()
	defer t.mx.Unlock()

	for i, listener := range t.listeners {
		if listener == l {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}

// Watch starts watching/refreshing data periodically.
func (t *Table[T]) Watch(ctx context.Context) error {
	// Cancel any existing watch
	t.mx.Lock()
	if t.cancelFn != nil {
		t.cancelFn()
	}
	watchCtx, cancel := context.WithCancel(ctx)
	t.cancelFn = cancel
	t.mx.Unlock()

	// Initial fetch
	if err := t.Refresh(watchCtx); err != nil {
		t.notifyLoadFailed(err)
		return err
	}

	go t.watchLoop(watchCtx)
	return nil
}

// watchLoop periodically refreshes data.
func (t *Table[T]) watchLoop(ctx context.Context) {
	t.mx.RLock()
	refreshRate := t.refreshRate
	t.mx.RUnlock()

	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}

	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.Refresh(ctx); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				t.notifyLoadFailed(err)
			}
		}
	}
}

// Refresh fetches rows from the source immediately.
func (t *Table[T]) Refresh(ctx context.Context) error {
	t.mx.RLock()
	source := t.source
	t.mx.RUnlock()

	if source == nil {
		return fmt.Errorf("no source configured")
	}

	rows, err := source.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list rows: %w", err)
	}
	t.SetRows(rows)

	return nil
}

// Stop stops the watch loop.
func (t *Table[T]) Stop() {
	t.mx.Lock()
	defer t.mx.Unlock()

	if t.cancelFn != nil {
		t.cancelFn()
		t.cancelFn = nil
	}
}

func (t *Table[T]) dispatch(a table.Action) {
	t.mx.Lock()
	next := t.snap.Dispatch(a)
	changed := next != t.snap
	t.snap = next
	if changed {
		t.gen++
	}
	t.mx.Unlock()

	if changed {
		t.fireChanged()
	}
}

// report logs a sort failure once per column and field.
func (t *Table[T]) report(err error) {
	key := err.Error()
	var serr *table.SortError
	if errors.As(err, &serr) {
		key = serr.Column + "/" + serr.Field
	}

	t.mx.Lock()
	_, seen := t.reported[key]
	t.reported[key] = struct{}{}
	log := t.log
	t.mx.Unlock()

	if !seen {
		log.Warn("table sort disabled, showing unsorted rows", "error", err)
	}
}

// fireChanged notifies listeners of the latest view. A call whose change
// was already delivered by a concurrent writer does nothing.
func (t *Table[T]) fireChanged() {
	t.fireMx.Lock()
	defer t.fireMx.Unlock()

	t.mx.RLock()
	snap, search, page, gen := t.snap, t.search, t.page, t.gen
	done := gen == t.fired
	t.mx.RUnlock()
	if done {
		return
	}
	v, _ := t.view(snap, search, page)

	t.mx.Lock()
	prev := t.state
	t.state, t.fired = NewState(snap, v), gen
	next, log := t.state, t.log
	t.mx.Unlock()

	if log.Enabled(context.Background(), slog.LevelDebug) {
		if patch, err := Diff(prev, next); err == nil && len(patch) > 0 {
			log.Debug("table state changed", "patch", patch.String())
		}
	}

	if v.Total == 0 {
		t.notifyNoData(v)
	} else {
		t.notifyDataChanged(v)
	}
}

// LastState returns the state recorded at the last change notification.
func (t *Table[T]) LastState() State {
	t.mx.RLock()
	defer t.mx.RUnlock()
	return t.state
}

// notifyNoData notifies listeners that no data is available.
func (t *Table[T]) notifyNoData(v table.View[T]) {
	for _, l := range t.copyListeners() {
		l.TableNoData(v)
	}
}

// notifyDataChanged notifies listeners that data has changed.
func (t *Table[T]) notifyDataChanged(v table.View[T]) {
	for _, l := range t.copyListeners() {
		l.TableDataChanged(v)
	}
}

// notifyLoadFailed notifies listeners that loading failed.
func (t *Table[T]) notifyLoadFailed(err error) {
	t.mx.RLock()
	log := t.log
	t.mx.RUnlock()
	log.Error("table refresh failed", "error", err)

	for _, l := range t.copyListeners() {
		l.TableLoadFailed(err)
	}
}

func (t *Table[T]) copyListeners() []TableListener[T] {
	t.mx.RLock()
	defer t.mx.RUnlock()

	listeners := make([]TableListener[T], len(t.listeners))
	copy(listeners, t.listeners)
	return listeners
}
