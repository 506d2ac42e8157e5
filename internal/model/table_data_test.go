package model

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/a1s/tabula/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int
	Name string
}

func (i item) Display(field string) (table.Cell, error) {
	switch field {
	case "id":
		return table.NumberCell(strconv.Itoa(i.ID)), nil
	case "name":
		return table.TextCell(i.Name), nil
	default:
		return table.Cell{}, table.InvalidField(field)
	}
}

func (i item) SortKey(field string) (table.Value, error) {
	switch field {
	case "id":
		return table.Int(int64(i.ID)), nil
	case "name":
		return table.String(i.Name), nil
	default:
		return table.Null(), table.InvalidField(field)
	}
}

func (i item) MatchesSearch(needle string) bool {
	return table.ContainsFold(i.Name, needle)
}

type recorder struct {
	mx      sync.Mutex
	changed []table.View[item]
	noData  int
	failed  []error
}

func (r *recorder) TableNoData(table.View[item]) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.noData++
}

func (r *recorder) TableDataChanged(v table.View[item]) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.changed = append(r.changed, v)
}

func (r *recorder) TableLoadFailed(err error) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.failed = append(r.failed, err)
}

func (r *recorder) last() table.View[item] {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.changed[len(r.changed)-1]
}

func itemColumns() table.Columns {
	return table.MustColumns(
		table.NewColumnBuilder("id").DataProperty("id").Orderable(true).Build(),
		table.NewColumnBuilder("name").DataProperty("name").Orderable(true).Build(),
		table.NewColumnBuilder("broken").DataProperty("nope").Orderable(true).Build(),
		table.NewColumnBuilder("label").DataProperty("name").Build(),
	)
}

func itemIDs(v table.View[item]) []int {
	out := make([]int, 0, len(v.Rows))
	for _, r := range v.Rows {
		out = append(out, r.ID)
	}
	return out
}

func TestTableNotifications(t *testing.T) {
	m := NewTable[item](itemColumns(), true, 0)
	var r recorder
	m.AddListener(&r)

	m.SetRows([]item{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}, {ID: 3, Name: "c"}})
	require.Len(t, r.changed, 1)
	assert.Equal(t, []int{2, 1, 3}, itemIDs(r.last()))

	assert.True(t, m.Toggle(0))
	assert.Equal(t, []int{1, 2, 3}, itemIDs(r.last()))

	m.SetPage(table.Page{Limit: 2, Index: 1})
	assert.Equal(t, []int{3}, itemIDs(r.last()))
	assert.Equal(t, 2, r.last().TotalPages)

	m.SetSearch("zorg")
	assert.Equal(t, 1, r.noData)

	m.SetSearch("zorg")
	assert.Equal(t, 1, r.noData, "unchanged search must not notify")

	assert.False(t, m.Toggle(3), "label column is not orderable")
	assert.False(t, m.Toggle(9))

	m.RemoveListener(&r)
	m.SetSearch("")
	assert.Len(t, r.changed, 3)
}

func TestTableSortBy(t *testing.T) {
	m := NewTable[item](itemColumns(), true, 0)
	m.SetRows([]item{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}, {ID: 3, Name: "c"}})

	assert.True(t, m.SortBy(0, table.Descending))
	v, err := m.View()
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, itemIDs(v))

	assert.True(t, m.SortBy(1, table.Ascending))
	assert.Equal(t, table.Unordered, m.Snapshot().Sort().At(0))
	v, err = m.View()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, itemIDs(v))

	assert.True(t, m.SortBy(1, table.Unordered))
	_, _, active := m.Snapshot().Sort().Active()
	assert.False(t, active)

	assert.False(t, m.SortBy(3, table.Ascending))
}

func TestTableSetRowsUnchanged(t *testing.T) {
	m := NewTable[item](itemColumns(), true, 0)
	var r recorder
	m.AddListener(&r)

	rows := []item{{ID: 1, Name: "a"}}
	m.SetRows(rows)
	m.SetRows(rows)
	assert.Len(t, r.changed, 1)
	assert.Equal(t, 1, m.RowCount())
}

func TestTableSortErrorReportedOnce(t *testing.T) {
	var buff bytes.Buffer
	m := NewTable[item](itemColumns(), true, 0)
	m.SetLogger(slog.New(slog.NewTextHandler(&buff, &slog.HandlerOptions{Level: slog.LevelWarn})))
	m.SetRows([]item{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}})

	require.True(t, m.Toggle(2))
	for range 3 {
		v, err := m.View()
		require.Error(t, err)
		assert.ErrorIs(t, err, table.ErrInvalidFieldName)
		assert.Equal(t, []int{2, 1}, itemIDs(v))
	}

	assert.Equal(t, 1, strings.Count(buff.String(), "table sort disabled"))
}

func TestTableStateDiff(t *testing.T) {
	m := NewTable[item](itemColumns(), true, 0)
	m.SetRows([]item{{ID: 1, Name: "a"}})
	before := m.LastState()

	m.Toggle(1)
	after := m.LastState()
	assert.Equal(t, "name", after.SortColumn)
	assert.Equal(t, "ascending", after.SortOrder)

	patch, err := Diff(before, after)
	require.NoError(t, err)

	paths := make([]string, 0, len(patch))
	for _, op := range patch {
		assert.Equal(t, "replace", op.Type)
		paths = append(paths, op.Path)
	}
	assert.ElementsMatch(t, []string{"/revision", "/sortColumn", "/sortOrder"}, paths)
}

func TestTableConcurrentWritersLastNotificationIsCurrent(t *testing.T) {
	m := NewTable[item](itemColumns(), true, 0)
	var r recorder
	m.AddListener(&r)

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				switch (w + i) % 3 {
				case 0:
					m.SetRows([]item{{ID: i, Name: strconv.Itoa(w)}, {ID: -i, Name: "z"}})
				case 1:
					m.Toggle(w % 2)
				default:
					m.SetPage(table.Page{Limit: 1 + i%2})
				}
			}
		}()
	}
	wg.Wait()

	v, _ := m.View()
	assert.Equal(t, v, r.last())
	assert.Equal(t, m.Snapshot().Revision(), m.LastState().Revision)
}

func TestTableRefresh(t *testing.T) {
	m := NewTable[item](itemColumns(), true, 0)
	require.Error(t, m.Refresh(context.Background()))

	m.SetSource(SourceFunc[item](func(context.Context) ([]item, error) {
		return []item{{ID: 1}, {ID: 2}}, nil
	}))
	require.NoError(t, m.Refresh(context.Background()))
	assert.Equal(t, 2, m.RowCount())

	m.SetSource(SourceFunc[item](func(context.Context) ([]item, error) {
		return nil, errors.New("boom")
	}))
	err := m.Refresh(context.Background())
	assert.ErrorContains(t, err, "failed to list rows: boom")
	assert.Equal(t, 2, m.RowCount())
}

func TestTableWatch(t *testing.T) {
	var (
		mx    sync.Mutex
		calls int
	)
	m := NewTable[item](itemColumns(), true, 10*time.Millisecond)
	m.SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	m.SetSource(SourceFunc[item](func(context.Context) ([]item, error) {
		mx.Lock()
		defer mx.Unlock()
		calls++
		rows := make([]item, calls)
		for i := range rows {
			rows[i] = item{ID: i}
		}
		return rows, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, m.Watch(ctx))

	assert.Eventually(t, func() bool {
		return m.RowCount() >= 3
	}, time.Second, 5*time.Millisecond)
	m.Stop()
}

func TestTableWatchFails(t *testing.T) {
	m := NewTable[item](itemColumns(), true, 0)
	m.SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	var r recorder
	m.AddListener(&r)
	m.SetSource(SourceFunc[item](func(context.Context) ([]item, error) {
		return nil, errors.New("boom")
	}))

	require.Error(t, m.Watch(context.Background()))
	require.Len(t, r.failed, 1)
	m.Stop()
}

func TestNewState(t *testing.T) {
	s := table.New(itemColumns(), []item{{ID: 1}, {ID: 2}, {ID: 3}}, true)
	v, err := s.Visible("", table.Page{Limit: 2})
	require.NoError(t, err)

	st := NewState(s, v)
	assert.Equal(t, State{
		Rows:       3,
		SortOrder:  "unordered",
		Limit:      2,
		Total:      3,
		TotalPages: 2,
	}, st)
}
