package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	rows := []line{
		{ID: 1, Name: "Big Brown Fox"},
		{ID: 2, Name: "Lazy Dog"},
		{ID: 3, Name: "Quick Brown Fox"},
	}

	uu := map[string]struct {
		needle string
		want   []int
	}{
		"none":        {want: []int{1, 2, 3}},
		"lower":       {needle: "fox", want: []int{1, 3}},
		"upper":       {needle: "FOX", want: []int{1, 3}},
		"middle":      {needle: "y d", want: []int{2}},
		"nothing":     {needle: "cat", want: []int{}},
		"exact-match": {needle: "lazy dog", want: []int{2}},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			got := Filter(rows, u.needle)
			assert.Equal(t, u.want, ids(got))
			assert.Equal(t, got, Filter(got, u.needle), "filter must be idempotent")
		})
	}
}

func TestSortScenario(t *testing.T) {
	cols := lineColumns()
	rows := scenarioLines()

	asc, err := Sort(rows, cols, NewSortState(3).Toggle(1))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 1}, ids(asc))

	desc, err := Sort(rows, cols, NewSortState(3).Toggle(1).Toggle(1))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids(desc))

	assert.Equal(t, []int{1, 2, 3}, ids(rows), "input must not be reordered")
}

func TestSortStability(t *testing.T) {
	cols := lineColumns()
	rows := []line{
		{ID: 1, Name: "x", Value: 2},
		{ID: 2, Name: "x", Value: 1},
		{ID: 3, Name: "x", Value: 2},
		{ID: 4, Name: "x", Value: 1},
		{ID: 5, Name: "x", Value: 3},
	}

	asc, err := Sort(rows, cols, SortState{Unordered, Unordered, Ascending})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 1, 3, 5}, ids(asc))

	desc, err := Sort(rows, cols, SortState{Unordered, Unordered, Descending})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 1, 3, 2, 4}, ids(desc))
}

func TestSortUnbound(t *testing.T) {
	cols := MustColumns(
		NewColumnBuilder("id").Orderable(true).Build(),
		NewColumnBuilder("name").DataProperty("name").Build(),
	)
	rows := scenarioLines()

	got, err := Sort(rows, cols, SortState{Ascending, Unordered})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids(got))

	got, err = Sort(rows, cols, SortState{Unordered, Unordered})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids(got))
}

func TestSortKeyFailure(t *testing.T) {
	cols := MustColumns(NewColumnBuilder("bad").DataProperty("nope").Orderable(true).Build())
	rows := scenarioLines()

	_, err := Sort(rows, cols, SortState{Ascending})
	require.Error(t, err)

	var serr *SortError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "bad", serr.Column)
	assert.Equal(t, "nope", serr.Field)
	assert.Equal(t, 0, serr.Row)
	assert.ErrorIs(t, err, ErrInvalidFieldName)
}

func TestPipelineSortFailureFallsBack(t *testing.T) {
	rows := []brokenLine{
		{line{ID: 3, Name: "c"}},
		{line{ID: 1, Name: "a"}},
		{line{ID: 2, Name: "b"}},
	}

	v, err := Pipeline(rows, lineColumns(), SortState{Ascending, Unordered, Unordered}, "", Page{})
	require.Error(t, err)
	assert.Len(t, v.Rows, 3)
	assert.Equal(t, 3, v.Rows[0].ID)
	assert.Equal(t, 3, v.Total)
}

func TestPaginate(t *testing.T) {
	rows := []int{0, 1, 2, 3, 4}

	uu := map[string]struct {
		page Page
		want []int
	}{
		"unpaginated": {page: Page{}, want: []int{0, 1, 2, 3, 4}},
		"first":       {page: Page{Limit: 2}, want: []int{0, 1}},
		"second":      {page: Page{Limit: 2, Index: 1}, want: []int{2, 3}},
		"last":        {page: Page{Limit: 2, Index: 2}, want: []int{4}},
		"beyond":      {page: Page{Limit: 2, Index: 3}, want: []int{}},
		"negative":    {page: Page{Limit: 2, Index: -1}, want: []int{}},
		"big-limit":   {page: Page{Limit: 10}, want: []int{0, 1, 2, 3, 4}},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.want, Paginate(rows, u.page))
		})
	}
}

func TestPaginateCoversAll(t *testing.T) {
	for total := 0; total < 12; total++ {
		rows := make([]int, total)
		for i := range rows {
			rows[i] = i
		}
		for limit := 1; limit < 6; limit++ {
			tp := TotalPages(total, limit)
			var all []int
			for p := range tp {
				page := Paginate(rows, Page{Limit: limit, Index: p})
				require.NotEmpty(t, page)
				all = append(all, page...)
			}
			if total == 0 {
				assert.Zero(t, tp)
				assert.Empty(t, all)
				continue
			}
			assert.Equal(t, rows, all, "total=%d limit=%d", total, limit)
		}
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 2))
	assert.Equal(t, 3, TotalPages(5, 2))
	assert.Equal(t, 2, TotalPages(4, 2))
	assert.Equal(t, 1, TotalPages(4, 0))
	assert.Equal(t, 0, TotalPages(0, 0))
}

func TestPipelinePaginationScenario(t *testing.T) {
	rows := []line{
		{ID: 5, Name: "e"},
		{ID: 1, Name: "a"},
		{ID: 4, Name: "d"},
		{ID: 2, Name: "b"},
		{ID: 3, Name: "c"},
	}
	sort := NewSortState(3).Toggle(0)

	v, err := Pipeline(rows, lineColumns(), sort, "", Page{Limit: 2, Index: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, ids(v.Rows))
	assert.Equal(t, 5, v.Total)
	assert.Equal(t, 3, v.TotalPages)

	v, err = Pipeline(rows, lineColumns(), sort, "", Page{Limit: 2, Index: 3})
	require.NoError(t, err)
	assert.True(t, v.Empty())
	assert.Equal(t, 3, v.TotalPages)
}

func TestPipelineStageOrder(t *testing.T) {
	rows := []line{
		{ID: 1, Name: "fox c", Value: 3},
		{ID: 2, Name: "dog", Value: 0},
		{ID: 3, Name: "fox a", Value: 1},
		{ID: 4, Name: "fox b", Value: 2},
	}

	v, err := Pipeline(rows, lineColumns(), SortState{Unordered, Unordered, Descending}, "FOX", Page{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, ids(v.Rows))
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, 2, v.TotalPages)
	assert.Equal(t, "FOX", v.Search)
}

func TestPipelineEmpty(t *testing.T) {
	v, err := Pipeline([]line(nil), lineColumns(), NewSortState(3), "x", Page{Limit: 3})
	require.NoError(t, err)
	assert.True(t, v.Empty())
	assert.Zero(t, v.TotalPages)
}

func TestViewCells(t *testing.T) {
	cols := MustColumns(
		NewColumnBuilder("select").Build(),
		NewColumnBuilder("ID").DataProperty("id").Build(),
		NewColumnBuilder("name").Build(),
		NewColumnBuilder("missing").DataProperty("nope").Build(),
	)
	v := View[line]{Columns: cols}

	cells, errs := v.Cells(line{ID: 7, Name: "fred"})
	require.Len(t, cells, 4)
	assert.Equal(t, Cell{}, cells[0])
	assert.Equal(t, NumberCell("7"), cells[1])
	assert.Equal(t, TextCell("fred"), cells[2])
	assert.Equal(t, Cell{}, cells[3])

	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], ErrNonRenderableField)
	assert.ErrorIs(t, errs[1], ErrInvalidFieldName)
}

func TestRenderCell(t *testing.T) {
	c, err := RenderCell(line{Name: "fred"}, NewColumnBuilder("Name").DataProperty("name").Build())
	require.NoError(t, err)
	assert.Equal(t, "fred", c.Text)

	_, err = RenderCell(line{}, NewColumnBuilder("blee").Build())
	assert.ErrorIs(t, err, ErrInvalidFieldName)
	assert.Equal(t, `invalid field name given: "blee"`, err.Error())
}
