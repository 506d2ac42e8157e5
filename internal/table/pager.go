package table

// Page describes a pagination window. A Limit <= 0 disables pagination.
type Page struct {
	Limit int
	Index int
}

// Paginated returns true if the page has a limit.
func (p Page) Paginated() bool {
	return p.Limit > 0
}

// TotalPages returns the number of pages needed to show total rows.
// Zero rows need zero pages; an unpaginated view is a single page.
func TotalPages(total, limit int) int {
	if total <= 0 {
		return 0
	}
	if limit <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// Paginate returns the rows that fall on the page. An out of range page
// yields an empty slice.
func Paginate[T any](rows []T, p Page) []T {
	if !p.Paginated() {
		return rows
	}
	if p.Index < 0 || p.Index >= TotalPages(len(rows), p.Limit) {
		return []T{}
	}
	start := p.Index * p.Limit
	end := min(start+p.Limit, len(rows))

	return rows[start:end:end]
}

// Pager computes the page numbers and navigation state of a pagination
// control.
type Pager struct {
	Current    int
	TotalPages int
	Pages      []int
}

// NewPager returns a pager for total rows at limit rows per page. When
// maxPages > 0 at most maxPages page numbers are listed, centred on the
// current page.
func NewPager(total, limit, current, maxPages int) Pager {
	tp := 0
	if limit > 0 {
		tp = TotalPages(total, limit)
	}
	p := Pager{Current: current, TotalPages: tp}

	start, end := 0, tp
	if maxPages > 0 && maxPages < tp {
		half := maxPages / 2
		switch {
		case current < half:
			start = 0
		case current >= tp-half:
			start = tp - maxPages
		default:
			start = current - half
		}
		end = start + maxPages
	}

	p.Pages = make([]int, 0, end-start)
	for i := start; i < end; i++ {
		p.Pages = append(p.Pages, i)
	}

	return p
}

// HasPrev returns true if a previous page exists.
func (p Pager) HasPrev() bool {
	return p.Current > 0 && p.TotalPages > 0
}

// HasNext returns true if a next page exists.
func (p Pager) HasNext() bool {
	return p.Current < p.TotalPages-1
}

// Prev returns the previous page index, clamped to the first page.
func (p Pager) Prev() int {
	if !p.HasPrev() {
		return 0
	}
	return min(p.Current, p.TotalPages) - 1
}

// Next returns the next page index, clamped to the last page.
func (p Pager) Next() int {
	if !p.HasNext() {
		return p.Last()
	}
	return max(p.Current, -1) + 1
}

// First returns the first page index.
func (p Pager) First() int {
	return 0
}

// Last returns the last page index.
func (p Pager) Last() int {
	if p.TotalPages == 0 {
		return 0
	}
	return p.TotalPages - 1
}

// IsCurrent returns true if page is the current page.
func (p Pager) IsCurrent(page int) bool {
	return page == p.Current
}
