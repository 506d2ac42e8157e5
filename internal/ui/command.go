package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a1s/tabula/internal/table"
)

// Commander represents a component accepting prompt commands.
type Commander interface {
	// Command runs a single command line.
	Command(line string) error
}

// Command runs a table command:
//
//	sort <column> [asc|desc|none]
//	page <n>|first|last|next|prev
//	filter [needle]
//	refresh
func (t *Table[T]) Command(line string) error {
	name, args := parseCommand(line)
	switch name {
	case "sort", "s":
		if len(args) == 0 {
			return fmt.Errorf("sort needs a column")
		}
		o := table.Ascending
		if len(args) > 1 {
			var err error
			if o, err = table.ParseOrder(args[1]); err != nil {
				return err
			}
		}
		return t.SortColumn(args[0], o)

	case "page", "p":
		if len(args) != 1 {
			return fmt.Errorf("page needs a page number")
		}
		return t.pageCommand(args[0])

	case "filter", "f":
		t.SetFilter(strings.Join(args, " "))
		return nil

	case "refresh", "r":
		t.refreshHandler(nil)
		return nil

	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

func (t *Table[T]) pageCommand(arg string) error {
	if !t.model.Page().Paginated() {
		return fmt.Errorf("pagination is disabled")
	}
	p := t.CurrentView().Pager(t.maxPages)
	switch arg {
	case "first":
		t.GotoPage(0)
	case "last":
		t.GotoPage(p.Last())
	case "next":
		t.GotoPage(p.Next())
	case "prev":
		t.GotoPage(p.Prev())
	default:
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page %q", arg)
		}
		t.GotoPage(n - 1)
	}

	return nil
}

func parseCommand(line string) (string, []string) {
	ff := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	if len(ff) == 0 {
		return "", nil
	}
	return strings.ToLower(ff[0]), ff[1:]
}
