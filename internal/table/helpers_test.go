package table

import (
	"errors"
	"strconv"
)

type line struct {
	ID    int
	Name  string
	Value int64
}

func (l line) Display(field string) (Cell, error) {
	switch field {
	case "id":
		return NumberCell(strconv.Itoa(l.ID)), nil
	case "name":
		return TextCell(l.Name), nil
	case "value":
		return NumberCell(strconv.FormatInt(l.Value, 10)), nil
	case "select":
		return Cell{}, NonRenderable(field)
	default:
		return Cell{}, InvalidField(field)
	}
}

func (l line) SortKey(field string) (Value, error) {
	switch field {
	case "id":
		return Int(int64(l.ID)), nil
	case "name":
		return String(l.Name), nil
	case "value":
		return Int(l.Value), nil
	default:
		return Null(), InvalidField(field)
	}
}

func (l line) MatchesSearch(needle string) bool {
	return ContainsFold(l.Name, needle)
}

// brokenLine fails sort key extraction for every field.
type brokenLine struct {
	line
}

func (brokenLine) SortKey(string) (Value, error) {
	return Null(), errors.New("boom")
}

func lineColumns() Columns {
	return MustColumns(
		NewColumnBuilder("id").DataProperty("id").Orderable(true).Build(),
		NewColumnBuilder("name").DataProperty("name").Orderable(true).Build(),
		NewColumnBuilder("value").DataProperty("value").Orderable(true).Build(),
	)
}

func scenarioLines() []line {
	return []line{
		{ID: 1, Name: "b", Value: 10},
		{ID: 2, Name: "a", Value: 20},
		{ID: 3, Name: "a", Value: 5},
	}
}

func ids(ll []line) []int {
	out := make([]int, 0, len(ll))
	for _, l := range ll {
		out = append(out, l.ID)
	}
	return out
}
