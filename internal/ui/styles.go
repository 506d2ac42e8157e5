package ui

import (
	"github.com/a1s/tabula/internal/config/data"
	"github.com/derailed/tcell/v2"
)

// Styles holds the resolved colors of the table views.
type Styles struct {
	Fg         tcell.Color
	Bg         tcell.Color
	HeaderFg   tcell.Color
	SortFg     tcell.Color
	SelectedFg tcell.Color
	SelectedBg tcell.Color
	BorderFg   tcell.Color
}

// NewStyles resolves configured color names. Unknown names fall back to the
// terminal default.
func NewStyles(s data.Styles) Styles {
	s.Validate()
	return Styles{
		Fg:         tcell.GetColor(s.Fg),
		Bg:         tcell.GetColor(s.Bg),
		HeaderFg:   tcell.GetColor(s.HeaderFg),
		SortFg:     tcell.GetColor(s.SortFg),
		SelectedFg: tcell.GetColor(s.SelectedFg),
		SelectedBg: tcell.GetColor(s.SelectedBg),
		BorderFg:   tcell.GetColor(s.BorderFg),
	}
}

// DefaultStyles returns the built in colors.
func DefaultStyles() Styles {
	return NewStyles(data.Styles{})
}

// Selected returns the style of the selected row.
func (s Styles) Selected() tcell.Style {
	return tcell.StyleDefault.Foreground(s.SelectedFg).Background(s.SelectedBg)
}
