// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	menuIndexFmt = " [%s::b]<%d>[%s::-] %s "
	menuPlainFmt = " [%s::b]<%s>[%s::-] %s "
	maxRows      = 6
)

// Menu presents the key bindings of the top component.
type Menu struct {
	*tview.Table

	keyColor, textColor string
}

// NewMenu returns a new menu.
func NewMenu(s Styles) *Menu {
	m := &Menu{
		Table:     tview.NewTable(),
		keyColor:  colorTag(s.HeaderFg),
		textColor: colorTag(s.Fg),
	}
	m.SetBackgroundColor(s.Bg)
	m.SetBorderPadding(0, 0, 1, 1)

	return m
}

// HydrateMenu populate menu ui from hints.
func (m *Menu) HydrateMenu(hh MenuHints) {
	m.Clear()
	sort.Sort(hh)

	visible := make(MenuHints, 0, len(hh))
	for _, h := range hh {
		if h.Visible && !h.IsBlank() {
			visible = append(visible, h)
		}
	}

	for i, h := range visible {
		c := tview.NewTableCell(m.formatMenu(h))
		c.SetBackgroundColor(tcell.ColorDefault)
		m.SetCell(i%maxRows, i/maxRows, c)
	}
}

func (m *Menu) formatMenu(h MenuHint) string {
	if h.Mnemonic == "" || h.Description == "" {
		return ""
	}

	desc := tview.Escape(h.Description)
	if i, err := strconv.Atoi(h.Mnemonic); err == nil {
		return fmt.Sprintf(menuIndexFmt, m.keyColor, i, m.textColor, desc)
	}

	return fmt.Sprintf(menuPlainFmt, m.keyColor, tview.Escape(h.Mnemonic), m.textColor, desc)
}

// StackPushed notifies a component was added.
func (m *Menu) StackPushed(c Component) {
	m.HydrateMenu(c.Hints())
}

// StackPopped notifies a component was removed.
func (m *Menu) StackPopped(_, top Component) {
	if top == nil {
		m.Clear()
		return
	}
	m.HydrateMenu(top.Hints())
}

// StackTop notifies the top component.
func (m *Menu) StackTop(t Component) {
	m.HydrateMenu(t.Hints())
}

func colorTag(c tcell.Color) string {
	if c == tcell.ColorDefault {
		return "-"
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
