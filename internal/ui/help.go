// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"context"
	"sort"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const helpRows = 12

// Help lists every key binding of a component, hidden ones included.
type Help struct {
	*tview.Table

	hints   MenuHints
	styles  Styles
	closeFn func()
}

// NewHelp creates a help view for a set of hints.
func NewHelp(s Styles, hh MenuHints) *Help {
	return &Help{
		Table:  tview.NewTable(),
		hints:  hh,
		styles: s,
	}
}

// SetCloseFn sets the callback when help is closed.
func (h *Help) SetCloseFn(fn func()) {
	h.closeFn = fn
}

// Name returns the view name.
func (*Help) Name() string {
	return "help"
}

// Hints returns the help bindings.
func (*Help) Hints() MenuHints {
	return MenuHints{{Mnemonic: "Esc", Description: "Back", Visible: true}}
}

// Init builds the help table.
func (h *Help) Init(context.Context) error {
	h.SetBorder(true)
	h.SetTitle(" Help ")
	h.SetTitleAlign(tview.AlignCenter)
	h.SetBorderColor(h.styles.BorderFg)
	h.SetBackgroundColor(h.styles.Bg)
	h.SetSelectable(false, false)
	h.SetInputCapture(h.keyboard)
	h.populate()

	return nil
}

// Start does nothing.
func (*Help) Start() {}

// Stop does nothing.
func (*Help) Stop() {}

func (h *Help) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	switch AsKey(evt) {
	case tcell.KeyEsc, tcell.KeyEnter, KeyQuestion, KeyQ:
		if h.closeFn != nil {
			h.closeFn()
		}
		return nil
	}
	return evt
}

func (h *Help) populate() {
	hh := make(MenuHints, 0, len(h.hints))
	for _, m := range h.hints {
		if m.Mnemonic != "" && m.Description != "" {
			hh = append(hh, m)
		}
	}
	sort.Sort(hh)

	for i, m := range hh {
		row, col := i%helpRows, (i/helpRows)*3
		h.SetCell(row, col, tview.NewTableCell(tview.Escape("<"+m.Mnemonic+">")).
			SetTextColor(h.styles.SortFg).
			SetSelectable(false))
		h.SetCell(row, col+1, tview.NewTableCell(tview.Escape(m.Description)).
			SetTextColor(h.styles.Fg).
			SetSelectable(false).
			SetExpansion(1))
		h.SetCell(row, col+2, tview.NewTableCell("").SetSelectable(false))
	}

	footer := tview.NewTableCell("<esc> to close").
		SetTextColor(tcell.ColorGray).
		SetSelectable(false)
	h.SetCell(min(len(hh), helpRows)+1, 0, footer)
}
