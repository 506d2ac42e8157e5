// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"fmt"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// IndicatorMode represents the current input mode.
type IndicatorMode int

const (
	// ModeNormal is the default navigation mode.
	ModeNormal IndicatorMode = iota
	// ModeCommand is for entering commands (: prefix).
	ModeCommand
	// ModeFilter is for filtering rows (/ prefix).
	ModeFilter
)

// Prefix returns the prompt prefix of the mode.
func (m IndicatorMode) Prefix() string {
	switch m {
	case ModeCommand:
		return ":"
	case ModeFilter:
		return "/"
	default:
		return ""
	}
}

// CmdIndicator displays the current mode and accepts command or filter input.
// Filter edits are reported as they are typed.
type CmdIndicator struct {
	*tview.TextView

	mode      IndicatorMode
	text      []rune
	active    bool
	fg        string
	activeFn  func(bool)
	changeFn  func(IndicatorMode, string)
	executeFn func(IndicatorMode, string)
	cancelFn  func(IndicatorMode)
}

// NewCmdIndicator creates a new command indicator.
func NewCmdIndicator(s Styles) *CmdIndicator {
	c := &CmdIndicator{
		TextView: tview.NewTextView(),
		mode:     ModeNormal,
		fg:       colorTag(s.SortFg),
	}

	c.SetDynamicColors(true)
	c.SetBackgroundColor(s.Bg)
	c.SetTextColor(s.Fg)
	c.refresh()

	return c
}

// SetActiveFn sets the callback when active state changes.
func (c *CmdIndicator) SetActiveFn(fn func(bool)) {
	c.activeFn = fn
}

// SetChangeFn sets the callback when text changes.
func (c *CmdIndicator) SetChangeFn(fn func(IndicatorMode, string)) {
	c.changeFn = fn
}

// SetExecuteFn sets the callback when input is submitted.
func (c *CmdIndicator) SetExecuteFn(fn func(IndicatorMode, string)) {
	c.executeFn = fn
}

// SetCancelFn sets the callback when input is cancelled.
func (c *CmdIndicator) SetCancelFn(fn func(IndicatorMode)) {
	c.cancelFn = fn
}

// Activate enters command or filter mode with an initial text.
func (c *CmdIndicator) Activate(mode IndicatorMode, text string) {
	c.mode = mode
	c.text = []rune(text)
	c.active = true
	c.refresh()
	if c.activeFn != nil {
		c.activeFn(true)
	}
}

// Deactivate exits input mode.
func (c *CmdIndicator) Deactivate() {
	c.active = false
	c.mode = ModeNormal
	c.text = nil
	c.refresh()
	if c.activeFn != nil {
		c.activeFn(false)
	}
}

// IsActive returns whether input mode is active.
func (c *CmdIndicator) IsActive() bool {
	return c.active
}

// Mode returns the current mode.
func (c *CmdIndicator) Mode() IndicatorMode {
	return c.mode
}

// Text returns the current input text.
func (c *CmdIndicator) Text() string {
	return string(c.text)
}

// HandleKey processes keyboard input when active.
func (c *CmdIndicator) HandleKey(evt *tcell.EventKey) *tcell.EventKey {
	if !c.active {
		return evt
	}

	mode := c.mode
	switch evt.Key() {
	case tcell.KeyEsc:
		c.Deactivate()
		if c.cancelFn != nil {
			c.cancelFn(mode)
		}
		return nil

	case tcell.KeyEnter:
		text := c.Text()
		c.Deactivate()
		if c.executeFn != nil {
			c.executeFn(mode, text)
		}
		return nil

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(c.text) > 0 {
			c.text = c.text[:len(c.text)-1]
			c.changed()
		}
		return nil

	case tcell.KeyCtrlU:
		c.text = nil
		c.changed()
		return nil

	case tcell.KeyRune:
		c.text = append(c.text, evt.Rune())
		c.changed()
		return nil
	}

	return evt
}

func (c *CmdIndicator) changed() {
	c.refresh()
	if c.changeFn != nil {
		c.changeFn(c.mode, c.Text())
	}
}

func (c *CmdIndicator) refresh() {
	if !c.active {
		c.TextView.SetText("")
		return
	}
	c.TextView.SetText(fmt.Sprintf("[%s::b]%s[-::-]%s[::r] [::-]", c.fg, c.mode.Prefix(), tview.Escape(c.Text())))
}
