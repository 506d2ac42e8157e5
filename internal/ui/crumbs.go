// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"strings"

	"github.com/derailed/tview"
)

// Crumbs represents user breadcrumbs.
type Crumbs struct {
	*tview.TextView

	stack        *Stack
	active, idle string
}

// NewCrumbs returns a breadcrumb view tracking a component stack.
func NewCrumbs(s Styles, stack *Stack) *Crumbs {
	c := &Crumbs{
		TextView: tview.NewTextView(),
		stack:    stack,
		active:   colorTag(s.SortFg),
		idle:     colorTag(s.BorderFg),
	}
	c.SetBackgroundColor(s.Bg)
	c.SetTextAlign(tview.AlignLeft)
	c.SetBorderPadding(0, 0, 1, 1)
	c.SetDynamicColors(true)

	return c
}

// StackPushed indicates a new item was added.
func (c *Crumbs) StackPushed(Component) {
	c.refresh(c.stack.Flatten())
}

// StackPopped indicates an item was deleted.
func (c *Crumbs) StackPopped(_, _ Component) {
	c.refresh(c.stack.Flatten())
}

// StackTop indicates the top of the stack.
func (c *Crumbs) StackTop(Component) {
	c.refresh(c.stack.Flatten())
}

func (c *Crumbs) refresh(crumbs []string) {
	c.Clear()
	last := len(crumbs) - 1

	for i, crumb := range crumbs {
		color, attr := c.idle, "-"
		if i == last {
			color, attr = c.active, "b"
		}
		_, _ = fmt.Fprintf(c, "[%s::%s] <%s> [-::-] ", color, attr,
			tview.Escape(strings.ReplaceAll(strings.ToLower(crumb), " ", "")))
	}
}
