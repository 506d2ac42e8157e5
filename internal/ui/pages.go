package ui

import (
	"github.com/derailed/tview"
)

// Pages shows the top component of a stack.
type Pages struct {
	*tview.Pages

	*Stack
}

// NewPages returns a new pages manager
func NewPages() *Pages {
	p := Pages{
		Pages: tview.NewPages(),
		Stack: NewStack(),
	}
	p.Stack.AddListener(&p)

	return &p
}

// Current returns the current component, or nil.
func (p *Pages) Current() Component {
	return p.Top()
}

// StackPushed shows a new component.
func (p *Pages) StackPushed(c Component) {
	p.AddPage(c.Name(), c, true, true)
	p.SwitchToPage(c.Name())
}

// StackPopped removes a component and shows the new top.
func (p *Pages) StackPopped(old, top Component) {
	p.RemovePage(old.Name())
	if top != nil {
		p.SwitchToPage(top.Name())
		top.Start()
	}
}

// StackTop does nothing.
func (*Pages) StackTop(Component) {}
