package ui

import (
	"context"
	"strconv"
	"sync"

	"github.com/derailed/tview"
)

// MenuHint represents a keyboard mnemonic.
type MenuHint struct {
	Mnemonic    string
	Description string
	Visible     bool
}

// IsBlank checks if menu hint is a placeholder.
func (m MenuHint) IsBlank() bool {
	return m.Mnemonic == "" && m.Description == "" && !m.Visible
}

// MenuHints represents a collection of hints.
type MenuHints []MenuHint

// Len returns the hints length.
func (h MenuHints) Len() int {
	return len(h)
}

// Swap swaps two elements.
func (h MenuHints) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Less orders numeric mnemonics first, then by description.
func (h MenuHints) Less(i, j int) bool {
	n, err1 := strconv.Atoi(h[i].Mnemonic)
	m, err2 := strconv.Atoi(h[j].Mnemonic)
	switch {
	case err1 == nil && err2 == nil:
		return n < m
	case err1 == nil:
		return true
	case err2 == nil:
		return false
	}
	if h[i].Description == h[j].Description {
		return h[i].Mnemonic < h[j].Mnemonic
	}
	return h[i].Description < h[j].Description
}

// Hinter represent a menu mnemonic provider.
type Hinter interface {
	// Hints returns a collection of menu hints.
	Hints() MenuHints
}

// Primitive represents a UI primitive.
type Primitive interface {
	tview.Primitive

	// Name returns the view name.
	Name() string
}

// Igniter represents a runnable view.
type Igniter interface {
	// Init initializes a component.
	Init(ctx context.Context) error

	// Start starts a component.
	Start()

	// Stop terminates a component.
	Stop()
}

// Component represents a ui component.
type Component interface {
	Primitive
	Igniter
	Hinter
}

// StackListener represents a stack listener.
type StackListener interface {
	// StackPushed indicates a new item was added.
	StackPushed(Component)

	// StackPopped indicates an item was deleted
	StackPopped(old, new Component)

	// StackTop indicates the top of the stack
	StackTop(Component)
}

// StackAction represents an action on the stack.
type StackAction int

const (
	// StackPush denotes an add on the stack.
	StackPush StackAction = 1 << iota

	// StackPop denotes a delete on the stack.
	StackPop
)

// Stack represents a stack of components. Pushing stops the previous top
// and popping stops the removed component.
type Stack struct {
	components []Component
	listeners  []StackListener
	mx         sync.RWMutex
}

// NewStack returns a new initialized stack.
func NewStack() *Stack {
	return &Stack{}
}

// Flatten returns the component names, bottom first.
func (s *Stack) Flatten() []string {
	s.mx.RLock()
	defer s.mx.RUnlock()

	ss := make([]string, len(s.components))
	for i, c := range s.components {
		ss[i] = c.Name()
	}
	return ss
}

// AddListener registers a stack listener.
func (s *Stack) AddListener(l StackListener) {
	s.mx.Lock()
	s.listeners = append(s.listeners, l)
	s.mx.Unlock()
	if top := s.Top(); top != nil {
		l.StackTop(top)
	}
}

// Push adds a new item.
func (s *Stack) Push(c Component) {
	if top := s.Top(); top != nil {
		top.Stop()
	}

	s.mx.Lock()
	s.components = append(s.components, c)
	s.mx.Unlock()
	s.notify(StackPush, c)
}

// Pop removed the top item and returns it.
func (s *Stack) Pop() (Component, bool) {
	s.mx.Lock()
	if len(s.components) == 0 {
		s.mx.Unlock()
		return nil, false
	}
	c := s.components[len(s.components)-1]
	s.components = s.components[:len(s.components)-1]
	s.mx.Unlock()

	c.Stop()
	s.notify(StackPop, c)

	return c, true
}

// Empty returns true if the stack is empty.
func (s *Stack) Empty() bool {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return len(s.components) == 0
}

// IsLast returns true if a single component is left.
func (s *Stack) IsLast() bool {
	s.mx.RLock()
	defer s.mx.RUnlock()

	return len(s.components) == 1
}

// Top returns the top most item or nil if the stack is empty.
func (s *Stack) Top() Component {
	s.mx.RLock()
	defer s.mx.RUnlock()

	if len(s.components) == 0 {
		return nil
	}
	return s.components[len(s.components)-1]
}

func (s *Stack) notify(a StackAction, c Component) {
	s.mx.RLock()
	ll := make([]StackListener, len(s.listeners))
	copy(ll, s.listeners)
	s.mx.RUnlock()

	top := s.Top()
	for _, l := range ll {
		switch a {
		case StackPush:
			l.StackPushed(c)
		case StackPop:
			l.StackPopped(c, top)
		}
	}
}
