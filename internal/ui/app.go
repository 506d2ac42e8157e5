// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2024 a1s Contributors

package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/a1s/tabula/internal/config/data"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Filterable represents a component filtered from the prompt.
type Filterable interface {
	// Filter returns the current needle.
	Filter() string

	// SetFilter sets the needle.
	SetFilter(string)
}

// Promptable represents a component wired to the application chrome.
type Promptable interface {
	SetPromptFn(func(IndicatorMode))
	SetErrorFn(func(error))
	SetQueue(func(func()))
}

// Navigable represents a component presenting other components.
type Navigable interface {
	SetShowFn(func(Component))
}

// Closable represents a component dismissing itself.
type Closable interface {
	SetCloseFn(func())
}

// App represents the terminal application hosting table views.
type App struct {
	*tview.Application

	styles  Styles
	content *Pages
	menu    *Menu
	crumbs  *Crumbs
	flash   *Flash
	prompt  *CmdIndicator
	log     *slog.Logger
	running bool
	mx      sync.RWMutex
}

// NewApp creates a new application instance.
func NewApp(cfg data.UI, log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := App{
		Application: tview.NewApplication(),
		styles:      NewStyles(cfg.Styles),
		content:     NewPages(),
		log:         log,
	}
	a.menu = NewMenu(a.styles)
	a.crumbs = NewCrumbs(a.styles, a.content.Stack)
	a.flash = NewFlash(a.styles, a.QueueUpdateDraw)
	a.prompt = NewCmdIndicator(a.styles)

	a.content.AddListener(a.menu)
	a.content.AddListener(a.crumbs)
	a.prompt.SetChangeFn(a.promptChanged)
	a.prompt.SetExecuteFn(a.promptExecuted)
	a.prompt.SetCancelFn(a.promptCancelled)

	a.EnableMouse(cfg.EnableMouse)
	a.Application.SetInputCapture(a.keyboard)

	return &a
}

// Styles returns the resolved colors.
func (a *App) Styles() Styles {
	return a.styles
}

// Flash returns the flash message handler.
func (a *App) Flash() *Flash {
	return a.flash
}

// Content returns the component stack.
func (a *App) Content() *Pages {
	return a.content
}

// Run shows root and blocks until the user quits or ctx is done.
func (a *App) Run(ctx context.Context, root Component) error {
	if p, ok := root.(Promptable); ok {
		p.SetPromptFn(a.activatePrompt)
		p.SetErrorFn(a.flash.Err)
		p.SetQueue(a.QueueUpdateDraw)
	}
	if n, ok := root.(Navigable); ok {
		n.SetShowFn(a.show)
	}
	if err := root.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", root.Name(), err)
	}
	a.content.Push(root)
	root.Start()

	a.SetRoot(a.layout(), true)
	a.SetFocus(a.content)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		a.Stop()
	}()

	a.mx.Lock()
	a.running = true
	a.mx.Unlock()
	defer func() {
		a.mx.Lock()
		a.running = false
		a.mx.Unlock()
	}()

	return a.Application.Run()
}

// IsRunning returns whether the application is currently running.
func (a *App) IsRunning() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.running
}

// QueueUpdateDraw queues a function to be executed on the UI thread.
func (a *App) QueueUpdateDraw(fn func()) {
	go a.Application.QueueUpdateDraw(fn)
}

func (a *App) layout() *tview.Flex {
	status := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.crumbs, 0, 1, false).
		AddItem(a.flash, 0, 2, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.menu, maxRows, 0, false).
		AddItem(a.prompt, 1, 0, false).
		AddItem(a.content, 0, 1, true).
		AddItem(status, 1, 0, false)
}

func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if a.prompt.IsActive() {
		return a.prompt.HandleKey(evt)
	}

	switch AsKey(evt) {
	case tcell.KeyCtrlC:
		a.Stop()
		return nil
	case KeyQuestion:
		if _, ok := a.content.Top().(*Help); !ok {
			a.showHelp()
			return nil
		}
	case KeyQ:
		if a.content.IsLast() {
			a.Stop()
			return nil
		}
	case tcell.KeyEsc:
		if _, ok := a.content.Top().(*Help); ok {
			a.popView()
			return nil
		}
	}

	return evt
}

func (a *App) showHelp() {
	top := a.content.Top()
	if top == nil {
		return
	}
	a.show(NewHelp(a.styles, top.Hints()))
}

// show pushes a component over the current one.
func (a *App) show(c Component) {
	if cl, ok := c.(Closable); ok {
		cl.SetCloseFn(a.popView)
	}
	if err := c.Init(context.Background()); err != nil {
		a.flash.Err(err)
		return
	}
	a.content.Push(c)
	a.SetFocus(a.content)
}

func (a *App) popView() {
	if a.content.IsLast() {
		return
	}
	a.content.Pop()
	a.SetFocus(a.content)
}

func (a *App) activatePrompt(mode IndicatorMode) {
	text := ""
	if f, ok := a.content.Top().(Filterable); ok && mode == ModeFilter {
		text = f.Filter()
	}
	a.prompt.Activate(mode, text)
}

func (a *App) promptChanged(mode IndicatorMode, text string) {
	if mode != ModeFilter {
		return
	}
	if f, ok := a.content.Top().(Filterable); ok {
		f.SetFilter(text)
	}
}

func (a *App) promptExecuted(mode IndicatorMode, text string) {
	if mode == ModeFilter {
		a.promptChanged(mode, text)
		return
	}
	if err := a.command(text); err != nil {
		a.flash.Err(err)
	}
}

func (a *App) promptCancelled(mode IndicatorMode) {
	a.promptChanged(mode, "")
}

// command runs application commands, handing the rest to the top component.
func (a *App) command(line string) error {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return nil
	case "q", "quit", "q!":
		a.Stop()
		return nil
	case "help", "?":
		a.showHelp()
		return nil
	}

	c, ok := a.content.Top().(Commander)
	if !ok {
		return fmt.Errorf("unknown command %q", line)
	}
	a.log.Debug("running command", "view", a.content.Top().Name(), "command", line)

	return c.Command(line)
}
