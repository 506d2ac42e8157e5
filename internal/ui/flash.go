package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// FlashDelay sets the flash auto-clear delay.
const FlashDelay = 5 * time.Second

// FlashLevel represents flash message severity.
type FlashLevel int

const (
	// FlashInfo represents an info message.
	FlashInfo FlashLevel = iota
	// FlashWarn represents a warning message.
	FlashWarn
	// FlashErr represents an error message.
	FlashErr
)

// Flash shows transient status messages.
type Flash struct {
	*tview.TextView

	queue  func(func())
	delay  time.Duration
	cancel context.CancelFunc
	mx     sync.Mutex
}

// NewFlash creates a new flash line. Updates are scheduled through queue.
func NewFlash(s Styles, queue func(func())) *Flash {
	if queue == nil {
		queue = func(f func()) { f() }
	}
	f := Flash{
		TextView: tview.NewTextView(),
		queue:    queue,
		delay:    FlashDelay,
	}
	f.SetDynamicColors(true)
	f.SetTextAlign(tview.AlignLeft)
	f.SetBorderPadding(0, 0, 1, 1)
	f.SetBackgroundColor(s.Bg)

	return &f
}

// Info displays an informational message.
func (f *Flash) Info(msg string) {
	f.setMessage(FlashInfo, msg)
}

// Infof displays a formatted informational message.
func (f *Flash) Infof(format string, args ...any) {
	f.Info(fmt.Sprintf(format, args...))
}

// Warn displays a warning message.
func (f *Flash) Warn(msg string) {
	f.setMessage(FlashWarn, msg)
}

// Err displays an error message.
func (f *Flash) Err(err error) {
	if err != nil {
		f.setMessage(FlashErr, err.Error())
	}
}

// Clear clears the flash message.
func (f *Flash) Clear() {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	f.queue(func() { f.TextView.Clear() })
}

func (f *Flash) setMessage(level FlashLevel, msg string) {
	if msg == "" {
		f.Clear()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.cancel = cancel
	f.mx.Unlock()

	f.queue(func() {
		f.TextView.Clear()
		f.SetTextColor(flashColor(level))
		_, _ = fmt.Fprintf(f.TextView, "%s %s", flashPrefix(level), tview.Escape(msg))
	})

	go f.autoClear(ctx)
}

func (f *Flash) autoClear(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(f.delay):
		f.queue(func() { f.TextView.Clear() })
	}
}

func flashColor(level FlashLevel) tcell.Color {
	switch level {
	case FlashWarn:
		return tcell.ColorYellow
	case FlashErr:
		return tcell.ColorRed
	default:
		return tcell.ColorGreen
	}
}

func flashPrefix(level FlashLevel) string {
	switch level {
	case FlashWarn:
		return tview.Escape("[WARN]")
	case FlashErr:
		return tview.Escape("[ERROR]")
	default:
		return tview.Escape("[INFO]")
	}
}
