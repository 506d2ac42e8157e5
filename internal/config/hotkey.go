package config

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/a1s/tabula/internal/config/data"
	"github.com/a1s/tabula/internal/table"
)

// HotKey binds a single key to a column sort.
type HotKey struct {
	ShortCut    string `yaml:"shortCut"`
	Description string `yaml:"description"`
	Column      string `yaml:"column"`
	// Order is ascending, descending or unordered. Empty rotates the column.
	Order string `yaml:"order,omitempty"`
}

// HotKeys represents the hotkeys configuration.
type HotKeys struct {
	HotKey map[string]HotKey `yaml:"hotKeys"`
	mx     sync.RWMutex      `yaml:"-"`
}

// NewHotKeys creates an empty HotKeys configuration.
func NewHotKeys() *HotKeys {
	return &HotKeys{
		HotKey: make(map[string]HotKey),
	}
}

// Load loads hotkeys from the default config file.
// Returns an empty HotKeys if the file doesn't exist.
func (h *HotKeys) Load() error {
	return h.LoadFrom(AppHotkeysFile)
}

// LoadFrom loads hotkeys from a specific file path.
func (h *HotKeys) LoadFrom(path string) error {
	h.mx.Lock()
	defer h.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		h.HotKey = make(map[string]HotKey)
		return nil
	}

	if err := data.LoadYAML(path, h); err != nil {
		return err
	}
	if h.HotKey == nil {
		h.HotKey = make(map[string]HotKey)
	}
	for name, hk := range h.HotKey {
		if hk.ShortCut == "" || hk.Column == "" {
			return fmt.Errorf("hotkey %q needs a shortCut and a column", name)
		}
		if _, err := table.ParseOrder(hk.Order); err != nil {
			return fmt.Errorf("hotkey %q: %w", name, err)
		}
	}

	return nil
}

// Get returns a hotkey by name, or nil if not found.
func (h *HotKeys) Get(name string) *HotKey {
	h.mx.RLock()
	defer h.mx.RUnlock()

	hk, ok := h.HotKey[name]
	if !ok {
		return nil
	}

	return &hk
}

// Names returns all hotkey names.
func (h *HotKeys) Names() []string {
	h.mx.RLock()
	defer h.mx.RUnlock()

	names := make([]string, 0, len(h.HotKey))
	for name := range h.HotKey {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
