package ui

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/derailed/tcell/v2"
)

// Rune keys bound as tcell keys.
const (
	KeySlash    = tcell.Key('/')
	KeyColon    = tcell.Key(':')
	KeyQuestion = tcell.Key('?')
	KeyG        = tcell.Key('g')
	KeyShiftG   = tcell.Key('G')
	KeyJ        = tcell.Key('j')
	KeyShiftJ   = tcell.Key('J')
	KeyK        = tcell.Key('k')
	KeyN        = tcell.Key('n')
	KeyP        = tcell.Key('p')
	KeyQ        = tcell.Key('q')
	KeyW        = tcell.Key('w')
	KeyY        = tcell.Key('y')
	Key0        = tcell.Key('0')
	Key1        = tcell.Key('1')
	Key9        = tcell.Key('9')
)

// ActionHandler handles a keyboard command.
type ActionHandler func(*tcell.EventKey) *tcell.EventKey

// KeyAction represents a keyboard action.
type KeyAction struct {
	Description string
	Action      ActionHandler
	Visible     bool
}

// NewKeyAction returns a new keyboard action.
func NewKeyAction(d string, a ActionHandler, display bool) KeyAction {
	return KeyAction{Description: d, Action: a, Visible: display}
}

// KeyMap tracks key to action mappings.
type KeyMap map[tcell.Key]KeyAction

// KeyActions tracks the actions of a component.
type KeyActions struct {
	actions KeyMap
	mx      sync.RWMutex
}

// NewKeyActions returns an empty action set.
func NewKeyActions() *KeyActions {
	return &KeyActions{actions: make(KeyMap)}
}

// Add registers or replaces an action.
func (a *KeyActions) Add(k tcell.Key, ka KeyAction) {
	a.mx.Lock()
	defer a.mx.Unlock()
	a.actions[k] = ka
}

// Bulk registers several actions.
func (a *KeyActions) Bulk(m KeyMap) {
	a.mx.Lock()
	defer a.mx.Unlock()
	for k, v := range m {
		a.actions[k] = v
	}
}

// Get returns the action bound to a key.
func (a *KeyActions) Get(k tcell.Key) (KeyAction, bool) {
	a.mx.RLock()
	defer a.mx.RUnlock()
	v, ok := a.actions[k]
	return v, ok
}

// Delete unbinds keys.
func (a *KeyActions) Delete(kk ...tcell.Key) {
	a.mx.Lock()
	defer a.mx.Unlock()
	for _, k := range kk {
		delete(a.actions, k)
	}
}

// Len returns the number of bound keys.
func (a *KeyActions) Len() int {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return len(a.actions)
}

// Hints returns menu hints for the bound keys.
func (a *KeyActions) Hints() MenuHints {
	a.mx.RLock()
	defer a.mx.RUnlock()

	hh := make(MenuHints, 0, len(a.actions))
	for k, v := range a.actions {
		hh = append(hh, MenuHint{
			Mnemonic:    KeyName(k),
			Description: v.Description,
			Visible:     v.Visible,
		})
	}
	sort.Sort(hh)

	return hh
}

// KeyName returns the display name of a key.
func KeyName(k tcell.Key) string {
	if name, ok := tcell.KeyNames[k]; ok {
		return name
	}
	if k > 0 && k < 0x7f {
		return string(rune(k))
	}
	return fmt.Sprintf("%d", k)
}

// ParseKey parses a hotkey shortcut such as "Shift-S", "Ctrl-R", "F5" or a
// single character.
func ParseKey(s string) (tcell.Key, error) {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) == 1 {
		return tcell.Key(r[0]), nil
	}
	for k, name := range tcell.KeyNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	if rest, ok := cutFold(s, "Shift-"); ok {
		if r := []rune(rest); len(r) == 1 {
			return tcell.Key([]rune(strings.ToUpper(rest))[0]), nil
		}
	}

	return 0, fmt.Errorf("unknown key %q", s)
}

func cutFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// AsKey maps a rune event onto its rune key so actions can bind printable
// characters.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}
	return tcell.Key(evt.Rune())
}
