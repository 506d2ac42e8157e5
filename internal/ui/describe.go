// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of a1s

package ui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Detail formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Field is a labeled cell of the described row.
type Field struct {
	Name  string
	Value string
}

// Describe displays every column of a single row.
type Describe struct {
	*tview.TextView

	title   string
	fields  []Field
	format  string
	wrapOn  bool
	styles  Styles
	actions *KeyActions
	closeFn func()
}

// NewDescribe creates a detail view over the given fields.
func NewDescribe(s Styles, title string, ff []Field) *Describe {
	d := Describe{
		TextView: tview.NewTextView(),
		title:    title,
		fields:   ff,
		format:   FormatYAML,
		styles:   s,
		actions:  NewKeyActions(),
	}
	d.bindKeys()

	return &d
}

// SetCloseFn sets the callback for back navigation.
func (d *Describe) SetCloseFn(fn func()) {
	d.closeFn = fn
}

// Name returns the view name.
func (*Describe) Name() string {
	return "describe"
}

// Hints returns the menu hints for this view.
func (d *Describe) Hints() MenuHints {
	return d.actions.Hints()
}

// Format returns the active output format.
func (d *Describe) Format() string {
	return d.format
}

// Init initializes the describe view.
func (d *Describe) Init(context.Context) error {
	d.SetDynamicColors(false)
	d.SetWrap(false)
	d.SetWordWrap(false)
	d.SetScrollable(true)
	d.SetBorder(true)
	d.SetBorderPadding(0, 0, 1, 1)
	d.SetBorderColor(d.styles.BorderFg)
	d.SetBackgroundColor(d.styles.Bg)
	d.SetTextColor(d.styles.Fg)
	d.SetInputCapture(d.keyboard)

	return d.render()
}

// Start does nothing.
func (*Describe) Start() {}

// Stop does nothing.
func (*Describe) Stop() {}

func (d *Describe) bindKeys() {
	d.actions.Bulk(KeyMap{
		KeyY:         NewKeyAction("YAML", d.formatCmd(FormatYAML), true),
		KeyShiftJ:    NewKeyAction("JSON", d.formatCmd(FormatJSON), true),
		KeyW:         NewKeyAction("Wrap", d.toggleWrap, true),
		tcell.KeyEsc: NewKeyAction("Back", d.backCmd, true),
		KeyQ:         NewKeyAction("Back", d.backCmd, false),
	})
}

func (d *Describe) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, _ := d.GetScrollOffset()
	switch AsKey(evt) {
	case tcell.KeyDown, KeyJ:
		d.ScrollTo(row+1, 0)
		return nil
	case tcell.KeyUp, KeyK:
		d.ScrollTo(max(row-1, 0), 0)
		return nil
	case tcell.KeyHome, KeyG:
		d.ScrollToBeginning()
		return nil
	case tcell.KeyEnd, KeyShiftG:
		d.ScrollToEnd()
		return nil
	}

	if a, ok := d.actions.Get(AsKey(evt)); ok {
		return a.Action(evt)
	}

	return evt
}

func (d *Describe) formatCmd(format string) ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		d.format = format
		if err := d.render(); err != nil {
			d.SetText(err.Error())
		}
		return nil
	}
}

func (d *Describe) toggleWrap(*tcell.EventKey) *tcell.EventKey {
	d.wrapOn = !d.wrapOn
	d.SetWrap(d.wrapOn)
	d.SetWordWrap(d.wrapOn)
	return nil
}

func (d *Describe) backCmd(*tcell.EventKey) *tcell.EventKey {
	if d.closeFn != nil {
		d.closeFn()
	}
	return nil
}

func (d *Describe) render() error {
	var (
		raw []byte
		err error
	)
	switch d.format {
	case FormatJSON:
		raw, err = FieldsJSON(d.fields)
	default:
		raw, err = FieldsYAML(d.fields)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", d.format, err)
	}

	d.Clear()
	d.SetText(string(raw))
	d.SetTitle(fmt.Sprintf(" %s (%s) ", tview.Escape(d.title), d.format))
	d.ScrollToBeginning()

	return nil
}

// FieldsYAML renders fields as a YAML mapping, in order.
func FieldsYAML(ff []Field) ([]byte, error) {
	m := yaml.Node{Kind: yaml.MappingNode}
	for _, f := range ff {
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Value},
		)
	}

	var buff bytes.Buffer
	enc := yaml.NewEncoder(&buff)
	enc.SetIndent(2)
	if err := enc.Encode(&m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// FieldsJSON renders fields as an indented JSON object, in order.
func FieldsJSON(ff []Field) ([]byte, error) {
	raw := []byte("{}")
	for _, f := range ff {
		var err error
		if raw, err = sjson.SetBytes(raw, escapeKey(f.Name), f.Value); err != nil {
			return nil, err
		}
	}

	return pretty.PrettyOptions(raw, &pretty.Options{Width: 80, Indent: "  "}), nil
}

var keyEscaper = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
)

func escapeKey(k string) string {
	return keyEscaper.Replace(k)
}
