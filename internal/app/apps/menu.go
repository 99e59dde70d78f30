// Package apps holds the mini-applications run by app.Host.
package apps

import (
	"github.com/rook-computer/minihost/internal/app"
	"github.com/rook-computer/minihost/internal/input"
	"github.com/rook-computer/minihost/internal/logging"
	"github.com/rook-computer/minihost/internal/render"
)

// DefaultMenuEntries is the menu order; position 0 selects the first entry.
var DefaultMenuEntries = []app.ID{app.Rotary, app.Clock, app.Info}

// MenuEntries keeps the default entries that are present in registry.
func MenuEntries(registry map[app.ID]app.App) []app.ID {
	entries := make([]app.ID, 0, len(DefaultMenuEntries))
	for _, id := range DefaultMenuEntries {
		if _, ok := registry[id]; ok {
			entries = append(entries, id)
		}
	}
	return entries
}

// Menu lets the user pick an app with the encoder and launch it with the
// button.
type Menu struct {
	Display render.Display
	Encoder input.Encoder
	// Host is set once the host exists, before the first Run.
	Host    app.Runner
	Entries []app.ID
	Logger  logging.Logger
}

func NewMenu(display render.Display, encoder input.Encoder, entries []app.ID) *Menu {
	return &Menu{Display: display, Encoder: encoder, Entries: entries, Logger: logging.NoopLogger{}}
}

// Selected maps an encoder position onto an entry, wrapping both ways.
func (m *Menu) Selected(position int) (app.ID, bool) {
	if len(m.Entries) == 0 {
		return "", false
	}
	n := len(m.Entries)
	return m.Entries[((position%n)+n)%n], true
}

func (m *Menu) Enter() {
	m.Display.Clear()
	if m.Encoder != nil {
		m.Encoder.Reset()
	}
	m.Display.SetLabel("Menu")
	m.Display.SetStatus(m.statusLine(0))
}

func (m *Menu) Exit() {}

// Update reads the encoder itself rather than in.EncoderPosition: when the
// host forces the menu in on escape, the snapshot predates Enter's reset.
func (m *Menu) Update(in input.Snapshot) {
	position := m.position(in)
	if in.ButtonPressed {
		selected, ok := m.Selected(position)
		if !ok || m.Host == nil {
			return
		}
		if err := m.Host.Run(selected); err != nil {
			m.Logger.Errorf("menu", "run %s: %v", selected, err)
		}
		return
	}
	m.Display.SetLabel("Menu")
	m.Display.SetStatus(m.statusLine(position))
}

func (m *Menu) position(in input.Snapshot) int {
	if m.Encoder != nil {
		return m.Encoder.Position()
	}
	return in.EncoderPosition
}

func (m *Menu) statusLine(position int) string {
	selected, ok := m.Selected(position)
	if !ok {
		return "(empty)"
	}
	return "> " + string(selected)
}
