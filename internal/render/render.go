package render

import (
	"image"
	"sync"
)

// Display is the surface the active app draws on. The host calls Refresh
// once per tick; implementations only redraw when something changed.
type Display interface {
	// Clear removes every widget.
	Clear()
	SetLabel(text string)
	// SetStatus sets the small line at the bottom of the screen.
	SetStatus(text string)
	// SetImage places an image above the label; nil removes it.
	SetImage(img image.Image)
	Refresh() error
}

// Frame is what a MemoryDisplay currently shows.
type Frame struct {
	Label     string
	Status    string
	Image     image.Image
	Clears    int
	Refreshes int
}

// MemoryDisplay keeps the widgets in memory. Used by the simulator and tests.
type MemoryDisplay struct {
	mu    sync.RWMutex
	frame Frame
}

func NewMemoryDisplay() *MemoryDisplay { return &MemoryDisplay{} }

func (d *MemoryDisplay) Clear() {
	d.mu.Lock()
	d.frame.Label = ""
	d.frame.Status = ""
	d.frame.Image = nil
	d.frame.Clears++
	d.mu.Unlock()
}

func (d *MemoryDisplay) SetLabel(text string) {
	d.mu.Lock()
	d.frame.Label = text
	d.mu.Unlock()
}

func (d *MemoryDisplay) SetStatus(text string) {
	d.mu.Lock()
	d.frame.Status = text
	d.mu.Unlock()
}

func (d *MemoryDisplay) SetImage(img image.Image) {
	d.mu.Lock()
	d.frame.Image = img
	d.mu.Unlock()
}

func (d *MemoryDisplay) Refresh() error {
	d.mu.Lock()
	d.frame.Refreshes++
	d.mu.Unlock()
	return nil
}

func (d *MemoryDisplay) Snapshot() Frame {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.frame
}
