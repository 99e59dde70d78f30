package apps

import (
	"github.com/rook-computer/minihost/internal/input"
	"github.com/rook-computer/minihost/internal/render"
)

const clockPlaceholder = "--:--:--"

// TimeDisplay is satisfied by *clocksync.Sync.
type TimeDisplay interface {
	Display() string
}

// Clock shows the synchronized wall-clock time.
type Clock struct {
	Display render.Display
	Time    TimeDisplay
	// Zone is shown under the time, e.g. "UTC-4".
	Zone string
}

func NewClock(display render.Display, t TimeDisplay, zone string) *Clock {
	return &Clock{Display: display, Time: t, Zone: zone}
}

func (c *Clock) Enter() {
	c.Display.Clear()
	c.Display.SetLabel(clockPlaceholder)
	c.Display.SetStatus(c.Zone)
}

func (c *Clock) Exit() {}

func (c *Clock) Update(input.Snapshot) {
	c.Display.SetLabel(c.Time.Display())
}
