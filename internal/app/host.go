package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rook-computer/minihost/internal/input"
	"github.com/rook-computer/minihost/internal/logging"
	"github.com/rook-computer/minihost/internal/metrics"
	"github.com/rook-computer/minihost/internal/render"
	"github.com/rook-computer/minihost/internal/state"
)

// Host owns the app registry and the active app. It is driven by a single
// control goroutine through Tick or Loop.
type Host struct {
	Logger  logging.Logger
	Store   *state.Store
	Metrics *metrics.Metrics
	// Display is refreshed after every tick when set.
	Display render.Display
	// Clock, when set, is published to the store on every tick.
	Clock interface{ Display() string }

	apps   map[ID]App
	inputs input.Source

	current   App
	currentID ID
}

// NewHost copies the registry. The menu must be registered since escape
// always returns to it.
func NewHost(apps map[ID]App, inputs input.Source) (*Host, error) {
	if _, ok := apps[Menu]; !ok {
		return nil, fmt.Errorf("%w: %q is required", ErrUnknownApp, Menu)
	}
	registry := make(map[ID]App, len(apps))
	for id, a := range apps {
		registry[id] = a
	}
	if inputs == nil {
		inputs = input.Reader{}
	}
	return &Host{Logger: logging.NoopLogger{}, apps: registry, inputs: inputs}, nil
}

// Run exits the active app and enters id. Running the active app again
// replays exit and enter. An unknown id leaves everything untouched.
func (h *Host) Run(id ID) error {
	next, ok := h.apps[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownApp, id)
	}

	from := h.currentID
	if h.current != nil {
		h.current.Exit()
	}
	h.current = next
	h.currentID = id
	next.Enter()

	h.logger().Infof("host", "switched %s -> %s", displayID(from), id)
	h.Metrics.Transition(string(from), string(id))
	if h.Store != nil {
		h.Store.SetActiveApp(string(id))
	}
	return nil
}

// Tick runs one iteration of the control loop.
func (h *Host) Tick() {
	start := time.Now()
	snap := h.inputs.Read()

	if snap.EscapePressed {
		if err := h.Run(Menu); err != nil {
			h.logger().Errorf("host", "escape: %v", err)
		}
	}
	if h.current != nil {
		h.current.Update(snap)
	}

	if h.Display != nil {
		if err := h.Display.Refresh(); err != nil {
			h.logger().Errorf("host", "display refresh: %v", err)
		}
	}
	if h.Store != nil {
		clock := ""
		if h.Clock != nil {
			clock = h.Clock.Display()
		}
		h.Store.RecordTick(state.InputInfo{
			ButtonPressed:   snap.ButtonPressed,
			EscapePressed:   snap.EscapePressed,
			EncoderPosition: snap.EncoderPosition,
		}, clock)
	}
	h.Metrics.Tick(time.Since(start))
}

// Loop calls Tick every interval until ctx is done.
func (h *Host) Loop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if h.current != nil {
				h.current.Exit()
			}
			return nil
		case <-ticker.C:
			h.Tick()
		}
	}
}

// Active returns the id of the active app, or "" before the first Run.
func (h *Host) Active() ID { return h.currentID }

// IDs lists the registered apps in sorted order.
func (h *Host) IDs() []ID {
	ids := make([]ID, 0, len(h.apps))
	for id := range h.apps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Registered reports whether id is in the registry.
func (h *Host) Registered(id ID) bool {
	_, ok := h.apps[id]
	return ok
}

func (h *Host) logger() logging.Logger {
	if h.Logger == nil {
		return logging.NoopLogger{}
	}
	return h.Logger
}

func displayID(id ID) ID {
	if id == "" {
		return "none"
	}
	return id
}
