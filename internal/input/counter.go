package input

import "sync/atomic"

// Counter is an encoder position written by edge watchers and read by the
// control loop.
type Counter struct {
	position atomic.Int64
}

func (c *Counter) Position() int { return int(c.position.Load()) }
func (c *Counter) Reset()        { c.position.Store(0) }
func (c *Counter) Add(delta int) { c.position.Add(int64(delta)) }

// Pulse is a momentary button driven by key presses rather than a level.
// After Press it reads as pressed exactly once.
type Pulse struct {
	pending atomic.Bool
}

func (p *Pulse) Press() { p.pending.Store(true) }

func (p *Pulse) Read() bool {
	return !p.pending.Swap(false)
}

// Level is a button whose state is set directly, e.g. while a key is held.
type Level struct {
	down atomic.Bool
}

func (l *Level) Set(down bool) { l.down.Store(down) }
func (l *Level) Read() bool     { return !l.down.Load() }
