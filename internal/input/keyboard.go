package input

import (
	"context"

	"github.com/rook-computer/minihost/internal/logging"
	"github.com/rook-computer/minihost/internal/system"
)

// Linux input-event-codes.h
const (
	keyEsc   = 1
	keyEnter = 28
	keySpace = 57
	keyLeft  = 105
	keyRight = 106
)

// Keyboard maps a USB keyboard onto the device inputs: Enter or Space is the
// button, Esc is escape, Left and Right turn the encoder.
type Keyboard struct {
	Button  Level
	Escape  Level
	Encoder Counter
}

func (k *Keyboard) Reader() Reader {
	return Reader{Button: &k.Button, Escape: &k.Escape, Encoder: &k.Encoder}
}

// Start reads evdev key events until ctx is done.
func (k *Keyboard) Start(ctx context.Context, logger logging.Logger) {
	system.WatchKeys(ctx, logger, k.HandleKey)
}

// HandleKey applies one key event. value is 1 for press, 0 for release and 2
// for autorepeat.
func (k *Keyboard) HandleKey(code uint16, value int32) {
	switch code {
	case keyEnter, keySpace:
		k.Button.Set(value != 0)
	case keyEsc:
		k.Escape.Set(value != 0)
	case keyLeft:
		if value != 0 {
			k.Encoder.Add(-1)
		}
	case keyRight:
		if value != 0 {
			k.Encoder.Add(1)
		}
	}
}
