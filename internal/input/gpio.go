package input

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/rook-computer/minihost/internal/logging"
)

const edgePollTimeout = 250 * time.Millisecond

// InitHost loads the periph.io host drivers. Call once before opening pins.
func InitHost() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}
	return nil
}

// Button is a push-button on a GPIO pin with the internal pull-up enabled.
type Button struct {
	Pin gpio.PinIn
}

func (b Button) Read() bool { return b.Pin.Read() == gpio.High }

func OpenButton(name string) (Button, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return Button{}, fmt.Errorf("gpio pin %q not found", name)
	}
	return NewButton(pin)
}

func NewButton(pin gpio.PinIn) (Button, error) {
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return Button{}, fmt.Errorf("configure %s: %w", pin, err)
	}
	return Button{Pin: pin}, nil
}

// QuadratureEncoder decodes a two-pin rotary encoder into a Counter.
// One detent produces one falling edge on A; B's level at that edge gives the
// direction.
type QuadratureEncoder struct {
	Counter

	A      gpio.PinIn
	B      gpio.PinIn
	Logger logging.Logger
}

func OpenQuadratureEncoder(nameA, nameB string) (*QuadratureEncoder, error) {
	pinA := gpioreg.ByName(nameA)
	if pinA == nil {
		return nil, fmt.Errorf("gpio pin %q not found", nameA)
	}
	pinB := gpioreg.ByName(nameB)
	if pinB == nil {
		return nil, fmt.Errorf("gpio pin %q not found", nameB)
	}
	return NewQuadratureEncoder(pinA, pinB)
}

func NewQuadratureEncoder(pinA, pinB gpio.PinIn) (*QuadratureEncoder, error) {
	if err := pinA.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, fmt.Errorf("configure %s: %w", pinA, err)
	}
	if err := pinB.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure %s: %w", pinB, err)
	}
	return &QuadratureEncoder{A: pinA, B: pinB}, nil
}

// Start watches pin A until ctx is done.
func (e *QuadratureEncoder) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if !e.A.WaitForEdge(edgePollTimeout) {
				continue
			}
			if e.A.Read() != gpio.Low {
				// bounce on release
				continue
			}
			if e.B.Read() == gpio.High {
				e.Add(1)
			} else {
				e.Add(-1)
			}
		}
	}()
	if e.Logger != nil {
		e.Logger.Infof("input", "encoder watching %s/%s", e.A, e.B)
	}
}
