package apps

import (
	"strconv"

	"github.com/rook-computer/minihost/internal/input"
	"github.com/rook-computer/minihost/internal/render"
)

// Rotary shows the raw encoder position.
type Rotary struct {
	Display render.Display
	Encoder input.Encoder
}

func NewRotary(display render.Display, encoder input.Encoder) *Rotary {
	return &Rotary{Display: display, Encoder: encoder}
}

func (r *Rotary) Enter() {
	r.Display.Clear()
	if r.Encoder != nil {
		r.Encoder.Reset()
	}
	r.Display.SetLabel("0")
	r.Display.SetStatus("rotary")
}

func (r *Rotary) Exit() {}

func (r *Rotary) Update(in input.Snapshot) {
	r.Display.SetLabel(strconv.Itoa(in.EncoderPosition))
}
