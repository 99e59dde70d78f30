// Package input reads the push-button, escape button and rotary encoder.
//
// Buttons follow the active-low convention of the pull-up wiring: Read
// returns false while the button is held down.
package input

type DigitalInput interface {
	Read() bool
}

type Encoder interface {
	Position() int
	Reset()
}

// Snapshot is one reading of every input, taken once per host tick.
type Snapshot struct {
	ButtonPressed   bool
	EscapePressed   bool
	EncoderPosition int
}

type Source interface {
	Read() Snapshot
}

// Reader combines the individual inputs into a Source.
// Nil inputs read as released / position zero.
type Reader struct {
	Button  DigitalInput
	Escape  DigitalInput
	Encoder Encoder
}

func (r Reader) Read() Snapshot {
	snap := Snapshot{
		ButtonPressed: pressed(r.Button),
		EscapePressed: pressed(r.Escape),
	}
	if r.Encoder != nil {
		snap.EncoderPosition = r.Encoder.Position()
	}
	return snap
}

func pressed(in DigitalInput) bool {
	return in != nil && !in.Read()
}
