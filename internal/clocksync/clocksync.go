// Package clocksync derives the displayed wall-clock time from a single
// remote reference and the local monotonic tick count.
//
// The reference is captured once at start-up. After that, "now" is the
// remote instant plus the whole seconds elapsed on the local ticker, shifted
// by a fixed UTC offset. There is no resynchronization.
package clocksync

import (
	"errors"
	"time"

	"github.com/zoobzio/clockz"
)

// UnavailableMarker is shown in place of the time when no reference exists.
const UnavailableMarker = "no ref time"

// ErrUnavailable is returned by Now before a reference has been captured.
var ErrUnavailable = errors.New("reference time unavailable")

// Ticker is a monotonic clock counting whole seconds.
type Ticker interface {
	NowTicks() int64
}

// MonotonicTicks counts seconds since it was created on the given clock.
type MonotonicTicks struct {
	clock  clockz.Clock
	origin time.Time
}

func NewMonotonicTicks(clock clockz.Clock) *MonotonicTicks {
	if clock == nil {
		clock = clockz.RealClock
	}
	return &MonotonicTicks{clock: clock, origin: clock.Now()}
}

func (m *MonotonicTicks) NowTicks() int64 {
	return int64(m.clock.Now().Sub(m.origin) / time.Second)
}

// ReferenceTime pairs a remote instant with the local tick at which it was
// observed. CapturedAt must come from the same Ticker used by Sync.Now.
type ReferenceTime struct {
	Remote     time.Time
	CapturedAt int64
}

type Sync struct {
	ticker Ticker
	offset time.Duration

	// nil until a reference is captured.
	ref *ReferenceTime
}

// New returns a Sync without a reference. offset is the signed UTC offset of
// the display timezone, e.g. -4h for US Eastern daylight time.
func New(ticker Ticker, offset time.Duration) *Sync {
	return &Sync{ticker: ticker, offset: offset}
}

// CaptureReference stores the reference pair. A later call replaces it.
func (s *Sync) CaptureReference(remote time.Time, localTick int64) {
	s.ref = &ReferenceTime{Remote: remote, CapturedAt: localTick}
}

// Capture stores remote paired with the current tick.
func (s *Sync) Capture(remote time.Time) {
	s.CaptureReference(remote, s.ticker.NowTicks())
}

func (s *Sync) Reference() (ReferenceTime, bool) {
	if s.ref == nil {
		return ReferenceTime{}, false
	}
	return *s.ref, true
}

func (s *Sync) Offset() time.Duration { return s.offset }

// Time returns the derived current instant in the display timezone.
func (s *Sync) Time() (time.Time, error) {
	if s.ref == nil {
		return time.Time{}, ErrUnavailable
	}
	elapsed := s.ticker.NowTicks() - s.ref.CapturedAt
	current := s.ref.Remote.UTC().Add(time.Duration(elapsed) * time.Second).Add(s.offset)
	return current, nil
}

// Now returns the current time formatted as HH:MM:SS.
func (s *Sync) Now() (string, error) {
	current, err := s.Time()
	if err != nil {
		return "", err
	}
	return current.Format("15:04:05"), nil
}

// Display returns Now, or UnavailableMarker when there is no reference.
func (s *Sync) Display() string {
	text, err := s.Now()
	if err != nil {
		return UnavailableMarker
	}
	return text
}
