package clocksync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
)

type fixedTicks struct{ now int64 }

func (f *fixedTicks) NowTicks() int64 { return f.now }

func TestNowWithoutReferenceIsUnavailable(t *testing.T) {
	sync := New(&fixedTicks{now: 42}, -4*time.Hour)

	text, err := sync.Now()
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, text)
	assert.Equal(t, UnavailableMarker, sync.Display())

	_, ok := sync.Reference()
	assert.False(t, ok)
}

func TestNowAddsElapsedTicksAndOffset(t *testing.T) {
	ticks := &fixedTicks{now: 1000}
	sync := New(ticks, -4*time.Hour)
	sync.CaptureReference(time.Date(2024, 1, 1, 0, 0, 10, 0, time.UTC), 1000)

	ticks.now = 1065
	text, err := sync.Now()
	require.NoError(t, err)
	assert.Equal(t, "20:01:15", text)

	current, err := sync.Time()
	require.NoError(t, err)
	assert.Equal(t, 31, current.Day())
	assert.Equal(t, time.December, current.Month())
}

func TestNowNormalizesRemoteZone(t *testing.T) {
	ticks := &fixedTicks{now: 0}
	sync := New(ticks, 0)
	berlin := time.FixedZone("CET", 3600)
	sync.CaptureReference(time.Date(2024, 6, 1, 13, 5, 9, 0, berlin), 0)

	assert.Equal(t, "12:05:09", sync.Display())
}

func TestRemoteFractionIsTruncated(t *testing.T) {
	ticks := &fixedTicks{now: 5}
	sync := New(ticks, 0)
	sync.CaptureReference(time.Date(2024, 1, 1, 8, 30, 59, 999_000_000, time.UTC), 5)

	ticks.now = 6
	assert.Equal(t, "08:31:00", sync.Display())
}

func TestCaptureOverwritesReference(t *testing.T) {
	ticks := &fixedTicks{now: 10}
	sync := New(ticks, 0)
	sync.CaptureReference(time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), 0)
	sync.Capture(time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC))

	ref, ok := sync.Reference()
	require.True(t, ok)
	assert.Equal(t, int64(10), ref.CapturedAt)
	assert.Equal(t, "02:00:00", sync.Display())
}

func TestMonotonicTicksCountWholeSeconds(t *testing.T) {
	clock := clockz.NewFakeClock()
	ticks := NewMonotonicTicks(clock)
	assert.Equal(t, int64(0), ticks.NowTicks())

	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, int64(1), ticks.NowTicks())

	clock.Advance(65 * time.Second)
	assert.Equal(t, int64(66), ticks.NowTicks())
}

func TestSyncOnFakeClock(t *testing.T) {
	clock := clockz.NewFakeClock()
	sync := New(NewMonotonicTicks(clock), -4*time.Hour)
	sync.Capture(time.Date(2024, 1, 1, 0, 0, 10, 0, time.UTC))

	clock.Advance(65 * time.Second)
	assert.Equal(t, "20:01:15", sync.Display())
}
