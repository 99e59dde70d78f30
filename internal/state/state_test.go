package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreStartsBooting(t *testing.T) {
	store := NewStore()
	snap := store.Snapshot()
	assert.Equal(t, BOOTING, snap.Phase)
	assert.Equal(t, "booting", snap.Phase.String())
	assert.Empty(t, snap.Host.ActiveApp)
}

func TestStoreRecordsHostActivity(t *testing.T) {
	store := NewStore()
	store.SetActiveApp("menu")
	store.SetActiveApp("rotary")
	store.RecordTick(InputInfo{EncoderPosition: 3}, "no ref time")
	store.RecordTick(InputInfo{ButtonPressed: true, EncoderPosition: 4}, "20:01:15")

	snap := store.Snapshot()
	assert.Equal(t, "rotary", snap.Host.ActiveApp)
	assert.Equal(t, uint64(2), snap.Host.Transitions)
	assert.Equal(t, uint64(2), snap.Host.Ticks)
	assert.Equal(t, InputInfo{ButtonPressed: true, EncoderPosition: 4}, snap.Host.LastInput)
	assert.Equal(t, "20:01:15", snap.Clock.Display)
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	store := NewStore()
	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.UpdateClock(ClockInfo{Captured: true, Reference: ref})

	snap := store.Snapshot()
	snap.Clock.Captured = false

	assert.True(t, store.Snapshot().Clock.Captured)
	assert.Equal(t, ref, store.Snapshot().Clock.Reference)
}

func TestStoreConcurrentReaders(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = store.Snapshot()
			}
		}()
	}
	for j := 0; j < 100; j++ {
		store.RecordTick(InputInfo{EncoderPosition: j}, "")
	}
	wg.Wait()
	assert.Equal(t, uint64(100), store.Snapshot().Host.Ticks)
}
