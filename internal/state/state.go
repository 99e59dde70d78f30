package state

import (
	"sync"
	"time"
)

type Phase int

const (
	BOOTING Phase = iota
	SYNCING
	RUNNING
	STOPPED
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case SYNCING:
		return "syncing"
	case RUNNING:
		return "running"
	case STOPPED:
		return "stopped"
	}
	return "unknown"
}

type InputInfo struct {
	ButtonPressed   bool
	EscapePressed   bool
	EncoderPosition int
}

type ClockInfo struct {
	Captured  bool
	Reference time.Time
	Display   string
}

type WiFiInfo struct {
	SSID   string
	Joined bool
	Err    string
}

type NetworkInfo struct {
	IP  string
	URL string
}

type HostInfo struct {
	ActiveApp   string
	Ticks       uint64
	Transitions uint64
	LastInput   InputInfo
}

type State struct {
	Phase   Phase
	Host    HostInfo
	Clock   ClockInfo
	WiFi    WiFiInfo
	Network NetworkInfo
}

// Store is written by the control loop and read by the status API.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

// SetActiveApp records a transition to id.
func (store *Store) SetActiveApp(id string) {
	store.mu.Lock()
	store.state.Host.ActiveApp = id
	store.state.Host.Transitions++
	store.mu.Unlock()
}

// RecordTick stores the input read on one loop iteration and what the clock
// currently displays.
func (store *Store) RecordTick(in InputInfo, clockDisplay string) {
	store.mu.Lock()
	store.state.Host.Ticks++
	store.state.Host.LastInput = in
	store.state.Clock.Display = clockDisplay
	store.mu.Unlock()
}

func (store *Store) UpdateClock(clock ClockInfo) {
	store.mu.Lock()
	store.state.Clock = clock
	store.mu.Unlock()
}

func (store *Store) UpdateWiFi(wifi WiFiInfo) {
	store.mu.Lock()
	store.state.WiFi = wifi
	store.mu.Unlock()
}

func (store *Store) UpdateNetwork(network NetworkInfo) {
	store.mu.Lock()
	store.state.Network = network
	store.mu.Unlock()
}
