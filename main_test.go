package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rook-computer/minihost/internal/config"
	"github.com/rook-computer/minihost/internal/logging"
	"github.com/rook-computer/minihost/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusURL(t *testing.T) {
	assert.Equal(t, "http://192.168.1.20:8080/api/v1/status", statusURL("192.168.1.20", ":8080"))
	assert.Equal(t, "http://192.168.1.20/api/v1/status", statusURL("192.168.1.20", "0.0.0.0:80"))
	assert.Empty(t, statusURL("192.168.1.20", ""))
	assert.Empty(t, statusURL("", ":8080"))
}

type scriptRunner struct {
	mu      sync.Mutex
	calls   []string
	joinErr []error
	ip      string
}

func (r *scriptRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	call := cmd
	if len(args) > 0 {
		call += " " + args[0]
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	if call == "wifi.sh join" && len(r.joinErr) > 0 {
		err := r.joinErr[0]
		r.joinErr = r.joinErr[1:]
		if err != nil {
			return "", "radio busy", err
		}
	}
	if call == "netinfo.sh wifi-ip" {
		return r.ip + "\n", "", nil
	}
	return "", "", nil
}

func (r *scriptRunner) joins() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, call := range r.calls {
		if call == "wifi.sh join" {
			n++
		}
	}
	return n
}

// hangingRunner blocks every join until release is closed or the
// attempt's context ends.
type hangingRunner struct {
	release chan struct{}
	ip      string

	mu      sync.Mutex
	started int
	ctxErr  error
}

func (r *hangingRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	if cmd == "netinfo.sh" {
		return r.ip, "", nil
	}
	r.mu.Lock()
	r.started++
	r.mu.Unlock()
	select {
	case <-r.release:
		return "", "", nil
	case <-ctx.Done():
		r.mu.Lock()
		r.ctxErr = ctx.Err()
		r.mu.Unlock()
		return "", "", ctx.Err()
	}
}

func (r *hangingRunner) snapshot() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started, r.ctxErr
}

// returnsQuickly fails the test if call does not return within a second.
func returnsQuickly(t *testing.T, call func() string) string {
	t.Helper()
	done := make(chan string, 1)
	go func() { done <- call() }()
	select {
	case address := <-done:
		return address
	case <-time.After(time.Second):
		t.Fatal("call blocked")
		return ""
	}
}

func TestNetworkRetriesFailedJoinThenMemoizes(t *testing.T) {
	runner := &scriptRunner{ip: "10.0.0.7", joinErr: []error{errors.New("exit 1"), nil}}
	store := state.NewStore()
	n := newNetwork(context.Background(), config.WiFiConfig{SSID: "workshop", Password: "pw"}, runner, store, logging.Nop())
	n.statusURL = func(address string) string { return statusURL(address, ":8080") }

	assert.Empty(t, n.Resolve())
	assert.False(t, store.Snapshot().WiFi.Joined)
	assert.NotEmpty(t, store.Snapshot().WiFi.Err)

	assert.Equal(t, "10.0.0.7", n.Resolve())
	assert.Equal(t, "10.0.0.7", n.Address())
	assert.Equal(t, "10.0.0.7", n.Resolve())

	snap := store.Snapshot()
	assert.True(t, snap.WiFi.Joined)
	assert.Equal(t, "http://10.0.0.7:8080/api/v1/status", snap.Network.URL)
	require.Equal(t, 2, runner.joins())
}

func TestNetworkWithoutSSIDSkipsJoin(t *testing.T) {
	runner := &scriptRunner{ip: "10.0.0.8"}
	n := newNetwork(context.Background(), config.WiFiConfig{}, runner, state.NewStore(), logging.Nop())

	assert.Equal(t, "10.0.0.8", n.Resolve())
	assert.Equal(t, 0, runner.joins())
}

func TestNetworkAddressRetriesInBackground(t *testing.T) {
	runner := &scriptRunner{ip: "10.0.0.7", joinErr: []error{errors.New("exit 1")}}
	n := newNetwork(context.Background(), config.WiFiConfig{SSID: "workshop"}, runner, state.NewStore(), logging.Nop())

	require.Empty(t, n.Resolve())

	assert.Eventually(t, func() bool {
		return n.Address() == "10.0.0.7"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, runner.joins())
}

func TestNetworkAddressDoesNotWaitForHangingJoin(t *testing.T) {
	runner := &hangingRunner{release: make(chan struct{}), ip: "10.0.0.9"}
	wifi := config.WiFiConfig{SSID: "workshop", JoinTimeout: time.Minute}
	n := newNetwork(context.Background(), wifi, runner, state.NewStore(), logging.Nop())

	for i := 0; i < 3; i++ {
		assert.Empty(t, returnsQuickly(t, n.Address))
	}
	assert.Eventually(t, func() bool {
		started, _ := runner.snapshot()
		return started == 1
	}, time.Second, 5*time.Millisecond)

	// A retry is already in flight, so further calls start no new join.
	assert.Empty(t, returnsQuickly(t, n.Address))
	started, _ := runner.snapshot()
	assert.Equal(t, 1, started)

	close(runner.release)
	assert.Eventually(t, func() bool {
		return n.Address() == "10.0.0.9"
	}, time.Second, 5*time.Millisecond)
}

func TestNetworkRetryGivesUpAtJoinTimeout(t *testing.T) {
	runner := &hangingRunner{release: make(chan struct{}), ip: "10.0.0.9"}
	store := state.NewStore()
	wifi := config.WiFiConfig{SSID: "workshop", JoinTimeout: 20 * time.Millisecond}
	n := newNetwork(context.Background(), wifi, runner, store, logging.Nop())

	assert.Empty(t, returnsQuickly(t, n.Address))

	assert.Eventually(t, func() bool {
		_, err := runner.snapshot()
		return errors.Is(err, context.DeadlineExceeded)
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		return store.Snapshot().WiFi.Err != ""
	}, time.Second, 5*time.Millisecond)
	assert.False(t, store.Snapshot().WiFi.Joined)
}
