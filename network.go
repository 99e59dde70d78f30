package main

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/minihost/internal/config"
	"github.com/rook-computer/minihost/internal/logging"
	"github.com/rook-computer/minihost/internal/memo"
	"github.com/rook-computer/minihost/internal/state"
	"github.com/rook-computer/minihost/internal/system"
)

const defaultJoinTimeout = 30 * time.Second

// network joins WiFi and resolves the device address at most once.
//
// Resolve blocks and is meant for start-up. Address never blocks: it returns
// the cached address, and while offline it starts one background retry and
// returns "" so the control loop keeps ticking.
type network struct {
	ctx       context.Context
	timeout   time.Duration
	statusURL func(address string) string
	store     *state.Store
	logger    logging.Logger

	mu      sync.Mutex // guards result and attempt
	result  *memo.Result[string]
	attempt context.Context

	address  atomic.Pointer[string]
	retrying atomic.Bool
}

func newNetwork(ctx context.Context, wifi config.WiFiConfig, runner system.Runner, store *state.Store, logger logging.Logger) *network {
	timeout := wifi.JoinTimeout
	if timeout <= 0 {
		timeout = defaultJoinTimeout
	}
	n := &network{ctx: ctx, timeout: timeout, store: store, logger: logger}
	n.result = memo.NewResult(func() (string, error) {
		ctx := n.attempt
		if wifi.SSID != "" {
			logger.Infof("wifi", "connecting to %s", wifi.SSID)
			if err := system.JoinWiFi(ctx, runner, wifi.SSID, wifi.Password); err != nil {
				store.UpdateWiFi(state.WiFiInfo{SSID: wifi.SSID, Err: err.Error()})
				return "", err
			}
			store.UpdateWiFi(state.WiFiInfo{SSID: wifi.SSID, Joined: true})
		}
		return system.DeviceAddress(ctx, runner)
	})
	return n
}

// Resolve makes one bounded attempt unless an address is already known.
func (n *network) Resolve() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.result.Done() {
		address, _ := n.result.Get()
		return address
	}

	ctx, cancel := context.WithTimeout(n.ctx, n.timeout)
	defer cancel()
	n.attempt = ctx
	address, err := n.result.Get()
	n.attempt = nil
	if err != nil {
		n.logger.Errorf("wifi", "no network address: %v", err)
		return ""
	}

	n.logger.Infof("wifi", "connected, address %s", address)
	network := state.NetworkInfo{IP: address}
	if n.statusURL != nil {
		network.URL = n.statusURL(address)
	}
	n.store.UpdateNetwork(network)
	n.address.Store(&address)
	return address
}

// Address returns the cached device address, or "" while offline.
func (n *network) Address() string {
	if address := n.address.Load(); address != nil {
		return *address
	}
	if n.retrying.CompareAndSwap(false, true) {
		go func() {
			defer n.retrying.Store(false)
			n.Resolve()
		}()
	}
	return ""
}

// statusURL links to the status API on address, or "" when the API is off.
func statusURL(address, listen string) string {
	if address == "" || listen == "" {
		return ""
	}
	_, port, err := net.SplitHostPort(listen)
	if err != nil || port == "" {
		return ""
	}
	host := address
	if port != "80" {
		host = net.JoinHostPort(address, port)
	}
	return "http://" + host + "/api/v1/status"
}
