package system

import (
	"context"
	"fmt"
	"strings"
)

const (
	netInfoScript = "netinfo.sh"
	wifiScript    = "wifi.sh"
)

func WiFiIPv4(ctx context.Context, r Runner) (string, error) {
	stdout, stderr, err := r.Run(ctx, netInfoScript, "wifi-ip")
	if err != nil {
		return "", fmt.Errorf("netinfo wifi-ip failed: %v: %s", err, stderr)
	}
	return strings.TrimSpace(stdout), nil
}

func EthernetIPv4(ctx context.Context, r Runner) (string, error) {
	stdout, stderr, err := r.Run(ctx, netInfoScript, "ethernet-ip")
	if err != nil {
		return "", fmt.Errorf("netinfo ethernet-ip failed: %v: %s", err, stderr)
	}
	return strings.TrimSpace(stdout), nil
}

// DeviceAddress returns the WiFi address, falling back to ethernet.
func DeviceAddress(ctx context.Context, r Runner) (string, error) {
	wifiIP, wifiErr := WiFiIPv4(ctx, r)
	if wifiIP != "" {
		return wifiIP, nil
	}
	ethernetIP, ethernetErr := EthernetIPv4(ctx, r)
	if ethernetIP != "" {
		return ethernetIP, nil
	}
	if wifiErr != nil {
		return "", wifiErr
	}
	if ethernetErr != nil {
		return "", ethernetErr
	}
	return "", fmt.Errorf("no network address")
}

// JoinWiFi associates with ssid and returns once the radio has an address.
func JoinWiFi(ctx context.Context, r Runner, ssid, password string) error {
	ssid = strings.TrimSpace(ssid)
	password = strings.TrimSpace(password)
	if ssid == "" {
		return fmt.Errorf("wifi join failed: empty ssid")
	}
	_, stderr, err := r.Run(ctx, wifiScript, "join", ssid, password)
	if err != nil {
		return fmt.Errorf("wifi join failed: %v: %s", err, stderr)
	}
	return nil
}
