package system

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRunner struct {
	outputs map[string]string
	fail    map[string]bool
	calls   []string
}

func (r *scriptedRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	key := strings.Join(append([]string{cmd}, args...), " ")
	r.calls = append(r.calls, key)
	if r.fail[key] {
		return "", "boom", errors.New("exit 1")
	}
	return r.outputs[key], "", nil
}

func TestDeviceAddressPrefersWiFi(t *testing.T) {
	runner := &scriptedRunner{outputs: map[string]string{
		"netinfo.sh wifi-ip":     "192.168.1.20\n",
		"netinfo.sh ethernet-ip": "10.0.0.2\n",
	}}

	addr, err := DeviceAddress(context.Background(), runner)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20", addr)
	assert.Equal(t, []string{"netinfo.sh wifi-ip"}, runner.calls)
}

func TestDeviceAddressFallsBackToEthernet(t *testing.T) {
	runner := &scriptedRunner{
		outputs: map[string]string{"netinfo.sh ethernet-ip": "10.0.0.2"},
		fail:    map[string]bool{"netinfo.sh wifi-ip": true},
	}

	addr, err := DeviceAddress(context.Background(), runner)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2", addr)
}

func TestDeviceAddressNoNetwork(t *testing.T) {
	runner := &scriptedRunner{fail: map[string]bool{"netinfo.sh wifi-ip": true}}

	_, err := DeviceAddress(context.Background(), runner)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wifi-ip")
}

func TestJoinWiFi(t *testing.T) {
	runner := &scriptedRunner{}
	require.NoError(t, JoinWiFi(context.Background(), runner, " home ", "secret"))
	assert.Equal(t, []string{"wifi.sh join home secret"}, runner.calls)

	assert.Error(t, JoinWiFi(context.Background(), runner, "  ", "secret"))

	runner.fail = map[string]bool{"wifi.sh join home bad": true}
	err := JoinWiFi(context.Background(), runner, "home", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
