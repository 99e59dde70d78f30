//go:build !linux

package system

import (
	"context"

	"github.com/rook-computer/minihost/internal/logging"
)

// WatchKeys is only implemented on Linux.
func WatchKeys(ctx context.Context, logger logging.Logger, onKey func(code uint16, value int32)) {
	if logger != nil {
		logger.Infof("input", "keyboard input not supported on this platform")
	}
}
