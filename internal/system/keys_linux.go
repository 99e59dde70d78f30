//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/rook-computer/minihost/internal/logging"
)

const evKey = 0x01

// WatchKeys reads key events from every evdev device under /dev/input and
// calls onKey for each one until ctx is done. onKey runs on the reader
// goroutines and must be safe for concurrent use.
//
// It is best-effort: if no input devices are available, it logs and returns.
func WatchKeys(ctx context.Context, logger logging.Logger, onKey func(code uint16, value int32)) {
	if onKey == nil {
		return
	}

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	if tvSize <= 0 {
		tvSize = 16
	}

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if logger != nil {
			logger.Infof("input", "no evdev devices found for keyboard input")
		}
		return
	}

	for _, path := range paths {
		p := path
		go func() {
			fd, err := unix.Open(p, unix.O_RDONLY|unix.O_NONBLOCK, 0)
			if err != nil {
				if logger != nil {
					logger.Errorf("input", "open %s: %v", p, err)
				}
				return
			}
			f := os.NewFile(uintptr(fd), p)
			defer func() {
				_ = f.Close()
			}()

			buf := make([]byte, 4096)
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
				if _, err := unix.Poll(pollFds, 250); err != nil {
					if err == unix.EINTR {
						continue
					}
					// Device might have gone away.
					return
				}
				if pollFds[0].Revents&unix.POLLIN == 0 {
					continue
				}

				n, err := unix.Read(fd, buf)
				if err != nil {
					if err == unix.EAGAIN || err == unix.EINTR {
						continue
					}
					return
				}
				for _, ev := range ParseKeyEvents(buf[:n], tvSize) {
					onKey(ev.Code, ev.Value)
				}
			}
		}()
	}
}

type KeyEvent struct {
	Code  uint16
	Value int32
}

// ParseKeyEvents decodes EV_KEY records from a raw evdev read.
// Other event types and trailing partial records are skipped.
func ParseKeyEvents(data []byte, tvSize int) []KeyEvent {
	eventSize := tvSize + 8
	var events []KeyEvent
	for off := 0; off+eventSize <= len(data); off += eventSize {
		rec := data[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		if typ != evKey {
			continue
		}
		events = append(events, KeyEvent{
			Code:  binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4]),
			Value: int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8])),
		})
	}
	return events
}
