package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/rook-computer/minihost/internal/logging"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

// SetGraphicsMode switches the active console to graphics mode so the
// framebuffer is not overdrawn by the text console and its cursor.
func SetGraphicsMode() error { return setConsoleMode(kdGraphics, "KD_GRAPHICS") }

// RestoreTextMode restores the console to text mode so cursor and normal console return.
func RestoreTextMode() error { return setConsoleMode(kdText, "KD_TEXT") }

func setConsoleMode(mode int, name string) error {
	// Prefer /dev/tty (active VT), fallback to /dev/tty0
	var lastErr error
	for _, p := range []string{"/dev/tty", "/dev/tty0"} {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			lastErr = fmt.Errorf("open %s: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		_ = unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("%s on %s: %w", name, p, err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("%s failed: unknown error", name)
}

func SetGraphicsModeWithLog(l logging.Logger) error {
	return withLog(l, SetGraphicsMode(), "KD_GRAPHICS set", "KD_GRAPHICS failed")
}

func RestoreTextModeWithLog(l logging.Logger) error {
	return withLog(l, RestoreTextMode(), "KD_TEXT set", "KD_TEXT failed")
}

// HideCursor writes the ANSI escape to hide the cursor to the active VT.
func HideCursor() error { return writeVT("\x1b[?25l") }
func ShowCursor() error { return writeVT("\x1b[?25h") }

func HideCursorWithLog(l logging.Logger) error {
	return withLog(l, HideCursor(), "cursor hidden", "hide cursor failed")
}

func ShowCursorWithLog(l logging.Logger) error {
	return withLog(l, ShowCursor(), "cursor shown", "show cursor failed")
}

func withLog(l logging.Logger, err error, okMsg, failMsg string) error {
	if l == nil {
		return err
	}
	if err != nil {
		l.Errorf("tty", "%s: %v", failMsg, err)
	} else {
		l.Infof("tty", "%s", okMsg)
	}
	return err
}

func writeVT(s string) error {
	var lastErr error
	for _, p := range []string{"/dev/tty", "/dev/tty0"} {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = f.WriteString(s)
		_ = f.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return fmt.Errorf("write VT failed: %v", lastErr)
	}
	return fmt.Errorf("write VT failed: unknown error")
}
