// Package app hosts the mini-applications. Exactly one app is active at a
// time and owns the display.
package app

import (
	"errors"

	"github.com/rook-computer/minihost/internal/input"
)

type ID string

const (
	Menu   ID = "menu"
	Clock  ID = "clock"
	Rotary ID = "rotary"
	Info   ID = "info"
)

// ErrUnknownApp is returned for an app id that was never registered.
var ErrUnknownApp = errors.New("unknown app")

// App is a screen with lifecycle hooks. Enter must clear the display before
// drawing; Update is called once per loop iteration while the app is active.
type App interface {
	Enter()
	Exit()
	Update(in input.Snapshot)
}

// Runner switches the active app. Apps hold one to request transitions.
type Runner interface {
	Run(id ID) error
}
