package web

import (
	"github.com/rook-computer/minihost/internal/app"
	"github.com/rook-computer/minihost/internal/state"
)

// StatusSource is the read side of state.Store.
type StatusSource interface {
	Snapshot() state.State
}

// AppLister reports the registered apps. *app.Host satisfies it; the
// registry never changes after construction so this is safe off the
// control goroutine.
type AppLister interface {
	IDs() []app.ID
}

type APIV1Deps struct {
	Status StatusSource
	Apps   AppLister
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Status == nil {
		out.Status = state.NewStore()
	}
	if out.Apps == nil {
		out.Apps = noApps{}
	}
	return out
}

type noApps struct{}

func (noApps) IDs() []app.ID { return nil }
