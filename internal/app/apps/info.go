package apps

import (
	"github.com/rook-computer/minihost/internal/input"
	"github.com/rook-computer/minihost/internal/logging"
	"github.com/rook-computer/minihost/internal/render"
)

const infoQRSizePx = 128

// Info shows the device address and a QR code linking to the status API.
type Info struct {
	Display render.Display
	// Address returns the device address, or "" when offline.
	Address func() string
	// StatusURL builds the status link for an address.
	StatusURL func(address string) string
	Logger    logging.Logger
}

func NewInfo(display render.Display, address func() string, statusURL func(string) string) *Info {
	return &Info{Display: display, Address: address, StatusURL: statusURL, Logger: logging.NoopLogger{}}
}

func (i *Info) Enter() {
	i.Display.Clear()

	address := ""
	if i.Address != nil {
		address = i.Address()
	}
	if address == "" {
		i.Display.SetLabel("offline")
		i.Display.SetStatus("no network")
		return
	}

	i.Display.SetStatus(address)
	if i.StatusURL == nil {
		i.Display.SetLabel(address)
		return
	}
	url := i.StatusURL(address)
	if url == "" {
		i.Display.SetLabel(address)
		return
	}
	qr, err := render.GenerateQRCodeImage(url, infoQRSizePx)
	if err != nil {
		i.Logger.Errorf("info", "qr for %s: %v", url, err)
		i.Display.SetLabel(address)
		return
	}
	i.Display.SetImage(qr)
	i.Display.SetLabel("scan me")
}

func (i *Info) Exit() {}

func (i *Info) Update(input.Snapshot) {}
