package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/golang/freetype/truetype"
	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"

	"github.com/rook-computer/minihost/internal/logging"
	"github.com/rook-computer/minihost/internal/render/layout"
)

const DefaultDevice = "/dev/fb0"

// FBRenderer renders to the Linux framebuffer using an offscreen logical canvas.
type FBRenderer struct {
	Device string
	Logger logging.Logger

	fbDev      *fb.Device
	canvas     *image.RGBA
	labelFace  font.Face
	statusFace font.Face

	label  string
	status string
	img    image.Image
	dirty  bool
}

func NewFBRenderer(device string) *FBRenderer {
	if device == "" {
		device = DefaultDevice
	}
	return &FBRenderer{Device: device, dirty: true}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	dev, err := fb.Open(r.Device)
	if err != nil {
		return err
	}
	r.fbDev = dev
	if r.Logger != nil {
		bounds := dev.Bounds()
		r.Logger.Infof("fb", "framebuffer %s open, bounds=%dx%d", r.Device, bounds.Dx(), bounds.Dy())
	}
	r.loadFaces()
	r.dirty = true
	return nil
}

func (r *FBRenderer) Stop() error {
	if r.fbDev != nil {
		r.fbDev.Close()
		r.fbDev = nil
	}
	return nil
}

func (r *FBRenderer) loadFaces() {
	r.canvas = image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	r.labelFace = basicfont.Face7x13
	r.statusFace = basicfont.Face7x13

	tt, err := truetype.Parse(gomono.TTF)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Errorf("fb", "truetype parse failed, using basicfont: %v", err)
		}
		return
	}
	r.labelFace = truetype.NewFace(tt, &truetype.Options{Size: LabelSize, DPI: 72, Hinting: font.HintingFull})
	r.statusFace = truetype.NewFace(tt, &truetype.Options{Size: StatusSize, DPI: 72, Hinting: font.HintingFull})
	if r.Logger != nil {
		r.Logger.Infof("fb", "loaded mono font at %.0fpt/%.0fpt", LabelSize, StatusSize)
	}
}

func (r *FBRenderer) Clear() {
	r.label = ""
	r.status = ""
	r.img = nil
	r.dirty = true
}

func (r *FBRenderer) SetLabel(text string) {
	if text != r.label {
		r.label = text
		r.dirty = true
	}
}

func (r *FBRenderer) SetStatus(text string) {
	if text != r.status {
		r.status = text
		r.dirty = true
	}
}

func (r *FBRenderer) SetImage(img image.Image) {
	r.img = img
	r.dirty = true
}

// Refresh composes the canvas and blits it when anything changed since the
// last refresh.
func (r *FBRenderer) Refresh() error {
	if !r.dirty {
		return nil
	}
	if r.canvas == nil {
		r.loadFaces()
	}
	r.compose()
	r.dirty = false
	return blitToFB(r.fbDev, r.canvas)
}

// Canvas exposes the logical canvas for inspection.
func (r *FBRenderer) Canvas() *image.RGBA { return r.canvas }

func (r *FBRenderer) compose() {
	draw.Draw(r.canvas, r.canvas.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)

	area := layout.Inset(r.canvas.Bounds(), Padding)
	statusHeight := 0
	if r.status != "" {
		statusHeight = r.statusFace.Metrics().Height.Ceil() + Padding
	}
	body, statusRect := layout.SplitHorizontal(area, area.Dy()-statusHeight)

	labelRect := body
	if r.img != nil {
		var imageRect image.Rectangle
		imageRect, labelRect = layout.SplitHorizontal(body, body.Dy()*2/3)
		square := layout.CenterIn(imageRect, layout.FitSquare(imageRect))
		xdraw.NearestNeighbor.Scale(r.canvas, square, r.img, r.img.Bounds(), xdraw.Over, nil)
	}

	if r.label != "" {
		drawLinesCentered(r.canvas, labelRect, r.label, Foreground, r.labelFace)
	}
	if r.status != "" {
		drawLinesCentered(r.canvas, statusRect, r.status, Foreground, r.statusFace)
	}
}

// drawLinesCentered draws text centered in rect, one line per newline.
func drawLinesCentered(img *image.RGBA, rect image.Rectangle, text string, fg color.Color, face font.Face) {
	lines := strings.Split(text, "\n")
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()
	top := rect.Min.Y + (rect.Dy()-lineHeight*len(lines))/2

	drawer := &font.Drawer{Dst: img, Src: &image.Uniform{C: fg}, Face: face}
	for i, line := range lines {
		textWidth := drawer.MeasureString(line).Ceil()
		xPos := rect.Min.X + (rect.Dx()-textWidth)/2
		baseline := top + i*lineHeight + ascent
		drawer.Dot = fixed.P(xPos, baseline)
		drawer.DrawString(line)
	}
}

// Helper: blit canvas to framebuffer via nearest-neighbor scaling.
func blitToFB(dev *fb.Device, canvas *image.RGBA) error {
	if dev == nil {
		return nil
	}
	bounds := dev.Bounds()
	fbWidth := bounds.Dx()
	fbHeight := bounds.Dy()
	for y := 0; y < fbHeight; y++ {
		sy := (y * CanvasHeight) / fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := (x * CanvasWidth) / fbWidth
			pixel := canvas.RGBAAt(sx, sy)
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
	return nil
}
