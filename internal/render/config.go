package render

import "image/color"

// Global render configuration for colors and logical canvas.
var (
	// Monochrome memory-LCD look: black ink on white.
	Foreground = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	Background = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	// Logical canvas size (1.3" 144x168 panel); scaled to framebuffer.
	CanvasWidth  = 144
	CanvasHeight = 168

	LabelSize  = 20.0
	StatusSize = 11.0
	Padding    = 6
)
