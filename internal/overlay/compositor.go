package overlay

import (
	"image"
	"image/color"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// 16:9 target; the canvas is never wider than the configured max width.
const (
	targetRatioW = 16
	targetRatioH = 9
)

// shadowOffset is the caption drop-shadow displacement in pixels.
const shadowOffset = 2

// Compositor letterboxes images into a 16:9 canvas and overlays a caption in
// the bottom-right corner. A nil font falls back to the basicfont face.
type Compositor struct {
	font     *opentype.Font
	maxWidth int
	margin   int
}

func NewCompositor(ft *opentype.Font, maxWidth, margin int) *Compositor {
	return &Compositor{font: ft, maxWidth: maxWidth, margin: margin}
}

// CanvasSize returns the 16:9 canvas dimensions for a source image width:
// width capped at maxWidth, height truncated to width*9/16.
func CanvasSize(srcWidth, maxWidth int) (int, int) {
	w := srcWidth
	if w > maxWidth {
		w = maxWidth
	}
	h := w * targetRatioH / targetRatioW
	if h < 1 {
		h = 1
	}
	return w, h
}

// FitTo16x9 scales src to fit the canvas without cropping or distortion,
// centers it, and fills the remainder with black letterbox bars.
func FitTo16x9(src image.Image, maxWidth int) *image.RGBA {
	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()
	canvasW, canvasH := CanvasSize(srcW, maxWidth)

	targetRatio := float64(targetRatioW) / float64(targetRatioH)
	imgRatio := float64(srcW) / float64(srcH)

	var newW, newH int
	if imgRatio > targetRatio {
		// Wider than 16:9: fill the canvas width, bars above and below.
		newW = canvasW
		newH = int(float64(canvasW) / imgRatio)
	} else {
		// Taller than 16:9: fill the canvas height, bars left and right.
		newH = canvasH
		newW = int(float64(canvasH) * imgRatio)
	}
	// Extreme aspect ratios truncate to zero; keep at least one pixel of
	// content so the fit never degenerates to a bare black canvas.
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	canvas := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, xdraw.Src)

	xOffset := (canvasW - newW) / 2
	yOffset := (canvasH - newH) / 2
	dstRect := image.Rect(xOffset, yOffset, xOffset+newW, yOffset+newH)
	xdraw.CatmullRom.Scale(canvas, dstRect, src, src.Bounds(), xdraw.Src, nil)

	return canvas
}

// Overlay letterboxes src and draws the caption anchored to the bottom-right
// corner: one pass offset (+2,+2) in translucent black, one pass in opaque
// white. An empty caption yields the bare letterboxed canvas.
func (c *Compositor) Overlay(src image.Image, caption string) *image.RGBA {
	canvas := FitTo16x9(src, c.maxWidth)
	if caption == "" {
		return canvas
	}

	w := canvas.Bounds().Dx()
	h := canvas.Bounds().Dy()

	fontSize := w / 30
	if fontSize < 16 {
		fontSize = 16
	}
	face := c.face(fontSize)
	defer face.Close()

	lines := strings.Split(caption, "\n")

	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	descent := m.Descent.Ceil()
	lineHeight := ascent + descent

	blockW := 0
	for _, line := range lines {
		if lw := font.MeasureString(face, line).Ceil(); lw > blockW {
			blockW = lw
		}
	}
	blockH := lineHeight * len(lines)

	// Top-left corner of the caption block, margin pixels in from the
	// bottom-right canvas corner.
	x := w - blockW - c.margin
	y := h - blockH - c.margin

	shadow := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.RGBA{0, 0, 0, 200}),
		Face: face,
	}
	fill := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.RGBA{255, 255, 255, 255}),
		Face: face,
	}

	for i, line := range lines {
		baseline := y + ascent + i*lineHeight
		shadow.Dot = fixed.P(x+shadowOffset, baseline+shadowOffset)
		shadow.DrawString(line)
		fill.Dot = fixed.P(x, baseline)
		fill.DrawString(line)
	}

	return canvas
}

// face builds a caption face at the given pixel size, degrading to the
// fixed-size bitmap face when no scalable font is available.
func (c *Compositor) face(size int) font.Face {
	if c.font != nil {
		f, err := opentype.NewFace(c.font, &opentype.FaceOptions{
			Size:    float64(size),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			return f
		}
	}
	return basicfont.Face7x13
}
