package tagger

import (
	"image"
	"image/jpeg"
	"io"

	xdraw "golang.org/x/image/draw"
)

// Thumbnail decodes the image at path and scales it proportionally so
// neither side exceeds maxSize. Images already within bounds are returned
// undisturbed; thumbnails never upscale.
func Thumbnail(path string, maxSize int) (image.Image, error) {
	img, err := decodeImage(path)
	if err != nil {
		return nil, err
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w <= maxSize && h <= maxSize {
		return img, nil
	}

	scale := float64(maxSize) / float64(w)
	if h > w {
		scale = float64(maxSize) / float64(h)
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// EncodeThumbnail writes img as a JPEG byte stream for transport.
func EncodeThumbnail(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}
