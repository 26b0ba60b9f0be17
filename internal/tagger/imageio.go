package tagger

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Importing these also registers their decoders, so listed .tiff and
	// .bmp files are decodable alongside the stdlib formats.
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	_ "image/gif"
)

// jpegQuality is used for tagged JPEG outputs.
const jpegQuality = 95

// decodeImage opens and fully decodes the raster at path.
func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}

// encodeImage writes img to w in the format implied by the output path's
// extension, defaulting to JPEG.
func encodeImage(w io.Writer, img image.Image, outPath string) error {
	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".png":
		return png.Encode(w, img)
	case ".tiff":
		return tiff.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	}
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
