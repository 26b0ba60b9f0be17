package exifdata

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDecodeTriple(t *testing.T) {
	tests := []struct {
		name     string
		dms      [3]Rational
		ref      string
		expected float64
	}{
		{
			name:     "northern hemisphere",
			dms:      [3]Rational{{40, 1}, {26, 1}, {46, 1}},
			ref:      "N",
			expected: 40.446111,
		},
		{
			name:     "southern hemisphere negates",
			dms:      [3]Rational{{40, 1}, {26, 1}, {46, 1}},
			ref:      "S",
			expected: -40.446111,
		},
		{
			name:     "western hemisphere negates",
			dms:      [3]Rational{{73, 1}, {59, 1}, {0, 1}},
			ref:      "W",
			expected: -73.983333,
		},
		{
			name:     "fractional seconds",
			dms:      [3]Rational{{35, 1}, {41, 1}, {2268, 100}},
			ref:      "N",
			expected: 35.689630,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTriple(tt.dms, tt.ref)
			if err != nil {
				t.Fatalf("DecodeTriple returned error: %v", err)
			}
			if math.Abs(got-tt.expected) > 0.0001 {
				t.Errorf("DecodeTriple = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDecodeTripleZeroDenominator(t *testing.T) {
	tests := []struct {
		name string
		dms  [3]Rational
	}{
		{name: "zero degree denominator", dms: [3]Rational{{40, 0}, {26, 1}, {46, 1}}},
		{name: "zero minute denominator", dms: [3]Rational{{40, 1}, {26, 0}, {46, 1}}},
		{name: "zero second denominator", dms: [3]Rational{{40, 1}, {26, 1}, {46, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTriple(tt.dms, "N")
			if !errors.Is(err, ErrBadRational) {
				t.Errorf("expected ErrBadRational, got %v", err)
			}
		})
	}
}

func TestMetadataEmpty(t *testing.T) {
	if !(Metadata{}).Empty() {
		t.Error("zero Metadata should be empty")
	}
	if (Metadata{Place: "Paris, France", HasPlace: true}).Empty() {
		t.Error("metadata with a place should not be empty")
	}
	if (Metadata{CapturedAt: time.Now(), HasTime: true}).Empty() {
		t.Error("metadata with a time should not be empty")
	}
}

type stubResolver struct {
	place  string
	ok     bool
	called bool
}

func (s *stubResolver) ResolvePlace(ctx context.Context, lat, lon float64) (string, bool) {
	s.called = true
	return s.place, s.ok
}

func writeTestPNG(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "plain.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write test png: %v", err)
	}
	return path
}

func TestExtractNoExif(t *testing.T) {
	resolver := &stubResolver{}
	extractor := NewExtractor(resolver)

	path := writeTestPNG(t, t.TempDir())
	md, err := extractor.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !md.Empty() {
		t.Errorf("expected empty metadata for image without EXIF, got %+v", md)
	}
	if resolver.called {
		t.Error("resolver should not be consulted without GPS tags")
	}
}

func TestExtractMissingFile(t *testing.T) {
	extractor := NewExtractor(&stubResolver{})

	_, err := extractor.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
