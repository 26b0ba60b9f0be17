package exifdata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// exifTimeLayout is the fixed DateTimeOriginal format.
const exifTimeLayout = "2006:01:02 15:04:05"

// ErrBadRational marks a GPS rational with a zero denominator, which
// indicates corrupt metadata rather than a missing field.
var ErrBadRational = errors.New("zero denominator in GPS rational")

// Rational is one EXIF (numerator, denominator) pair.
type Rational struct {
	Num int64
	Den int64
}

// Metadata holds the caption-relevant fields recovered from an image's EXIF
// block. Either field may be absent; an image with both absent is not
// eligible for tagging.
type Metadata struct {
	Place      string
	HasPlace   bool
	CapturedAt time.Time
	HasTime    bool
}

// Empty reports whether neither a place nor a capture time was found.
func (m Metadata) Empty() bool {
	return !m.HasPlace && !m.HasTime
}

// PlaceResolver turns decimal coordinates into a human-readable place name.
// ok is false when no place could be resolved; that is not an error for the
// caller.
type PlaceResolver interface {
	ResolvePlace(ctx context.Context, lat, lon float64) (place string, ok bool)
}

// DecodeTriple converts a degrees/minutes/seconds rational triple and its
// hemisphere reference ("N", "S", "E" or "W") into signed decimal degrees.
func DecodeTriple(dms [3]Rational, ref string) (float64, error) {
	vals := [3]float64{}
	for i, r := range dms {
		if r.Den == 0 {
			return 0, fmt.Errorf("component %d: %w", i, ErrBadRational)
		}
		vals[i] = float64(r.Num) / float64(r.Den)
	}

	decimal := vals[0] + vals[1]/60 + vals[2]/3600
	if ref == "S" || ref == "W" {
		decimal = -decimal
	}
	return decimal, nil
}

// Extractor reads EXIF metadata from image files and resolves GPS
// coordinates into place names through the injected resolver.
type Extractor struct {
	resolver PlaceResolver
}

func NewExtractor(resolver PlaceResolver) *Extractor {
	return &Extractor{resolver: resolver}
}

// Extract returns the capture metadata for the image at path. A missing or
// undecodable EXIF block yields empty metadata, not an error; a present but
// malformed DateTimeOriginal or GPS rational is an error, since it indicates
// corrupt input. Network I/O happens only transitively through the resolver.
func (e *Extractor) Extract(ctx context.Context, path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		slog.Debug("no EXIF block", "path", path, "error", err)
		return Metadata{}, nil
	}

	var md Metadata

	if tag, err := x.Get(exif.DateTimeOriginal); err == nil {
		s, err := tag.StringVal()
		if err != nil {
			return Metadata{}, fmt.Errorf("read DateTimeOriginal: %w", err)
		}
		t, err := time.Parse(exifTimeLayout, s)
		if err != nil {
			return Metadata{}, fmt.Errorf("parse DateTimeOriginal %q: %w", s, err)
		}
		md.CapturedAt = t
		md.HasTime = true
	}

	lat, lon, ok, err := gpsCoordinates(x)
	if err != nil {
		return Metadata{}, err
	}
	if ok {
		if place, found := e.resolver.ResolvePlace(ctx, lat, lon); found {
			md.Place = place
			md.HasPlace = true
		}
	}

	return md, nil
}

// gpsCoordinates decodes the GPS tags into decimal degrees. ok is false when
// either coordinate tag is absent; an error means the tags exist but are
// malformed.
func gpsCoordinates(x *exif.Exif) (lat, lon float64, ok bool, err error) {
	latTag, latErr := x.Get(exif.GPSLatitude)
	lonTag, lonErr := x.Get(exif.GPSLongitude)
	if latErr != nil || lonErr != nil {
		// Both tags are required for a usable coordinate.
		return 0, 0, false, nil
	}

	latRef, err := refValue(x, exif.GPSLatitudeRef)
	if err != nil {
		return 0, 0, false, err
	}
	lonRef, err := refValue(x, exif.GPSLongitudeRef)
	if err != nil {
		return 0, 0, false, err
	}

	lat, err = decodeTag(latTag, latRef)
	if err != nil {
		return 0, 0, false, fmt.Errorf("decode GPSLatitude: %w", err)
	}
	lon, err = decodeTag(lonTag, lonRef)
	if err != nil {
		return 0, 0, false, fmt.Errorf("decode GPSLongitude: %w", err)
	}
	return lat, lon, true, nil
}

func refValue(x *exif.Exif, name exif.FieldName) (string, error) {
	tag, err := x.Get(name)
	if err != nil {
		return "", fmt.Errorf("missing %s tag: %w", name, err)
	}
	s, err := tag.StringVal()
	if err != nil {
		return "", fmt.Errorf("read %s tag: %w", name, err)
	}
	return s, nil
}

func decodeTag(tag *tiff.Tag, ref string) (float64, error) {
	var dms [3]Rational
	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return 0, fmt.Errorf("rational component %d: %w", i, err)
		}
		dms[i] = Rational{Num: num, Den: den}
	}
	return DecodeTriple(dms, ref)
}
