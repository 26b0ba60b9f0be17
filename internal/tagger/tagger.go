package tagger

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/phototagger/internal/exifdata"
	"github.com/lehigh-university-libraries/phototagger/internal/metrics"
	"github.com/lehigh-university-libraries/phototagger/internal/overlay"
)

// Status classifies the outcome of a single tagging operation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Result is the contract returned to every caller, CLI or service, for one
// tagging operation.
type Result struct {
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Status  Status `json:"status" yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Options selects where the tagged output is written. An explicit OutputPath
// wins; else OutputDir places `<stem>_tagged.png` inside the directory
// (created if missing); else the output lands beside the source as
// `<stem>_tagged<ext>`.
type Options struct {
	OutputPath string
	OutputDir  string
}

// captionTimeLayout renders the capture timestamp for the overlay.
const captionTimeLayout = "January 02, 2006  03:04 PM"

// skipMessage is the contract message when an image carries no usable EXIF.
const skipMessage = "no EXIF location or time data found"

// Tagger derives a caption from an image's EXIF metadata and writes a
// letterboxed, captioned copy.
type Tagger struct {
	extractor  *exifdata.Extractor
	compositor *overlay.Compositor
}

func New(extractor *exifdata.Extractor, compositor *overlay.Compositor) *Tagger {
	return &Tagger{extractor: extractor, compositor: compositor}
}

// Caption renders the overlay text: place on one line, formatted capture
// time on the next. Either line may be absent.
func Caption(md exifdata.Metadata) string {
	var lines []string
	if md.HasPlace {
		lines = append(lines, md.Place)
	}
	if md.HasTime {
		lines = append(lines, md.CapturedAt.Format(captionTimeLayout))
	}
	return strings.Join(lines, "\n")
}

// Tag runs the full pipeline for one image. Failures never panic or abort a
// surrounding batch; they are reported in the Result.
func (t *Tagger) Tag(ctx context.Context, imagePath string, opts Options) Result {
	res := t.tag(ctx, imagePath, opts)
	metrics.TagsTotal.WithLabelValues(string(res.Status)).Inc()

	switch res.Status {
	case StatusSuccess:
		slog.Info("tagged image", "source", imagePath, "output", res.Path)
	case StatusSkipped:
		slog.Info("skipped image", "source", imagePath, "reason", res.Message)
	case StatusError:
		slog.Error("failed to tag image", "source", imagePath, "error", res.Message)
	}
	return res
}

func (t *Tagger) tag(ctx context.Context, imagePath string, opts Options) Result {
	md, err := t.extractor.Extract(ctx, imagePath)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}
	}
	if md.Empty() {
		return Result{Status: StatusSkipped, Message: skipMessage}
	}

	img, err := decodeImage(imagePath)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}
	}

	composited := t.compositor.Overlay(img, Caption(md))

	outPath, err := resolveOutputPath(imagePath, opts)
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}
	}

	if err := writeImage(composited, outPath); err != nil {
		return Result{Status: StatusError, Message: err.Error()}
	}

	return Result{Path: outPath, Status: StatusSuccess, Message: "Tagged successfully"}
}

func resolveOutputPath(imagePath string, opts Options) (string, error) {
	if opts.OutputPath != "" {
		return opts.OutputPath, nil
	}
	if opts.OutputDir != "" {
		if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return filepath.Join(opts.OutputDir, stem(imagePath)+"_tagged.png"), nil
	}
	ext := filepath.Ext(imagePath)
	return filepath.Join(filepath.Dir(imagePath), stem(imagePath)+"_tagged"+ext), nil
}

// writeImage encodes img to outPath. Encoding is the last step of the
// pipeline; a failed encode removes the output so no partial file survives.
func writeImage(img image.Image, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := encodeImage(f, img, outPath); err != nil {
		f.Close()
		os.Remove(outPath)
		return fmt.Errorf("encode output image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
