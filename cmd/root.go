package cmd

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/phototagger/internal/config"
	"github.com/lehigh-university-libraries/phototagger/internal/exifdata"
	"github.com/lehigh-university-libraries/phototagger/internal/geocode"
	"github.com/lehigh-university-libraries/phototagger/internal/logging"
	"github.com/lehigh-university-libraries/phototagger/internal/overlay"
	"github.com/lehigh-university-libraries/phototagger/internal/tagger"
)

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "phototagger",
		Short: "Overlay location and capture time captions onto photos",
		Long: `PhotoTagger reads EXIF GPS coordinates and capture timestamps from photos,
reverse-geocodes the coordinates into a place name, and writes a letterboxed
16:9 copy with the caption in the bottom-right corner.

It supports tagging single files, batch-tagging folders, and a folder-browsing
web interface.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newTagCmd(&verbose))
	cmd.AddCommand(newBatchCmd(&verbose))
	cmd.AddCommand(newServeCmd(&verbose))

	return cmd
}

// loadConfig loads configuration and initialises logging for a subcommand.
func loadConfig(verbose bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logging.Setup(level, cfg.Log.Format)
	return cfg, nil
}

// buildTagger wires the metadata extraction and compositing pipeline from
// configuration: Nominatim client → retrying resolver → EXIF extractor, and
// font sources → compositor.
func buildTagger(cfg *config.Config) *tagger.Tagger {
	client := geocode.NewNominatimClient(
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.UserAgent,
		cfg.Geocoder.Language,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second,
	)
	resolver := geocode.NewResolver(
		client,
		cfg.Geocoder.Attempts,
		time.Duration(cfg.Geocoder.BackoffSeconds)*time.Second,
	)
	extractor := exifdata.NewExtractor(resolver)

	ft := overlay.LoadFont(cfg.Overlay.FontPaths)
	compositor := overlay.NewCompositor(ft, cfg.Overlay.MaxWidth, cfg.Overlay.Margin)

	return tagger.New(extractor, compositor)
}
