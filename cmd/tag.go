package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/phototagger/internal/tagger"
)

func newTagCmd(verbose *bool) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "tag <image_path> [output_path]",
		Short: "Tag a single photo with its location and capture time",
		Long: `Tags one photo: extracts the EXIF capture time and GPS coordinates,
reverse-geocodes the coordinates into a place name, and writes a letterboxed
copy with the caption overlaid.

Without an explicit output path the result is written next to the source as
<stem>_tagged<ext>, or as <stem>_tagged.png inside --output-dir.`,
		Example: `  # Write IMG_001_tagged.jpg next to the source
  phototagger tag IMG_001.jpg

  # Explicit output path
  phototagger tag IMG_001.jpg /tmp/captioned.png

  # Write IMG_001_tagged.png into a directory (created if missing)
  phototagger tag IMG_001.jpg --output-dir ./tagged`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*verbose)
			if err != nil {
				return err
			}

			opts := tagger.Options{OutputDir: outputDir}
			if len(args) == 2 {
				opts.OutputPath = args[1]
			}

			res := buildTagger(cfg).Tag(cmd.Context(), args[0], opts)
			switch res.Status {
			case tagger.StatusSuccess:
				fmt.Println(res.Path)
				return nil
			case tagger.StatusSkipped:
				fmt.Println("No EXIF location or time data found")
				return nil
			default:
				return errors.New(res.Message)
			}
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory to write <stem>_tagged.png into (created if missing)")

	return cmd
}
