package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/phototagger/internal/report"
	"github.com/lehigh-university-libraries/phototagger/internal/tagger"
)

func newBatchCmd(verbose *bool) *cobra.Command {
	var outputDir string
	var reportPath string
	var force bool

	cmd := &cobra.Command{
		Use:   "batch <folder>",
		Short: "Tag every untagged photo in a folder",
		Long: `Tags each image in the folder in turn, writing outputs into the folder's
tagged/ subdirectory (or --output-dir). Images that already have a tagged
output are skipped unless --force is given. A failure on one file never
aborts the rest of the batch.`,
		Example: `  # Tag everything under ./photos into ./photos/tagged
  phototagger batch ./photos

  # Re-tag everything and write a YAML report
  phototagger batch ./photos --force --report batch.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*verbose)
			if err != nil {
				return err
			}

			folder := args[0]
			dest := outputDir
			if dest == "" {
				dest = filepath.Join(folder, "tagged")
			}

			state := tagger.MarkerTagState{}
			entries, err := tagger.ListImages(folder, state)
			if err != nil {
				return err
			}

			t := buildTagger(cfg)
			results := make([]report.FileResult, 0, len(entries))
			for _, entry := range entries {
				fr := report.FileResult{Filename: entry.Name}
				if entry.Tagged && !force {
					fr.Status = tagger.StatusSkipped
					fr.Message = "Already tagged"
				} else {
					res := t.Tag(cmd.Context(), filepath.Join(folder, entry.Name), tagger.Options{OutputDir: dest})
					fr.Status = res.Status
					fr.Message = res.Message
					fr.Output = res.Path
				}
				results = append(results, fr)
				fmt.Printf("%-10s %s\n", fr.Status, entry.Name)
			}

			r := report.Build(folder, results)
			fmt.Printf("\n%d tagged, %d skipped, %d failed (%d total)\n",
				r.Summary.Succeeded, r.Summary.Skipped, r.Summary.Failed, r.Summary.Total)

			if reportPath != "" {
				if err := report.SaveToYAML(reportPath, r); err != nil {
					return err
				}
				fmt.Printf("Report saved to %s\n", reportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for tagged outputs (default <folder>/tagged)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a YAML report of per-file results to this path")
	cmd.Flags().BoolVar(&force, "force", false, "Tag images even if a tagged output already exists")

	return cmd
}
