package report

import (
	"fmt"
	"os"
	"time"

	"github.com/lehigh-university-libraries/phototagger/internal/tagger"
	"gopkg.in/yaml.v3"
)

// FileResult is one per-file record in a batch report.
type FileResult struct {
	Filename string        `yaml:"filename"`
	Status   tagger.Status `yaml:"status"`
	Output   string        `yaml:"output,omitempty"`
	Message  string        `yaml:"message,omitempty"`
}

// Summary aggregates a batch run.
type Summary struct {
	Folder    string `yaml:"folder"`
	Timestamp string `yaml:"timestamp"`
	Total     int    `yaml:"total"`
	Succeeded int    `yaml:"succeeded"`
	Skipped   int    `yaml:"skipped"`
	Failed    int    `yaml:"failed"`
}

// BatchReport is the complete YAML document written after a batch run.
type BatchReport struct {
	Summary Summary      `yaml:"summary"`
	Results []FileResult `yaml:"results"`
}

// Build assembles a report from per-file results.
func Build(folder string, results []FileResult) BatchReport {
	r := BatchReport{
		Summary: Summary{
			Folder:    folder,
			Timestamp: time.Now().Format("2006-01-02_15-04-05"),
			Total:     len(results),
		},
		Results: results,
	}
	for _, fr := range results {
		switch fr.Status {
		case tagger.StatusSuccess:
			r.Summary.Succeeded++
		case tagger.StatusSkipped:
			r.Summary.Skipped++
		case tagger.StatusError:
			r.Summary.Failed++
		}
	}
	return r
}

// SaveToYAML writes the report to path.
func SaveToYAML(path string, r BatchReport) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}
