package overlay

import (
	"log/slog"
	"os"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// LoadFont parses the first usable font file from the prioritized list of
// paths, falling back to the embedded Go Regular face when none load. The
// result is parsed once and reused for every caption.
func LoadFont(paths []string) *opentype.Font {
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		ft, err := opentype.Parse(b)
		if err != nil {
			slog.Warn("failed to parse font file", "path", p, "error", err)
			continue
		}
		slog.Debug("loaded caption font", "path", p)
		return ft
	}

	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		// Embedded font data; parse failure would be a build defect. The
		// compositor still degrades to a bitmap face when ft is nil.
		slog.Error("failed to parse embedded fallback font", "error", err)
		return nil
	}
	return ft
}
