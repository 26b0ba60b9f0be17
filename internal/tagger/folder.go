package tagger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imageExtensions are the file types the folder service lists,
// case-insensitive.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".bmp":  true,
	".heic": true,
}

// Entry is one listed image with its tag state at call time.
type Entry struct {
	Name   string `json:"filename"`
	Tagged bool   `json:"tagged"`
}

// TagStateChecker reports whether a source image already has a tagged
// output. The filesystem marker is the default implementation; callers hold
// the interface so an index could substitute later.
type TagStateChecker interface {
	IsTagged(imagePath string) bool
}

// MarkerTagState implements TagStateChecker via the sole source of truth:
// existence of `<dir>/tagged/<stem>_tagged.png`. The check is performed
// fresh on every call, never cached.
type MarkerTagState struct{}

func (MarkerTagState) IsTagged(imagePath string) bool {
	taggedFile := filepath.Join(filepath.Dir(imagePath), "tagged", stem(imagePath)+"_tagged.png")
	_, err := os.Stat(taggedFile)
	return err == nil
}

// ListImages returns the sorted image entries in dir, excluding anything
// whose stem already contains "tagged", each annotated with its current tag
// state.
func ListImages(dir string, state TagStateChecker) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}

	images := make([]Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if strings.Contains(stem(name), "tagged") {
			continue
		}
		images = append(images, Entry{
			Name:   name,
			Tagged: state.IsTagged(filepath.Join(dir, name)),
		})
	}

	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images, nil
}
