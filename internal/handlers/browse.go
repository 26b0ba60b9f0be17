package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type browseResponse struct {
	Current string   `json:"current"`
	Parent  *string  `json:"parent"`
	Dirs    []string `json:"dirs"`
}

// HandleBrowse lists subdirectories of a path for the folder picker.
// Defaults to the user home directory when no path is given.
func (h *Handler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			h.writeJSONError(w, "Unable to determine home directory", http.StatusInternalServerError)
			return
		}
		path = home
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		h.writeJSONError(w, "Not a directory: "+path, http.StatusNotFound)
		return
	}

	dirs := []string{}
	entries, err := os.ReadDir(path)
	if err != nil {
		// Tolerated: an unreadable folder still gets a (possibly empty)
		// listing, matching the permissive browse behavior.
		slog.Warn("permission denied listing folder", "path", path, "error", err)
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)

	resp := browseResponse{Current: path, Dirs: dirs}
	if parent := filepath.Dir(path); parent != path {
		resp.Parent = &parent
	}
	h.writeJSON(w, resp)
}
