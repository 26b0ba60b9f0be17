package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/phototagger/internal/tagger"
)

type imagesResponse struct {
	Folder string         `json:"folder"`
	Images []tagger.Entry `json:"images"`
}

// HandleImages lists the images in a folder with their tag state.
func (h *Handler) HandleImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	folder := strings.TrimSpace(r.URL.Query().Get("folder"))
	if folder == "" {
		h.writeJSONError(w, "No folder specified", http.StatusBadRequest)
		return
	}

	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		h.writeJSONError(w, "Directory not found: "+folder, http.StatusNotFound)
		return
	}

	images, err := tagger.ListImages(folder, h.tagState)
	if err != nil {
		h.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("listed images", "count", len(images), "folder", folder)
	h.writeJSON(w, imagesResponse{Folder: folder, Images: images})
}
