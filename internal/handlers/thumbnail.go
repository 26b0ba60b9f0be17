package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/phototagger/internal/tagger"
)

// HandleThumbnail serves a dynamically generated JPEG thumbnail.
//
// Path: /api/thumbnail/{filename}
// Query params:
//
//	folder: the folder containing the image (required)
//	size:   max thumbnail dimension (defaults to the configured size)
func (h *Handler) HandleThumbnail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filename := strings.TrimPrefix(r.URL.Path, "/api/thumbnail/")
	if filename == "" || strings.Contains(filename, "..") {
		h.writeError(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	folder := strings.TrimSpace(r.URL.Query().Get("folder"))
	if folder == "" {
		h.writeError(w, "No folder specified", http.StatusBadRequest)
		return
	}

	size := h.thumbSize
	if s := r.URL.Query().Get("size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			size = n
		}
	}

	imagePath := filepath.Join(folder, filename)
	thumb, err := tagger.Thumbnail(imagePath, size)
	if err != nil {
		slog.Warn("failed to generate thumbnail", "path", imagePath, "error", err)
		h.writeError(w, "Image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	if err := tagger.EncodeThumbnail(w, thumb, h.thumbQuality); err != nil {
		slog.Error("failed to encode thumbnail", "path", imagePath, "err", err)
	}
}
