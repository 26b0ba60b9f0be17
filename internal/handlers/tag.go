package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/phototagger/internal/tagger"
)

type tagRequest struct {
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
}

type tagResponse struct {
	Filename string        `json:"filename"`
	Status   tagger.Status `json:"status"`
	Output   string        `json:"output,omitempty"`
	Message  string        `json:"message"`
}

// HandleTag tags a single image. Output lands in the folder's tagged/
// subdirectory so the tag-state marker picks it up.
//
// JSON body: {"folder": "/absolute/path", "filename": "IMG_001.jpg"}
func (h *Handler) HandleTag(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req tagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Folder == "" || req.Filename == "" {
		h.writeJSONError(w, "Missing folder or filename", http.StatusBadRequest)
		return
	}

	imagePath := filepath.Join(req.Folder, req.Filename)
	if info, err := os.Stat(imagePath); err != nil || info.IsDir() {
		h.writeJSONStatus(w, http.StatusNotFound, tagResponse{
			Filename: req.Filename,
			Status:   tagger.StatusError,
			Message:  "File not found: " + imagePath,
		})
		return
	}

	if h.tagState.IsTagged(imagePath) {
		h.writeJSON(w, tagResponse{
			Filename: req.Filename,
			Status:   tagger.StatusSkipped,
			Message:  "Already tagged",
		})
		return
	}

	res := h.tagger.Tag(r.Context(), imagePath, tagger.Options{
		OutputDir: filepath.Join(req.Folder, "tagged"),
	})

	resp := tagResponse{
		Filename: req.Filename,
		Status:   res.Status,
		Message:  res.Message,
	}
	if res.Status == tagger.StatusSuccess {
		resp.Output = filepath.Base(res.Path)
	}
	if res.Status == tagger.StatusError {
		h.writeJSONStatus(w, http.StatusInternalServerError, resp)
		return
	}
	h.writeJSON(w, resp)
}
