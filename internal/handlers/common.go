package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/phototagger/internal/config"
	"github.com/lehigh-university-libraries/phototagger/internal/tagger"
)

type Handler struct {
	tagger       *tagger.Tagger
	tagState     tagger.TagStateChecker
	thumbSize    int
	thumbQuality int
}

func New(t *tagger.Tagger, state tagger.TagStateChecker, cfg *config.Config) *Handler {
	return &Handler{
		tagger:       t,
		tagState:     state,
		thumbSize:    cfg.Thumbnail.MaxSize,
		thumbQuality: cfg.Thumbnail.JPEGQuality,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeJSONStatus writes a JSON body with an explicit status code.
func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

// writeJSONError emits the API error shape `{"error": "..."}` with the given
// status code.
func (h *Handler) writeJSONError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("Unable to encode JSON error response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
