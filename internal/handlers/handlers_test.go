package handlers

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/phototagger/internal/config"
	"github.com/lehigh-university-libraries/phototagger/internal/exifdata"
	"github.com/lehigh-university-libraries/phototagger/internal/overlay"
	"github.com/lehigh-university-libraries/phototagger/internal/tagger"
)

type stubResolver struct{}

func (stubResolver) ResolvePlace(ctx context.Context, lat, lon float64) (string, bool) {
	return "", false
}

func newTestHandler() *Handler {
	t := tagger.New(
		exifdata.NewExtractor(stubResolver{}),
		overlay.NewCompositor(nil, 1920, 30),
	)
	cfg := &config.Config{
		Thumbnail: config.ThumbnailConfig{MaxSize: 300, JPEGQuality: 85},
	}
	return New(t, tagger.MarkerTagState{}, cfg)
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 32, 18))); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestHandleBrowse(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{"beta", "alpha", ".hidden"} {
		if err := os.Mkdir(filepath.Join(dir, d), 0755); err != nil {
			t.Fatal(err)
		}
	}

	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/browse?path="+dir, nil)
	w := httptest.NewRecorder()
	h.HandleBrowse(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Current string   `json:"current"`
		Parent  *string  `json:"parent"`
		Dirs    []string `json:"dirs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Current != dir {
		t.Errorf("current = %q, want %q", resp.Current, dir)
	}
	if resp.Parent == nil || *resp.Parent != filepath.Dir(dir) {
		t.Errorf("parent = %v", resp.Parent)
	}
	if strings.Join(resp.Dirs, ",") != "alpha,beta" {
		t.Errorf("dirs = %v, want [alpha beta] (sorted, dot dirs hidden)", resp.Dirs)
	}
}

func TestHandleBrowseNotADirectory(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/browse?path=/does/not/exist", nil)
	w := httptest.NewRecorder()
	h.HandleBrowse(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] == "" {
		t.Error("expected an error field in the JSON body")
	}
}

func TestHandleImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "one.png"))
	writePNG(t, filepath.Join(dir, "two.jpg"))

	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/images?folder="+dir, nil)
	w := httptest.NewRecorder()
	h.HandleImages(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Folder string `json:"folder"`
		Images []struct {
			Filename string `json:"filename"`
			Tagged   bool   `json:"tagged"`
		} `json:"images"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Images) != 2 {
		t.Fatalf("listed %d images, want 2", len(resp.Images))
	}
	if resp.Images[0].Filename != "one.png" || resp.Images[1].Filename != "two.jpg" {
		t.Errorf("unexpected listing %+v", resp.Images)
	}
}

func TestHandleImagesMissingFolder(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
	w := httptest.NewRecorder()
	h.HandleImages(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleThumbnail(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "pic.png"))

	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/thumbnail/pic.png?folder="+dir+"&size=16", nil)
	w := httptest.NewRecorder()
	h.HandleThumbnail(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q, want image/jpeg", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("expected JPEG bytes in the response")
	}
}

func TestHandleThumbnailNotFound(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/thumbnail/ghost.png?folder="+t.TempDir(), nil)
	w := httptest.NewRecorder()
	h.HandleThumbnail(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestHandleTag(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "plain.png"))

	h := newTestHandler()

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/tag", strings.NewReader("{"))
		w := httptest.NewRecorder()
		h.HandleTag(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("file not found", func(t *testing.T) {
		body := `{"folder":"` + dir + `","filename":"ghost.jpg"}`
		req := httptest.NewRequest(http.MethodPost, "/api/tag", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.HandleTag(w, req)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
	})

	t.Run("skips image without EXIF", func(t *testing.T) {
		body := `{"folder":"` + dir + `","filename":"plain.png"}`
		req := httptest.NewRequest(http.MethodPost, "/api/tag", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.HandleTag(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		var resp struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Status != "skipped" {
			t.Errorf("status = %q, want skipped", resp.Status)
		}
	})

	t.Run("skips already tagged image", func(t *testing.T) {
		taggedDir := filepath.Join(dir, "tagged")
		if err := os.MkdirAll(taggedDir, 0755); err != nil {
			t.Fatal(err)
		}
		writePNG(t, filepath.Join(taggedDir, "plain_tagged.png"))

		body := `{"folder":"` + dir + `","filename":"plain.png"}`
		req := httptest.NewRequest(http.MethodPost, "/api/tag", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.HandleTag(w, req)

		var resp struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Status != "skipped" || resp.Message != "Already tagged" {
			t.Errorf("got %+v, want skipped/Already tagged", resp)
		}
	})
}
