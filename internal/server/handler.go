// Package server exposes the analyzer over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"section-matcher/internal/app"
	imgdecode "section-matcher/internal/image"
	"section-matcher/internal/system"
	"section-matcher/internal/version"
)

// Analyzer is the service behind the upload endpoint.
type Analyzer interface {
	AnalyzeBytes(ctx context.Context, data []byte) (*app.Analysis, error)
	CatalogSize() int
	State() *app.State
}

// Handler serves the HTTP endpoints.
type Handler struct {
	analyzer  Analyzer
	uploadDir string
	maxBytes  int64
	log       *slog.Logger
}

// NewHandler creates a handler. Uploads are saved under uploadDir and
// limited to maxBytes.
func NewHandler(analyzer Analyzer, uploadDir string, maxBytes int64, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{analyzer: analyzer, uploadDir: uploadDir, maxBytes: maxBytes, log: logger}
}

// Routes returns the mux with every endpoint registered and CORS applied.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", h.UploadHandler)
	mux.HandleFunc("/health", h.HealthHandler)
	mux.HandleFunc("/{$}", h.IndexHandler)
	return corsMiddleware(mux)
}

// IndexHandler answers GET /.
func (h *Handler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "Hello, World! Backend is running.")
}

// uploadResponse is the body of a successful upload.
type uploadResponse struct {
	Message  string        `json:"message"`
	Filename string        `json:"filename"`
	Analysis *app.Analysis `json:"analysis"`
}

// UploadHandler handles POST /upload with a multipart "file" field.
func (h *Handler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.maxBytes > 0 {
		if r.ContentLength > h.maxBytes {
			respondError(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, "No file part", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// A part sent with an empty filename is parsed as a plain value.
		if _, ok := r.MultipartForm.Value["file"]; ok {
			respondError(w, "No selected file", http.StatusBadRequest)
			return
		}
		respondError(w, "No file part", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		respondError(w, "No selected file", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error("read upload", "error", err)
		respondError(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	filename := SecureFilename(header.Filename)
	if err := h.save(filename, data); err != nil {
		h.log.Error("save upload", "filename", filename, "error", err)
		respondError(w, "Failed to save file", http.StatusInternalServerError)
		return
	}
	h.log.Info("upload received", "filename", filename, "bytes", len(data))

	analysis, err := h.analyzer.AnalyzeBytes(r.Context(), data)
	switch {
	case errors.Is(err, imgdecode.ErrDecode):
		h.log.Warn("upload is not a readable image", "filename", filename, "error", err)
		respondError(w, "Failed to decode image", http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.log.Error("analysis failed", "filename", filename, "error", err)
		respondError(w, "An unexpected error occurred during analysis", http.StatusInternalServerError)
		return
	}

	respondJSON(w, uploadResponse{
		Message:  "Analysis complete",
		Filename: filename,
		Analysis: analysis,
	}, http.StatusOK)
}

func (h *Handler) save(filename string, data []byte) error {
	if h.uploadDir == "" {
		return nil
	}
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(h.uploadDir, filename), data, 0o644)
}

type healthResponse struct {
	Status      string       `json:"status"`
	Version     string       `json:"version"`
	CatalogSize int          `json:"catalog_size"`
	Uptime      string       `json:"uptime"`
	Counters    app.Counters `json:"counters"`
	System      system.Stats `json:"system"`
}

// HealthHandler answers GET /health.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	state := h.analyzer.State()
	respondJSON(w, healthResponse{
		Status:      "ok",
		Version:     version.String(),
		CatalogSize: h.analyzer.CatalogSize(),
		Uptime:      state.Uptime().Round(time.Second).String(),
		Counters:    state.Counters(),
		System:      system.Snapshot(),
	}, http.StatusOK)
}

func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}

// corsMiddleware allows any origin and answers preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
