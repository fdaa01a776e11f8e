package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/researchlog/pkg/researchlog"
)

// DefaultMaxUploadBytes bounds the multipart body of an asset upload.
const DefaultMaxUploadBytes int64 = 32 << 20

// AssetHandler serves asset upload and download.
type AssetHandler struct {
	service        researchlog.Service
	maxUploadBytes int64
}

// NewAssetHandler creates an asset handler. A non-positive maxUploadBytes
// uses DefaultMaxUploadBytes.
func NewAssetHandler(service researchlog.Service, maxUploadBytes int64) *AssetHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &AssetHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Routes returns the router for asset endpoints
func (h *AssetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.UploadAsset)
	r.Get("/{filename}", h.ServeAsset)
	return r
}

// UploadAssetResponse is returned after an upload
type UploadAssetResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

// UploadAsset stores the multipart field "file" under a time-prefixed name
func (h *AssetHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		if !errors.Is(err, http.ErrMissingFile) {
			slog.Warn("Failed to parse upload", "error", err)
		}
		writeError(w, r, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	asset, err := h.service.StoreAsset(r.Context(), header.Filename, file)
	if err != nil {
		handleServiceError(w, r, err, "Asset not found", "Failed to upload file")
		return
	}

	render.JSON(w, r, UploadAssetResponse{
		Success:  true,
		URL:      asset.URL,
		FileName: asset.FileName,
	})
}

// ServeAsset writes the raw asset bytes with a Content-Type inferred from
// the file extension
func (h *AssetHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	fileName := chi.URLParam(r, "filename")
	// chi routes on RawPath when it is set, leaving the parameter escaped.
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(fileName); err == nil {
			fileName = decoded
		}
	}

	asset, err := h.service.ReadAsset(r.Context(), fileName)
	if err != nil {
		handleServiceError(w, r, err, "Asset not found", "Failed to read file")
		return
	}

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(asset.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(asset.Data); err != nil {
		slog.Error("Failed to write asset", "file_name", fileName, "error", err)
	}
}
