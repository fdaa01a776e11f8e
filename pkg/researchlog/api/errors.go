package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/researchlog/pkg/researchlog"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is returned by mutations that have nothing else to report.
type SuccessResponse struct {
	Success bool `json:"success"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch researchlog.KindOf(err) {
	case researchlog.KindNotFound:
		return http.StatusNotFound
	case researchlog.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError logs err and writes the matching error response.
// notFound is the message used for 404s; fallback is used for 500s.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, notFound, fallback string) {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound:
		writeError(w, r, status, notFound)
	case http.StatusBadRequest:
		slog.Warn("Rejected request", "path", r.URL.Path, "error", err)
		writeError(w, r, status, validationMessage(err))
	default:
		slog.Error(fallback, "path", r.URL.Path, "kind", researchlog.KindOf(err), "error", err)
		writeError(w, r, status, fallback)
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, researchlog.ErrNoFile):
		return "No file uploaded"
	case errors.Is(err, researchlog.ErrMissingTitle):
		return "Title is required"
	case errors.Is(err, researchlog.ErrInvalidName):
		return "Invalid name"
	default:
		return "Invalid request"
	}
}
