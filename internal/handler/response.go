package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"saved-jobs-go/internal/models"
	"saved-jobs-go/internal/storage"
)

const problemTypeBase = "https://saved-jobs.local/errors/"

// DataResponse wraps a successful response
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ProblemDetails represents RFC 9457 Problem Details for HTTP APIs
type ProblemDetails struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (p *ProblemDetails) Error() string {
	return p.Title + ": " + p.Detail
}

// WriteJSON writes the problem details as JSON response
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func newProblem(status int, kind, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   problemTypeBase + kind,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteData writes a successful data response
func WriteData(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, DataResponse{Data: data})
}

// DecodeJSON decodes a JSON request body into the given struct
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// MapError converts a store or validation error to a ProblemDetails response.
func MapError(err error) *ProblemDetails {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return newProblem(http.StatusNotFound, "not-found", err.Error())
	case errors.Is(err, storage.ErrAlreadySaved):
		return newProblem(http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, models.ErrInvalidJobID), errors.Is(err, models.ErrInvalidSavedJob):
		return newProblem(http.StatusBadRequest, "validation", err.Error())
	default:
		return newProblem(http.StatusInternalServerError, "internal", "An unexpected error occurred")
	}
}
