package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"saved-jobs-go/internal/models"

	"github.com/go-chi/chi/v5"
)

// authorize checks that the caller is signed in as the user named in the
// path and returns that user ID.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := h.session(r.Context())
	if caller == nil {
		newProblem(http.StatusUnauthorized, "unauthenticated", "authentication required").WriteJSON(w)
		return "", false
	}
	userID := chi.URLParam(r, "userID")
	if caller.ID != userID {
		newProblem(http.StatusForbidden, "forbidden", "cannot access another user's saved jobs").WriteJSON(w)
		return "", false
	}
	return userID, true
}

func (h *Handler) apiList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	jobs, err := h.store.GetSavedJobs(r.Context(), userID)
	if err != nil {
		h.writeError(w, "list saved jobs", err)
		return
	}
	if jobs == nil {
		jobs = []models.SavedJob{}
	}
	WriteData(w, http.StatusOK, jobs)
}

func (h *Handler) apiSave(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var job models.SavedJob
	if err := DecodeJSON(r, &job); err != nil {
		newProblem(http.StatusBadRequest, "validation", "invalid JSON body").WriteJSON(w)
		return
	}
	if err := job.Validate(); err != nil {
		MapError(err).WriteJSON(w)
		return
	}

	if err := h.store.SaveJob(r.Context(), userID, job); err != nil {
		h.writeError(w, "save job", err)
		return
	}
	WriteData(w, http.StatusCreated, job)
}

func (h *Handler) apiUnsave(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	jobID, err := models.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		MapError(err).WriteJSON(w)
		return
	}

	if err := h.store.UnsaveJob(r.Context(), userID, jobID); err != nil {
		h.writeError(w, "unsave job", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	problem := MapError(err)
	if problem.Status >= http.StatusInternalServerError {
		h.logger.Error(fmt.Sprintf("failed to %s", op), slog.String("error", err.Error()))
	}
	problem.WriteJSON(w)
}
