package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"saved-jobs-go/internal/middleware"
	"saved-jobs-go/internal/models"
	"saved-jobs-go/internal/page"
	"saved-jobs-go/internal/storage"

	"github.com/go-chi/chi/v5"
)

const pagePath = "/saved-jobs"

var pageRoutes = page.Routes{
	List:   pagePath + "/list",
	Browse: pagePath + "/browse",
	Unsave: func(id models.JobID) string {
		return pagePath + "/" + url.PathEscape(string(id)) + "/unsave"
	},
	JobDetails: func(id models.JobID) string {
		return pagePath + "/" + url.PathEscape(string(id)) + "/details"
	},
}

// isFetch reports whether the request came from the page script rather than
// a plain form submission or navigation.
func isFetch(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "fetch"
}

// showPage renders the document shell. Signed-in users get the loading state;
// the page script then fetches the list.
func (h *Handler) showPage(w http.ResponseWriter, r *http.Request) {
	user := h.session(r.Context())
	p := page.New(h.store, h.logger, user)
	if user == nil {
		p.Load(r.Context())
	}

	h.render(w, r, true, page.Data{
		View:   p.Snapshot(),
		Routes: pageRoutes,
		Alert:  r.URL.Query().Get("alert"),
	})
}

// showList loads the saved jobs and renders the list. With full=1 it renders
// the whole document instead, for clients without scripting.
func (h *Handler) showList(w http.ResponseWriter, r *http.Request) {
	p := page.New(h.store, h.logger, h.session(r.Context()))
	p.Load(r.Context())

	data := page.Data{View: p.Snapshot(), Routes: pageRoutes}
	full := r.URL.Query().Get("full") == "1"
	if full {
		data.Alert = r.URL.Query().Get("alert")
	}
	h.render(w, r, full, data)
}

func (h *Handler) unsave(w http.ResponseWriter, r *http.Request) {
	user := h.session(r.Context())
	fetch := isFetch(r)
	if user == nil {
		if fetch {
			http.Error(w, "Please log in to view your saved jobs", http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, pagePath, http.StatusSeeOther)
		return
	}

	p := page.New(h.store, h.logger, user)
	if fetch {
		p.Load(r.Context())
	}

	if err := p.Unsave(r.Context(), chi.URLParam(r, "jobID")); err != nil {
		if fetch {
			http.Error(w, page.ErrUnsaveFailed.Error(), unsaveStatus(err))
			return
		}
		http.Redirect(w, r, pagePath+"?alert="+page.AlertRemoveFailed, http.StatusSeeOther)
		return
	}

	if !fetch {
		http.Redirect(w, r, pagePath, http.StatusSeeOther)
		return
	}
	h.render(w, r, false, page.Data{View: p.Snapshot(), Routes: pageRoutes})
}

func unsaveStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidJobID):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) browse(w http.ResponseWriter, r *http.Request) {
	h.nav.Navigate(w, r, page.BrowseJobsPath)
}

func (h *Handler) details(w http.ResponseWriter, r *http.Request) {
	h.nav.Navigate(w, r, page.JobDetailPath(models.JobID(chi.URLParam(r, "jobID"))))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, full bool, data page.Data) {
	var buf bytes.Buffer
	var err error
	if full {
		err = h.renderer.Page(&buf, data)
	} else {
		err = h.renderer.List(&buf, data)
	}
	if err != nil {
		h.logger.Error("failed to render page",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
