// Package handler wires the saved-jobs page and JSON API onto an HTTP router.
package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"saved-jobs-go/internal/auth"
	"saved-jobs-go/internal/middleware"
	"saved-jobs-go/internal/models"
	"saved-jobs-go/internal/page"
	"saved-jobs-go/internal/storage"

	"github.com/go-chi/chi/v5"
)

// Config holds the router's collaborators.
type Config struct {
	Store    storage.Store
	Auth     auth.Provider
	Renderer *page.Renderer
	Logger   *slog.Logger

	// Navigator performs "Browse Jobs" and "View Details". Defaults to a
	// same-origin redirect.
	Navigator page.Navigator

	// Session returns the signed-in user for a request context. Defaults to
	// auth.UserFromContext.
	Session func(ctx context.Context) *models.User

	RateLimiter     *middleware.RateLimiter
	UnsaveRateLimit int
	AllowedOrigins  []string
}

// Handler serves the saved-jobs routes.
type Handler struct {
	store    storage.Store
	renderer *page.Renderer
	logger   *slog.Logger
	nav      page.Navigator
	session  func(ctx context.Context) *models.User
}

// NewRouter builds the HTTP routes.
func NewRouter(cfg Config) http.Handler {
	h := &Handler{
		store:    cfg.Store,
		renderer: cfg.Renderer,
		logger:   cfg.Logger,
		nav:      cfg.Navigator,
		session:  cfg.Session,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.nav == nil {
		h.nav = page.RedirectNavigator{}
	}
	if h.session == nil {
		h.session = auth.UserFromContext
	}

	limiter := cfg.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter()
	}
	unsaveLimit := middleware.RateLimit(limiter, cfg.UnsaveRateLimit, h.rateLimitKey, h.rateLimited)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recovery(h.logger),
		middleware.Logger(h.logger),
	)
	if cfg.Auth != nil {
		r.Use(auth.Middleware(cfg.Auth, h.logger))
	}

	r.Get("/health", h.health)

	r.Route("/saved-jobs", func(r chi.Router) {
		r.Get("/", h.showPage)
		r.Get("/list", h.showList)
		r.Get("/browse", h.browse)
		r.Get("/{jobID}/details", h.details)
		r.With(unsaveLimit).Post("/{jobID}/unsave", h.unsave)
	})

	r.Route("/api/users/{userID}/saved-jobs", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.AllowedOrigins))
		r.Get("/", h.apiList)
		r.Post("/", h.apiSave)
		r.With(unsaveLimit).Delete("/{jobID}", h.apiUnsave)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) rateLimitKey(r *http.Request) string {
	if user := h.session(r.Context()); user != nil {
		return "user:" + user.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}

func (h *Handler) rateLimited(w http.ResponseWriter, r *http.Request) {
	switch {
	case chi.URLParam(r, "userID") != "":
		newProblem(http.StatusTooManyRequests, "rate-limited", "too many removals").WriteJSON(w)
	case isFetch(r):
		http.Error(w, "Too many removals", http.StatusTooManyRequests)
	default:
		http.Redirect(w, r, pagePath+"?alert="+page.AlertRateLimited, http.StatusSeeOther)
	}
}
