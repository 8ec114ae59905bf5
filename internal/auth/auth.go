// Package auth resolves the signed-in user for a request.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"saved-jobs-go/internal/models"
	"strings"
)

// ErrUnauthenticated means the request carries no usable credential.
var ErrUnauthenticated = errors.New("unauthenticated")

// Provider resolves the current user from a request.
type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (*models.User, error)
}

// tokenSource is implemented by providers that authenticate with a forwardable token.
type tokenSource interface {
	Token(r *http.Request) string
}

type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "accessToken"
)

// Middleware resolves the user with provider and stores it in the request
// context. Requests without a valid session continue anonymously; pages and
// handlers decide what an absent user means. A nil logger uses slog.Default.
func Middleware(provider Provider, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := provider.Authenticate(r.Context(), r)
			if err != nil {
				if !errors.Is(err, ErrUnauthenticated) {
					logger.Warn("authentication failed",
						slog.String("path", r.URL.Path),
						slog.String("error", err.Error()),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUser(r.Context(), user)
			if ts, ok := provider.(tokenSource); ok {
				if tok := ts.Token(r); tok != "" {
					ctx = context.WithValue(ctx, tokenKey, tok)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the signed-in user, or nil.
func UserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userKey).(*models.User); ok {
		return user
	}
	return nil
}

// TokenFromContext returns the access token the user authenticated with.
func TokenFromContext(ctx context.Context) string {
	if tok, ok := ctx.Value(tokenKey).(string); ok {
		return tok
	}
	return ""
}

// HeaderProvider trusts a user ID set by a reverse proxy in front of the service.
type HeaderProvider struct {
	Header string
}

func (p HeaderProvider) Authenticate(ctx context.Context, r *http.Request) (*models.User, error) {
	id := strings.TrimSpace(r.Header.Get(p.Header))
	if id == "" {
		return nil, ErrUnauthenticated
	}
	return &models.User{ID: id}, nil
}

// bearerToken reads the Authorization header, falling back to cookie.
func bearerToken(r *http.Request, cookie string) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	if cookie != "" {
		if c, err := r.Cookie(cookie); err == nil {
			return c.Value
		}
	}
	return ""
}
