package auth

import (
	"context"
	"fmt"
	"net/http"
	"saved-jobs-go/internal/models"

	supabase "github.com/nedpals/supabase-go"
)

// userLookup is the part of the supabase Auth client we use.
type userLookup interface {
	User(ctx context.Context, userToken string) (*supabase.User, error)
}

// SupabaseProvider validates Supabase access tokens against GoTrue.
type SupabaseProvider struct {
	users  userLookup
	cookie string
}

// NewSupabaseProvider reads the access token from the Authorization header or,
// for browser sessions, from cookie.
func NewSupabaseProvider(client *supabase.Client, cookie string) *SupabaseProvider {
	return &SupabaseProvider{users: client.Auth, cookie: cookie}
}

func (p *SupabaseProvider) Token(r *http.Request) string {
	return bearerToken(r, p.cookie)
}

func (p *SupabaseProvider) Authenticate(ctx context.Context, r *http.Request) (*models.User, error) {
	token := p.Token(r)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	user, err := p.users.User(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("supabase user lookup: %w", err)
	}
	if user == nil || user.ID == "" {
		return nil, ErrUnauthenticated
	}

	return &models.User{ID: user.ID, Email: user.Email}, nil
}
