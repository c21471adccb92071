package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// refreshBuffer is how close to expiry a token may get before it is renewed.
// WHOOP access tokens last an hour; renewing a minute early keeps a sync from
// starting with a token that dies mid-pagination.
const refreshBuffer = 60 * time.Second

// TokenSource hands out a valid WHOOP access token, renewing it through the
// OAuth config when the stored one is about to expire. WHOOP rotates the
// refresh token on every renewal, so each rotated pair is pushed through
// onRefresh for persistence before it is handed out; a rotated pair that was
// never persisted would strand the athlete back in the browser flow on the
// next run.
type TokenSource struct {
	token     *oauth2.Token
	renew     func(*oauth2.Token) (*oauth2.Token, error)
	onRefresh func(*oauth2.Token) error
	mu        sync.Mutex
}

// NewTokenSource wraps a stored token with auto-renewal against the given
// OAuth config. onRefresh is called with every rotated token pair and should
// persist it; a nil callback skips persistence.
func NewTokenSource(cfg *oauth2.Config, token *oauth2.Token, onRefresh func(*oauth2.Token) error) *TokenSource {
	return &TokenSource{
		token: token,
		renew: func(t *oauth2.Token) (*oauth2.Token, error) {
			return cfg.TokenSource(context.Background(), t).Token()
		},
		onRefresh: onRefresh,
	}
}

// Token implements oauth2.TokenSource. It returns the stored token while it
// has more than refreshBuffer of life left, and otherwise renews, persists,
// and returns the rotated pair.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if time.Until(ts.token.Expiry) > refreshBuffer {
		return ts.token, nil
	}

	newToken, err := ts.renew(ts.token)
	if err != nil {
		return nil, err
	}

	// Persist before handing the pair out. If persistence fails the caller
	// sees the error instead of running on a token the store never saw.
	if ts.onRefresh != nil {
		if err := ts.onRefresh(newToken); err != nil {
			return nil, err
		}
	}

	ts.token = newToken
	return newToken, nil
}

// IsExpired reports whether the stored token is expired or inside the
// renewal buffer.
func (ts *TokenSource) IsExpired() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return time.Until(ts.token.Expiry) <= refreshBuffer
}

// CurrentToken returns the stored token without renewing it.
func (ts *TokenSource) CurrentToken() *oauth2.Token {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.token
}
