package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func testToken(access, refresh string, ttl time.Duration) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		Expiry:       time.Now().Add(ttl),
	}
}

func TestTokenSourceSkipsRenewalWhileFresh(t *testing.T) {
	ts := &TokenSource{
		token: testToken("at1", "rt1", time.Hour),
		renew: func(*oauth2.Token) (*oauth2.Token, error) {
			t.Fatal("renewed a token with an hour of life left")
			return nil, nil
		},
	}

	got, err := ts.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got.AccessToken != "at1" {
		t.Errorf("AccessToken = %q, want the stored token untouched", got.AccessToken)
	}
}

func TestTokenSourcePersistsRotatedPair(t *testing.T) {
	rotated := testToken("at2", "rt2", time.Hour)

	var persisted *oauth2.Token
	ts := &TokenSource{
		token: testToken("at1", "rt1", 30*time.Second), // inside the buffer
		renew: func(old *oauth2.Token) (*oauth2.Token, error) {
			if old.RefreshToken != "rt1" {
				t.Errorf("renewed with refresh token %q, want rt1", old.RefreshToken)
			}
			return rotated, nil
		},
		onRefresh: func(tok *oauth2.Token) error {
			persisted = tok
			return nil
		},
	}

	got, err := ts.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got.AccessToken != "at2" {
		t.Errorf("AccessToken = %q, want the renewed token", got.AccessToken)
	}

	// The provider rotates the refresh token on every renewal; the rotated
	// pair must reach persistence and become the stored token.
	if persisted == nil || persisted.RefreshToken != "rt2" {
		t.Fatalf("persisted = %+v, want the rotated pair", persisted)
	}
	if ts.CurrentToken().RefreshToken != "rt2" {
		t.Errorf("CurrentToken refresh = %q, want rt2", ts.CurrentToken().RefreshToken)
	}
}

func TestTokenSourcePersistenceFailureKeepsOldToken(t *testing.T) {
	persistErr := errors.New("disk full")
	ts := &TokenSource{
		token: testToken("at1", "rt1", 0),
		renew: func(*oauth2.Token) (*oauth2.Token, error) {
			return testToken("at2", "rt2", time.Hour), nil
		},
		onRefresh: func(*oauth2.Token) error { return persistErr },
	}

	if _, err := ts.Token(); !errors.Is(err, persistErr) {
		t.Fatalf("Token err = %v, want the persistence error", err)
	}
	if ts.CurrentToken().AccessToken != "at1" {
		t.Error("stored token replaced despite failed persistence")
	}
}

func TestIsExpired(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want bool
	}{
		{"plenty of life left", time.Hour, false},
		{"just outside the buffer", refreshBuffer + 5*time.Second, false},
		{"inside the buffer", 30 * time.Second, true},
		{"already expired", -time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := &TokenSource{token: testToken("at", "rt", tt.ttl)}
			if got := ts.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}
