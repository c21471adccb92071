package auth

import (
	"golang.org/x/oauth2"
)

const (
	// WHOOP OAuth endpoints
	AuthURL  = "https://api.prod.whoop.com/oauth/oauth2/auth"
	TokenURL = "https://api.prod.whoop.com/oauth/oauth2/token"
)

// Scopes required for workouts, recovery, and sleep access
var Scopes = []string{
	"offline",
	"read:workout",
	"read:recovery",
	"read:sleep",
	"read:profile",
}

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "http://localhost:8089/callback"
}

// NewOAuthConfig creates an oauth2.Config from our Config
func NewOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthURL,
			TokenURL: TokenURL,
		},
		RedirectURL: cfg.RedirectURL,
		Scopes:      Scopes,
	}
}

// AuthResult contains the token and user info from successful auth
type AuthResult struct {
	Token  *oauth2.Token
	UserID int64
}

// ExtractUserID extracts the user ID from the token extras when the provider
// includes it in the token response.
func ExtractUserID(token *oauth2.Token) int64 {
	if id, ok := token.Extra("user_id").(float64); ok {
		return int64(id)
	}
	if user, ok := token.Extra("user").(map[string]interface{}); ok {
		if id, ok := user["id"].(float64); ok {
			return int64(id)
		}
	}
	return 0
}
