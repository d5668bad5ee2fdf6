package booklysdk

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client is a client for the bookly API. It provides access to
// unauthenticated operations and creates authenticated Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new bookly client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Session holds the token pair of a logged in user. Access tokens are
// renewed through the refresh endpoint when the API rejects them as
// expired. Safe for concurrent use.
type Session struct {
	client *Client

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	user         LoginUser
}

// Authenticate logs in and returns a Session for the resulting token pair.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return c.NewSessionFromTokens(resp.AccessToken, resp.RefreshToken, resp.User), nil
}

// NewSessionFromTokens creates a Session from an existing token pair.
func (c *Client) NewSessionFromTokens(accessToken, refreshToken string, user LoginUser) *Session {
	return &Session{
		client:       c,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		user:         user,
	}
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User returns the identity the session was issued for.
func (s *Session) User() LoginUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
