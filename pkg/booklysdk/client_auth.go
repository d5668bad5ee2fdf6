package booklysdk

import (
	"context"
	"net/http"
	"net/url"
)

// Signup creates a new unverified account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*UserResponse, error) {
	var out UserResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/signup", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/login", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshAccessToken mints a new access token from a refresh token.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	var out RefreshResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/auth/refresh_token", refreshToken, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail consumes an email verification token.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*MessageResponse, error) {
	var out MessageResponse
	path := "/api/v1/auth/verify/" + url.PathEscape(token)
	if err := c.call(ctx, http.MethodGet, path, "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendVerification asks for a new verification email.
func (c *Client) ResendVerification(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/resend-verification", "", EmailRequest{Email: email}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPasswordReset asks for a password reset email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/password-reset-request", "", EmailRequest{Email: email}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmPasswordReset sets a new password through a reset token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token string, req PasswordResetConfirmRequest) (*MessageResponse, error) {
	var out MessageResponse
	path := "/api/v1/auth/password-reset-confirm/" + url.PathEscape(token)
	if err := c.call(ctx, http.MethodPost, path, "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh replaces the session's access token using its refresh token.
func (s *Session) Refresh(ctx context.Context) (*RefreshResponse, error) {
	out, err := s.client.RefreshAccessToken(ctx, s.RefreshToken())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.accessToken = out.AccessToken
	s.mu.Unlock()
	return out, nil
}

// Logout revokes the session's current access token.
func (s *Session) Logout(ctx context.Context) (*MessageResponse, error) {
	var out MessageResponse
	err := s.client.call(ctx, http.MethodPost, "/api/v1/auth/logout", s.AccessToken(), nil, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the caller with their books and reviews.
func (s *Session) Me(ctx context.Context) (*UserProfileResponse, error) {
	var out UserProfileResponse
	if err := s.doAuth(ctx, http.MethodGet, "/api/v1/auth/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendMail queues a notification email. Requires the admin role.
func (s *Session) SendMail(ctx context.Context, req SendMailRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := s.doAuth(ctx, http.MethodPost, "/api/v1/auth/send_mail", req, &out, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &out, nil
}
