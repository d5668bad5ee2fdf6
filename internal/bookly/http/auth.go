package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/bookly/internal/bookly/service"
	"github.com/aussiebroadwan/bookly/pkg/booklysdk"
	"github.com/aussiebroadwan/bookly/pkg/httpx"
	"github.com/aussiebroadwan/bookly/pkg/slogx"
)

type AuthHandler struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

// HandleSignup creates a new account.
//
//	@Summary		Sign up
//	@Description	Creates an unverified account with the user role and emails a verification link.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		booklysdk.SignupRequest	true	"New account"
//	@Success		201		{object}	booklysdk.UserResponse
//	@Failure		400		{object}	booklysdk.APIError	"Malformed request body"
//	@Failure		409		{object}	booklysdk.APIError	"Email already registered"
//	@Failure		422		{object}	booklysdk.APIError	"Validation failed"
//	@Failure		429		{object}	booklysdk.APIError	"Rate limit exceeded"
//	@Router			/api/v1/auth/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req booklysdk.SignupRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.AuthService.Signup(r.Context(), service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUser(user))
}

// HandleLogin exchanges credentials for a token pair.
//
//	@Summary		Log in
//	@Description	Checks the credentials and returns an access token and a refresh token.
//	@Description	Unverified accounts may log in but are refused by verified-only routes.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		booklysdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	booklysdk.LoginResponse
//	@Failure		401		{object}	booklysdk.APIError	"Invalid email or password"
//	@Failure		422		{object}	booklysdk.APIError	"Validation failed"
//	@Failure		429		{object}	booklysdk.APIError	"Rate limit exceeded"
//	@Router			/api/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req booklysdk.LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, booklysdk.LoginResponse{
		Message:      "Login successful",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         booklysdk.LoginUser{Email: user.Email, UID: user.ID},
	})
}

// HandleRefresh mints a new access token.
//
//	@Summary		Refresh access token
//	@Description	Exchanges a valid refresh token for a new access token carrying the current role.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	booklysdk.RefreshResponse
//	@Failure		401	{object}	booklysdk.APIError	"Missing, invalid, revoked or non-refresh token"
//	@Failure		503	{object}	booklysdk.APIError	"Revocation store unavailable"
//	@Router			/api/v1/auth/refresh_token [get].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		booklysdk.ErrMissingToken.WriteError(w)
		return
	}

	token, err := h.AuthService.Refresh(r.Context(), claims)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			booklysdk.ErrInvalidToken.WithDescription("Token subject no longer exists").WriteError(w)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, booklysdk.RefreshResponse{AccessToken: token})
}

// HandleLogout revokes the presented access token.
//
//	@Summary		Log out
//	@Description	Revokes the presented access token for the rest of its lifetime. Other tokens stay valid.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	booklysdk.MessageResponse
//	@Failure		401	{object}	booklysdk.APIError	"Missing, invalid or revoked token"
//	@Failure		503	{object}	booklysdk.APIError	"Revocation store unavailable"
//	@Router			/api/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		booklysdk.ErrMissingToken.WriteError(w)
		return
	}

	if err := h.AuthService.Logout(r.Context(), claims); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, booklysdk.MessageResponse{Message: "Logged out successfully"})
}

// HandleMe returns the caller with their books and reviews.
//
//	@Summary		Current user
//	@Description	Returns the authenticated, verified user with the books they own and the reviews they wrote.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	booklysdk.UserProfileResponse
//	@Failure		401	{object}	booklysdk.APIError	"Missing, invalid or revoked token"
//	@Failure		403	{object}	booklysdk.APIError	"Account not verified"
//	@Router			/api/v1/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		booklysdk.ErrMissingToken.WriteError(w)
		return
	}

	profile, err := h.UserService.Profile(r.Context(), p.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toProfile(profile))
}

// HandleVerifyEmail redeems an email verification link.
//
//	@Summary		Verify email
//	@Description	Marks the account verified. Each link works once and expires after the action token max age.
//	@Tags			Auth
//	@Produce		json
//	@Param			token	path		string	true	"Verification token"
//	@Success		200		{object}	booklysdk.MessageResponse
//	@Failure		400		{object}	booklysdk.APIError	"Invalid, expired or used token"
//	@Failure		404		{object}	booklysdk.APIError	"User not found"
//	@Router			/api/v1/auth/verify/{token} [get].
func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.VerifyEmail(r.Context(), r.PathValue("token")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, booklysdk.MessageResponse{Message: "Account verified successfully"})
}

// HandleResendVerification emails a fresh verification link.
//
//	@Summary		Resend verification email
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		booklysdk.EmailRequest	true	"Account email"
//	@Success		200		{object}	booklysdk.MessageResponse
//	@Failure		404		{object}	booklysdk.APIError	"User not found"
//	@Failure		422		{object}	booklysdk.APIError	"Validation failed"
//	@Router			/api/v1/auth/resend-verification [post].
func (h *AuthHandler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req booklysdk.EmailRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	sent, err := h.AuthService.ResendVerification(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	msg := "Verification email sent"
	if !sent {
		msg = "Account is already verified"
	}
	httpx.WriteJSON(w, http.StatusOK, booklysdk.MessageResponse{Message: msg})
}

// HandlePasswordResetRequest emails a password reset link.
//
//	@Summary		Request password reset
//	@Description	Emails a reset link when the account exists. The response is the same either way.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		booklysdk.EmailRequest	true	"Account email"
//	@Success		200		{object}	booklysdk.MessageResponse
//	@Failure		422		{object}	booklysdk.APIError	"Validation failed"
//	@Router			/api/v1/auth/password-reset-request [post].
func (h *AuthHandler) HandlePasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req booklysdk.EmailRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.AuthService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		// The answer must not depend on whether the account exists.
		slogx.FromContext(r.Context()).Warn("failed to queue password reset", "err", err)
	}

	httpx.WriteJSON(w, http.StatusOK, booklysdk.MessageResponse{
		Message: "Please check your email for instructions to reset your password",
	})
}

// HandlePasswordResetConfirm sets a new password through a reset link.
//
//	@Summary		Confirm password reset
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string									true	"Reset token"
//	@Param			request	body		booklysdk.PasswordResetConfirmRequest	true	"New password"
//	@Success		200		{object}	booklysdk.MessageResponse
//	@Failure		400		{object}	booklysdk.APIError	"Passwords do not match, or invalid, expired or used token"
//	@Failure		404		{object}	booklysdk.APIError	"User not found"
//	@Failure		422		{object}	booklysdk.APIError	"Validation failed"
//	@Router			/api/v1/auth/password-reset-confirm/{token} [post].
func (h *AuthHandler) HandlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req booklysdk.PasswordResetConfirmRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	err := h.AuthService.ResetPassword(r.Context(), r.PathValue("token"), req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, booklysdk.MessageResponse{Message: "Password reset successfully"})
}

// HandleSendMail queues a notification email.
//
//	@Summary		Send notification email
//	@Description	Queues a plain notification to the given addresses. Admin only.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		booklysdk.SendMailRequest	true	"Recipients and content"
//	@Success		202		{object}	booklysdk.MessageResponse
//	@Failure		403		{object}	booklysdk.APIError	"Not an admin or not verified"
//	@Failure		422		{object}	booklysdk.APIError	"Validation failed"
//	@Failure		503		{object}	booklysdk.APIError	"Mail queue full"
//	@Router			/api/v1/auth/send_mail [post].
func (h *AuthHandler) HandleSendMail(w http.ResponseWriter, r *http.Request) {
	var req booklysdk.SendMailRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.AuthService.SendMail(r.Context(), req.Addresses, req.Subject, req.Body); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, booklysdk.MessageResponse{Message: "Email queued"})
}
