package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	"github.com/aussiebroadwan/bookly/internal/bookly/mail"
	"github.com/aussiebroadwan/bookly/internal/bookly/store"
	"github.com/aussiebroadwan/bookly/pkg/cryptox"
	"github.com/aussiebroadwan/bookly/pkg/idx"
	"github.com/aussiebroadwan/bookly/pkg/jwtx"
	"github.com/aussiebroadwan/bookly/pkg/revoke"
	"github.com/aussiebroadwan/bookly/pkg/slogx"
)

// MailQueue accepts outbound mail for background delivery.
type MailQueue interface {
	Enqueue(msg domain.MailMessage) error
}

// SignupInput is the validated signup payload.
type SignupInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

type AuthService struct {
	Store    store.Store
	Hasher   *cryptox.Hasher
	Sessions *jwtx.SessionCodec
	Actions  *jwtx.ActionCodec

	// Revocations holds revoked session token ids.
	Revocations revoke.Store

	// ActionUses holds consumed action token ids.
	ActionUses revoke.Store

	Mail       MailQueue
	Domain     string
	RefreshTTL time.Duration

	// Now overrides the clock. Tests only.
	Now func() time.Time

	// dummyHash is compared against when the email is unknown so a failed
	// login costs the same whether or not the account exists.
	dummyOnce sync.Once
	dummyHash string
}

func (s *AuthService) now() time.Time { return clock(s.Now) }

// Signup creates an unverified account with the user role and queues the
// verification mail. A mail that cannot be queued is logged, not returned.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	l := slogx.FromContext(ctx)
	email := strings.TrimSpace(in.Email)

	exists, err := s.Store.Users().ExistsByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	if exists {
		return domain.User{}, ErrUserAlreadyExists
	}

	hash, err := s.Hasher.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := s.now().UTC()
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         domain.RoleUser,
		IsVerified:   false,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUserAlreadyExists
		}
		return domain.User{}, err
	}

	l.Info("user signed up", slog.String("user_id", user.ID))

	if err := s.queueVerification(ctx, user.Email); err != nil {
		l.Warn("failed to queue verification mail", "err", err, slog.String("user_id", user.ID))
	}

	return user, nil
}

// Login checks credentials and issues an access/refresh pair. Unverified
// accounts may log in; the verification gate applies per route.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.Hasher.VerifyPassword(password, s.dummy())
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, err
	}

	if !s.Hasher.VerifyPassword(password, user.PasswordHash) {
		l.Info("login failed", slog.String("user_id", user.ID))
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	if s.Hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}

	access, _, err := s.Sessions.Issue(accessPayload(user), 0, false)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	refresh, _, err := s.Sessions.Issue(jwtx.UserPayload{Email: user.Email, UserID: user.ID}, s.refreshTTL(), true)
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("user logged in", slog.String("user_id", user.ID))
	return user, domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh mints a new access token for the subject of a verified refresh
// token. The user is reloaded so the new token carries the current role.
func (s *AuthService) Refresh(ctx context.Context, claims jwtx.SessionClaims) (string, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, claims.User.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	token, _, err := s.Sessions.Issue(accessPayload(user), 0, false)
	return token, err
}

// Logout revokes the presented token for the rest of its lifetime. Other
// tokens of the same user stay valid.
func (s *AuthService) Logout(ctx context.Context, claims jwtx.SessionClaims) error {
	if err := s.Revocations.Revoke(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	slogx.FromContext(ctx).Info("token revoked", slog.String("jti", claims.ID), slog.String("user_id", claims.User.UserID))
	return nil
}

// VerifyEmail redeems a verify_email token and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, user, err := s.redeem(ctx, token, jwtx.PurposeVerifyEmail)
	if err != nil {
		return err
	}

	if err := s.Store.Users().MarkVerified(ctx, user.ID); err != nil {
		s.release(ctx, claims)
		return err
	}

	slogx.FromContext(ctx).Info("email verified", slog.String("user_id", user.ID), slog.String("jti", claims.ID))
	return nil
}

// ResendVerification queues a fresh verification link. It reports false
// without sending anything when the account is already verified.
func (s *AuthService) ResendVerification(ctx context.Context, email string) (bool, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	if user.IsVerified {
		return false, nil
	}

	if err := s.queueVerification(ctx, user.Email); err != nil {
		return false, err
	}
	return true, nil
}

// RequestPasswordReset queues a reset link when the account exists. Unknown
// emails are not reported so the endpoint cannot be used to probe accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	token, _, err := s.Actions.Issue(user.Email, jwtx.PurposePasswordReset)
	if err != nil {
		return err
	}

	msg, err := mail.PasswordResetMessage(user.Email, s.link("password-reset-confirm", token))
	if err != nil {
		return err
	}
	return s.Mail.Enqueue(msg)
}

// ResetPassword redeems a password_reset token and stores the new hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}

	// Hash before redeeming so a bad password does not burn the link.
	hash, err := s.Hasher.HashPassword(newPassword)
	if err != nil {
		return err
	}

	claims, user, err := s.redeem(ctx, token, jwtx.PurposePasswordReset)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.release(ctx, claims)
		return err
	}

	slogx.FromContext(ctx).Info("password reset", slog.String("user_id", user.ID), slog.String("jti", claims.ID))
	return nil
}

// SendMail queues a plain notification to the given addresses.
func (s *AuthService) SendMail(ctx context.Context, addresses []string, subject, body string) error {
	msg, err := mail.NotificationMessage(addresses, subject, body)
	if err != nil {
		return err
	}
	return s.Mail.Enqueue(msg)
}

// redeem decodes an action token, loads its user and consumes the token id
// so the link works once.
func (s *AuthService) redeem(ctx context.Context, token string, purpose jwtx.ActionPurpose) (jwtx.ActionClaims, domain.User, error) {
	claims, err := s.Actions.Decode(token, purpose)
	if err != nil {
		slogx.FromContext(ctx).Debug("action token rejected", "purpose", string(purpose), "err", err)
		return jwtx.ActionClaims{}, domain.User{}, fmt.Errorf("%w: %w", ErrInvalidActionToken, err)
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jwtx.ActionClaims{}, domain.User{}, ErrUserNotFound
		}
		return jwtx.ActionClaims{}, domain.User{}, err
	}

	first, err := s.ActionUses.Consume(ctx, claims.ID, s.Actions.Remaining(claims, s.now()))
	if err != nil {
		return jwtx.ActionClaims{}, domain.User{}, err
	}
	if !first {
		return jwtx.ActionClaims{}, domain.User{}, fmt.Errorf("%w: already used", ErrInvalidActionToken)
	}

	return claims, user, nil
}

// rehash upgrades a hash made under another BCRYPT_COST. Failures are logged
// and the old hash stays usable.
func (s *AuthService) rehash(ctx context.Context, user domain.User, password string) {
	l := slogx.FromContext(ctx)

	hash, err := s.Hasher.HashPassword(password)
	if err != nil {
		l.Warn("password rehash failed", "err", err, slog.String("user_id", user.ID))
		return
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		l.Warn("password rehash not stored", "err", err, slog.String("user_id", user.ID))
		return
	}
	l.Info("password rehashed", slog.String("user_id", user.ID), slog.Int("cost", s.Hasher.Cost))
}

// release gives back a redeemed link whose change was not stored, so the
// user can follow it again.
func (s *AuthService) release(ctx context.Context, claims jwtx.ActionClaims) {
	if err := s.ActionUses.Release(context.WithoutCancel(ctx), claims.ID); err != nil {
		slogx.FromContext(ctx).Warn("failed to release action token", "err", err, slog.String("jti", claims.ID))
	}
}

func (s *AuthService) queueVerification(ctx context.Context, email string) error {
	token, claims, err := s.Actions.Issue(email, jwtx.PurposeVerifyEmail)
	if err != nil {
		return err
	}

	msg, err := mail.VerificationMessage(email, s.link("verify", token))
	if err != nil {
		return err
	}

	if err := s.Mail.Enqueue(msg); err != nil {
		return err
	}
	slogx.FromContext(ctx).Debug("verification mail queued", slog.String("jti", claims.ID))
	return nil
}

func (s *AuthService) link(route, token string) string {
	return fmt.Sprintf("http://%s/api/v1/auth/%s/%s", s.Domain, route, token)
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.HashPassword(idx.New().String())
	})
	return s.dummyHash
}

func (s *AuthService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}

func accessPayload(u domain.User) jwtx.UserPayload {
	return jwtx.UserPayload{Email: u.Email, UserID: u.ID, Role: u.Role.String()}
}
