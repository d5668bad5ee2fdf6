package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	booklyhttp "github.com/aussiebroadwan/bookly/internal/bookly/http"
	"github.com/aussiebroadwan/bookly/internal/bookly/service"
	"github.com/aussiebroadwan/bookly/internal/bookly/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookly/pkg/booklysdk"
	"github.com/aussiebroadwan/bookly/pkg/cryptox"
	"github.com/aussiebroadwan/bookly/pkg/httpx"
	"github.com/aussiebroadwan/bookly/pkg/idx"
	"github.com/aussiebroadwan/bookly/pkg/jwtx"
	"github.com/aussiebroadwan/bookly/pkg/revoke"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("router-test-secret-0123456789abcdef")

var generous = httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type mailbox struct {
	mu   sync.Mutex
	msgs []domain.MailMessage
}

func (m *mailbox) Enqueue(msg domain.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *mailbox) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs)
}

type server struct {
	handler http.Handler
	store   *sqlite.Store
	redis   *miniredis.Miniredis
	clock   *clock
	actions *jwtx.ActionCodec
	mail    *mailbox
}

func newServer(t *testing.T) *server {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	clk := &clock{now: time.Now().UTC().Truncate(time.Second)}

	sessions, err := jwtx.NewSessionCodec(jwtx.SessionOptions{Secret: testSecret, Now: clk.Now})
	require.NoError(t, err)
	actions, err := jwtx.NewActionCodec(jwtx.ActionOptions{Secret: testSecret, Now: clk.Now})
	require.NoError(t, err)

	revocations := revoke.NewRedisStore(rdb, revoke.Options{Prefix: "test:session", MaxTTL: 48 * time.Hour})
	box := &mailbox{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := booklyhttp.NewRouter(
		httpx.NewGate(sessions, revocations, 0),
		"test",
		st,
		revocations,
		logger,
		nil, nil,
	)
	r.Limits = booklyhttp.Limits{Strict: generous, Moderate: generous, Lenient: generous, Public: generous}
	r.AuthService = &service.AuthService{
		Store:       st,
		Hasher:      cryptox.NewHasher(bcrypt.MinCost),
		Sessions:    sessions,
		Actions:     actions,
		Revocations: revocations,
		ActionUses:  revoke.NewRedisStore(rdb, revoke.Options{Prefix: "test:action", MaxTTL: 24 * time.Hour}),
		Mail:        box,
		Domain:      "bookly.test",
		RefreshTTL:  48 * time.Hour,
		Now:         clk.Now,
	}
	r.UserService = &service.UserService{Store: st}
	r.BookService = &service.BookService{Store: st, Now: clk.Now}
	r.ReviewService = &service.ReviewService{Store: st, Now: clk.Now}
	r.TagService = &service.TagService{Store: st, Now: clk.Now}
	r.ApplyRoutes()

	return &server{handler: r, store: st, redis: mr, clock: clk, actions: actions, mail: box}
}

func (s *server) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rdr = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) booklysdk.APIError {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	apiErr := decode[booklysdk.APIError](t, rec)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

func signupBody(email string) booklysdk.SignupRequest {
	return booklysdk.SignupRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "adalovelace",
		Email:     email,
		Password:  "hunter22",
	}
}

func (s *server) signup(t *testing.T, email string) booklysdk.UserResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", signupBody(email))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[booklysdk.UserResponse](t, rec)
}

func (s *server) login(t *testing.T, email string) booklysdk.LoginResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", booklysdk.LoginRequest{Email: email, Password: "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[booklysdk.LoginResponse](t, rec)
}

func (s *server) verify(t *testing.T, email string) {
	t.Helper()
	token, _, err := s.actions.Issue(email, jwtx.PurposeVerifyEmail)
	require.NoError(t, err)
	rec := s.do(t, http.MethodGet, "/api/v1/auth/verify/"+token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

// verifiedSession signs up, verifies and logs in a user.
func (s *server) verifiedSession(t *testing.T, email string) booklysdk.LoginResponse {
	t.Helper()
	s.signup(t, email)
	s.verify(t, email)
	return s.login(t, email)
}

func TestSignupThenUnverifiedLogin(t *testing.T) {
	s := newServer(t)

	user := s.signup(t, "ada@example.com")
	require.Equal(t, "user", user.Role)
	require.False(t, user.IsVerified)
	require.Equal(t, 1, s.mail.count())
	require.NotContains(t, s.do(t, http.MethodPost, "/api/v1/auth/signup", "", signupBody("other@example.com")).Body.String(), "password")

	login := s.login(t, "ada@example.com")
	require.NotEmpty(t, login.AccessToken)
	require.NotEmpty(t, login.RefreshToken)
	require.Equal(t, user.UID, login.User.UID)

	rec := s.do(t, http.MethodGet, "/api/v1/auth/me", login.AccessToken, nil)
	requireError(t, rec, http.StatusForbidden, booklysdk.ErrorCodeAccountNotVerified)

	s.verify(t, "ada@example.com")

	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decode[booklysdk.UserProfileResponse](t, rec)
	require.True(t, me.IsVerified)
	require.Empty(t, me.Books)
	require.NotNil(t, me.Books)
}

func TestSignupDuplicateAndValidation(t *testing.T) {
	s := newServer(t)
	s.signup(t, "ada@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", signupBody("ADA@example.com"))
	requireError(t, rec, http.StatusConflict, booklysdk.ErrorCodeUserAlreadyExists)

	bad := signupBody("not-an-email")
	bad.Password = "123"
	rec = s.do(t, http.MethodPost, "/api/v1/auth/signup", "", bad)
	apiErr := requireError(t, rec, http.StatusUnprocessableEntity, booklysdk.ErrorCodeValidation)
	require.Contains(t, apiErr.Details, "email")
	require.Contains(t, apiErr.Details, "password")

	rec = s.do(t, http.MethodPost, "/api/v1/auth/signup", "", "{not json")
	requireError(t, rec, http.StatusBadRequest, booklysdk.ErrorCodeInvalidRequest)
}

func TestLoginWrongPassword(t *testing.T) {
	s := newServer(t)
	s.signup(t, "ada@example.com")

	tests := []struct {
		name  string
		email string
	}{
		{"known email", "ada@example.com"},
		{"unknown email", "nobody@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", booklysdk.LoginRequest{Email: tt.email, Password: "wrong-password"})
			requireError(t, rec, http.StatusUnauthorized, booklysdk.ErrorCodeInvalidCredentials)
		})
	}
}

func TestLoginWithLargeBody(t *testing.T) {
	s := newServer(t)
	s.signup(t, "ada@example.com")

	// Larger than the rate limiter inspects, well within the body cap
	body := map[string]string{
		"email":    "ada@example.com",
		"password": "hunter22",
		"padding":  strings.Repeat("x", 70<<10),
	}
	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotEmpty(t, decode[booklysdk.LoginResponse](t, rec).AccessToken)
}

func TestLogoutRevokesOnlyThatToken(t *testing.T) {
	s := newServer(t)
	s.signup(t, "ada@example.com")
	s.verify(t, "ada@example.com")

	first := s.login(t, "ada@example.com")
	second := s.login(t, "ada@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/auth/logout", first.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", first.AccessToken, nil)
	requireError(t, rec, http.StatusUnauthorized, booklysdk.ErrorCodeTokenRevoked)

	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", second.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The refresh token of the logged out session is a different jti
	rec = s.do(t, http.MethodGet, "/api/v1/auth/refresh_token", first.RefreshToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRefresh(t *testing.T) {
	s := newServer(t)
	s.signup(t, "ada@example.com")
	login := s.login(t, "ada@example.com")

	t.Run("access token refused", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/auth/refresh_token", login.AccessToken, nil)
		requireError(t, rec, http.StatusUnauthorized, booklysdk.ErrorCodeRefreshTokenRequired)
	})

	t.Run("refresh token refused on access routes", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/auth/me", login.RefreshToken, nil)
		requireError(t, rec, http.StatusUnauthorized, booklysdk.ErrorCodeAccessTokenRequired)
	})

	t.Run("missing bearer", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/auth/refresh_token", "", nil)
		requireError(t, rec, http.StatusUnauthorized, booklysdk.ErrorCodeMissingToken)
	})

	t.Run("new access token", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/auth/refresh_token", login.RefreshToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		out := decode[booklysdk.RefreshResponse](t, rec)
		require.NotEmpty(t, out.AccessToken)
		require.NotEqual(t, login.AccessToken, out.AccessToken)
	})
}

func TestExpiredRefreshToken(t *testing.T) {
	s := newServer(t)
	s.signup(t, "ada@example.com")
	login := s.login(t, "ada@example.com")

	s.clock.Advance(49 * time.Hour)

	rec := s.do(t, http.MethodGet, "/api/v1/auth/refresh_token", login.RefreshToken, nil)
	requireError(t, rec, http.StatusUnauthorized, booklysdk.ErrorCodeInvalidToken)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
}

func TestRevocationStoreDownFailsClosed(t *testing.T) {
	s := newServer(t)
	login := s.verifiedSession(t, "ada@example.com")

	s.redis.Close()

	rec := s.do(t, http.MethodGet, "/api/v1/auth/me", login.AccessToken, nil)
	requireError(t, rec, http.StatusServiceUnavailable, booklysdk.ErrorCodeServerError)

	rec = s.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	health := decode[booklysdk.HealthResponse](t, rec)
	require.Equal(t, "degraded", health.Status)
	require.Equal(t, "ok", health.Checks.Database)
}

func TestVerifyEmailIsSingleUse(t *testing.T) {
	s := newServer(t)
	s.signup(t, "ada@example.com")

	token, _, err := s.actions.Issue("ada@example.com", jwtx.PurposeVerifyEmail)
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/api/v1/auth/verify/"+token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/auth/verify/"+token, "", nil)
	requireError(t, rec, http.StatusBadRequest, booklysdk.ErrorCodeInvalidToken)

	rec = s.do(t, http.MethodGet, "/api/v1/auth/verify/garbage", "", nil)
	requireError(t, rec, http.StatusBadRequest, booklysdk.ErrorCodeInvalidToken)

	other, _, err := s.actions.Issue("ghost@example.com", jwtx.PurposeVerifyEmail)
	require.NoError(t, err)
	rec = s.do(t, http.MethodGet, "/api/v1/auth/verify/"+other, "", nil)
	requireError(t, rec, http.StatusNotFound, booklysdk.ErrorCodeUserNotFound)
}

func TestResendVerification(t *testing.T) {
	s := newServer(t)
	s.signup(t, "ada@example.com")
	require.Equal(t, 1, s.mail.count())

	rec := s.do(t, http.MethodPost, "/api/v1/auth/resend-verification", "", booklysdk.EmailRequest{Email: "ada@example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 2, s.mail.count())

	s.verify(t, "ada@example.com")
	rec = s.do(t, http.MethodPost, "/api/v1/auth/resend-verification", "", booklysdk.EmailRequest{Email: "ada@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, s.mail.count())

	rec = s.do(t, http.MethodPost, "/api/v1/auth/resend-verification", "", booklysdk.EmailRequest{Email: "nobody@example.com"})
	requireError(t, rec, http.StatusNotFound, booklysdk.ErrorCodeUserNotFound)
}

func TestPasswordReset(t *testing.T) {
	s := newServer(t)
	s.signup(t, "ada@example.com")
	sent := s.mail.count()

	// Unknown emails get the same answer and no mail
	rec := s.do(t, http.MethodPost, "/api/v1/auth/password-reset-request", "", booklysdk.EmailRequest{Email: "nobody@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, sent, s.mail.count())

	rec = s.do(t, http.MethodPost, "/api/v1/auth/password-reset-request", "", booklysdk.EmailRequest{Email: "ada@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, sent+1, s.mail.count())

	token, _, err := s.actions.Issue("ada@example.com", jwtx.PurposePasswordReset)
	require.NoError(t, err)
	path := "/api/v1/auth/password-reset-confirm/" + token

	rec = s.do(t, http.MethodPost, path, "", booklysdk.PasswordResetConfirmRequest{NewPassword: "new-secret", ConfirmNewPassword: "other-secret"})
	requireError(t, rec, http.StatusBadRequest, booklysdk.ErrorCodePasswordMismatch)

	rec = s.do(t, http.MethodPost, path, "", booklysdk.PasswordResetConfirmRequest{NewPassword: "new-secret", ConfirmNewPassword: "new-secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, path, "", booklysdk.PasswordResetConfirmRequest{NewPassword: "again-secret", ConfirmNewPassword: "again-secret"})
	requireError(t, rec, http.StatusBadRequest, booklysdk.ErrorCodeInvalidToken)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/login", "", booklysdk.LoginRequest{Email: "ada@example.com", Password: "new-secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSendMailRequiresAdmin(t *testing.T) {
	s := newServer(t)
	user := s.verifiedSession(t, "ada@example.com")

	body := booklysdk.SendMailRequest{Addresses: []string{"reader@example.com"}}

	rec := s.do(t, http.MethodPost, "/api/v1/auth/send_mail", user.AccessToken, body)
	requireError(t, rec, http.StatusForbidden, booklysdk.ErrorCodeInsufficientPermissions)

	hash, err := cryptox.NewHasher(bcrypt.MinCost).HashPassword("hunter22")
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, s.store.Users().CreateUser(context.Background(), domain.User{
		ID:           idx.New().String(),
		Username:     "administrator",
		Email:        "admin@example.com",
		FirstName:    "Grace",
		LastName:     "Hopper",
		Role:         domain.RoleAdmin,
		IsVerified:   true,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
	admin := s.login(t, "admin@example.com")

	before := s.mail.count()
	rec = s.do(t, http.MethodPost, "/api/v1/auth/send_mail", admin.AccessToken, body)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Equal(t, before+1, s.mail.count())

	rec = s.do(t, http.MethodPost, "/api/v1/auth/send_mail", admin.AccessToken, booklysdk.SendMailRequest{Addresses: []string{"nope"}})
	requireError(t, rec, http.StatusUnprocessableEntity, booklysdk.ErrorCodeValidation)
}

func TestBooksReviewsAndTags(t *testing.T) {
	s := newServer(t)
	ada := s.verifiedSession(t, "ada@example.com")
	bob := s.verifiedSession(t, "bob@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/books", ada.AccessToken, booklysdk.BookCreateRequest{
		Title:         "Sketch of the Analytical Engine",
		Author:        "L. F. Menabrea",
		Publisher:     "Taylor",
		PublishedDate: "1843-10-01",
		PageCount:     66,
		Language:      "en",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	book := decode[booklysdk.BookResponse](t, rec)
	require.Equal(t, ada.User.UID, book.UserUID)
	require.Equal(t, "1843-10-01", book.PublishedDate)

	rec = s.do(t, http.MethodGet, "/api/v1/books/user/"+ada.User.UID, bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]booklysdk.BookResponse](t, rec), 1)

	title := "Notes on the Analytical Engine"
	rec = s.do(t, http.MethodPatch, "/api/v1/books/"+book.UID, ada.AccessToken, booklysdk.BookUpdateRequest{Title: &title})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, title, decode[booklysdk.BookResponse](t, rec).Title)

	// Reviews
	rec = s.do(t, http.MethodPost, "/api/v1/reviews/book/"+book.UID, bob.AccessToken, booklysdk.ReviewCreateRequest{Rating: 6, ReviewText: "Too good"})
	requireError(t, rec, http.StatusUnprocessableEntity, booklysdk.ErrorCodeValidation)

	rec = s.do(t, http.MethodPost, "/api/v1/reviews/book/"+book.UID, bob.AccessToken, booklysdk.ReviewCreateRequest{Rating: 5, ReviewText: "Visionary"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	review := decode[booklysdk.ReviewResponse](t, rec)

	rec = s.do(t, http.MethodDelete, "/api/v1/reviews/"+review.UID, ada.AccessToken, nil)
	requireError(t, rec, http.StatusForbidden, booklysdk.ErrorCodeForbidden)

	// Tags
	rec = s.do(t, http.MethodPost, "/api/v1/tags", ada.AccessToken, booklysdk.TagCreateRequest{Name: "computing"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tag := decode[booklysdk.TagResponse](t, rec)

	rec = s.do(t, http.MethodPost, "/api/v1/tags", ada.AccessToken, booklysdk.TagCreateRequest{Name: "Computing"})
	requireError(t, rec, http.StatusConflict, booklysdk.ErrorCodeTagAlreadyExists)

	rec = s.do(t, http.MethodPost, "/api/v1/tags/book/"+book.UID+"/tags", ada.AccessToken, booklysdk.TagAddRequest{
		Tags: []booklysdk.TagCreateRequest{{Name: "computing"}, {Name: "history"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/books/"+book.UID, bob.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[booklysdk.BookDetailResponse](t, rec)
	require.Len(t, detail.Reviews, 1)
	require.Len(t, detail.Tags, 2)

	rec = s.do(t, http.MethodPut, "/api/v1/tags/"+tag.UID, ada.AccessToken, booklysdk.TagCreateRequest{Name: "history"})
	requireError(t, rec, http.StatusConflict, booklysdk.ErrorCodeTagAlreadyExists)

	rec = s.do(t, http.MethodDelete, "/api/v1/reviews/"+review.UID, bob.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/books/"+book.UID, ada.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/books/"+book.UID, ada.AccessToken, nil)
	requireError(t, rec, http.StatusNotFound, booklysdk.ErrorCodeBookNotFound)
}

func TestNotFoundPaths(t *testing.T) {
	s := newServer(t)
	login := s.verifiedSession(t, "ada@example.com")

	tests := []struct {
		method string
		path   string
		code   string
	}{
		{http.MethodGet, "/api/v1/books/not-an-id", booklysdk.ErrorCodeBookNotFound},
		{http.MethodGet, "/api/v1/books/" + idx.New().String(), booklysdk.ErrorCodeBookNotFound},
		{http.MethodDelete, "/api/v1/books/" + idx.New().String(), booklysdk.ErrorCodeBookNotFound},
		{http.MethodGet, "/api/v1/reviews/" + idx.New().String(), booklysdk.ErrorCodeReviewNotFound},
		{http.MethodDelete, "/api/v1/tags/" + idx.New().String(), booklysdk.ErrorCodeTagNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, login.AccessToken, nil)
			requireError(t, rec, http.StatusNotFound, tt.code)
		})
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", decode[booklysdk.HealthResponse](t, rec).Version)

	rec = s.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	health := decode[booklysdk.HealthResponse](t, rec)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "ok", health.Checks.Revocations)
}

func TestForwardedForNeedsTrustedProxy(t *testing.T) {
	trust, err := httpx.ParseProxyTrust([]string{"10.0.0.1"})
	require.NoError(t, err)

	r := booklyhttp.NewRouter(httpx.NewGate(nil, nil, 0), "test", nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil)
	r.Limits = booklyhttp.Limits{Strict: generous, Moderate: generous, Lenient: generous,
		Public: httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}}
	r.Proxies = trust
	r.ApplyRoutes()

	livez := func(peer, xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		req.RemoteAddr = peer + ":40000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	// A direct caller rotating the header stays in one bucket
	require.Equal(t, http.StatusOK, livez("198.51.100.7", "203.0.113.1"))
	require.Equal(t, http.StatusTooManyRequests, livez("198.51.100.7", "203.0.113.2"))

	// Through the proxy each forwarded client gets its own bucket
	require.Equal(t, http.StatusOK, livez("10.0.0.1", "203.0.113.1"))
	require.Equal(t, http.StatusOK, livez("10.0.0.1", "203.0.113.2"))
	require.Equal(t, http.StatusTooManyRequests, livez("10.0.0.1", "203.0.113.2"))
}
