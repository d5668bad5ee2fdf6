package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	"github.com/aussiebroadwan/bookly/internal/bookly/mail"
	"github.com/aussiebroadwan/bookly/pkg/booklysdk"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""

	_, err := New(cfg)
	require.ErrorContains(t, err, "invalid configuration")
}

func TestApplicationServesAndShutsDown(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := validConfig()
	cfg.RedisURL = "redis://" + mr.Addr() + "/0"

	var (
		mu   sync.Mutex
		sent []domain.MailMessage
	)
	mailer := mail.MailerFunc(func(_ context.Context, msg domain.MailMessage) error {
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, msg)
		return nil
	})

	app, err := New(cfg,
		WithMailer(mailer),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	app.Start()

	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	var health booklysdk.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, BuildVersion, health.Version)

	body := `{"first_name":"Ada","last_name":"Lovelace","username":"adalovelace","email":"ada@example.com","password":"hunter22"}`
	resp, err = http.Post(srv.URL+"/api/v1/auth/signup", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Shutdown drains the mail queue before returning
	require.NoError(t, app.Shutdown())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 1)
	require.Equal(t, mail.SubjectVerifyEmail, sent[0].Subject)
	require.Contains(t, sent[0].Body, "http://localhost:8080/api/v1/auth/verify/")
}
