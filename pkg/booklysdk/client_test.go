package booklysdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_LoginAndMe(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "hunter22" {
			ErrInvalidCredentials.WriteError(w)
			return
		}
		_ = json.NewEncoder(w).Encode(LoginResponse{
			Message:      "Login successful",
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			User:         LoginUser{Email: req.Email, UID: "01J0000000000000000000000"},
		})
	})
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(UserProfileResponse{UserResponse: UserResponse{Email: "ada@example.com"}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL + "/")
	ctx := context.Background()

	_, err := client.Authenticate(ctx, "ada@example.com", "wrong")
	require.True(t, errors.Is(err, ErrInvalidCredentials))

	session, err := client.Authenticate(ctx, "ada@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "refresh-1", session.RefreshToken())
	require.Equal(t, "ada@example.com", session.User().Email)

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", me.Email)
}

func TestSession_RefreshesOnInvalidToken(t *testing.T) {
	t.Parallel()

	var refreshes atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/refresh_token", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer refresh-1", r.Header.Get("Authorization"))
		refreshes.Add(1)
		_ = json.NewEncoder(w).Encode(RefreshResponse{AccessToken: "access-2"})
	})
	mux.HandleFunc("GET /api/v1/tags", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access-2" {
			ErrInvalidToken.WriteError(w)
			return
		}
		_ = json.NewEncoder(w).Encode([]TagResponse{{UID: "t1", Name: "sci-fi"}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	session := NewClient(srv.URL).NewSessionFromTokens("access-1", "refresh-1", LoginUser{})

	tags, err := session.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	require.Equal(t, "access-2", session.AccessToken())
	require.Equal(t, int32(1), refreshes.Load())
}

func TestSession_NoRefreshOnRevoked(t *testing.T) {
	t.Parallel()

	var refreshes atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/refresh_token", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
	})
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		ErrTokenRevoked.WriteError(w)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	session := NewClient(srv.URL).NewSessionFromTokens("access-1", "refresh-1", LoginUser{})

	_, err := session.Me(context.Background())
	require.True(t, errors.Is(err, ErrTokenRevoked))
	require.Zero(t, refreshes.Load())
}

func TestClient_DeleteNoContent(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "missing" {
			ErrBookNotFound.WriteError(w)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	session := NewClient(srv.URL).NewSessionFromTokens("access-1", "", LoginUser{})

	require.NoError(t, session.DeleteBook(context.Background(), "b1"))

	err := session.DeleteBook(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, ErrorCodeBookNotFound, apiErr.Code)
}
