package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/bookly/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	t.Run("listed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()

		httpx.CORS([]string{"https://app.example.com"})(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()

		httpx.CORS([]string{"https://app.example.com"})(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard without credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://any.example.com")
		rec := httptest.NewRecorder()

		httpx.CORS([]string{"*"})(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, "https://any.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/books", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
		rec := httptest.NewRecorder()

		httpx.CORS([]string{"https://app.example.com"})(okHandler()).ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
		require.Equal(t, "Authorization, Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	})
}

func TestTrustedHosts(t *testing.T) {
	hosts := []string{"localhost", "127.0.0.1:8000"}

	tests := []struct {
		host       string
		wantStatus int
	}{
		{"localhost", http.StatusOK},
		{"localhost:8080", http.StatusOK},
		{"127.0.0.1:8000", http.StatusOK},
		{"127.0.0.1:9000", http.StatusBadRequest},
		{"evil.example.com", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()

			httpx.TrustedHosts(hosts)(okHandler()).ServeHTTP(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	t.Run("empty list allows all", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "anything"
		rec := httptest.NewRecorder()
		httpx.TrustedHosts(nil)(okHandler()).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
