package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/bookly/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-with-enough-entropy-0123456789")

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time           { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func newSessionCodec(t *testing.T, clock *fakeClock) *jwtx.SessionCodec {
	t.Helper()
	c, err := jwtx.NewSessionCodec(jwtx.SessionOptions{
		Secret:    testSecret,
		AccessTTL: time.Hour,
		Now:       clock.Now,
	})
	require.NoError(t, err)
	return c
}

var alice = jwtx.UserPayload{
	Email:  "alice@example.com",
	UserID: "01JNB4Q3ZP4W6T5ZK2J9X8V7C6",
	Role:   "user",
}

func TestNewSessionCodec(t *testing.T) {
	tests := []struct {
		name    string
		opts    jwtx.SessionOptions
		wantAlg string
		wantErr error
	}{
		{"defaults to HS256", jwtx.SessionOptions{Secret: testSecret}, "HS256", nil},
		{"HS384", jwtx.SessionOptions{Secret: testSecret, Algorithm: "HS384"}, "HS384", nil},
		{"HS512", jwtx.SessionOptions{Secret: testSecret, Algorithm: "HS512"}, "HS512", nil},
		{"missing secret", jwtx.SessionOptions{}, "", jwtx.ErrMissingSecret},
		{"asymmetric rejected", jwtx.SessionOptions{Secret: testSecret, Algorithm: "RS256"}, "", jwtx.ErrUnsupportedAlgorithm},
		{"none rejected", jwtx.SessionOptions{Secret: testSecret, Algorithm: "none"}, "", jwtx.ErrUnsupportedAlgorithm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := jwtx.NewSessionCodec(tt.opts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantAlg, c.Alg())
		})
	}
}

func TestSessionCodec_RoundTrip(t *testing.T) {
	clock := newClock()
	c := newSessionCodec(t, clock)

	token, issued, err := c.Issue(alice, 0, false)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(token, "."))

	got, err := c.Decode(token)
	require.NoError(t, err)
	require.Equal(t, alice, got.User)
	require.False(t, got.Refresh)
	require.Equal(t, issued.ID, got.ID)
	require.True(t, clock.Now().Add(time.Hour).Equal(got.ExpiresAt.Time))
	require.True(t, clock.Now().Equal(got.IssuedAt.Time))
}

func TestSessionCodec_RefreshFlag(t *testing.T) {
	c := newSessionCodec(t, newClock())

	token, _, err := c.Issue(jwtx.UserPayload{Email: alice.Email, UserID: alice.UserID}, 48*time.Hour, true)
	require.NoError(t, err)

	got, err := c.Decode(token)
	require.NoError(t, err)
	require.True(t, got.Refresh)
	require.Empty(t, got.User.Role)
}

func TestSessionCodec_UniqueJTI(t *testing.T) {
	c := newSessionCodec(t, newClock())

	t1, c1, err := c.Issue(alice, 0, false)
	require.NoError(t, err)
	t2, c2, err := c.Issue(alice, 0, false)
	require.NoError(t, err)

	require.NotEqual(t, c1.ID, c2.ID)
	require.NotEqual(t, t1, t2)
}

func TestSessionCodec_Expiry(t *testing.T) {
	clock := newClock()
	c := newSessionCodec(t, clock)

	token, _, err := c.Issue(alice, time.Minute, false)
	require.NoError(t, err)

	clock.Advance(59 * time.Second)
	_, err = c.Decode(token)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = c.Decode(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestSessionCodec_RejectsTampering(t *testing.T) {
	c := newSessionCodec(t, newClock())
	token, _, err := c.Issue(alice, 0, false)
	require.NoError(t, err)

	parts := strings.Split(token, ".")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"two segments", parts[0] + "." + parts[1]},
		{"bad signature", parts[0] + "." + parts[1] + ".AAAA"},
		{"swapped payload", parts[0] + "." + strings.Repeat("e", len(parts[1])) + "." + parts[2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.token)
			require.ErrorIs(t, err, jwtx.ErrInvalidToken)
		})
	}
}

func TestSessionCodec_RejectsOtherSecret(t *testing.T) {
	clock := newClock()
	c := newSessionCodec(t, clock)

	other, err := jwtx.NewSessionCodec(jwtx.SessionOptions{Secret: []byte("another-secret"), Now: clock.Now})
	require.NoError(t, err)

	token, _, err := other.Issue(alice, 0, false)
	require.NoError(t, err)

	_, err = c.Decode(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestSessionCodec_RejectsAlgorithmSwitch(t *testing.T) {
	clock := newClock()
	c := newSessionCodec(t, clock)

	hs512, err := jwtx.NewSessionCodec(jwtx.SessionOptions{Secret: testSecret, Algorithm: "HS512", Now: clock.Now})
	require.NoError(t, err)

	token, _, err := hs512.Issue(alice, 0, false)
	require.NoError(t, err)

	_, err = c.Decode(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestSessionCodec_RequiresJTI(t *testing.T) {
	clock := newClock()
	c := newSessionCodec(t, clock)

	claims := jwtx.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(clock.Now()),
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		},
		User: alice,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = c.Decode(token)
	require.ErrorIs(t, err, jwtx.ErrMissingTokenID)
}

func TestSessionCodec_RequiresExpiry(t *testing.T) {
	clock := newClock()
	c := newSessionCodec(t, clock)

	claims := jwtx.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: jwtx.NewJTI()},
		User:             alice,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = c.Decode(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestSessionCodec_Issuer(t *testing.T) {
	clock := newClock()
	withIss, err := jwtx.NewSessionCodec(jwtx.SessionOptions{Secret: testSecret, Issuer: "bookly", Now: clock.Now})
	require.NoError(t, err)

	token, _, err := withIss.Issue(alice, 0, false)
	require.NoError(t, err)
	got, err := withIss.Decode(token)
	require.NoError(t, err)
	require.Equal(t, "bookly", got.Issuer)

	// Same secret, no issuer stamped: rejected by the issuer-checking codec.
	bare := newSessionCodec(t, clock)
	token, _, err = bare.Issue(alice, 0, false)
	require.NoError(t, err)
	_, err = withIss.Decode(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}
