package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/bookly/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newActionCodec(t *testing.T, clock *fakeClock, salt string) *jwtx.ActionCodec {
	t.Helper()
	c, err := jwtx.NewActionCodec(jwtx.ActionOptions{
		Secret: testSecret,
		Salt:   salt,
		MaxAge: 24 * time.Hour,
		Now:    clock.Now,
	})
	require.NoError(t, err)
	return c
}

func TestNewActionCodec(t *testing.T) {
	_, err := jwtx.NewActionCodec(jwtx.ActionOptions{})
	require.ErrorIs(t, err, jwtx.ErrMissingSecret)

	c, err := jwtx.NewActionCodec(jwtx.ActionOptions{Secret: testSecret})
	require.NoError(t, err)
	require.Equal(t, jwtx.DefaultActionTokenMaxAge, c.MaxAge())
}

func TestActionCodec_RoundTrip(t *testing.T) {
	c := newActionCodec(t, newClock(), "email-configuration")

	for _, purpose := range []jwtx.ActionPurpose{jwtx.PurposeVerifyEmail, jwtx.PurposePasswordReset} {
		t.Run(string(purpose), func(t *testing.T) {
			token, issued, err := c.Issue("alice@example.com", purpose)
			require.NoError(t, err)

			got, err := c.Decode(token, purpose)
			require.NoError(t, err)
			require.Equal(t, "alice@example.com", got.Email)
			require.Equal(t, purpose, got.Purpose)
			require.Equal(t, issued.ID, got.ID)
			require.Nil(t, got.ExpiresAt)
		})
	}
}

func TestActionCodec_PurposeMismatch(t *testing.T) {
	c := newActionCodec(t, newClock(), "email-configuration")

	token, _, err := c.Issue("alice@example.com", jwtx.PurposeVerifyEmail)
	require.NoError(t, err)

	_, err = c.Decode(token, jwtx.PurposePasswordReset)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
	require.ErrorIs(t, err, jwtx.ErrPurposeMismatch)
}

func TestActionCodec_MaxAge(t *testing.T) {
	clock := newClock()
	c := newActionCodec(t, clock, "email-configuration")

	token, claims, err := c.Issue("alice@example.com", jwtx.PurposeVerifyEmail)
	require.NoError(t, err)

	clock.Advance(23 * time.Hour)
	_, err = c.Decode(token, jwtx.PurposeVerifyEmail)
	require.NoError(t, err)
	require.Equal(t, time.Hour, c.Remaining(claims, clock.Now()))

	clock.Advance(2 * time.Hour)
	_, err = c.Decode(token, jwtx.PurposeVerifyEmail)
	require.ErrorIs(t, err, jwtx.ErrExpired)
	require.Zero(t, c.Remaining(claims, clock.Now()))
}

func TestActionCodec_WrongSalt(t *testing.T) {
	clock := newClock()
	issuer := newActionCodec(t, clock, "email-configuration")
	other := newActionCodec(t, clock, "something-else")

	token, _, err := issuer.Issue("alice@example.com", jwtx.PurposeVerifyEmail)
	require.NoError(t, err)

	_, err = other.Decode(token, jwtx.PurposeVerifyEmail)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}

func TestActionAndSessionTokensNotInterchangeable(t *testing.T) {
	clock := newClock()
	sessions := newSessionCodec(t, clock)
	actions := newActionCodec(t, clock, "email-configuration")

	sessionToken, _, err := sessions.Issue(alice, 0, false)
	require.NoError(t, err)
	_, err = actions.Decode(sessionToken, jwtx.PurposeVerifyEmail)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)

	actionToken, _, err := actions.Issue(alice.Email, jwtx.PurposeVerifyEmail)
	require.NoError(t, err)
	_, err = sessions.Decode(actionToken)
	require.ErrorIs(t, err, jwtx.ErrInvalidToken)
}
