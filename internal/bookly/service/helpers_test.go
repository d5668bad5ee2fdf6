package service

import (
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	"github.com/aussiebroadwan/bookly/internal/bookly/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookly/pkg/cryptox"
	"github.com/aussiebroadwan/bookly/pkg/jwtx"
	"github.com/aussiebroadwan/bookly/pkg/revoke"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("service-test-secret-0123456789abcdef")

type mailbox struct {
	mu   sync.Mutex
	msgs []domain.MailMessage
	err  error
}

func (m *mailbox) Enqueue(msg domain.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *mailbox) all() []domain.MailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.MailMessage(nil), m.msgs...)
}

type harness struct {
	store *sqlite.Store
	redis *miniredis.Miniredis
	mail  *mailbox
	auth  *AuthService
	users *UserService
	books *BookService
	revs  *ReviewService
	tags  *TagService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sessions, err := jwtx.NewSessionCodec(jwtx.SessionOptions{Secret: testSecret})
	require.NoError(t, err)
	actions, err := jwtx.NewActionCodec(jwtx.ActionOptions{Secret: testSecret, Salt: jwtx.DefaultActionSalt})
	require.NoError(t, err)

	box := &mailbox{}

	return &harness{
		store: st,
		redis: mr,
		mail:  box,
		auth: &AuthService{
			Store:       st,
			Hasher:      cryptox.NewHasher(bcrypt.MinCost),
			Sessions:    sessions,
			Actions:     actions,
			Revocations: revoke.NewRedisStore(rdb, revoke.Options{Prefix: "test:session", MaxTTL: 48 * time.Hour}),
			ActionUses:  revoke.NewRedisStore(rdb, revoke.Options{Prefix: "test:action", MaxTTL: 24 * time.Hour}),
			Mail:        box,
			Domain:      "bookly.test",
			RefreshTTL:  48 * time.Hour,
		},
		users: &UserService{Store: st},
		books: &BookService{Store: st},
		revs:  &ReviewService{Store: st},
		tags:  &TagService{Store: st},
	}
}

func ada() SignupInput {
	return SignupInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "adalovelace",
		Email:     "ada@example.com",
		Password:  "hunter22",
	}
}
