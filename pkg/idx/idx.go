// Package idx generates the ULID identifiers of persisted entities.
package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID identifies users, books, reviews and tags. It is stored as TEXT and
// appears in URLs as the *_uid path parameters.
type ID string

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns an ID stamped with the current time.
func New() ID {
	return NewAt(time.Now())
}

// NewAt returns an ID stamped with t. IDs minted within the same millisecond
// still sort in creation order.
func NewAt(t time.Time) ID {
	mu.Lock()
	defer mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t.UTC()), entropy).String())
}

// Parse validates s as a canonical ULID.
func Parse(s string) (ID, error) {
	if _, err := ulid.ParseStrict(strings.TrimSpace(s)); err != nil {
		return "", ErrInvalid
	}
	return ID(strings.TrimSpace(s)), nil
}

// Valid reports whether s is a well-formed ID. Handlers use it to reject
// malformed path parameters before touching the store.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func (id ID) IsZero() bool { return id == "" }

func (id ID) String() string { return string(id) }
