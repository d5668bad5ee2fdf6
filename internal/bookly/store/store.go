package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and so a transaction can only be opened from the root.
type Store interface {
	Users() Users
	Books() Books
	Reviews() Reviews
	Tags() Tags

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// MarkVerified sets is_verified and bumps updated_at.
	MarkVerified(ctx context.Context, userID string) error

	// UpdatePasswordHash sets the bcrypt hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
}

type Books interface {
	// ListBooks returns every book, newest first.
	ListBooks(ctx context.Context) ([]domain.Book, error)

	// ListBooksByUser returns the books owned by userID, newest first.
	ListBooksByUser(ctx context.Context, userID string) ([]domain.Book, error)

	GetBookByID(ctx context.Context, id string) (domain.Book, error)
	CreateBook(ctx context.Context, b domain.Book) error

	// UpdateBook writes the mutable fields of b. ErrNotFound if b.ID is unknown.
	UpdateBook(ctx context.Context, b domain.Book) error

	// DeleteBook cascades to reviews and tag links (per schema).
	DeleteBook(ctx context.Context, id string) error
}

type Reviews interface {
	ListReviews(ctx context.Context) ([]domain.Review, error)
	ListReviewsByBook(ctx context.Context, bookID string) ([]domain.Review, error)
	ListReviewsByUser(ctx context.Context, userID string) ([]domain.Review, error)
	GetReviewByID(ctx context.Context, id string) (domain.Review, error)
	CreateReview(ctx context.Context, r domain.Review) error
	DeleteReview(ctx context.Context, id string) error
}

type Tags interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	GetTagByID(ctx context.Context, id string) (domain.Tag, error)

	// GetTagByName matches case-insensitively.
	GetTagByName(ctx context.Context, name string) (domain.Tag, error)

	// CreateTag returns ErrAlreadyExists when the name is taken.
	CreateTag(ctx context.Context, t domain.Tag) error

	UpdateTagName(ctx context.Context, id, name string) error
	DeleteTag(ctx context.Context, id string) error

	ListTagsByBook(ctx context.Context, bookID string) ([]domain.Tag, error)

	// AddTagToBook links a tag to a book. Linking twice is a no-op.
	AddTagToBook(ctx context.Context, bookID, tagID string) error
}
