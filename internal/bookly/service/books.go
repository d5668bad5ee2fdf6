package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	"github.com/aussiebroadwan/bookly/internal/bookly/store"
	"github.com/aussiebroadwan/bookly/pkg/idx"
)

type BookService struct {
	Store store.Store

	// Now overrides the clock. Tests only.
	Now func() time.Time
}

func (s *BookService) List(ctx context.Context) ([]domain.Book, error) {
	return s.Store.Books().ListBooks(ctx)
}

func (s *BookService) ListByUser(ctx context.Context, userID string) ([]domain.Book, error) {
	return s.Store.Books().ListBooksByUser(ctx, userID)
}

// Get returns the book with its reviews and tags.
func (s *BookService) Get(ctx context.Context, id string) (domain.BookDetail, error) {
	return bookDetail(ctx, s.Store, id)
}

// Create stores b as a new book owned by ownerID.
func (s *BookService) Create(ctx context.Context, ownerID string, b domain.Book) (domain.Book, error) {
	now := clock(s.Now).UTC()

	b.ID = idx.NewAt(now).String()
	b.UserID = ownerID
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Publisher = strings.TrimSpace(b.Publisher)
	b.Language = strings.TrimSpace(b.Language)
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := s.Store.Books().CreateBook(ctx, b); err != nil {
		return domain.Book{}, err
	}
	return b, nil
}

// Update applies the non-nil fields of upd.
func (s *BookService) Update(ctx context.Context, id string, upd domain.BookUpdate) (domain.Book, error) {
	var out domain.Book

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		b, err := tx.Books().GetBookByID(ctx, id)
		if err != nil {
			return mapBookErr(err)
		}

		if upd.Title != nil {
			b.Title = strings.TrimSpace(*upd.Title)
		}
		if upd.Author != nil {
			b.Author = strings.TrimSpace(*upd.Author)
		}
		if upd.Publisher != nil {
			b.Publisher = strings.TrimSpace(*upd.Publisher)
		}
		if upd.PageCount != nil {
			b.PageCount = *upd.PageCount
		}
		if upd.Language != nil {
			b.Language = strings.TrimSpace(*upd.Language)
		}
		b.UpdatedAt = clock(s.Now).UTC()

		if err := tx.Books().UpdateBook(ctx, b); err != nil {
			return mapBookErr(err)
		}
		out = b
		return nil
	})
	return out, err
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	return mapBookErr(s.Store.Books().DeleteBook(ctx, id))
}

func bookDetail(ctx context.Context, st store.Store, id string) (domain.BookDetail, error) {
	b, err := st.Books().GetBookByID(ctx, id)
	if err != nil {
		return domain.BookDetail{}, mapBookErr(err)
	}

	reviews, err := st.Reviews().ListReviewsByBook(ctx, id)
	if err != nil {
		return domain.BookDetail{}, err
	}

	tags, err := st.Tags().ListTagsByBook(ctx, id)
	if err != nil {
		return domain.BookDetail{}, err
	}

	return domain.BookDetail{Book: b, Reviews: reviews, Tags: tags}, nil
}

func mapBookErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrBookNotFound
	}
	return err
}
