package sqlite

import (
	"context"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	"github.com/aussiebroadwan/bookly/internal/bookly/store/drivers/sqlite/gen"
)

type booksRepo struct {
	q *gen.Queries
}

func (r *booksRepo) ListBooks(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.q.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, mapBook), nil
}

func (r *booksRepo) ListBooksByUser(ctx context.Context, userID string) ([]domain.Book, error) {
	rows, err := r.q.ListBooksByUser(ctx, mapStringNull(userID))
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, mapBook), nil
}

func (r *booksRepo) GetBookByID(ctx context.Context, id string) (domain.Book, error) {
	row, err := r.q.GetBookByID(ctx, id)
	if err != nil {
		return domain.Book{}, mapNotFound(err)
	}
	return mapBook(row), nil
}

func (r *booksRepo) CreateBook(ctx context.Context, b domain.Book) error {
	created := orNow(b.CreatedAt)
	err := r.q.CreateBook(ctx, gen.CreateBookParams{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Publisher:     b.Publisher,
		PublishedDate: b.PublishedDate.UTC(),
		PageCount:     int64(b.PageCount),
		Language:      b.Language,
		UserID:        mapStringNull(b.UserID),
		CreatedAt:     created,
		UpdatedAt:     created,
	})
	return mapConstraint(err)
}

func (r *booksRepo) UpdateBook(ctx context.Context, b domain.Book) error {
	return expectRows(r.q.UpdateBook(ctx, gen.UpdateBookParams{
		Title:     b.Title,
		Author:    b.Author,
		Publisher: b.Publisher,
		PageCount: int64(b.PageCount),
		Language:  b.Language,
		UpdatedAt: orNow(b.UpdatedAt),
		ID:        b.ID,
	}))
}

func (r *booksRepo) DeleteBook(ctx context.Context, id string) error {
	return expectRows(r.q.DeleteBook(ctx, id))
}
