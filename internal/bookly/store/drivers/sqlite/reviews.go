package sqlite

import (
	"context"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	"github.com/aussiebroadwan/bookly/internal/bookly/store/drivers/sqlite/gen"
)

type reviewsRepo struct {
	q *gen.Queries
}

func (r *reviewsRepo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.q.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, mapReview), nil
}

func (r *reviewsRepo) ListReviewsByBook(ctx context.Context, bookID string) ([]domain.Review, error) {
	rows, err := r.q.ListReviewsByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, mapReview), nil
}

func (r *reviewsRepo) ListReviewsByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	rows, err := r.q.ListReviewsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, mapReview), nil
}

func (r *reviewsRepo) GetReviewByID(ctx context.Context, id string) (domain.Review, error) {
	row, err := r.q.GetReviewByID(ctx, id)
	if err != nil {
		return domain.Review{}, mapNotFound(err)
	}
	return mapReview(row), nil
}

func (r *reviewsRepo) CreateReview(ctx context.Context, rv domain.Review) error {
	created := orNow(rv.CreatedAt)
	err := r.q.CreateReview(ctx, gen.CreateReviewParams{
		ID:         rv.ID,
		Rating:     int64(rv.Rating),
		ReviewText: rv.Text,
		UserID:     rv.UserID,
		BookID:     rv.BookID,
		CreatedAt:  created,
		UpdatedAt:  created,
	})
	return mapConstraint(err)
}

func (r *reviewsRepo) DeleteReview(ctx context.Context, id string) error {
	return expectRows(r.q.DeleteReview(ctx, id))
}
