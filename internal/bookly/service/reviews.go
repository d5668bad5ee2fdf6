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

type ReviewService struct {
	Store store.Store

	// Now overrides the clock. Tests only.
	Now func() time.Time
}

func (s *ReviewService) List(ctx context.Context) ([]domain.Review, error) {
	return s.Store.Reviews().ListReviews(ctx)
}

func (s *ReviewService) Get(ctx context.Context, id string) (domain.Review, error) {
	r, err := s.Store.Reviews().GetReviewByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Review{}, ErrReviewNotFound
	}
	return r, err
}

// Create adds a review of bookID written by userID.
func (s *ReviewService) Create(ctx context.Context, userID, bookID string, rating int, text string) (domain.Review, error) {
	if _, err := s.Store.Books().GetBookByID(ctx, bookID); err != nil {
		return domain.Review{}, mapBookErr(err)
	}

	now := clock(s.Now).UTC()
	r := domain.Review{
		ID:        idx.NewAt(now).String(),
		Rating:    rating,
		Text:      strings.TrimSpace(text),
		UserID:    userID,
		BookID:    bookID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Reviews().CreateReview(ctx, r); err != nil {
		// The book may have been deleted since the lookup
		return domain.Review{}, mapBookErr(err)
	}
	return r, nil
}

// Delete removes a review. Only its author may delete it.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID string) error {
	r, err := s.Get(ctx, reviewID)
	if err != nil {
		return err
	}
	if r.UserID != userID {
		return ErrForbidden
	}

	if err := s.Store.Reviews().DeleteReview(ctx, reviewID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}
