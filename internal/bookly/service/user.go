package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	"github.com/aussiebroadwan/bookly/internal/bookly/store"
	"github.com/aussiebroadwan/bookly/pkg/jwtx"
)

type UserService struct {
	Store store.Store
}

// ResolveIdentity loads the account behind verified session claims.
func (s *UserService) ResolveIdentity(ctx context.Context, claims jwtx.SessionClaims) (domain.User, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, claims.User.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

// Profile returns the user with the books they own and the reviews they
// wrote.
func (s *UserService) Profile(ctx context.Context, userID string) (domain.UserProfile, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, err
	}

	books, err := s.Store.Books().ListBooksByUser(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, err
	}

	reviews, err := s.Store.Reviews().ListReviewsByUser(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, err
	}

	return domain.UserProfile{User: user, Books: books, Reviews: reviews}, nil
}
