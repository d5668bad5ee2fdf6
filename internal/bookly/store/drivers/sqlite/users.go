package sqlite

import (
	"context"
	"strings"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	"github.com/aussiebroadwan/bookly/internal/bookly/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.q.CountUsersByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	created := orNow(u.CreatedAt)
	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:           u.ID,
		Username:     u.Username,
		Email:        strings.TrimSpace(u.Email),
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role.String(),
		IsVerified:   u.IsVerified,
		PasswordHash: u.PasswordHash,
		CreatedAt:    created,
		UpdatedAt:    created,
	})
	return mapConstraint(err)
}

func (r *usersRepo) MarkVerified(ctx context.Context, userID string) error {
	return expectRows(r.q.MarkUserVerified(ctx, gen.MarkUserVerifiedParams{
		UpdatedAt: now(),
		ID:        userID,
	}))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return expectRows(r.q.UpdateUserPasswordHash(ctx, gen.UpdateUserPasswordHashParams{
		PasswordHash: newHash,
		UpdatedAt:    now(),
		ID:           userID,
	}))
}
