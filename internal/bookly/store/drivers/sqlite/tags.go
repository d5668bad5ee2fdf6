package sqlite

import (
	"context"
	"strings"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	"github.com/aussiebroadwan/bookly/internal/bookly/store/drivers/sqlite/gen"
)

type tagsRepo struct {
	q *gen.Queries
}

func (r *tagsRepo) ListTags(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.q.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, mapTag), nil
}

func (r *tagsRepo) GetTagByID(ctx context.Context, id string) (domain.Tag, error) {
	row, err := r.q.GetTagByID(ctx, id)
	if err != nil {
		return domain.Tag{}, mapNotFound(err)
	}
	return mapTag(row), nil
}

func (r *tagsRepo) GetTagByName(ctx context.Context, name string) (domain.Tag, error) {
	row, err := r.q.GetTagByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return domain.Tag{}, mapNotFound(err)
	}
	return mapTag(row), nil
}

func (r *tagsRepo) CreateTag(ctx context.Context, t domain.Tag) error {
	err := r.q.CreateTag(ctx, gen.CreateTagParams{
		ID:        t.ID,
		Name:      strings.TrimSpace(t.Name),
		CreatedAt: orNow(t.CreatedAt),
	})
	return mapConstraint(err)
}

func (r *tagsRepo) UpdateTagName(ctx context.Context, id, name string) error {
	return expectRows(r.q.UpdateTagName(ctx, gen.UpdateTagNameParams{
		Name: strings.TrimSpace(name),
		ID:   id,
	}))
}

func (r *tagsRepo) DeleteTag(ctx context.Context, id string) error {
	return expectRows(r.q.DeleteTag(ctx, id))
}

func (r *tagsRepo) ListTagsByBook(ctx context.Context, bookID string) ([]domain.Tag, error) {
	rows, err := r.q.ListTagsByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return mapSlice(rows, mapTag), nil
}

func (r *tagsRepo) AddTagToBook(ctx context.Context, bookID, tagID string) error {
	err := r.q.AddTagToBook(ctx, gen.AddTagToBookParams{BookID: bookID, TagID: tagID})
	return mapConstraint(err)
}
