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

type TagService struct {
	Store store.Store

	// Now overrides the clock. Tests only.
	Now func() time.Time
}

func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	return s.Store.Tags().ListTags(ctx)
}

// Create adds a tag. Names are unique ignoring case.
func (s *TagService) Create(ctx context.Context, name string) (domain.Tag, error) {
	now := clock(s.Now).UTC()
	t := domain.Tag{
		ID:        idx.NewAt(now).String(),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
	}

	if err := s.Store.Tags().CreateTag(ctx, t); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Tag{}, ErrTagAlreadyExists
		}
		return domain.Tag{}, err
	}
	return t, nil
}

// AddToBook links the named tags to a book, creating the ones that do not
// exist yet, and returns the updated book.
func (s *TagService) AddToBook(ctx context.Context, bookID string, names []string) (domain.BookDetail, error) {
	var out domain.BookDetail

	now := clock(s.Now).UTC()
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Books().GetBookByID(ctx, bookID); err != nil {
			return mapBookErr(err)
		}

		for _, name := range names {
			name = strings.TrimSpace(name)

			tag, err := tx.Tags().GetTagByName(ctx, name)
			switch {
			case errors.Is(err, store.ErrNotFound):
				tag = domain.Tag{ID: idx.NewAt(now).String(), Name: name, CreatedAt: now}
				if err := tx.Tags().CreateTag(ctx, tag); err != nil {
					return err
				}
			case err != nil:
				return err
			}

			if err := tx.Tags().AddTagToBook(ctx, bookID, tag.ID); err != nil {
				return err
			}
		}

		detail, err := bookDetail(ctx, tx, bookID)
		if err != nil {
			return err
		}
		out = detail
		return nil
	})
	return out, err
}

// Rename changes a tag's name.
func (s *TagService) Rename(ctx context.Context, id, name string) (domain.Tag, error) {
	if err := s.Store.Tags().UpdateTagName(ctx, id, strings.TrimSpace(name)); err != nil {
		return domain.Tag{}, mapTagErr(err)
	}

	t, err := s.Store.Tags().GetTagByID(ctx, id)
	if err != nil {
		return domain.Tag{}, mapTagErr(err)
	}
	return t, nil
}

func (s *TagService) Delete(ctx context.Context, id string) error {
	return mapTagErr(s.Store.Tags().DeleteTag(ctx, id))
}

func mapTagErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrTagNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrTagAlreadyExists
	}
	return err
}
