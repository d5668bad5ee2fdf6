package http

import (
	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	"github.com/aussiebroadwan/bookly/pkg/booklysdk"
)

func toUser(u domain.User) booklysdk.UserResponse {
	return booklysdk.UserResponse{
		UID:        u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role.String(),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toProfile(p domain.UserProfile) booklysdk.UserProfileResponse {
	return booklysdk.UserProfileResponse{
		UserResponse: toUser(p.User),
		Books:        mapAll(p.Books, toBook),
		Reviews:      mapAll(p.Reviews, toReview),
	}
}

func toBook(b domain.Book) booklysdk.BookResponse {
	return booklysdk.BookResponse{
		UID:           b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Publisher:     b.Publisher,
		PublishedDate: b.PublishedDate.Format(booklysdk.DateLayout),
		PageCount:     b.PageCount,
		Language:      b.Language,
		UserUID:       b.UserID,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toBookDetail(d domain.BookDetail) booklysdk.BookDetailResponse {
	return booklysdk.BookDetailResponse{
		BookResponse: toBook(d.Book),
		Reviews:      mapAll(d.Reviews, toReview),
		Tags:         mapAll(d.Tags, toTag),
	}
}

func toReview(r domain.Review) booklysdk.ReviewResponse {
	return booklysdk.ReviewResponse{
		UID:        r.ID,
		Rating:     r.Rating,
		ReviewText: r.Text,
		UserUID:    r.UserID,
		BookUID:    r.BookID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toTag(t domain.Tag) booklysdk.TagResponse {
	return booklysdk.TagResponse{
		UID:       t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
	}
}

// mapAll never returns nil so empty lists encode as [].
func mapAll[D, R any](in []D, fn func(D) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
