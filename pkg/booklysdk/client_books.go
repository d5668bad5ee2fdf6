package booklysdk

import (
	"context"
	"net/http"
	"net/url"
)

// ============================================================================
// Books
// ============================================================================

func (s *Session) ListBooks(ctx context.Context) ([]BookResponse, error) {
	var out []BookResponse
	if err := s.doAuth(ctx, http.MethodGet, "/api/v1/books", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) ListUserBooks(ctx context.Context, userUID string) ([]BookResponse, error) {
	var out []BookResponse
	path := "/api/v1/books/user/" + url.PathEscape(userUID)
	if err := s.doAuth(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) CreateBook(ctx context.Context, req BookCreateRequest) (*BookResponse, error) {
	var out BookResponse
	if err := s.doAuth(ctx, http.MethodPost, "/api/v1/books", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) GetBook(ctx context.Context, bookUID string) (*BookDetailResponse, error) {
	var out BookDetailResponse
	path := "/api/v1/books/" + url.PathEscape(bookUID)
	if err := s.doAuth(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateBook(ctx context.Context, bookUID string, req BookUpdateRequest) (*BookResponse, error) {
	var out BookResponse
	path := "/api/v1/books/" + url.PathEscape(bookUID)
	if err := s.doAuth(ctx, http.MethodPatch, path, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteBook(ctx context.Context, bookUID string) error {
	path := "/api/v1/books/" + url.PathEscape(bookUID)
	return s.doAuth(ctx, http.MethodDelete, path, nil, nil, http.StatusNoContent)
}

// ============================================================================
// Reviews
// ============================================================================

func (s *Session) ListReviews(ctx context.Context) ([]ReviewResponse, error) {
	var out []ReviewResponse
	if err := s.doAuth(ctx, http.MethodGet, "/api/v1/reviews", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) GetReview(ctx context.Context, reviewUID string) (*ReviewResponse, error) {
	var out ReviewResponse
	path := "/api/v1/reviews/" + url.PathEscape(reviewUID)
	if err := s.doAuth(ctx, http.MethodGet, path, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) CreateReview(ctx context.Context, bookUID string, req ReviewCreateRequest) (*ReviewResponse, error) {
	var out ReviewResponse
	path := "/api/v1/reviews/book/" + url.PathEscape(bookUID)
	if err := s.doAuth(ctx, http.MethodPost, path, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteReview(ctx context.Context, reviewUID string) error {
	path := "/api/v1/reviews/" + url.PathEscape(reviewUID)
	return s.doAuth(ctx, http.MethodDelete, path, nil, nil, http.StatusNoContent)
}

// ============================================================================
// Tags
// ============================================================================

func (s *Session) ListTags(ctx context.Context) ([]TagResponse, error) {
	var out []TagResponse
	if err := s.doAuth(ctx, http.MethodGet, "/api/v1/tags", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) CreateTag(ctx context.Context, name string) (*TagResponse, error) {
	var out TagResponse
	if err := s.doAuth(ctx, http.MethodPost, "/api/v1/tags", TagCreateRequest{Name: name}, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) AddTagsToBook(ctx context.Context, bookUID string, names ...string) (*BookDetailResponse, error) {
	req := TagAddRequest{Tags: make([]TagCreateRequest, 0, len(names))}
	for _, n := range names {
		req.Tags = append(req.Tags, TagCreateRequest{Name: n})
	}

	var out BookDetailResponse
	path := "/api/v1/tags/book/" + url.PathEscape(bookUID) + "/tags"
	if err := s.doAuth(ctx, http.MethodPost, path, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateTag(ctx context.Context, tagUID, name string) (*TagResponse, error) {
	var out TagResponse
	path := "/api/v1/tags/" + url.PathEscape(tagUID)
	if err := s.doAuth(ctx, http.MethodPut, path, TagCreateRequest{Name: name}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteTag(ctx context.Context, tagUID string) error {
	path := "/api/v1/tags/" + url.PathEscape(tagUID)
	return s.doAuth(ctx, http.MethodDelete, path, nil, nil, http.StatusNoContent)
}
