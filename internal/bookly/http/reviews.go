package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookly/internal/bookly/service"
	"github.com/aussiebroadwan/bookly/pkg/booklysdk"
	"github.com/aussiebroadwan/bookly/pkg/httpx"
)

type ReviewsHandler struct {
	ReviewService *service.ReviewService
}

// HandleList returns every review, newest first.
//
//	@Summary		List reviews
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}	booklysdk.ReviewResponse
//	@Router			/api/v1/reviews [get].
func (h *ReviewsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.ReviewService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapAll(reviews, toReview))
}

// HandleGet returns one review.
//
//	@Summary		Get review
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Produce		json
//	@Param			review_uid	path		string	true	"Review ID"
//	@Success		200			{object}	booklysdk.ReviewResponse
//	@Failure		404			{object}	booklysdk.APIError	"Review not found"
//	@Router			/api/v1/reviews/{review_uid} [get].
func (h *ReviewsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "review_uid", booklysdk.ErrReviewNotFound)
	if !ok {
		return
	}

	review, err := h.ReviewService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toReview(review))
}

// HandleCreate reviews a book as the caller.
//
//	@Summary		Review a book
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			book_uid	path		string							true	"Book ID"
//	@Param			request		body		booklysdk.ReviewCreateRequest	true	"Review"
//	@Success		201			{object}	booklysdk.ReviewResponse
//	@Failure		404			{object}	booklysdk.APIError	"Book not found"
//	@Failure		422			{object}	booklysdk.APIError	"Validation failed"
//	@Router			/api/v1/reviews/book/{book_uid} [post].
func (h *ReviewsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := caller(w, r)
	if !ok {
		return
	}

	bookID, ok := pathID(w, r, "book_uid", booklysdk.ErrBookNotFound)
	if !ok {
		return
	}

	var req booklysdk.ReviewCreateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	review, err := h.ReviewService.Create(r.Context(), p.ID, bookID, req.Rating, req.ReviewText)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toReview(review))
}

// HandleDelete removes a review written by the caller.
//
//	@Summary		Delete review
//	@Tags			Reviews
//	@Security		BearerAuth
//	@Param			review_uid	path	string	true	"Review ID"
//	@Success		204
//	@Failure		403	{object}	booklysdk.APIError	"Not the author"
//	@Failure		404	{object}	booklysdk.APIError	"Review not found"
//	@Router			/api/v1/reviews/{review_uid} [delete].
func (h *ReviewsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := caller(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "review_uid", booklysdk.ErrReviewNotFound)
	if !ok {
		return
	}

	if err := h.ReviewService.Delete(r.Context(), p.ID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
