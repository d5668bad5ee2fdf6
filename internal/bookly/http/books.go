package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
	"github.com/aussiebroadwan/bookly/internal/bookly/service"
	"github.com/aussiebroadwan/bookly/pkg/booklysdk"
	"github.com/aussiebroadwan/bookly/pkg/httpx"
)

type BooksHandler struct {
	BookService *service.BookService
}

// HandleList returns every book.
//
//	@Summary		List books
//	@Tags			Books
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		booklysdk.BookResponse
//	@Failure		401	{object}	booklysdk.APIError	"Missing, invalid or revoked token"
//	@Failure		403	{object}	booklysdk.APIError	"Account not verified"
//	@Router			/api/v1/books [get].
func (h *BooksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.BookService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapAll(books, toBook))
}

// HandleListByUser returns the books owned by a user.
//
//	@Summary		List a user's books
//	@Tags			Books
//	@Security		BearerAuth
//	@Produce		json
//	@Param			user_uid	path		string	true	"User ID"
//	@Success		200			{array}		booklysdk.BookResponse
//	@Failure		401			{object}	booklysdk.APIError	"Missing, invalid or revoked token"
//	@Router			/api/v1/books/user/{user_uid} [get].
func (h *BooksHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	books, err := h.BookService.ListByUser(r.Context(), r.PathValue("user_uid"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapAll(books, toBook))
}

// HandleGet returns a book with its reviews and tags.
//
//	@Summary		Get book
//	@Tags			Books
//	@Security		BearerAuth
//	@Produce		json
//	@Param			book_uid	path		string	true	"Book ID"
//	@Success		200			{object}	booklysdk.BookDetailResponse
//	@Failure		404			{object}	booklysdk.APIError	"Book not found"
//	@Router			/api/v1/books/{book_uid} [get].
func (h *BooksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "book_uid", booklysdk.ErrBookNotFound)
	if !ok {
		return
	}

	detail, err := h.BookService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBookDetail(detail))
}

// HandleCreate adds a book owned by the caller.
//
//	@Summary		Create book
//	@Tags			Books
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		booklysdk.BookCreateRequest	true	"Book"
//	@Success		201		{object}	booklysdk.BookResponse
//	@Failure		422		{object}	booklysdk.APIError	"Validation failed"
//	@Router			/api/v1/books [post].
func (h *BooksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := caller(w, r)
	if !ok {
		return
	}

	var req booklysdk.BookCreateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	published, err := time.Parse(booklysdk.DateLayout, req.PublishedDate)
	if err != nil {
		booklysdk.ErrValidation.WithDetails(map[string]string{
			"published_date": "must be a valid date",
		}).WriteError(w)
		return
	}

	book, err := h.BookService.Create(r.Context(), p.ID, domain.Book{
		Title:         req.Title,
		Author:        req.Author,
		Publisher:     req.Publisher,
		PublishedDate: published,
		PageCount:     req.PageCount,
		Language:      req.Language,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toBook(book))
}

// HandleUpdate patches a book.
//
//	@Summary		Update book
//	@Tags			Books
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			book_uid	path		string						true	"Book ID"
//	@Param			request		body		booklysdk.BookUpdateRequest	true	"Fields to change"
//	@Success		200			{object}	booklysdk.BookResponse
//	@Failure		404			{object}	booklysdk.APIError	"Book not found"
//	@Failure		422			{object}	booklysdk.APIError	"Validation failed"
//	@Router			/api/v1/books/{book_uid} [patch].
func (h *BooksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "book_uid", booklysdk.ErrBookNotFound)
	if !ok {
		return
	}

	var req booklysdk.BookUpdateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	book, err := h.BookService.Update(r.Context(), id, domain.BookUpdate{
		Title:     req.Title,
		Author:    req.Author,
		Publisher: req.Publisher,
		PageCount: req.PageCount,
		Language:  req.Language,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBook(book))
}

// HandleDelete removes a book with its reviews and tag links.
//
//	@Summary		Delete book
//	@Tags			Books
//	@Security		BearerAuth
//	@Param			book_uid	path	string	true	"Book ID"
//	@Success		204
//	@Failure		404	{object}	booklysdk.APIError	"Book not found"
//	@Router			/api/v1/books/{book_uid} [delete].
func (h *BooksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "book_uid", booklysdk.ErrBookNotFound)
	if !ok {
		return
	}

	if err := h.BookService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
