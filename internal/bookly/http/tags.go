package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookly/internal/bookly/service"
	"github.com/aussiebroadwan/bookly/pkg/booklysdk"
	"github.com/aussiebroadwan/bookly/pkg/httpx"
)

type TagsHandler struct {
	TagService *service.TagService
}

// HandleList returns every tag.
//
//	@Summary		List tags
//	@Tags			Tags
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}	booklysdk.TagResponse
//	@Router			/api/v1/tags [get].
func (h *TagsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tags, err := h.TagService.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mapAll(tags, toTag))
}

// HandleCreate adds a tag.
//
//	@Summary		Create tag
//	@Tags			Tags
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		booklysdk.TagCreateRequest	true	"Tag"
//	@Success		201		{object}	booklysdk.TagResponse
//	@Failure		409		{object}	booklysdk.APIError	"Tag already exists"
//	@Failure		422		{object}	booklysdk.APIError	"Validation failed"
//	@Router			/api/v1/tags [post].
func (h *TagsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req booklysdk.TagCreateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	tag, err := h.TagService.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTag(tag))
}

// HandleAddToBook links tags to a book, creating missing ones.
//
//	@Summary		Tag a book
//	@Tags			Tags
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			book_uid	path		string					true	"Book ID"
//	@Param			request		body		booklysdk.TagAddRequest	true	"Tags"
//	@Success		200			{object}	booklysdk.BookDetailResponse
//	@Failure		404			{object}	booklysdk.APIError	"Book not found"
//	@Failure		422			{object}	booklysdk.APIError	"Validation failed"
//	@Router			/api/v1/tags/book/{book_uid}/tags [post].
func (h *TagsHandler) HandleAddToBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(w, r, "book_uid", booklysdk.ErrBookNotFound)
	if !ok {
		return
	}

	var req booklysdk.TagAddRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	names := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		names = append(names, t.Name)
	}

	detail, err := h.TagService.AddToBook(r.Context(), bookID, names)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBookDetail(detail))
}

// HandleRename changes a tag's name.
//
//	@Summary		Rename tag
//	@Tags			Tags
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			tag_uid	path		string						true	"Tag ID"
//	@Param			request	body		booklysdk.TagCreateRequest	true	"New name"
//	@Success		200		{object}	booklysdk.TagResponse
//	@Failure		404		{object}	booklysdk.APIError	"Tag not found"
//	@Failure		409		{object}	booklysdk.APIError	"Tag already exists"
//	@Router			/api/v1/tags/{tag_uid} [put].
func (h *TagsHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tag_uid", booklysdk.ErrTagNotFound)
	if !ok {
		return
	}

	var req booklysdk.TagCreateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	tag, err := h.TagService.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTag(tag))
}

// HandleDelete removes a tag and its book links.
//
//	@Summary		Delete tag
//	@Tags			Tags
//	@Security		BearerAuth
//	@Param			tag_uid	path	string	true	"Tag ID"
//	@Success		204
//	@Failure		404	{object}	booklysdk.APIError	"Tag not found"
//	@Router			/api/v1/tags/{tag_uid} [delete].
func (h *TagsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "tag_uid", booklysdk.ErrTagNotFound)
	if !ok {
		return
	}

	if err := h.TagService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
