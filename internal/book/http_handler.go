package book

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type bookRequest struct {
	Title           *string `json:"title" validate:"required"`
	PublicationYear *int    `json:"publication_year" validate:"required"`
	Author          *int64  `json:"author" validate:"required"`
}

func (in bookRequest) book() Book {
	return Book{Title: *in.Title, PublicationYear: *in.PublicationYear, AuthorID: *in.Author}
}

type patchRequest struct {
	Title           *string `json:"title"`
	PublicationYear *int    `json:"publication_year"`
	Author          *int64  `json:"author"`
}

// PathID parses the {id} path segment. ok is false for anything that is
// not a positive integer, which callers answer with 404.
func PathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// List handles GET /books/
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}

	books, err := h.service.List(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	if books == nil {
		books = []Book{}
	}
	httpx.JSONSuccess(w, books)
}

// Get handles GET /books/{id}/
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		httpx.NotFound(w, r)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	httpx.JSONSuccess(w, b)
}

// Create handles POST /books/create/
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in bookRequest
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if fields := httpx.ValidateStruct(in); fields != nil {
		httpx.JSONValidationError(w, r, fields)
		return
	}

	b, err := h.service.Create(r.Context(), in.book())
	if err != nil {
		h.writeError(w, r, err, in.Author)
		return
	}
	httpx.JSONSuccessCreated(w, b)
}

// Update handles PUT /books/{id}/update/ as a full replace.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		httpx.NotFound(w, r)
		return
	}

	var in bookRequest
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if fields := httpx.ValidateStruct(in); fields != nil {
		httpx.JSONValidationError(w, r, fields)
		return
	}

	b, err := h.service.Update(r.Context(), id, in.book())
	if err != nil {
		h.writeError(w, r, err, in.Author)
		return
	}
	httpx.JSONSuccess(w, b)
}

// Patch handles PATCH /books_all/{id}/
func (h *HTTPHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		httpx.NotFound(w, r)
		return
	}

	var in patchRequest
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}

	b, err := h.service.Patch(r.Context(), id, Patch{
		Title:           in.Title,
		PublicationYear: in.PublicationYear,
		AuthorID:        in.Author,
	})
	if err != nil {
		h.writeError(w, r, err, in.Author)
		return
	}
	httpx.JSONSuccess(w, b)
}

// Delete handles DELETE /books/{id}/delete/
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		httpx.NotFound(w, r)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error, authorID *int64) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONValidationError(w, r, httpx.FieldErrors(verr.Fields))
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r)
	case errors.Is(err, ErrAuthorNotFound):
		httpx.JSONValidationError(w, r, httpx.FieldErrors{"author": {invalidAuthorMessage(authorID)}})
	default:
		httpx.InternalError(w, r, err)
	}
}

func invalidAuthorMessage(id *int64) string {
	if id == nil {
		return "Invalid pk - object does not exist."
	}
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *id)
}
