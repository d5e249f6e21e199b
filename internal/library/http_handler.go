package library

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type nameRequest struct {
	Name *string `json:"name" validate:"required"`
}

type addBookRequest struct {
	Book *int64 `json:"book" validate:"required"`
}

// List handles GET /libraries/
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	libs, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	if libs == nil {
		libs = []Library{}
	}
	httpx.JSONSuccess(w, libs)
}

// Get handles GET /libraries/{id}/
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := book.PathID(r)
	if !ok {
		httpx.NotFound(w, r)
		return
	}
	l, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	httpx.JSONSuccess(w, l)
}

// Create handles POST /libraries/
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in nameRequest
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if fields := httpx.ValidateStruct(in); fields != nil {
		httpx.JSONValidationError(w, r, fields)
		return
	}

	l, err := h.service.Create(r.Context(), *in.Name)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	httpx.JSONSuccessCreated(w, l)
}

// Delete handles DELETE /libraries/{id}/
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := book.PathID(r)
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

// AddBook handles POST /libraries/{id}/books/
func (h *HTTPHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	id, ok := book.PathID(r)
	if !ok {
		httpx.NotFound(w, r)
		return
	}

	var in addBookRequest
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if fields := httpx.ValidateStruct(in); fields != nil {
		httpx.JSONValidationError(w, r, fields)
		return
	}

	l, err := h.service.AddBook(r.Context(), id, *in.Book)
	if err != nil {
		h.writeError(w, r, err, in.Book)
		return
	}
	httpx.JSONSuccess(w, l)
}

// RemoveBook handles DELETE /libraries/{id}/books/{book_id}/
func (h *HTTPHandler) RemoveBook(w http.ResponseWriter, r *http.Request) {
	id, ok := book.PathID(r)
	if !ok {
		httpx.NotFound(w, r)
		return
	}
	bookID, err := strconv.ParseInt(r.PathValue("book_id"), 10, 64)
	if err != nil || bookID <= 0 {
		httpx.NotFound(w, r)
		return
	}

	l, err := h.service.RemoveBook(r.Context(), id, bookID)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			httpx.NotFound(w, r)
			return
		}
		h.writeError(w, r, err, nil)
		return
	}
	httpx.JSONSuccess(w, l)
}

// SetLibrarian handles PUT /libraries/{id}/librarian/
func (h *HTTPHandler) SetLibrarian(w http.ResponseWriter, r *http.Request) {
	id, ok := book.PathID(r)
	if !ok {
		httpx.NotFound(w, r)
		return
	}

	var in nameRequest
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if fields := httpx.ValidateStruct(in); fields != nil {
		httpx.JSONValidationError(w, r, fields)
		return
	}

	l, err := h.service.SetLibrarian(r.Context(), id, *in.Name)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	httpx.JSONSuccess(w, l)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error, bookID *int64) {
	var verr *book.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONValidationError(w, r, httpx.FieldErrors(verr.Fields))
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r)
	case errors.Is(err, ErrBookNotFound):
		msg := "Invalid pk - object does not exist."
		if bookID != nil {
			msg = fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *bookID)
		}
		httpx.JSONValidationError(w, r, httpx.FieldErrors{"book": {msg}})
	default:
		httpx.InternalError(w, r, err)
	}
}
