package author

import (
	"errors"
	"net/http"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type authorRequest struct {
	Name *string `json:"name" validate:"required"`
}

// List handles GET /authors/
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if authors == nil {
		authors = []Author{}
	}
	httpx.JSONSuccess(w, authors)
}

// Get handles GET /authors/{id}/
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := book.PathID(r)
	if !ok {
		httpx.NotFound(w, r)
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, a)
}

// Create handles POST /authors/
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in authorRequest
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if fields := httpx.ValidateStruct(in); fields != nil {
		httpx.JSONValidationError(w, r, fields)
		return
	}

	a, err := h.service.Create(r.Context(), *in.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessCreated(w, a)
}

// Update handles PUT /authors/{id}/
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := book.PathID(r)
	if !ok {
		httpx.NotFound(w, r)
		return
	}

	var in authorRequest
	if !httpx.DecodeJSON(w, r, &in) {
		return
	}
	if fields := httpx.ValidateStruct(in); fields != nil {
		httpx.JSONValidationError(w, r, fields)
		return
	}

	a, err := h.service.Update(r.Context(), id, *in.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, a)
}

// Delete handles DELETE /authors/{id}/
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := book.PathID(r)
	if !ok {
		httpx.NotFound(w, r)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *book.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONValidationError(w, r, httpx.FieldErrors(verr.Fields))
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r)
	case errors.Is(err, ErrHasBooks):
		httpx.JSONError(w, r, http.StatusBadRequest, "PROTECTED", "Cannot delete an author who still has books.")
	default:
		httpx.InternalError(w, r, err)
	}
}
