package user

import (
	"errors"
	"net/http"

	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type currentUserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Auth     string `json:"auth"`
}

// GetCurrentUser handles GET /auth/me/. A principal whose account has since
// been removed or deactivated is treated as unauthenticated.
func (h *HTTPHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	p := httpx.PrincipalFrom(r)
	if !p.IsAuthenticated() {
		httpx.Unauthorized(w, r)
		return
	}

	u, err := h.service.GetByID(r.Context(), p.UserID)
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Unauthorized(w, r)
		return
	case err != nil:
		httpx.InternalError(w, r, err)
		return
	case !u.IsActive:
		httpx.Unauthorized(w, r)
		return
	}

	httpx.JSONSuccess(w, currentUserResponse{ID: u.ID, Username: u.Username, Auth: p.Method})
}
