package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	service      *Service
	secureCookie bool
}

func NewHTTPHandler(service *Service, secureCookie bool) *HTTPHandler {
	return &HTTPHandler{service: service, secureCookie: secureCookie}
}

type credentialsReq struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsReq, bool) {
	var req credentialsReq
	if !httpx.DecodeJSON(w, r, &req) {
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	if fields := httpx.ValidateStruct(req); fields != nil {
		httpx.JSONValidationError(w, r, fields)
		return req, false
	}
	return req, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrInvalidCredentials) {
		httpx.JSONValidationError(w, r, httpx.FieldErrors{
			"non_field_errors": {"Unable to log in with provided credentials."},
		})
		return
	}
	httpx.InternalError(w, r, err)
}

// ObtainToken handles POST /auth/token/
// @Summary Obtain API token
// @Description Exchange a username and password for a token. Any previous token of the user stops working.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body credentialsReq true "Credentials"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httpx.FieldErrors
// @Router /auth/token/ [post]
func (h *HTTPHandler) ObtainToken(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	key, err := h.service.ObtainToken(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, map[string]string{"token": key})
}

// Login handles POST /auth/login/
// @Summary Browser login
// @Description Sets the session cookie used by browser clients.
// @Tags auth
// @Accept json
// @Param request body credentialsReq true "Credentials"
// @Success 204 "No Content"
// @Failure 400 {object} httpx.FieldErrors
// @Router /auth/login/ [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	session, expires, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    session,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.JSONSuccessNoContent(w)
}

// Logout handles POST /auth/logout/
// @Summary Logout
// @Description Revokes the presented token or session and clears the cookie.
// @Tags auth
// @Success 204 "No Content"
// @Router /auth/logout/ [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var key, session string
	if httpx.PrincipalFrom(r).Method == "token" {
		key, _ = httpx.TokenFromRequest(r)
	}
	if c, err := r.Cookie(httpx.SessionCookieName); err == nil {
		session = c.Value
	}

	if err := h.service.Logout(r.Context(), key, session); err != nil {
		httpx.InternalError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.JSONSuccessNoContent(w)
}
