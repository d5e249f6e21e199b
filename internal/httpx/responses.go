package httpx

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the body of every non-field error.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// FieldErrors maps a request field to its validation messages. It is
// written as the whole response body on 400s.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response body")
	}
}

func JSONSuccess(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

func JSONSuccessCreated(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

func JSONSuccessNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSONError(w http.ResponseWriter, r *http.Request, statusCode int, code string, message string) {
	JSON(w, statusCode, ErrorResponse{Detail: message, Code: code})
}

func JSONValidationError(w http.ResponseWriter, r *http.Request, fields FieldErrors) {
	JSON(w, http.StatusBadRequest, fields)
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Not found.")
}

// Unauthorized answers a request that carried no usable credentials.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Token realm="api"`)
	JSONError(w, r, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication credentials were not provided.")
}

func RequestTooLarge(w http.ResponseWriter, r *http.Request, limit int64) {
	JSONError(w, r, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE",
		"Request body exceeds "+strconv.FormatInt(limit, 10)+" bytes.")
}

func Forbidden(w http.ResponseWriter, r *http.Request) {
	JSONError(w, r, http.StatusForbidden, "PERMISSION_DENIED", "You do not have permission to perform this action.")
}

// InternalError logs err with the request id and answers 500 without
// leaking the cause.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).
		Str("request_id", RequestIDFrom(r)).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	internalErrorBody(w, r)
}

func internalErrorBody(w http.ResponseWriter, r *http.Request) {
	JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "A server error occurred.")
}
