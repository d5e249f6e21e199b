package httpx

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// DecodeJSON reads the request body into dst and writes the error response
// itself when it returns false. An empty body decodes as an empty object so
// that field validation reports the missing fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			RequestTooLarge(w, r, maxErr.Limit)
			return false
		}
		JSONError(w, r, http.StatusBadRequest, "PARSE_ERROR", "Could not read request body")
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		JSONError(w, r, http.StatusBadRequest, "PARSE_ERROR", "JSON parse error - "+err.Error())
		return false
	}
	return true
}
