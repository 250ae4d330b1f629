package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/storage"
)

// maxBodyBytes caps request bodies at 1 MiB.
const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. Every failure is a validation
// error on the "body" field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.Invalid("body", "must not exceed 1 MiB")
		case errors.Is(err, io.EOF):
			return apperr.Required("body")
		default:
			return apperr.Invalid("body", "must be valid JSON")
		}
	}
	return nil
}

// parsePage reads ?limit and ?offset. Absent parameters select everything.
func parsePage(r *http.Request) (storage.Page, error) {
	var page storage.Page
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return page, apperr.Invalid("limit", "must be between 1 and 500")
		}
		page.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return page, apperr.Invalid("offset", "must be an integer")
		}
		page.Offset = offset
	}

	return page, page.Validate()
}
