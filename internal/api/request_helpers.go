package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/task-manager-api/internal/api/shared"
	"github.com/phrazzld/task-manager-api/internal/domain"
)

// maxRequestBodyBytes caps the size of request bodies we are willing to decode.
const maxRequestBodyBytes = 1 << 20 // 1 MiB

// DecodeJSON decodes the request body into dst, rejecting unknown fields and
// oversized payloads. On failure it writes a 400 response and returns false;
// callers should return immediately when false is returned.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}

	return true
}

// PathID extracts and parses the named URL parameter as a positive int64.
// Returns an error wrapping domain.ErrInvalidID when the parameter is
// missing, non-numeric, or not positive.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s", domain.ErrInvalidID, name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidID, name)
	}

	return id, nil
}
