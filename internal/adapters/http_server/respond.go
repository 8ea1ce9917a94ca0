package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tripdesk/internal/domain"
)

// statusError carries an explicit status and user-facing detail.
type statusError struct {
	status int
	detail string
}

func (e *statusError) Error() string { return fmt.Sprintf("%d %s", e.status, e.detail) }

func conflict(detail string) error  { return &statusError{http.StatusConflict, detail} }
func forbidden(detail string) error { return &statusError{http.StatusForbidden, detail} }
func badRequest(detail string) error {
	return &statusError{http.StatusBadRequest, detail}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// fail maps err onto a status code and {"detail": ...} body.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var se *statusError
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &se):
		writeDetail(w, se.status, se.detail)
	case errors.As(err, &ve):
		writeDetail(w, http.StatusUnprocessableEntity, ve.Msg)
	case errors.Is(err, domain.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrConflict):
		writeDetail(w, http.StatusConflict, "Conflict")
	case errors.Is(err, domain.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, domain.ErrUnauthorized):
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("Malformed JSON body")
	}
	return nil
}

// decodeStrict rejects unknown fields.
func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("Malformed JSON body")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(name + " must be a positive number")
	}
	return id, nil
}

func queryID(r *http.Request, name string) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		return 0, badRequest(name + " must be a number")
	}
	return id, nil
}
