package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
	"github.com/desertthunder/jobtrack/internal/tasks"
)

// userHeader names the user a request acts for.
const userHeader = "X-Jobtrack-User"

const maxBodyBytes = 1 << 20

var errMethodNotAllowed = errors.New("method not allowed")

type errorBody struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidFlag),
		errors.Is(err, shared.ErrInvalidUsername):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, shared.ErrNoRecords):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicateLink):
		return http.StatusConflict
	case errors.Is(err, shared.ErrUnsupportedPage):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrFetchFailed):
		return http.StatusBadGateway
	case errors.Is(err, shared.ErrNoScraper):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError writes err as a JSON error body. Storage failures are not described to clients.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}

	var ve *shared.ValidationError
	if errors.As(err, &ve) {
		body.Fields = ve.Fields
	}
	if status == http.StatusInternalServerError {
		body.Error = "storage failure"
	}

	writeJSON(w, status, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

// sessionFor resolves the user of a request: the X-Jobtrack-User header, then the user query
// parameter, then the remembered current user.
func sessionFor(ctx context.Context, tracker *tasks.Tracker, r *http.Request) (models.Session, error) {
	if s := models.NewSession(r.Header.Get(userHeader)); s.Valid() {
		return s, nil
	}
	if s := models.NewSession(r.URL.Query().Get("user")); s.Valid() {
		return s, nil
	}
	return tracker.Resume(ctx)
}

// intParam parses an optional non-negative integer query parameter.
func intParam(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", shared.ErrInvalidArgument, key)
	}
	return n, nil
}

func boolParam(r *http.Request, key string, def bool) bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

// HealthHandler reports that the API is up.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
