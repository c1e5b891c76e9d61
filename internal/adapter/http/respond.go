package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/couchcryptid/hvac-sizing-service/internal/domain"
)

var errBadRequest = errors.New("invalid request body")

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		// Only non-finite results get here, e.g. overflow from extreme inputs.
		status = http.StatusUnprocessableEntity
		body, _ = json.Marshal(errorResponse{Message: "result is not a finite number"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n')) //nolint:errcheck // client went away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Message: msg})
}

// decodeJSON reads a single JSON object from the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// field pairs a JSON field name with whether the caller supplied it.
type field struct {
	name string
	set  bool
}

func present[T any](name string, v *T) field { return field{name: name, set: v != nil} }

// requireFields reports every missing field at once.
func requireFields(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if !f.set {
			missing = append(missing, f.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
}

func valueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

// round rounds half away from zero to the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func roundArea(a domain.Area, places int) domain.Area {
	if v, ok := a.Value(); ok {
		return domain.Finite(round(v, places))
	}
	return a
}
