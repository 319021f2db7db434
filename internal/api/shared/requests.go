package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DecodeJSONParam decodes a JSON document passed in the URL.
func DecodeJSONParam(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// ValidateRequest validates v with its validate struct tags.
func ValidateRequest(v any) error {
	return validate.Struct(v)
}

// PathParam returns the named chi URL parameter, percent-decoded.
func PathParam(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value, nil
	}
	// chi matched against the escaped path.
	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", fmt.Errorf("invalid path parameter %s: %w", name, err)
	}
	return decoded, nil
}

// InputParam returns the input carried in the trailing path wildcard, or,
// when the wildcard is empty, in the query parameter named key.
func InputParam(r *http.Request, key string) (string, error) {
	value, err := PathParam(r, "*")
	if err != nil {
		return "", err
	}
	if value == "" {
		value = r.URL.Query().Get(key)
	}
	return value, nil
}
