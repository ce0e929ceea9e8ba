package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrUnexpectedShape marks a response body that does not match the
// endpoint's declared schema.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed with status code %d: %s", e.Method, e.Path, e.StatusCode, string(e.Body))
}

// Message flattens the values of a JSON error body into one line,
// e.g. {"email":["already taken"],"phone_number":["invalid"]} becomes
// "already taken, invalid".
func (e *APIError) Message() string {
	var body any
	if err := json.Unmarshal(e.Body, &body); err == nil {
		if parts := flatten(body); len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	} else if text := strings.TrimSpace(string(e.Body)); text != "" && !strings.HasPrefix(text, "<") {
		return text
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return "Request failed"
}

func flatten(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []any:
		var out []string
		for _, item := range val {
			out = append(out, flatten(item)...)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, flatten(val[k])...)
		}
		return out
	default:
		return []string{fmt.Sprintf("%v", val)}
	}
}

// ErrorMessage returns a user-facing message for any client error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	if errors.Is(err, ErrUnexpectedShape) {
		return "Unexpected response from server"
	}
	return "Network error, please try again"
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
