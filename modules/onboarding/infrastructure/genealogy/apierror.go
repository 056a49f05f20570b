package genealogy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// APIError is a non-2xx response from the genealogy backend with the
// user-facing message already extracted from the body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// duplicateHint is appended when the backend rejects a name as taken, so
// the user knows both ways out.
const duplicateHint = " You can try a different name, or select the existing entry from the search results."

// preferred field keys checked before any other body content.
var preferredFields = []string{"name", "head_name", "branch"}

// ExtractMessage turns an error body into a single human-readable message:
// a field-specific message array for a preferred field, else a generic
// message/error/detail string, else every field joined with its messages,
// else the raw body. A duplicate-name rejection gets a two-option hint.
func ExtractMessage(body []byte, status int) string {
	msg := extract(body, status)
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "already exists") || strings.Contains(lower, "duplicate") {
		msg += duplicateHint
	}
	return msg
}

func extract(body []byte, status int) string {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed) == 0 {
		if status >= 500 {
			return fmt.Sprintf("server error: %d", status)
		}
		if len(body) > 0 {
			return string(body)
		}
		return fmt.Sprintf("server error: %d", status)
	}

	for _, field := range preferredFields {
		if msgs := stringList(parsed[field]); len(msgs) > 0 {
			return strings.Join(msgs, ", ")
		}
	}

	for _, key := range []string{"message", "error", "detail"} {
		if s, ok := parsed[key].(string); ok && s != "" {
			return s
		}
	}

	keys := make([]string, 0, len(parsed))
	for k := range parsed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if msgs := stringList(parsed[k]); len(msgs) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(msgs, ", ")))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "; ")
	}

	raw, _ := json.Marshal(parsed)
	return string(raw)
}

func stringList(v any) []string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
