package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const snippetLimit = 200

// InvalidJSONError is returned when model output is not a single JSON
// object or array. Snippet is for logs.
type InvalidJSONError struct {
	Reason  string
	Snippet string
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Reason)
}

// Parse decodes raw model output into a generic tree. Numbers stay
// json.Number. A single surrounding markdown code fence is tolerated; any
// other surrounding text is not.
func Parse(raw string) (any, error) {
	text := stripFence(strings.TrimSpace(raw))
	if text == "" {
		return nil, &InvalidJSONError{Reason: "empty response", Snippet: snippet(raw)}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, &InvalidJSONError{Reason: err.Error(), Snippet: snippet(raw)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &InvalidJSONError{Reason: "trailing data after json value", Snippet: snippet(raw)}
	}

	switch tree.(type) {
	case map[string]any, []any:
		return tree, nil
	default:
		return nil, &InvalidJSONError{Reason: "root must be an object or array", Snippet: snippet(raw)}
	}
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := s[3 : len(s)-3]
	nl := strings.IndexByte(inner, '\n')
	if nl < 0 {
		return s
	}
	lang := strings.TrimSpace(inner[:nl])
	if lang != "" && !strings.EqualFold(lang, "json") {
		return s
	}
	return strings.TrimSpace(inner[nl+1:])
}

func snippet(s string) string {
	if len(s) <= snippetLimit {
		return s
	}
	return s[:snippetLimit]
}
