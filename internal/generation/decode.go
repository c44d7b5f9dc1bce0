package generation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFences removes a surrounding Markdown code fence such as ```json
// ... ``` from text. Text without a fence is returned trimmed.
func StripCodeFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// drop the opening fence line, including any language tag
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// DecodeObject strips code fences from text and parses it as a JSON object.
// Anything else, including valid JSON that is not an object, wraps
// ErrInvalidResponse.
func DecodeObject(text string) (map[string]any, error) {
	cleaned := StripCodeFences(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidResponse)
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("%w: response is not a JSON object: %v", ErrInvalidResponse, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: response is null", ErrInvalidResponse)
	}

	return out, nil
}
