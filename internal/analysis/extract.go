package analysis

import "strings"

const (
	jsonFence = "```json"
	fence     = "```"
)

// ExtractJSON pulls the JSON payload out of a model's text answer.
//
// A ```json fenced block wins wherever it appears in the text; otherwise the
// first bare ``` block is unwrapped the same way, prose around it included.
// Anything else is returned trimmed. The payload is never rewritten, only
// sliced.
func ExtractJSON(text string) (string, error) {
	var payload string
	trimmed := strings.TrimSpace(text)

	switch {
	case strings.Contains(trimmed, jsonFence):
		_, rest, _ := strings.Cut(trimmed, jsonFence)
		interior, _, _ := strings.Cut(rest, fence)
		payload = interior
	case strings.Contains(trimmed, fence):
		_, rest, _ := strings.Cut(trimmed, fence)
		// Skip the info string of the opening fence, if any.
		if nl := strings.IndexByte(rest, '\n'); nl != -1 && !strings.ContainsAny(rest[:nl], "{[") {
			rest = rest[nl+1:]
		}
		interior, _, _ := strings.Cut(rest, fence)
		payload = interior
	default:
		payload = trimmed
	}

	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", ErrEmptyPayload
	}
	return payload, nil
}
