package sequence

import (
	"bytes"
	"encoding/json"
)

// listEnvelope is one accepted wrapper shape for an array-bearing response,
// paired with the rule that extracts the inner array. Envelopes are tried
// in order; the first match wins.
type listEnvelope struct {
	name    string
	extract func(body []byte) (json.RawMessage, bool)
}

// enrollmentEnvelopes are the three shapes the list endpoint is known to
// return across API versions.
var enrollmentEnvelopes = []listEnvelope{
	{"array", bareArray},
	{"enrollments", objectArrayField("enrollments")},
	{"data", objectArrayField("data")},
}

// timelineEnvelopes: the timeline endpoint has exactly one accepted shape.
var timelineEnvelopes = []listEnvelope{
	{"events", objectArrayField("events")},
}

// extractArray tries each envelope in order and returns the inner array
// plus the name of the shape that matched.
func extractArray(body []byte, envelopes []listEnvelope) (json.RawMessage, string, bool) {
	for _, env := range envelopes {
		if raw, ok := env.extract(body); ok {
			return raw, env.name, true
		}
	}
	return nil, "", false
}

// bareArray accepts a body that is itself a JSON array.
func bareArray(body []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.RawMessage(trimmed), true
	}
	return nil, false
}

// objectArrayField accepts a JSON object whose named field is an array.
func objectArrayField(name string) func([]byte) (json.RawMessage, bool) {
	return func(body []byte) (json.RawMessage, bool) {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(body, &env); err != nil || env == nil {
			return nil, false
		}
		raw, ok := env[name]
		if !ok {
			return nil, false
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, false
		}
		return json.RawMessage(trimmed), true
	}
}
