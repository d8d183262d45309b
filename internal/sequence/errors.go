package sequence

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Fixed diagnostics for envelope-shape failures on 2xx responses.
const (
	msgExpectedEnrollments = "Expected enrollments array from API"
	msgExpectedEvents      = "Expected events array from API"
)

// APIError is the single error kind every client operation can return.
//
// Status carries the real HTTP status for transport failures. For
// shape-validation failures the HTTP call itself succeeded, so Status is
// reported as 200; Payload holds the parsed (or raw) body for diagnostics.
type APIError struct {
	Message string
	Status  int
	Payload any
}

func (e *APIError) Error() string {
	return e.Message
}

// newTransportError classifies a non-2xx response. The message comes from
// the body's "message" field when the body is a JSON object carrying one,
// otherwise it is synthesized from the status code.
func newTransportError(status int, body []byte) *APIError {
	payload := parseBody(body)
	message := fmt.Sprintf("Request failed (%d)", status)
	if obj, ok := payload.(map[string]any); ok {
		if m, ok := obj["message"]; ok && m != nil {
			message = fmt.Sprintf("%v", m)
		}
	}
	return &APIError{Message: message, Status: status, Payload: payload}
}

// newShapeError classifies a 2xx response whose body did not match the
// expected envelope for the operation.
func newShapeError(message string, body []byte) *APIError {
	return &APIError{Message: message, Status: http.StatusOK, Payload: parseBody(body)}
}

// parseBody interprets a response body leniently: an empty body yields nil,
// valid JSON yields the decoded value, and anything else degrades to the
// raw text. It never fails.
func parseBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return v
}
