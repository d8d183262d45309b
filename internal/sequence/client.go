// Package sequence provides a typed client for the Carpay Collect
// enrollment API. It normalizes the envelope shapes the backend has
// returned across versions and classifies failures into APIError.
package sequence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/carpay/collect/internal/config"
	"github.com/carpay/collect/internal/pkg/logger"
)

// HTTPDoer is the interface for executing HTTP requests.
// *http.Client satisfies this interface; tests may substitute their own.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Carpay Collect API client. Each call issues one request and
// holds no state across calls; a Client is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
}

// NewClient creates a new Carpay Collect API client. An empty base URL
// produces origin-relative request paths, which only makes sense behind a
// proxy; normal deployments configure carpay.base_url.
func NewClient(cfg config.CarpayConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// doRequest makes one HTTP request and returns the raw body of a 2xx
// response. Any non-2xx status becomes an *APIError regardless of body
// shape. No retries: collection staff act on fresh data or an explicit
// error, never on a silently re-issued request.
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newTransportError(resp.StatusCode, body)
	}

	return body, nil
}

// ListEnrollments fetches enrollments in the given status, in server
// order. The endpoint has returned three envelope shapes across API
// versions (bare array, {enrollments:[...]}, {data:[...]}); all three
// normalize to a plain slice.
func (c *Client) ListEnrollments(ctx context.Context, status EnrollmentStatus) ([]Enrollment, error) {
	params := url.Values{}
	params.Set("status", string(status))

	body, err := c.doRequest(ctx, http.MethodGet, "/api/enrollments", params, nil)
	if err != nil {
		return nil, err
	}

	raw, shape, ok := extractArray(body, enrollmentEnvelopes)
	if !ok {
		return nil, newShapeError(msgExpectedEnrollments, body)
	}
	logger.Debug("enrollment list envelope matched", "shape", shape)

	var enrollments []Enrollment
	if err := json.Unmarshal(raw, &enrollments); err != nil {
		return nil, fmt.Errorf("parsing enrollments: %w", err)
	}

	return enrollments, nil
}

// CreateEnrollment creates a new enrollment. All field validation is
// server-side; a rejected payload surfaces as an *APIError.
func (c *Client) CreateEnrollment(ctx context.Context, payload CreateEnrollmentPayload) (*Enrollment, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/enrollments", nil, payload)
	if err != nil {
		return nil, err
	}

	var enrollment Enrollment
	if err := json.Unmarshal(body, &enrollment); err != nil {
		return nil, fmt.Errorf("parsing enrollment: %w", err)
	}

	return &enrollment, nil
}

// GetEnrollment fetches a single enrollment by id.
func (c *Client) GetEnrollment(ctx context.Context, id string) (*Enrollment, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/enrollments/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var enrollment Enrollment
	if err := json.Unmarshal(body, &enrollment); err != nil {
		return nil, fmt.Errorf("parsing enrollment: %w", err)
	}

	return &enrollment, nil
}

// GetTimeline fetches the event history of an enrollment. Unlike the list
// endpoint, the only accepted shape is {events:[...]}.
func (c *Client) GetTimeline(ctx context.Context, id string) ([]TimelineEvent, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/enrollments/"+url.PathEscape(id)+"/timeline", nil, nil)
	if err != nil {
		return nil, err
	}

	raw, _, ok := extractArray(body, timelineEnvelopes)
	if !ok {
		return nil, newShapeError(msgExpectedEvents, body)
	}

	var events []TimelineEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("parsing timeline events: %w", err)
	}

	return events, nil
}

// SuppressEnrollment suppresses an enrollment and returns the updated
// record. The returned status is server-asserted; the client does not
// recompute it.
func (c *Client) SuppressEnrollment(ctx context.Context, id string, payload ReasonPayload) (*Enrollment, error) {
	return c.postAction(ctx, id, "suppress", payload)
}

// EscalateEnrollment escalates an enrollment and returns the updated record.
func (c *Client) EscalateEnrollment(ctx context.Context, id string, payload ReasonPayload) (*Enrollment, error) {
	return c.postAction(ctx, id, "escalate", payload)
}

func (c *Client) postAction(ctx context.Context, id, action string, payload ReasonPayload) (*Enrollment, error) {
	path := "/api/enrollments/" + url.PathEscape(id) + "/" + action
	body, err := c.doRequest(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return nil, err
	}

	var enrollment Enrollment
	if err := json.Unmarshal(body, &enrollment); err != nil {
		return nil, fmt.Errorf("parsing enrollment: %w", err)
	}

	return &enrollment, nil
}
