package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/carpay/collect/internal/config"
	"github.com/carpay/collect/internal/sequence"
	"github.com/carpay/collect/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (http.Handler, store.Store) {
	t.Helper()
	st, err := store.NewMemoryStore("")
	require.NoError(t, err)
	require.NoError(t, store.Seed(context.Background(), st))

	h := NewHandlers(st)
	h.now = func() time.Time {
		return time.Date(2026, time.August, 20, 15, 0, 0, 0, time.UTC)
	}
	return SetupRoutes(h), st
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Message
}

func TestListEnrollments(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/enrollments?status=ACTIVE", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Enrollments []sequence.Enrollment `json:"enrollments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Enrollments)
	for _, e := range envelope.Enrollments {
		assert.Equal(t, sequence.StatusActive, e.Status)
	}
	// Newest first
	for i := 1; i < len(envelope.Enrollments); i++ {
		assert.GreaterOrEqual(t, envelope.Enrollments[i-1].CreatedAt, envelope.Enrollments[i].CreatedAt)
	}
}

func TestListEnrollments_UnknownStatus(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/enrollments?status=CLOSED", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown enrollment status", errorMessage(t, rec))
}

func TestCreateEnrollment(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/enrollments",
		`{"borrowerId":"b-100","dealerId":"d-100","phone":"+15555550199","vehicle":"2017 Mazda 3","amountDue":220.10}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created sequence.Enrollment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "b-100", created.BorrowerID)
	assert.Equal(t, sequence.StatusActive, created.Status)
	assert.Equal(t, 0, created.CurrentDay)
	assert.Equal(t, "2026-08-20T15:00:00Z", created.CreatedAt)
	assert.Equal(t, "2026-08-21T15:00:00Z", created.NextActionAt)
}

func TestCreateEnrollment_MissingFields(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/enrollments", `{"borrowerId":"b-100"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "borrowerId, dealerId and phone are required", errorMessage(t, rec))
}

func TestGetEnrollment_NotFound(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/enrollments/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "enrollment not found", errorMessage(t, rec))
}

func TestGetTimeline(t *testing.T) {
	router, st := setupRouter(t)

	active, err := st.ListEnrollments(context.Background(), sequence.StatusActive)
	require.NoError(t, err)
	id := active[0].ID

	rec := doJSON(t, router, http.MethodGet, "/api/enrollments/"+id+"/timeline", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var timeline sequence.Timeline
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &timeline))
	require.NotEmpty(t, timeline.Events)
	for i := 1; i < len(timeline.Events); i++ {
		assert.LessOrEqual(t, timeline.Events[i-1].OccurredAt, timeline.Events[i].OccurredAt)
	}
}

func TestGetTimeline_NotFound(t *testing.T) {
	router, _ := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/enrollments/nope/timeline", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuppressEnrollment(t *testing.T) {
	router, st := setupRouter(t)
	ctx := context.Background()

	active, err := st.ListEnrollments(ctx, sequence.StatusActive)
	require.NoError(t, err)
	id := active[0].ID

	rec := doJSON(t, router, http.MethodPost, "/api/enrollments/"+id+"/suppress",
		`{"reason":"borrower filed bankruptcy"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated sequence.Enrollment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, sequence.StatusSuppressed, updated.Status)
	assert.Equal(t, "borrower filed bankruptcy", updated.SuppressReason)
	assert.Equal(t, "2026-08-20T15:00:00Z", updated.UpdatedAt)
	assert.Empty(t, updated.NextActionAt)

	// A suppression event lands at the end of the timeline
	events, err := st.Timeline(ctx, id)
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, sequence.EventSuppressed, last.Type)
	assert.Equal(t, "borrower filed bankruptcy", last.Reason)

	// Transitions are one-directional: a second action conflicts
	rec = doJSON(t, router, http.MethodPost, "/api/enrollments/"+id+"/escalate", `{"reason":"again"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "enrollment is not active", errorMessage(t, rec))
}

func TestEscalateEnrollment_RequiresReason(t *testing.T) {
	router, st := setupRouter(t)

	active, err := st.ListEnrollments(context.Background(), sequence.StatusActive)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/api/enrollments/"+active[0].ID+"/escalate", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "reason is required", errorMessage(t, rec))
}

// TestClientAgainstStub drives the real sequence.Client against the full
// router, covering the wire contract end to end.
func TestClientAgainstStub(t *testing.T) {
	router, _ := setupRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	client := sequence.NewClient(config.CarpayConfig{BaseURL: server.URL, TimeoutSeconds: 5})
	ctx := context.Background()

	// List and fetch
	active, err := client.ListEnrollments(ctx, sequence.StatusActive)
	require.NoError(t, err)
	require.NotEmpty(t, active)

	enrollment, err := client.GetEnrollment(ctx, active[0].ID)
	require.NoError(t, err)
	assert.Equal(t, active[0].ID, enrollment.ID)

	events, err := client.GetTimeline(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, events)

	// Create then escalate
	created, err := client.CreateEnrollment(ctx, sequence.CreateEnrollmentPayload{
		BorrowerID: "b-777",
		DealerID:   "d-777",
		Phone:      "+15555550777",
	})
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusActive, created.Status)

	escalated, err := client.EscalateEnrollment(ctx, created.ID, sequence.ReasonPayload{Reason: "fraud review"})
	require.NoError(t, err)
	assert.Equal(t, sequence.StatusEscalated, escalated.Status)

	// Errors surface as APIError with the stub's message
	_, err = client.GetEnrollment(ctx, "missing")
	var apiErr *sequence.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "enrollment not found", apiErr.Message)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
