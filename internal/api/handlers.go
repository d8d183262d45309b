package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/carpay/collect/internal/pkg/httputil"
	"github.com/carpay/collect/internal/pkg/logger"
	"github.com/carpay/collect/internal/sequence"
	"github.com/carpay/collect/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handlers contains all HTTP handlers for the stub backend.
type Handlers struct {
	store store.Store
	now   func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st store.Store) *Handlers {
	return &Handlers{store: st, now: time.Now}
}

// HealthCheck reports service health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "healthy", "service": "carpay-collect-stub"})
}

// ListEnrollments returns enrollments filtered by the status query param,
// wrapped in the {enrollments:[...]} envelope.
func (h *Handlers) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	status := sequence.EnrollmentStatus(r.URL.Query().Get("status"))
	if !status.Valid() {
		httputil.BadRequest(w, "unknown enrollment status")
		return
	}

	enrollments, err := h.store.ListEnrollments(r.Context(), status)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if enrollments == nil {
		enrollments = []sequence.Enrollment{}
	}

	httputil.OK(w, map[string]any{"enrollments": enrollments})
}

// CreateEnrollment creates a new ACTIVE enrollment at day zero.
func (h *Handlers) CreateEnrollment(w http.ResponseWriter, r *http.Request) {
	var payload sequence.CreateEnrollmentPayload
	if !httputil.Decode(w, r, &payload) {
		return
	}
	if payload.BorrowerID == "" || payload.DealerID == "" || payload.Phone == "" {
		httputil.BadRequest(w, "borrowerId, dealerId and phone are required")
		return
	}

	now := h.now().UTC()
	enrollment := sequence.Enrollment{
		ID:           uuid.NewString(),
		BorrowerID:   payload.BorrowerID,
		DealerID:     payload.DealerID,
		Status:       sequence.StatusActive,
		CurrentDay:   0,
		Phone:        payload.Phone,
		Email:        payload.Email,
		Vehicle:      payload.Vehicle,
		AmountDue:    payload.AmountDue,
		CreatedAt:    now.Format(time.RFC3339),
		UpdatedAt:    now.Format(time.RFC3339),
		NextActionAt: now.Add(24 * time.Hour).Format(time.RFC3339),
	}

	if err := h.store.PutEnrollment(r.Context(), enrollment); err != nil {
		httputil.InternalError(w, err)
		return
	}

	logger.Info("enrollment created",
		"enrollmentId", enrollment.ID,
		"borrowerId", enrollment.BorrowerID,
		"phone", enrollment.Phone)
	httputil.Created(w, enrollment)
}

// GetEnrollment returns a single enrollment by id.
func (h *Handlers) GetEnrollment(w http.ResponseWriter, r *http.Request) {
	enrollment, err := h.store.GetEnrollment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err)
		return
	}
	httputil.OK(w, enrollment)
}

// GetTimeline returns an enrollment's event history in the
// {events:[...]} envelope, ordered by occurrence time.
func (h *Handlers) GetTimeline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.GetEnrollment(r.Context(), id); err != nil {
		h.storeError(w, err)
		return
	}

	events, err := h.store.Timeline(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if events == nil {
		events = []sequence.TimelineEvent{}
	}

	httputil.OK(w, sequence.Timeline{Events: events})
}

// SuppressEnrollment suppresses an ACTIVE enrollment.
func (h *Handlers) SuppressEnrollment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, sequence.StatusSuppressed)
}

// EscalateEnrollment escalates an ACTIVE enrollment.
func (h *Handlers) EscalateEnrollment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, sequence.StatusEscalated)
}

// transition applies the suppress/escalate action. Transitions are
// one-directional: only ACTIVE enrollments can move, anything else is a
// conflict.
func (h *Handlers) transition(w http.ResponseWriter, r *http.Request, target sequence.EnrollmentStatus) {
	var payload sequence.ReasonPayload
	if !httputil.Decode(w, r, &payload) {
		return
	}
	if payload.Reason == "" {
		httputil.BadRequest(w, "reason is required")
		return
	}

	id := chi.URLParam(r, "id")
	enrollment, err := h.store.GetEnrollment(r.Context(), id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	if enrollment.Status != sequence.StatusActive {
		httputil.Conflict(w, "enrollment is not active")
		return
	}

	now := h.now().UTC().Format(time.RFC3339)
	enrollment.Status = target
	enrollment.UpdatedAt = now
	enrollment.NextActionAt = ""

	event := sequence.TimelineEvent{
		ID:           uuid.NewString(),
		EnrollmentID: id,
		OccurredAt:   now,
		Reason:       payload.Reason,
	}
	switch target {
	case sequence.StatusSuppressed:
		enrollment.SuppressReason = payload.Reason
		event.Type = sequence.EventSuppressed
	case sequence.StatusEscalated:
		enrollment.EscalateReason = payload.Reason
		event.Type = sequence.EventEscalated
	}

	if err := h.store.PutEnrollment(r.Context(), *enrollment); err != nil {
		httputil.InternalError(w, err)
		return
	}
	if err := h.store.AppendEvent(r.Context(), event); err != nil {
		httputil.InternalError(w, err)
		return
	}

	logger.Info("enrollment transitioned",
		"enrollmentId", id,
		"status", string(target),
		"reason", payload.Reason)
	httputil.OK(w, enrollment)
}

func (h *Handlers) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		httputil.NotFound(w, "enrollment not found")
		return
	}
	httputil.InternalError(w, err)
}
