package sequence

// EnrollmentStatus is the lifecycle state of an enrollment. An enrollment
// is in exactly one status at a time; the server owns all transitions.
type EnrollmentStatus string

const (
	StatusActive     EnrollmentStatus = "ACTIVE"
	StatusPaidExit   EnrollmentStatus = "PAID_EXIT"
	StatusEscalated  EnrollmentStatus = "ESCALATED"
	StatusSuppressed EnrollmentStatus = "SUPPRESSED"
)

// AllStatuses lists every enrollment status in display order.
func AllStatuses() []EnrollmentStatus {
	return []EnrollmentStatus{StatusActive, StatusPaidExit, StatusEscalated, StatusSuppressed}
}

// Valid reports whether s is one of the known statuses.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaidExit, StatusEscalated, StatusSuppressed:
		return true
	}
	return false
}

// Enrollment is a borrower's record within a fixed-day contact sequence.
// All timestamps are RFC 3339 strings as returned by the API; the client
// does not parse or reinterpret them.
type Enrollment struct {
	ID         string           `json:"id"`
	BorrowerID string           `json:"borrowerId"`
	DealerID   string           `json:"dealerId"`
	Status     EnrollmentStatus `json:"status"`
	CurrentDay int              `json:"currentDay"`

	Phone     string  `json:"phone,omitempty"`
	Email     string  `json:"email,omitempty"`
	Vehicle   string  `json:"vehicle,omitempty"`
	AmountDue float64 `json:"amountDue,omitempty"`

	SuppressReason string `json:"suppressReason,omitempty"`
	EscalateReason string `json:"escalateReason,omitempty"`

	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
	NextActionAt    string `json:"nextActionAt,omitempty"`
	PaymentPostedAt string `json:"paymentPostedAt,omitempty"`
}

// TimelineEventType discriminates the timeline event union.
type TimelineEventType string

const (
	EventTouchSent       TimelineEventType = "TOUCH_SENT"
	EventCallCompleted   TimelineEventType = "CALL_COMPLETED"
	EventPaymentReceived TimelineEventType = "PAYMENT_RECEIVED"
	EventEscalated       TimelineEventType = "ESCALATED"
	EventSuppressed      TimelineEventType = "SUPPRESSED"
)

// TimelineEvent is one immutable historical fact about an enrollment.
// Which optional fields are set depends on Type:
//
//	TOUCH_SENT:       Channel, Day
//	CALL_COMPLETED:   Day, StartedAt, EndedAt, Outcome, TransferReason?, Notes?, IntentDate?
//	PAYMENT_RECEIVED: Amount
//	ESCALATED:        Reason
//	SUPPRESSED:       Reason
//
// Events are append-only and ordered by OccurredAt.
type TimelineEvent struct {
	ID           string            `json:"id"`
	EnrollmentID string            `json:"enrollmentId,omitempty"`
	Type         TimelineEventType `json:"type"`
	OccurredAt   string            `json:"occurredAt"`

	// Touch fields
	Channel string `json:"channel,omitempty"`
	Day     int    `json:"day,omitempty"`

	// Call fields
	StartedAt      string `json:"startedAt,omitempty"`
	EndedAt        string `json:"endedAt,omitempty"`
	Outcome        string `json:"outcome,omitempty"`
	TransferReason string `json:"transferReason,omitempty"`
	Notes          string `json:"notes,omitempty"`
	IntentDate     string `json:"intentDate,omitempty"`

	// Payment fields
	Amount float64 `json:"amount,omitempty"`

	// Escalation/suppression fields
	Reason string `json:"reason,omitempty"`
}

// Timeline wraps the event history of one enrollment.
type Timeline struct {
	Events []TimelineEvent `json:"events"`
}

// CreateEnrollmentPayload is the request body for creating an enrollment.
// BorrowerID, DealerID and Phone are required; the server performs all
// further validation.
type CreateEnrollmentPayload struct {
	BorrowerID string  `json:"borrowerId"`
	DealerID   string  `json:"dealerId"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email,omitempty"`
	Vehicle    string  `json:"vehicle,omitempty"`
	AmountDue  float64 `json:"amountDue,omitempty"`
}

// ReasonPayload is the request body for suppress and escalate calls.
type ReasonPayload struct {
	Reason string `json:"reason"`
}
