package store

import (
	"context"
	"fmt"
	"time"

	"github.com/carpay/collect/internal/sequence"
	"github.com/google/uuid"
)

// seedBase anchors the mock dataset so seeded timestamps are stable
// between restarts and assertable in tests.
var seedBase = time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)

func seedID(kind string, n int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("carpay-%s-%d", kind, n))).String()
}

func seedTime(offset time.Duration) string {
	return seedBase.Add(offset).Format(time.RFC3339)
}

// Seed loads the demo dataset used by the mock dashboard: one enrollment
// per status plus extra actives, each with a realistic activity log.
// A store that already holds the dataset is left untouched, so timelines
// are not duplicated on restart.
func Seed(ctx context.Context, s Store) error {
	if _, err := s.GetEnrollment(ctx, seedID("enrollment", 1)); err == nil {
		return nil
	}

	day := 24 * time.Hour

	type record struct {
		enrollment sequence.Enrollment
		events     []sequence.TimelineEvent
	}

	records := []record{
		{
			enrollment: sequence.Enrollment{
				ID:           seedID("enrollment", 1),
				BorrowerID:   seedID("borrower", 1),
				DealerID:     seedID("dealer", 1),
				Status:       sequence.StatusActive,
				CurrentDay:   3,
				Phone:        "+15555550101",
				Email:        "m.reyes@example.com",
				Vehicle:      "2019 Honda Civic",
				AmountDue:    412.50,
				CreatedAt:    seedTime(0),
				UpdatedAt:    seedTime(3 * day),
				NextActionAt: seedTime(4 * day),
			},
			events: []sequence.TimelineEvent{
				{Type: sequence.EventTouchSent, OccurredAt: seedTime(2 * time.Hour), Channel: "sms", Day: 0},
				{Type: sequence.EventTouchSent, OccurredAt: seedTime(1*day + 2*time.Hour), Channel: "email", Day: 1},
				{
					Type: sequence.EventCallCompleted, OccurredAt: seedTime(3*day + 5*time.Hour), Day: 3,
					StartedAt: seedTime(3*day + 5*time.Hour), EndedAt: seedTime(3*day + 5*time.Hour + 6*time.Minute),
					Outcome: "PROMISE_TO_PAY", Notes: "Borrower will pay Friday after payroll",
					IntentDate: seedBase.Add(7 * day).Format("2006-01-02"),
				},
			},
		},
		{
			enrollment: sequence.Enrollment{
				ID:           seedID("enrollment", 2),
				BorrowerID:   seedID("borrower", 2),
				DealerID:     seedID("dealer", 1),
				Status:       sequence.StatusActive,
				CurrentDay:   1,
				Phone:        "+15555550102",
				Vehicle:      "2021 Ford F-150",
				AmountDue:    689.00,
				CreatedAt:    seedTime(2 * day),
				UpdatedAt:    seedTime(3 * day),
				NextActionAt: seedTime(4 * day),
			},
			events: []sequence.TimelineEvent{
				{Type: sequence.EventTouchSent, OccurredAt: seedTime(2*day + time.Hour), Channel: "sms", Day: 0},
				{Type: sequence.EventTouchSent, OccurredAt: seedTime(3*day + time.Hour), Channel: "push", Day: 1},
			},
		},
		{
			enrollment: sequence.Enrollment{
				ID:              seedID("enrollment", 3),
				BorrowerID:      seedID("borrower", 3),
				DealerID:        seedID("dealer", 2),
				Status:          sequence.StatusPaidExit,
				CurrentDay:      5,
				Phone:           "+15555550103",
				Email:           "d.okafor@example.com",
				Vehicle:         "2018 Toyota Camry",
				CreatedAt:       seedTime(-10 * day),
				UpdatedAt:       seedTime(-5 * day),
				PaymentPostedAt: seedTime(-5 * day),
			},
			events: []sequence.TimelineEvent{
				{Type: sequence.EventTouchSent, OccurredAt: seedTime(-10*day + time.Hour), Channel: "sms", Day: 0},
				{Type: sequence.EventTouchSent, OccurredAt: seedTime(-8 * day), Channel: "email", Day: 2},
				{
					Type: sequence.EventCallCompleted, OccurredAt: seedTime(-6 * day), Day: 4,
					StartedAt: seedTime(-6 * day), EndedAt: seedTime(-6*day + 4*time.Minute),
					Outcome: "PROMISE_TO_PAY",
				},
				{Type: sequence.EventPaymentReceived, OccurredAt: seedTime(-5 * day), Amount: 527.25},
			},
		},
		{
			enrollment: sequence.Enrollment{
				ID:             seedID("enrollment", 4),
				BorrowerID:     seedID("borrower", 4),
				DealerID:       seedID("dealer", 2),
				Status:         sequence.StatusEscalated,
				CurrentDay:     7,
				Phone:          "+15555550104",
				Vehicle:        "2020 Chevrolet Malibu",
				AmountDue:      1240.75,
				EscalateReason: "No contact after full sequence",
				CreatedAt:      seedTime(-14 * day),
				UpdatedAt:      seedTime(-7 * day),
			},
			events: []sequence.TimelineEvent{
				{Type: sequence.EventTouchSent, OccurredAt: seedTime(-14*day + time.Hour), Channel: "sms", Day: 0},
				{Type: sequence.EventTouchSent, OccurredAt: seedTime(-12 * day), Channel: "email", Day: 2},
				{
					Type: sequence.EventCallCompleted, OccurredAt: seedTime(-9 * day), Day: 5,
					StartedAt: seedTime(-9 * day), EndedAt: seedTime(-9*day + time.Minute),
					Outcome: "NO_ANSWER",
				},
				{Type: sequence.EventEscalated, OccurredAt: seedTime(-7 * day), Reason: "No contact after full sequence"},
			},
		},
		{
			enrollment: sequence.Enrollment{
				ID:             seedID("enrollment", 5),
				BorrowerID:     seedID("borrower", 5),
				DealerID:       seedID("dealer", 3),
				Status:         sequence.StatusSuppressed,
				CurrentDay:     2,
				Phone:          "+15555550105",
				Email:          "l.tran@example.com",
				Vehicle:        "2022 Hyundai Elantra",
				AmountDue:      305.00,
				SuppressReason: "Bankruptcy notice received",
				CreatedAt:      seedTime(-4 * day),
				UpdatedAt:      seedTime(-2 * day),
			},
			events: []sequence.TimelineEvent{
				{Type: sequence.EventTouchSent, OccurredAt: seedTime(-4*day + time.Hour), Channel: "sms", Day: 0},
				{
					Type: sequence.EventCallCompleted, OccurredAt: seedTime(-3 * day), Day: 1,
					StartedAt: seedTime(-3 * day), EndedAt: seedTime(-3*day + 9*time.Minute),
					Outcome: "TRANSFERRED", TransferReason: "Borrower disputed the balance",
					Notes: "Attorney contact on file",
				},
				{Type: sequence.EventSuppressed, OccurredAt: seedTime(-2 * day), Reason: "Bankruptcy notice received"},
			},
		},
	}

	for _, rec := range records {
		if err := s.PutEnrollment(ctx, rec.enrollment); err != nil {
			return fmt.Errorf("seeding enrollment %s: %w", rec.enrollment.ID, err)
		}
		for i, ev := range rec.events {
			ev.ID = seedID("event-"+rec.enrollment.ID, i)
			ev.EnrollmentID = rec.enrollment.ID
			if err := s.AppendEvent(ctx, ev); err != nil {
				return fmt.Errorf("seeding timeline for %s: %w", rec.enrollment.ID, err)
			}
		}
	}
	return nil
}
