// collectctl is an operator CLI for the Carpay Collect enrollments API.
// It exercises every client operation: list, get, timeline, create,
// suppress and escalate.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/carpay/collect/internal/config"
	"github.com/carpay/collect/internal/sequence"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	action := flag.String("action", "list", "list | get | timeline | create | suppress | escalate")
	status := flag.String("status", "ACTIVE", "enrollment status filter for list")
	id := flag.String("id", "", "enrollment id for get/timeline/suppress/escalate")
	reason := flag.String("reason", "", "reason for suppress/escalate")
	borrower := flag.String("borrower", "", "borrower id for create")
	dealer := flag.String("dealer", "", "dealer id for create")
	phone := flag.String("phone", "", "borrower phone for create")
	email := flag.String("email", "", "borrower email for create")
	vehicle := flag.String("vehicle", "", "vehicle description for create")
	amountDue := flag.Float64("amount-due", 0, "amount due for create")
	timeout := flag.Duration("timeout", 30*time.Second, "overall command timeout")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fatalf("loading config: %v", err)
	}

	client := sequence.NewClient(cfg.Carpay)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *action {
	case "list":
		runList(ctx, client, sequence.EnrollmentStatus(*status))
	case "get":
		requireID(*id)
		enrollment, err := client.GetEnrollment(ctx, *id)
		exitOnAPIError(err)
		printEnrollment(enrollment)
	case "timeline":
		requireID(*id)
		runTimeline(ctx, client, *id)
	case "create":
		runCreate(ctx, client, sequence.CreateEnrollmentPayload{
			BorrowerID: *borrower,
			DealerID:   *dealer,
			Phone:      *phone,
			Email:      *email,
			Vehicle:    *vehicle,
			AmountDue:  *amountDue,
		})
	case "suppress":
		requireID(*id)
		enrollment, err := client.SuppressEnrollment(ctx, *id, sequence.ReasonPayload{Reason: *reason})
		exitOnAPIError(err)
		fmt.Printf("Suppressed %s (status now %s)\n", enrollment.ID, enrollment.Status)
	case "escalate":
		requireID(*id)
		enrollment, err := client.EscalateEnrollment(ctx, *id, sequence.ReasonPayload{Reason: *reason})
		exitOnAPIError(err)
		fmt.Printf("Escalated %s (status now %s)\n", enrollment.ID, enrollment.Status)
	default:
		fatalf("unknown action %q", *action)
	}
}

func runList(ctx context.Context, client *sequence.Client, status sequence.EnrollmentStatus) {
	if !status.Valid() {
		fatalf("unknown status %q (one of %v)", status, sequence.AllStatuses())
	}

	enrollments, err := client.ListEnrollments(ctx, status)
	exitOnAPIError(err)

	fmt.Printf("%d enrollment(s) in %s\n", len(enrollments), status)
	fmt.Println("---------------------------------------------------------")
	for _, e := range enrollments {
		fmt.Printf("%-36s  day %2d  %-12s  %s\n", e.ID, e.CurrentDay, e.Status, e.Vehicle)
	}
}

func runTimeline(ctx context.Context, client *sequence.Client, id string) {
	events, err := client.GetTimeline(ctx, id)
	exitOnAPIError(err)

	fmt.Printf("%d event(s) for %s\n", len(events), id)
	fmt.Println("---------------------------------------------------------")
	for _, ev := range events {
		fmt.Printf("%-25s  %-17s  %s\n", ev.OccurredAt, ev.Type, describeEvent(ev))
	}
}

func runCreate(ctx context.Context, client *sequence.Client, payload sequence.CreateEnrollmentPayload) {
	if payload.BorrowerID == "" || payload.DealerID == "" || payload.Phone == "" {
		fatalf("create requires -borrower, -dealer and -phone")
	}

	enrollment, err := client.CreateEnrollment(ctx, payload)
	exitOnAPIError(err)
	fmt.Printf("Created enrollment %s\n", enrollment.ID)
	printEnrollment(enrollment)
}

func describeEvent(ev sequence.TimelineEvent) string {
	switch ev.Type {
	case sequence.EventTouchSent:
		return fmt.Sprintf("%s touch, day %d", ev.Channel, ev.Day)
	case sequence.EventCallCompleted:
		detail := ev.Outcome
		if ev.Notes != "" {
			detail += ": " + ev.Notes
		}
		return detail
	case sequence.EventPaymentReceived:
		return fmt.Sprintf("$%.2f posted", ev.Amount)
	case sequence.EventEscalated, sequence.EventSuppressed:
		return ev.Reason
	}
	return ""
}

func printEnrollment(e *sequence.Enrollment) {
	fmt.Printf("ID:          %s\n", e.ID)
	fmt.Printf("Borrower:    %s\n", e.BorrowerID)
	fmt.Printf("Dealer:      %s\n", e.DealerID)
	fmt.Printf("Status:      %s\n", e.Status)
	fmt.Printf("Day:         %d\n", e.CurrentDay)
	if e.Vehicle != "" {
		fmt.Printf("Vehicle:     %s\n", e.Vehicle)
	}
	if e.AmountDue > 0 {
		fmt.Printf("Amount due:  $%.2f\n", e.AmountDue)
	}
	if e.SuppressReason != "" {
		fmt.Printf("Suppressed:  %s\n", e.SuppressReason)
	}
	if e.EscalateReason != "" {
		fmt.Printf("Escalated:   %s\n", e.EscalateReason)
	}
	fmt.Printf("Created:     %s\n", e.CreatedAt)
	fmt.Printf("Updated:     %s\n", e.UpdatedAt)
	if e.NextActionAt != "" {
		fmt.Printf("Next action: %s\n", e.NextActionAt)
	}
}

func requireID(id string) {
	if id == "" {
		fatalf("this action requires -id")
	}
}

func exitOnAPIError(err error) {
	if err == nil {
		return
	}
	var apiErr *sequence.APIError
	if errors.As(err, &apiErr) {
		fatalf("API error (status %d): %s", apiErr.Status, apiErr.Message)
	}
	fatalf("%v", err)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "FATAL: "+format+"\n", args...)
	os.Exit(1)
}
