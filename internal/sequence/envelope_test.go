package sequence

import (
	"testing"
)

func TestExtractArray_EnrollmentShapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantShape string
		wantOK    bool
	}{
		{"bare array", `[{"id":"e-1"}]`, "array", true},
		{"bare array with whitespace", "\n  [] ", "array", true},
		{"enrollments field", `{"enrollments":[]}`, "enrollments", true},
		{"data field", `{"data":[{"id":"e-1"}]}`, "data", true},
		{"enrollments wins over data", `{"enrollments":[],"data":[{"id":"x"}]}`, "enrollments", true},
		{"unrecognized field", `{"foo":[]}`, "", false},
		{"enrollments not an array", `{"enrollments":{"id":"e-1"}}`, "", false},
		{"bare object", `{"id":"e-1"}`, "", false},
		{"null", `null`, "", false},
		{"scalar", `42`, "", false},
		{"empty body", ``, "", false},
		{"garbage", `not json at all`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, shape, ok := extractArray([]byte(tt.body), enrollmentEnvelopes)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if shape != tt.wantShape {
				t.Errorf("shape = %q, want %q", shape, tt.wantShape)
			}
		})
	}
}

func TestExtractArray_TimelineShapes(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{"events field", `{"events":[]}`, true},
		{"bare array not accepted", `[]`, false},
		{"data field not accepted", `{"data":[]}`, false},
		{"events not an array", `{"events":null}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := extractArray([]byte(tt.body), timelineEnvelopes)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestParseBody(t *testing.T) {
	if got := parseBody(nil); got != nil {
		t.Errorf("parseBody(nil) = %v, want nil", got)
	}
	if got := parseBody([]byte(`{"message":"boom"}`)); got == nil {
		t.Error("parseBody(object) = nil, want decoded map")
	}
	if got := parseBody([]byte("plain text")); got != "plain text" {
		t.Errorf("parseBody(text) = %v, want raw string", got)
	}
}

func TestEnrollmentStatusValid(t *testing.T) {
	for _, s := range AllStatuses() {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if EnrollmentStatus("CLOSED").Valid() {
		t.Error("CLOSED should not be valid")
	}
}
