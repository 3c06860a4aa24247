package validator

import (
	"strings"
	"testing"
	"time"

	"hytta/pkg/datemath"
	"hytta/pkg/logger"
	"hytta/pkg/model"
)

func newValidator(t *testing.T) *BookingValidator {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.TEXT,
		Service: "test",
	})
	return NewBookingValidator(log)
}

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name      string
		draft     model.BookingDraft
		wantError bool
		wantField string
	}{
		{
			name: "valid draft",
			draft: model.BookingDraft{
				Name:      "Hansen",
				StartDate: "2024-02-15",
				EndDate:   "2024-02-18",
				Guests:    4,
			},
			wantError: false,
		},
		{
			name: "zero guests allowed for later defaulting",
			draft: model.BookingDraft{
				Name:      "Hansen",
				StartDate: "2024-02-15",
				EndDate:   "2024-02-15",
			},
			wantError: false,
		},
		{
			name: "empty name",
			draft: model.BookingDraft{
				StartDate: "2024-02-15",
				EndDate:   "2024-02-18",
			},
			wantError: true,
			wantField: "Name",
		},
		{
			name: "missing start date",
			draft: model.BookingDraft{
				Name:    "Hansen",
				EndDate: "2024-02-18",
			},
			wantError: true,
			wantField: "StartDate",
		},
		{
			name: "missing end date",
			draft: model.BookingDraft{
				Name:      "Hansen",
				StartDate: "2024-02-15",
			},
			wantError: true,
			wantField: "EndDate",
		},
		{
			name: "unparsable start date",
			draft: model.BookingDraft{
				Name:      "Hansen",
				StartDate: "15/02/2024",
				EndDate:   "2024-02-18",
			},
			wantError: true,
			wantField: "StartDate",
		},
		{
			name: "end before start",
			draft: model.BookingDraft{
				Name:      "Hansen",
				StartDate: "2024-02-18",
				EndDate:   "2024-02-15",
			},
			wantError: true,
			wantField: "EndDate",
		},
		{
			name: "negative guests",
			draft: model.BookingDraft{
				Name:      "Hansen",
				StartDate: "2024-02-15",
				EndDate:   "2024-02-18",
				Guests:    -1,
			},
			wantError: true,
			wantField: "Guests",
		},
	}

	v := newValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := v.ValidateDraft(tt.draft)

			if !tt.wantError {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if start.String() != tt.draft.StartDate || end.String() != tt.draft.EndDate {
					t.Errorf("expected parsed dates %s..%s, got %s..%s",
						tt.draft.StartDate, tt.draft.EndDate, start, end)
				}
				return
			}

			if err == nil {
				t.Fatal("expected validation error")
			}
			if tt.wantField != "" && !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("expected error naming field %s, got: %v", tt.wantField, err)
			}
		})
	}
}

func TestValidateDraft_CollectsAllProblems(t *testing.T) {
	v := newValidator(t)

	_, _, err := v.ValidateDraft(model.BookingDraft{})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) < 3 {
		t.Errorf("expected name and both dates flagged, got %v", verrs.Fields())
	}
}

func TestValidateRecord(t *testing.T) {
	v := newValidator(t)

	valid := model.Booking{
		ID:         1708000000000,
		Name:       "Hansen",
		StartDate:  datemath.New(2024, time.February, 15),
		EndDate:    datemath.New(2024, time.February, 18),
		Guests:     4,
		OwnerColor: model.DefaultOwnerColor,
		CreatedAt:  time.Now(),
	}
	if err := v.ValidateRecord(valid); err != nil {
		t.Errorf("expected valid record, got: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(model.Booking) model.Booking
	}{
		{"zero id", func(b model.Booking) model.Booking { b.ID = 0; return b }},
		{"empty name", func(b model.Booking) model.Booking { b.Name = ""; return b }},
		{"zero start date", func(b model.Booking) model.Booking { b.StartDate = datemath.Date{}; return b }},
		{"zero end date", func(b model.Booking) model.Booking { b.EndDate = datemath.Date{}; return b }},
		{"zero guests", func(b model.Booking) model.Booking { b.Guests = 0; return b }},
		{"inverted range", func(b model.Booking) model.Booking {
			b.StartDate, b.EndDate = b.EndDate, b.StartDate
			return b
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.ValidateRecord(tt.mutate(valid)); err == nil {
				t.Error("expected record to be rejected")
			}
		})
	}
}
