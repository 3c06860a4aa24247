package calendar

import (
	"testing"
	"time"

	"hytta/pkg/datemath"
	"hytta/pkg/model"
)

func mustDate(t *testing.T, s string) datemath.Date {
	t.Helper()
	d, err := datemath.Parse(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// February 2024 is a leap month starting on a Thursday: 4 padding slots,
// then 29 days, 33 slots total.
func TestMonthGrid_February2024(t *testing.T) {
	slots := MonthSlots(2024, time.February)

	if len(slots) != 33 {
		t.Fatalf("expected 33 slots, got %d", len(slots))
	}
	for i := 0; i < 4; i++ {
		if !slots[i].Padding() {
			t.Errorf("expected slot %d to be padding, got day %d", i, slots[i].Day)
		}
	}
	if slots[4].Day != 1 {
		t.Errorf("expected first day slot after padding, got %d", slots[4].Day)
	}
	if slots[len(slots)-1].Day != 29 {
		t.Errorf("expected leap day last, got %d", slots[len(slots)-1].Day)
	}
}

func TestMonthGrid_NoPaddingWhenMonthStartsSunday(t *testing.T) {
	// September 2024 starts on a Sunday.
	slots := MonthSlots(2024, time.September)

	if len(slots) != 30 {
		t.Fatalf("expected 30 slots, got %d", len(slots))
	}
	if slots[0].Day != 1 {
		t.Errorf("expected no padding, first slot day %d", slots[0].Day)
	}
}

func TestMonthGrid_YearRollover(t *testing.T) {
	// Month 0 normalizes to December of the previous year (31 days,
	// 2023-12-01 was a Friday: 5 padding slots).
	slots := MonthSlots(2024, time.Month(0))
	if len(slots) != 36 {
		t.Fatalf("expected 36 slots for December 2023, got %d", len(slots))
	}

	// Month 13 normalizes to January of the next year (31 days,
	// 2025-01-01 was a Wednesday: 3 padding slots).
	slots = MonthSlots(2024, time.Month(13))
	if len(slots) != 34 {
		t.Fatalf("expected 34 slots for January 2025, got %d", len(slots))
	}
}

func TestMonthGrid_Restartable(t *testing.T) {
	grid := MonthGrid(2024, time.February)

	first := 0
	for range grid {
		first++
	}
	second := 0
	for range grid {
		second++
	}

	if first != second || first != 33 {
		t.Errorf("expected both passes to yield 33 slots, got %d then %d", first, second)
	}
}

func TestMonthGrid_EarlyStop(t *testing.T) {
	count := 0
	for range MonthGrid(2024, time.February) {
		count++
		if count == 5 {
			break
		}
	}
	if count != 5 {
		t.Errorf("expected iteration to stop at 5, got %d", count)
	}
}

func TestBookingsOnDate_OverlapKeepsOrder(t *testing.T) {
	hansen := model.Booking{
		ID:        1,
		Name:      "Hansen",
		StartDate: mustDate(t, "2024-02-15"),
		EndDate:   mustDate(t, "2024-02-18"),
		Guests:    4,
	}
	larsen := model.Booking{
		ID:        2,
		Name:      "Larsen",
		StartDate: mustDate(t, "2024-02-17"),
		EndDate:   mustDate(t, "2024-02-20"),
		Guests:    2,
	}
	collection := []model.Booking{hansen, larsen}

	got := BookingsOn(mustDate(t, "2024-02-17"), collection)

	if len(got) != 2 {
		t.Fatalf("expected both overlapping bookings, got %d", len(got))
	}
	if got[0].Name != "Hansen" || got[1].Name != "Larsen" {
		t.Errorf("expected input order preserved, got [%s %s]", got[0].Name, got[1].Name)
	}
}

func TestBookingsOnDate_Boundaries(t *testing.T) {
	b := model.Booking{
		ID:        1,
		Name:      "Hansen",
		StartDate: mustDate(t, "2024-02-15"),
		EndDate:   mustDate(t, "2024-02-18"),
	}
	collection := []model.Booking{b}

	tests := []struct {
		date string
		want int
	}{
		{"2024-02-14", 0},
		{"2024-02-15", 1},
		{"2024-02-18", 1},
		{"2024-02-19", 0},
	}

	for _, tt := range tests {
		if got := len(BookingsOn(mustDate(t, tt.date), collection)); got != tt.want {
			t.Errorf("BookingsOn(%s): expected %d, got %d", tt.date, tt.want, got)
		}
	}
}

func TestBookingsOnDate_EmptyCollection(t *testing.T) {
	if got := BookingsOn(mustDate(t, "2024-02-17"), nil); len(got) != 0 {
		t.Errorf("expected no bookings, got %d", len(got))
	}
}
