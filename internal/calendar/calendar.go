// Package calendar derives month-grid and day-level views from a booking
// collection. It is a pure function layer: no persistence, no state beyond
// the (date, collection) pair of each call.
package calendar

import (
	"iter"
	"time"

	"hytta/pkg/datemath"
	"hytta/pkg/model"
)

// DaySlot is one cell of a rendered month grid: either padding aligning the
// first day to its weekday column, or a calendar day number.
type DaySlot struct {
	Day int // 1..31, or 0 for a padding slot
}

// Padding reports whether the slot is a leading placeholder.
func (s DaySlot) Padding() bool { return s.Day == 0 }

// MonthGrid yields the slots of one calendar month: leading padding slots
// equal to the weekday index of day 1 (0 = Sunday), then one slot per day.
// The sequence is finite and restartable; iterating it twice yields the same
// slots. Out-of-range months normalize to the adjacent year, so requesting
// month 0 of 2024 yields December 2023.
func MonthGrid(year int, month time.Month) iter.Seq[DaySlot] {
	return func(yield func(DaySlot) bool) {
		for i := 0; i < datemath.FirstWeekday(year, month); i++ {
			if !yield(DaySlot{}) {
				return
			}
		}
		for day := 1; day <= datemath.DaysInMonth(year, month); day++ {
			if !yield(DaySlot{Day: day}) {
				return
			}
		}
	}
}

// MonthSlots materializes MonthGrid into a slice for callers that want
// random access, such as grid templates.
func MonthSlots(year int, month time.Month) []DaySlot {
	var slots []DaySlot
	for slot := range MonthGrid(year, month) {
		slots = append(slots, slot)
	}
	return slots
}

// BookingsOnDate yields every booking whose inclusive [start, end] range
// contains the date, comparing at day granularity. The input collection's
// order is preserved, so a collection sorted by start date stays that way.
// Overlapping bookings are legitimate and all of them are yielded.
func BookingsOnDate(date datemath.Date, collection []model.Booking) iter.Seq[model.Booking] {
	return func(yield func(model.Booking) bool) {
		for _, b := range collection {
			if b.ContainsDate(date) {
				if !yield(b) {
					return
				}
			}
		}
	}
}

// BookingsOn materializes BookingsOnDate.
func BookingsOn(date datemath.Date, collection []model.Booking) []model.Booking {
	var matched []model.Booking
	for b := range BookingsOnDate(date, collection) {
		matched = append(matched, b)
	}
	return matched
}
