package model

import (
	"sort"
	"time"

	"hytta/pkg/datemath"
)

// Booking is the sole persisted entity: one reservation of the shared cabin.
// IDs are Unix-millisecond creation stamps, so creation order and id order
// agree and simultaneous inserts tie-break naturally. CreatedAt is audit and
// display only; ordering always uses StartDate.
type Booking struct {
	ID         int64         `json:"id" validate:"required"`
	Name       string        `json:"name" validate:"required,min=1,max=100"`
	StartDate  datemath.Date `json:"startDate" validate:"required"`
	EndDate    datemath.Date `json:"endDate" validate:"required"`
	Guests     int           `json:"guests" validate:"required,min=1"`
	OwnerID    *string       `json:"ownerId"`
	OwnerColor string        `json:"ownerColor"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// BookingDraft is the user-submitted input for a new booking, before ids,
// timestamps and owner identity are assigned.
type BookingDraft struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Guests    int    `json:"guests" validate:"min=0"`
}

// Owner identifies the creating session's user. Supplied by the identity
// collaborator and consumed only at create time.
type Owner struct {
	ID          string
	DisplayName string
	Color       string
}

// DefaultOwnerColor is the presentation tag used when the identity provider
// supplies none.
const DefaultOwnerColor = "#2563eb"

// ContainsDate reports whether d falls inside the inclusive range
// [StartDate, EndDate], comparing at day granularity.
func (b Booking) ContainsDate(d datemath.Date) bool {
	return !d.Before(b.StartDate) && !d.After(b.EndDate)
}

// SortByStartDate orders bookings ascending by start date. The sort is
// stable, so same-day bookings keep their insertion order.
func SortByStartDate(bookings []Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].StartDate.Before(bookings[j].StartDate)
	})
}
