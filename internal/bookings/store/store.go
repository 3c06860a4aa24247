// Package store owns the canonical booking collection within one execution
// context. It persists the whole collection to the durable store on every
// mutation and relies on the store's change channel to stay eventually
// consistent with sibling contexts: reconciliation is always a full reload,
// never a field-level merge (last full write wins).
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"hytta/pkg/logger"
	"hytta/pkg/model"
	"hytta/pkg/sanitizer"
	"hytta/pkg/storage"

	bookingserrors "hytta/internal/bookings/errors"
	bookingsvalidator "hytta/internal/bookings/validator"
	apperrors "hytta/pkg/errors"
)

// BookingsKey is the well-known durable-store key holding the serialized
// booking collection.
const BookingsKey = "bookings"

type BookingStore struct {
	storage   storage.Store
	validator *bookingsvalidator.BookingValidator
	owner     *model.Owner
	log       *logger.Logger

	// mu guards the in-memory collection and the id counter. Mutations in
	// one context stay totally ordered; the watcher goroutine reloads under
	// the same lock.
	mu       sync.RWMutex
	bookings []model.Booking
	lastID   int64
}

// New wires a BookingStore over a durable store. owner may be nil when no
// identity is supplied; created bookings then carry a null ownerId.
func New(st storage.Store, v *bookingsvalidator.BookingValidator, owner *model.Owner, log *logger.Logger) *BookingStore {
	return &BookingStore{
		storage:   st,
		validator: v,
		owner:     owner,
		log:       log.WithComponent("bookingstore"),
	}
}

// Load reads the durable collection and replaces the in-memory one. A
// missing key initializes to empty; that is not an error. A malformed value
// resets the in-memory collection to empty and returns an IntegrityError,
// but the corrupted durable value is deliberately left in place so it stays
// diagnosable. Load never writes.
func (s *BookingStore) Load() ([]model.Booking, error) {
	data, found, err := s.storage.Get(BookingsKey)
	if err != nil {
		return nil, apperrors.Internal("Failed to read booking collection", err)
	}
	if !found {
		s.replace(nil)
		return []model.Booking{}, nil
	}

	bookings, err := decodeCollection(data, s.validator)
	if err != nil {
		s.replace(nil)
		s.log.Error("Discarding malformed booking collection", "error", err)
		return nil, apperrors.Integrity("Stored booking collection is not well-formed",
			fmt.Errorf("%w: %w", bookingserrors.ErrCorruptState, err))
	}

	model.SortByStartDate(bookings)
	s.replace(bookings)

	s.log.Debug("Booking collection loaded", "count", len(bookings))
	return s.Bookings(), nil
}

// Create validates the draft, assigns identity and ordering metadata,
// inserts keeping the collection sorted by start date, persists and
// broadcasts. On validation failure nothing is mutated. On persistence
// failure the in-memory collection is left at its pre-call state.
func (s *BookingStore) Create(draft model.BookingDraft) (model.Booking, error) {
	draft.Name = sanitizer.NormalizeName(draft.Name)

	start, end, err := s.validator.ValidateDraft(draft)
	if err != nil {
		s.log.Warn("Booking draft rejected", "error", err)
		details := map[string]any{"error": err.Error()}
		var verrs bookingsvalidator.ValidationErrors
		if errors.As(err, &verrs) {
			details["fields"] = verrs.Fields()
		}
		return model.Booking{}, apperrors.Validation("Booking validation failed", details)
	}

	guests := draft.Guests
	if guests == 0 {
		guests = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booking := model.Booking{
		ID:         s.nextIDLocked(),
		Name:       draft.Name,
		StartDate:  start,
		EndDate:    end,
		Guests:     guests,
		OwnerColor: model.DefaultOwnerColor,
		CreatedAt:  time.Now().UTC(),
	}
	if s.owner != nil {
		ownerID := s.owner.ID
		booking.OwnerID = &ownerID
		if s.owner.Color != "" {
			booking.OwnerColor = s.owner.Color
		}
	}

	next := insertSorted(s.bookings, booking)
	if err := s.persistLocked(next); err != nil {
		return model.Booking{}, err
	}

	s.log.Info("Booking created",
		"id", booking.ID,
		"name", booking.Name,
		"start_date", booking.StartDate.String(),
		"end_date", booking.EndDate.String(),
		"guests", booking.Guests,
	)
	return booking, nil
}

// Remove deletes the booking with the given id, then persists and
// broadcasts. Removing an absent id is a no-op, not an error: deletion is
// idempotent.
func (s *BookingStore) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, b := range s.bookings {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.log.Debug("Remove of absent booking ignored", "id", id)
		return nil
	}

	next := make([]model.Booking, 0, len(s.bookings)-1)
	next = append(next, s.bookings[:idx]...)
	next = append(next, s.bookings[idx+1:]...)

	if err := s.persistLocked(next); err != nil {
		return err
	}

	s.log.Info("Booking removed", "id", id)
	return nil
}

// Persist replaces the durable collection with the given one. The
// collection is validated first, guarding against a caller handing over
// corrupted state. On write failure a SyncError is returned and neither the
// durable value nor the in-memory collection changes.
func (s *BookingStore) Persist(bookings []model.Booking) error {
	for _, b := range bookings {
		if err := s.validator.ValidateRecord(b); err != nil {
			return apperrors.Integrity("Refusing to persist malformed booking collection",
				fmt.Errorf("booking %d: %w", b.ID, err))
		}
	}

	sorted := make([]model.Booking, len(bookings))
	copy(sorted, bookings)
	model.SortByStartDate(sorted)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(sorted)
}

// OnExternalChange registers fn to run after another context's write has
// been observed and the collection reloaded from durable storage. The
// broadcast payload is advisory only; the reload is the reconciliation.
func (s *BookingStore) OnExternalChange(fn func()) (cancel func()) {
	return s.storage.Subscribe(BookingsKey, func([]byte) {
		if _, err := s.Load(); err != nil {
			s.log.Error("Reload after external change failed", "error", err)
		}
		if fn != nil {
			fn()
		}
	})
}

// Get returns the booking with the given id from the in-memory collection.
func (s *BookingStore) Get(id int64) (model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Booking{}, bookingserrors.ErrNotFound
}

// Bookings returns a snapshot of the in-memory collection, sorted ascending
// by start date with insertion order preserved for ties.
func (s *BookingStore) Bookings() []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]model.Booking, len(s.bookings))
	copy(snapshot, s.bookings)
	return snapshot
}

// persistLocked writes the collection and, only on success, swaps it in as
// the in-memory state. The durable write doubles as the broadcast: sibling
// contexts observe it through the storage change channel.
func (s *BookingStore) persistLocked(next []model.Booking) error {
	data, err := json.Marshal(next)
	if err != nil {
		return apperrors.Internal("Failed to encode booking collection", err)
	}
	if err := s.storage.Set(BookingsKey, data); err != nil {
		s.log.Error("Failed to persist booking collection", "error", err)
		return apperrors.Sync("Failed to persist booking collection", err)
	}
	s.bookings = next
	return nil
}

func (s *BookingStore) replace(bookings []model.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bookings == nil {
		bookings = []model.Booking{}
	}
	s.bookings = bookings
	for _, b := range bookings {
		if b.ID > s.lastID {
			s.lastID = b.ID
		}
	}
}

// nextIDLocked hands out creation-time ids: the current Unix millisecond,
// bumped past the previous id when two creations land in the same tick.
func (s *BookingStore) nextIDLocked() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// insertSorted returns a new slice with the booking inserted after every
// existing entry with an earlier-or-equal start date, so ties keep
// insertion order.
func insertSorted(bookings []model.Booking, booking model.Booking) []model.Booking {
	idx := len(bookings)
	for i, b := range bookings {
		if booking.StartDate.Before(b.StartDate) {
			idx = i
			break
		}
	}

	next := make([]model.Booking, 0, len(bookings)+1)
	next = append(next, bookings[:idx]...)
	next = append(next, booking)
	next = append(next, bookings[idx:]...)
	return next
}

// decodeCollection parses and checks the durable payload. Anything that is
// not a sequence of well-formed records fails as a whole; partial loads are
// never produced.
func decodeCollection(data []byte, v *bookingsvalidator.BookingValidator) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		return nil, err
	}
	for i, b := range bookings {
		if b.OwnerColor == "" {
			bookings[i].OwnerColor = model.DefaultOwnerColor
			b = bookings[i]
		}
		if err := v.ValidateRecord(b); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return bookings, nil
}
