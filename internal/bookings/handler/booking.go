package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"hytta/internal/bookings/store"
	"hytta/internal/calendar"
	"hytta/pkg/datemath"
	apperrors "hytta/pkg/errors"
	httputil "hytta/pkg/http"
	"hytta/pkg/logger"
	"hytta/pkg/model"
)

// CalendarDay is one rendered grid cell: padding, or a day number with the
// bookings covering that day.
type CalendarDay struct {
	Day      int             `json:"day"`
	Padding  bool            `json:"padding"`
	Bookings []model.Booking `json:"bookings"`
}

type CalendarMonth struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}

type BookingHandler struct {
	store *store.BookingStore
	owner *model.Owner
	log   *logger.Logger
}

func NewBookingHandler(st *store.BookingStore, owner *model.Owner, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		store: st,
		owner: owner,
		log:   log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var draft model.BookingDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.store.Create(draft)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	httputil.WriteSuccess(w, h.store.Bookings())
}

// Delete removes a booking by id. Removal is idempotent, so an unknown id
// still answers 204. Ownership is advisory: deleting someone else's booking
// is allowed but logged.
func (h *BookingHandler) Delete(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	idStr := ps.ByName("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid booking id: "+idStr))
		return
	}

	if b, getErr := h.store.Get(id); getErr == nil {
		if b.OwnerID != nil && (h.owner == nil || *b.OwnerID != h.owner.ID) {
			h.log.Warn("Deleting booking owned by another user",
				"id", id,
				"booking_owner", *b.OwnerID,
			)
		}
	}

	if err := h.store.Remove(id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) OnDate(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	dateStr := ps.ByName("date")
	date, err := datemath.Parse(dateStr)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid date, must be YYYY-MM-DD: "+dateStr))
		return
	}

	bookings := calendar.BookingsOn(date, h.store.Bookings())
	if bookings == nil {
		bookings = []model.Booking{}
	}
	httputil.WriteSuccess(w, bookings)
}

func (h *BookingHandler) Calendar(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	year, err := strconv.Atoi(ps.ByName("year"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid year: "+ps.ByName("year")))
		return
	}
	monthNum, err := strconv.Atoi(ps.ByName("month"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("invalid month: "+ps.ByName("month")))
		return
	}

	// Out-of-range months normalize to the adjacent year, matching the grid.
	normalized := time.Date(year, time.Month(monthNum), 1, 0, 0, 0, 0, time.UTC)
	collection := h.store.Bookings()

	days := make([]CalendarDay, 0, 42)
	for slot := range calendar.MonthGrid(year, time.Month(monthNum)) {
		day := CalendarDay{
			Day:      slot.Day,
			Padding:  slot.Padding(),
			Bookings: []model.Booking{},
		}
		if !slot.Padding() {
			date := datemath.New(normalized.Year(), normalized.Month(), slot.Day)
			if matched := calendar.BookingsOn(date, collection); matched != nil {
				day.Bookings = matched
			}
		}
		days = append(days, day)
	}

	httputil.WriteSuccess(w, CalendarMonth{
		Year:  normalized.Year(),
		Month: int(normalized.Month()),
		Days:  days,
	})
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.DELETE("/api/v1/bookings/:id", h.Delete)
	router.GET("/api/v1/bookings/on/:date", h.OnDate)
	router.GET("/api/v1/calendar/:year/:month", h.Calendar)
}
