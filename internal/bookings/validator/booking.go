package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	bookingserrors "hytta/internal/bookings/errors"
	"hytta/pkg/datemath"
	"hytta/pkg/logger"
	"hytta/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Fields lists the offending field names, for error details.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for _, err := range v {
		fields = append(fields, err.Field)
	}
	return fields
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	// Teach the validator to see datemath.Date as its underlying time, so
	// `required` detects the zero date instead of diving into the struct.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(datemath.Date); ok {
			return d.Time()
		}
		return nil
	}, datemath.Date{})

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// ValidateDraft checks a user-submitted draft and parses its date strings.
// All problems are collected into a single ValidationErrors value so the
// caller can name every missing or invalid field at once.
func (v *BookingValidator) ValidateDraft(draft model.BookingDraft) (datemath.Date, datemath.Date, error) {
	var validationErrors ValidationErrors

	if err := v.validate.Struct(draft); err != nil {
		var structErrs validator.ValidationErrors
		if errors.As(err, &structErrs) {
			validationErrors = append(validationErrors, v.translateValidationErrors(structErrs)...)
		} else {
			return datemath.Date{}, datemath.Date{}, err
		}
	}

	if draft.Guests < 0 {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "Guests",
			Message: "guests must be a positive number",
		})
	}

	var start, end datemath.Date
	if draft.StartDate != "" {
		parsed, err := datemath.Parse(draft.StartDate)
		if err != nil {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "StartDate",
				Message: fmt.Sprintf("startDate must be a YYYY-MM-DD date, got %q", draft.StartDate),
			})
		} else {
			start = parsed
		}
	}
	if draft.EndDate != "" {
		parsed, err := datemath.Parse(draft.EndDate)
		if err != nil {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "EndDate",
				Message: fmt.Sprintf("endDate must be a YYYY-MM-DD date, got %q", draft.EndDate),
			})
		} else {
			end = parsed
		}
	}

	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "EndDate",
			Message: bookingserrors.ErrInvalidDateRange.Error(),
		})
	}

	if len(validationErrors) > 0 {
		return datemath.Date{}, datemath.Date{}, validationErrors
	}
	return start, end, nil
}

// ValidateRecord checks a persisted record's well-formedness: the load and
// persist boundaries use it to keep malformed data out of the collection.
func (v *BookingValidator) ValidateRecord(booking model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var structErrs validator.ValidationErrors
		if errors.As(err, &structErrs) {
			return v.translateValidationErrors(structErrs)
		}
		return err
	}

	if booking.EndDate.Before(booking.StartDate) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: bookingserrors.ErrInvalidDateRange.Error(),
			},
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
