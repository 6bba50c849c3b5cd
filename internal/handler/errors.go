package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Eursukkul/salon-booking-service/internal/availability"
	"github.com/Eursukkul/salon-booking-service/internal/dto"
	"github.com/Eursukkul/salon-booking-service/internal/service"
	"github.com/Eursukkul/salon-booking-service/internal/validation"
	"github.com/Eursukkul/salon-booking-service/internal/wizard"
)

const slotTakenMessage = "Selected time slot is no longer available. Please choose a different time."

// toHTTPError maps domain errors onto status codes. Unknown errors become a 500
// whose cause is only logged.
func toHTTPError(err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{Message: verr.Message, Field: verr.Field})

	case errors.Is(err, service.ErrSalonNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, wizard.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrSlotUnavailable):
		return echo.NewHTTPError(http.StatusConflict, slotTakenMessage)
	case errors.Is(err, service.ErrSubmissionInProgress),
		errors.Is(err, wizard.ErrCompleted),
		errors.Is(err, wizard.ErrSelectionChanged):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, wizard.ErrStepIncomplete):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, service.ErrMissingBookingInfo),
		errors.Is(err, service.ErrMissingContact),
		errors.Is(err, service.ErrIncompleteBooking),
		errors.Is(err, availability.ErrInvalidDate),
		errors.Is(err, availability.ErrDateOutOfRange),
		errors.Is(err, wizard.ErrDateRequired),
		errors.Is(err, wizard.ErrInvalidTime),
		errors.Is(err, wizard.ErrPersonOutOfRange),
		errors.Is(err, wizard.ErrSelectionOutOfRange),
		errors.Is(err, wizard.ErrServiceNotOffered),
		errors.Is(err, wizard.ErrUnknownStylist):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrBookingFailed):
		return echo.NewHTTPError(http.StatusInternalServerError, service.ErrBookingFailed.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}
