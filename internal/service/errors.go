package service

import (
	"errors"

	"github.com/Eursukkul/salon-booking-service/internal/availability"
)

var (
	ErrSalonNotFound        = errors.New("salon not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrMissingBookingInfo   = errors.New("missing required booking information")
	ErrMissingContact       = errors.New("please fill in all contact fields")
	ErrIncompleteBooking    = errors.New("incomplete booking: every person needs a service with a stylist")
	ErrBookingFailed        = errors.New("booking failed, please try again")
	ErrSubmissionInProgress = errors.New("booking is already being submitted")

	ErrSlotUnavailable = availability.ErrSlotUnavailable
)
