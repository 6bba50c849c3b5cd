package models

const RoutingBookingConfirmed = "booking.confirmed"

// BookingConfirmedEvent is published after a booking commits and drives the confirmation email.
type BookingConfirmedEvent struct {
	Booking    Booking `json:"booking"`
	SalonName  string  `json:"salon_name"`
	SalonEmail *string `json:"salon_email,omitempty"`
}
