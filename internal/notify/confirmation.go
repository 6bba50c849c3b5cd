package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

func formatDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("Monday, January 2, 2006")
}

func formatTime(clock string) string {
	if len(clock) > 5 {
		clock = clock[:5]
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return clock
	}
	return t.Format("3:04 PM")
}

// ConfirmationEmail renders the customer's confirmation for a committed booking.
func ConfirmationEmail(evt models.BookingConfirmedEvent) EmailMessage {
	b := evt.Booking

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", b.CustomerName)
	fmt.Fprintf(&sb, "Your appointment at %s is booked.\n\n", salonName(evt))
	writeDetails(&sb, b)
	sb.WriteString("\nPlease arrive a few minutes early. We look forward to seeing you!\n")

	return EmailMessage{
		To:      b.CustomerEmail,
		ToName:  b.CustomerName,
		Subject: fmt.Sprintf("Booking confirmed: %s", b.ConfirmationNumber),
		Body:    sb.String(),
	}
}

// SalonCopyEmail renders the salon's notice of a new booking. It reports false when
// the salon has no booking email.
func SalonCopyEmail(evt models.BookingConfirmedEvent) (EmailMessage, bool) {
	if evt.SalonEmail == nil || strings.TrimSpace(*evt.SalonEmail) == "" {
		return EmailMessage{}, false
	}
	b := evt.Booking

	var sb strings.Builder
	fmt.Fprintf(&sb, "New booking at %s.\n\n", salonName(evt))
	fmt.Fprintf(&sb, "Customer: %s\n", b.CustomerName)
	fmt.Fprintf(&sb, "Email: %s\n", b.CustomerEmail)
	fmt.Fprintf(&sb, "Phone: %s\n\n", b.CustomerPhone)
	writeDetails(&sb, b)

	return EmailMessage{
		To:      *evt.SalonEmail,
		ToName:  evt.SalonName,
		Subject: fmt.Sprintf("New booking: %s", b.ConfirmationNumber),
		Body:    sb.String(),
	}, true
}

func salonName(evt models.BookingConfirmedEvent) string {
	if evt.SalonName == "" {
		return "the salon"
	}
	return evt.SalonName
}

func writeDetails(sb *strings.Builder, b models.Booking) {
	fmt.Fprintf(sb, "Confirmation number: %s\n", b.ConfirmationNumber)
	fmt.Fprintf(sb, "Date: %s\n", formatDate(b.BookingDate))
	fmt.Fprintf(sb, "Time: %s\n", formatTime(b.BookingTime))
	fmt.Fprintf(sb, "Stylist: %s\n", b.StylistName)
	if b.NumberOfPeople > 1 {
		fmt.Fprintf(sb, "Guests: %d\n", b.NumberOfPeople)
	}

	sb.WriteString("\nServices:\n")
	if len(b.People) > 0 {
		for _, p := range b.People {
			if b.NumberOfPeople > 1 {
				fmt.Fprintf(sb, "  %s\n", p.PersonName)
			}
			for _, s := range p.Services {
				fmt.Fprintf(sb, "  - %s - %s (%s) with %s\n", s.ServiceName, s.ServicePrice, s.ServiceDuration, s.StylistName)
			}
		}
	} else {
		for _, s := range b.Services {
			fmt.Fprintf(sb, "  - %s - %s (%s)\n", s.Name, s.Price, s.Duration)
		}
	}
	fmt.Fprintf(sb, "\nTotal: $%.2f\n", b.TotalPrice)
	if b.CustomerNotes != nil && *b.CustomerNotes != "" {
		fmt.Fprintf(sb, "Notes: %s\n", html.UnescapeString(*b.CustomerNotes))
	}
}
