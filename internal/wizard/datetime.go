package wizard

import (
	"time"

	"github.com/Eursukkul/salon-booking-service/internal/availability"
	"github.com/Eursukkul/salon-booking-service/internal/models"
)

// SelectDate sets the date and always clears the selected time.
func (w *Wizard) SelectDate(date string) error {
	if w.opts.DateCheck != nil {
		if err := w.opts.DateCheck(date); err != nil {
			return err
		}
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return availability.ErrInvalidDate
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.complete {
		return ErrCompleted
	}
	empty := ""
	w.mergeLocked(models.BookingUpdate{Date: &date, Time: &empty})
	return nil
}

// SelectTime sets an "HH:MM" time for the already selected date.
func (w *Wizard) SelectTime(clock string) error {
	return w.selectTime(nil, clock)
}

// SelectCheckedTime sets clock only while the date and stylist scope still match req,
// the request the time was checked against.
func (w *Wizard) SelectCheckedTime(req availability.Request, clock string) error {
	return w.selectTime(&req, clock)
}

func (w *Wizard) selectTime(checked *availability.Request, clock string) error {
	if _, err := availability.ParseClock(clock); err != nil || len(clock) != 5 {
		return ErrInvalidTime
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.complete {
		return ErrCompleted
	}
	if w.data.Date == "" {
		return ErrDateRequired
	}
	if checked != nil && !sameRequest(*checked, w.slotRequestLocked(w.data.Date)) {
		return ErrSelectionChanged
	}
	w.mergeLocked(models.BookingUpdate{Time: &clock})
	return nil
}

func sameRequest(a, b availability.Request) bool {
	if (a.StylistID == nil) != (b.StylistID == nil) {
		return false
	}
	if a.StylistID != nil && *a.StylistID != *b.StylistID {
		return false
	}
	return a.SalonID == b.SalonID &&
		a.Date == b.Date &&
		a.DurationMinutes == b.DurationMinutes &&
		a.StylistCount == b.StylistCount
}

// SlotRequest describes whose time the date/time step should show, scoped to the
// primary stylist and the time that stylist will be occupied.
func (w *Wizard) SlotRequest(date string) availability.Request {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slotRequestLocked(date)
}

func (w *Wizard) slotRequestLocked(date string) availability.Request {
	req := availability.Request{
		SalonID:      w.data.Salon.ID,
		Date:         date,
		StylistCount: len(w.catalog.Stylists),
	}
	choice, _ := primaryStylist(w.data)
	req.StylistID = choice.StylistID()
	req.DurationMinutes = StylistDuration(w.data.PeopleBookings, req.StylistID)
	return req
}
