package wizard

import (
	"github.com/Eursukkul/salon-booking-service/internal/models"
)

func servicesStepDone(d models.BookingData) bool {
	if len(d.PeopleBookings) == 0 {
		return false
	}
	for _, p := range d.PeopleBookings {
		if !p.Ready() {
			return false
		}
	}
	return true
}

// StylistOption is one entry of the stylist picker.
type StylistOption struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Title       string   `json:"title,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
}

// StylistOptions lists "Any Available Stylist" first, then the salon's stylists.
func StylistOptions(stylists []models.Stylist) []StylistOption {
	out := make([]StylistOption, 0, len(stylists)+1)
	out = append(out, StylistOption{
		ID:          models.AnyStylistID,
		Name:        models.AnyStylistName,
		Title:       "Best Match",
		Specialties: []string{"All Services"},
	})
	for _, s := range stylists {
		opt := StylistOption{ID: s.ID, Name: s.Name, Specialties: s.Specialties}
		if s.Title != nil {
			opt.Title = *s.Title
		}
		out = append(out, opt)
	}
	return out
}

func (w *Wizard) ActivePerson() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activePerson
}

func (w *Wizard) SetActivePerson(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.data.PeopleBookings) {
		return ErrPersonOutOfRange
	}
	w.activePerson = index
	return nil
}

// ToggleService flips membership of serviceID in the person's selection. A newly
// selected service gets the "any available" stylist. Returns whether it is now selected.
func (w *Wizard) ToggleService(person int, serviceID string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.complete {
		return false, ErrCompleted
	}
	return w.toggleLocked(person, serviceID)
}

func (w *Wizard) toggleLocked(person int, serviceID string) (bool, error) {
	if person < 0 || person >= len(w.data.PeopleBookings) {
		return false, ErrPersonOutOfRange
	}
	svc, ok := w.services[serviceID]
	if !ok {
		return false, ErrServiceNotOffered
	}

	people := models.ClonePeople(w.data.PeopleBookings)
	p := &people[person]
	selected := true
	idx := -1
	for i, s := range p.Services {
		if s.Service.ID == serviceID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		p.Services = append(p.Services[:idx], p.Services[idx+1:]...)
		selected = false
	} else {
		p.Services = append(p.Services, models.ServiceSelection{Service: svc, Stylist: models.AnyAvailable()})
	}

	total := TotalPrice(people)
	w.mergeLocked(models.BookingUpdate{PeopleBookings: people, TotalPrice: &total})
	return selected, nil
}

// AssignStylist replaces the stylist of one selection. "any" selects any available;
// an empty id clears the assignment.
func (w *Wizard) AssignStylist(person, selection int, stylistID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.complete {
		return ErrCompleted
	}
	if person < 0 || person >= len(w.data.PeopleBookings) {
		return ErrPersonOutOfRange
	}
	if selection < 0 || selection >= len(w.data.PeopleBookings[person].Services) {
		return ErrSelectionOutOfRange
	}

	var choice models.StylistChoice
	switch stylistID {
	case "":
	case models.AnyStylistID:
		choice = models.AnyAvailable()
	default:
		st, ok := w.stylists[stylistID]
		if !ok {
			return ErrUnknownStylist
		}
		choice = models.Specific(st)
	}

	people := models.ClonePeople(w.data.PeopleBookings)
	people[person].Services[selection].Stylist = choice
	total := TotalPrice(people)
	w.mergeLocked(models.BookingUpdate{PeopleBookings: people, TotalPrice: &total})
	return nil
}

// PersonReady is the per-person readiness badge.
func (w *Wizard) PersonReady(index int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if index < 0 || index >= len(w.data.PeopleBookings) {
		return false
	}
	return w.data.PeopleBookings[index].Ready()
}

// PrimaryStylist is the stylist of the first person's first service, used to scope
// the date/time step. ok is false when nothing has been selected yet.
func (w *Wizard) PrimaryStylist() (models.StylistChoice, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return primaryStylist(w.data)
}

func primaryStylist(d models.BookingData) (models.StylistChoice, bool) {
	if len(d.PeopleBookings) == 0 || len(d.PeopleBookings[0].Services) == 0 {
		return models.StylistChoice{}, false
	}
	c := d.PeopleBookings[0].Services[0].Stylist
	return c, c.Assigned()
}
