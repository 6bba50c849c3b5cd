package wizard

import (
	"github.com/Eursukkul/salon-booking-service/internal/models"
)

// UpdateContact merges the contact sub-form into the accumulator on every edit.
func (w *Wizard) UpdateContact(c models.Contact) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.complete {
		return ErrCompleted
	}
	w.mergeLocked(models.BookingUpdate{PrimaryContact: &c})
	return nil
}

type ServiceLine struct {
	ServiceID string `json:"service_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Duration  string `json:"duration"`
	Stylist   string `json:"stylist"`
}

type PersonSummary struct {
	Name     string        `json:"name"`
	Ready    bool          `json:"ready"`
	Services []ServiceLine `json:"services"`
}

// Summary is derived from the accumulator and never stored.
type Summary struct {
	Salon                models.SalonRef `json:"salon"`
	NumberOfPeople       int             `json:"number_of_people"`
	People               []PersonSummary `json:"people"`
	ServiceNames         []string        `json:"service_names"`
	Date                 string          `json:"date,omitempty"`
	Time                 string          `json:"time,omitempty"`
	TotalPrice           float64         `json:"total_price"`
	TotalDurationMinutes int             `json:"total_duration_minutes"`
	Contact              models.Contact  `json:"contact"`
}

func (w *Wizard) Summary() Summary {
	w.mu.Lock()
	d := w.data.Clone()
	w.mu.Unlock()
	return Summarize(d)
}

func Summarize(d models.BookingData) Summary {
	s := Summary{
		Salon:                d.Salon,
		NumberOfPeople:       d.NumberOfPeople,
		People:               make([]PersonSummary, 0, len(d.PeopleBookings)),
		ServiceNames:         []string{},
		Date:                 d.Date,
		Time:                 d.Time,
		TotalPrice:           d.TotalPrice,
		TotalDurationMinutes: TotalDuration(d.PeopleBookings),
		Contact:              d.PrimaryContact,
	}
	for i, p := range d.PeopleBookings {
		ps := PersonSummary{Name: DisplayPersonName(p, i), Ready: p.Ready(), Services: []ServiceLine{}}
		for _, sel := range p.Services {
			ps.Services = append(ps.Services, ServiceLine{
				ServiceID: sel.Service.ID,
				Name:      sel.Service.Name,
				Price:     sel.Service.Price,
				Duration:  sel.Service.Duration,
				Stylist:   sel.Stylist.DisplayName(),
			})
			s.ServiceNames = append(s.ServiceNames, sel.Service.Name)
		}
		s.People = append(s.People, ps)
	}
	return s
}
