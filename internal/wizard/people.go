package wizard

import (
	"strings"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

const (
	MinPeople = 1
	MaxPeople = 6
)

func peopleStepDone(d models.BookingData) bool {
	if d.NumberOfPeople <= 0 {
		return false
	}
	if d.NumberOfPeople == 1 {
		return true
	}
	for _, p := range d.PeopleBookings {
		if strings.TrimSpace(p.PersonName) == "" {
			return false
		}
	}
	return true
}

// SetNumberOfPeople clamps n to 1..6 and grows or truncates the people list at the
// end; existing entries keep their index. Returns the applied count.
func (w *Wizard) SetNumberOfPeople(n int) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.complete {
		return w.data.NumberOfPeople, ErrCompleted
	}

	if n < MinPeople {
		n = MinPeople
	}
	if n > MaxPeople {
		n = MaxPeople
	}

	people := models.ClonePeople(w.data.PeopleBookings)
	for len(people) < n {
		people = append(people, models.PersonBooking{})
	}
	people = people[:n]

	total := TotalPrice(people)
	w.mergeLocked(models.BookingUpdate{NumberOfPeople: &n, PeopleBookings: people, TotalPrice: &total})
	if w.activePerson >= n {
		w.activePerson = n - 1
	}
	return n, nil
}

func (w *Wizard) SetPersonName(index int, name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.complete {
		return ErrCompleted
	}
	if index < 0 || index >= len(w.data.PeopleBookings) {
		return ErrPersonOutOfRange
	}
	people := models.ClonePeople(w.data.PeopleBookings)
	people[index].PersonName = name
	w.mergeLocked(models.BookingUpdate{PeopleBookings: people})
	return nil
}
