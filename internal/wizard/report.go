package wizard

import (
	"fmt"
	"strings"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

type Rule struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// DisplayPersonName falls back to "Person N" for unnamed guests.
func DisplayPersonName(p models.PersonBooking, index int) string {
	if name := strings.TrimSpace(p.PersonName); name != "" {
		return name
	}
	return fmt.Sprintf("Person %d", index+1)
}

// Report lists the checks for every step up to and including the current one.
func (w *Wizard) Report() []Rule {
	w.mu.Lock()
	d := w.data.Clone()
	step := w.step
	w.mu.Unlock()

	var rules []Rule
	add := func(id, label string, ok bool, pass, fail string) {
		msg := fail
		if ok {
			msg = pass
		}
		rules = append(rules, Rule{ID: id, Label: label, Valid: ok, Message: msg})
	}

	add("people-count", "Number of people selected", d.NumberOfPeople > 0,
		fmt.Sprintf("%d people", d.NumberOfPeople), "Please select number of people")
	if d.NumberOfPeople > 1 {
		add("people-names", "All people named", peopleStepDone(d),
			"All people have names", "Please name all people")
	}
	if step >= StepServices {
		hasServices, hasStylists := true, true
		for _, p := range d.PeopleBookings {
			if len(p.Services) == 0 {
				hasServices = false
			}
			for _, s := range p.Services {
				if !s.Stylist.Assigned() {
					hasStylists = false
				}
			}
		}
		add("services-selected", "Services selected", hasServices,
			"All people have services", "Please select services for all people")
		add("stylists-assigned", "Stylists assigned", hasStylists,
			"All services have stylists", "Please assign stylists to all services")
	}
	if step >= StepDateTime {
		add("date-selected", "Date selected", d.Date != "", d.Date, "Please select a date")
		add("time-selected", "Time selected", d.Time != "", d.Time, "Please select a time")
	}
	if step >= StepConfirm {
		c := d.PrimaryContact
		add("contact-info", "Contact information", c.Name != "" && c.Email != "" && c.Phone != "",
			"Contact information complete", "Please fill in all contact fields")
	}
	return rules
}
