package models

// ServiceSelection is one service chosen for a person with its stylist choice.
type ServiceSelection struct {
	Service Service       `json:"service"`
	Stylist StylistChoice `json:"stylist"`
}

type PersonBooking struct {
	PersonName string             `json:"person_name"`
	Services   []ServiceSelection `json:"services"`
}

// Ready reports whether the person has at least one service and every service has a stylist.
func (p PersonBooking) Ready() bool {
	if len(p.Services) == 0 {
		return false
	}
	for _, s := range p.Services {
		if !s.Stylist.Assigned() {
			return false
		}
	}
	return true
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

// BookingData is the wizard's accumulator. Date is "YYYY-MM-DD", Time is "HH:MM".
type BookingData struct {
	Salon          SalonRef        `json:"salon"`
	NumberOfPeople int             `json:"number_of_people"`
	PeopleBookings []PersonBooking `json:"people_bookings"`
	Date           string          `json:"date,omitempty"`
	Time           string          `json:"time,omitempty"`
	TotalPrice     float64         `json:"total_price"`
	PrimaryContact Contact         `json:"primary_contact"`
}

// BookingUpdate is a partial BookingData; nil fields are left untouched by a merge.
type BookingUpdate struct {
	NumberOfPeople *int
	PeopleBookings []PersonBooking
	Date           *string
	Time           *string
	TotalPrice     *float64
	PrimaryContact *Contact
}

// Clone returns a deep copy so callers cannot mutate the accumulator through shared slices.
func (d BookingData) Clone() BookingData {
	out := d
	out.PeopleBookings = ClonePeople(d.PeopleBookings)
	return out
}

func ClonePeople(people []PersonBooking) []PersonBooking {
	if people == nil {
		return nil
	}
	out := make([]PersonBooking, len(people))
	for i, p := range people {
		out[i] = PersonBooking{PersonName: p.PersonName}
		if p.Services != nil {
			out[i].Services = append([]ServiceSelection(nil), p.Services...)
		}
	}
	return out
}

// FlatServices lists every selected service across all people, in person order.
func (d BookingData) FlatServices() []ServiceSelection {
	var out []ServiceSelection
	for _, p := range d.PeopleBookings {
		out = append(out, p.Services...)
	}
	return out
}
