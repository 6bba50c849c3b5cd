package dto

import (
	"time"

	"github.com/Eursukkul/salon-booking-service/internal/availability"
	"github.com/Eursukkul/salon-booking-service/internal/models"
	"github.com/Eursukkul/salon-booking-service/internal/wizard"
)

type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type CatalogResponse struct {
	Salon    models.Salon           `json:"salon"`
	Services []models.Service       `json:"services"`
	Stylists []wizard.StylistOption `json:"stylists"`
}

func ToCatalogResponse(c *models.Catalog) CatalogResponse {
	services := c.Services
	if services == nil {
		services = []models.Service{}
	}
	return CatalogResponse{
		Salon:    c.Salon,
		Services: services,
		Stylists: wizard.StylistOptions(c.Stylists),
	}
}

type SlotsResponse struct {
	Date  string              `json:"date"`
	Slots []availability.Slot `json:"slots"`
}

type SessionResponse struct {
	ID           string             `json:"id"`
	Step         int                `json:"step"`
	StepName     string             `json:"step_name"`
	CanProceed   bool               `json:"can_proceed"`
	Completed    bool               `json:"completed"`
	ActivePerson int                `json:"active_person"`
	PersonReady  []bool             `json:"person_ready"`
	Data         models.BookingData `json:"data"`
	Summary      wizard.Summary     `json:"summary"`
	Validation   []wizard.Rule      `json:"validation"`
}

func ToSessionResponse(id string, w *wizard.Wizard) SessionResponse {
	step := w.Step()
	data := w.Data()
	ready := make([]bool, len(data.PeopleBookings))
	for i, p := range data.PeopleBookings {
		ready[i] = p.Ready()
	}
	return SessionResponse{
		ID:           id,
		Step:         int(step),
		StepName:     step.String(),
		CanProceed:   w.CanProceed(step),
		Completed:    w.Completed(),
		ActivePerson: w.ActivePerson(),
		PersonReady:  ready,
		Data:         data,
		Summary:      wizard.Summarize(data),
		Validation:   w.Report(),
	}
}

type BookedServiceResponse struct {
	ServiceID   string  `json:"service_id"`
	Name        string  `json:"name"`
	Price       string  `json:"price"`
	Duration    string  `json:"duration"`
	StylistID   *string `json:"stylist_id"`
	StylistName string  `json:"stylist_name"`
}

type BookedPersonResponse struct {
	Name     string                  `json:"name"`
	Order    int                     `json:"order"`
	Services []BookedServiceResponse `json:"services"`
}

type BookingResponse struct {
	ID                 string                 `json:"id"`
	ConfirmationNumber string                 `json:"confirmation_number"`
	SalonID            string                 `json:"salon_id"`
	CustomerName       string                 `json:"customer_name"`
	CustomerEmail      string                 `json:"customer_email"`
	CustomerPhone      string                 `json:"customer_phone"`
	CustomerNotes      *string                `json:"customer_notes,omitempty"`
	BookingDate        string                 `json:"booking_date"`
	BookingTime        string                 `json:"booking_time"`
	DurationMinutes    int                    `json:"duration_minutes"`
	StylistID          *string                `json:"stylist_id"`
	StylistName        string                 `json:"stylist_name"`
	TotalPrice         float64                `json:"total_price"`
	NumberOfPeople     int                    `json:"number_of_people"`
	Status             models.BookingStatus   `json:"status"`
	People             []BookedPersonResponse `json:"people"`
	CreatedAt          time.Time              `json:"created_at"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	people := make([]BookedPersonResponse, 0, len(b.People))
	for _, p := range b.People {
		person := BookedPersonResponse{Name: p.PersonName, Order: p.PersonOrder, Services: []BookedServiceResponse{}}
		for _, s := range p.Services {
			person.Services = append(person.Services, BookedServiceResponse{
				ServiceID:   s.ServiceID,
				Name:        s.ServiceName,
				Price:       s.ServicePrice,
				Duration:    s.ServiceDuration,
				StylistID:   s.StylistID,
				StylistName: s.StylistName,
			})
		}
		people = append(people, person)
	}
	return BookingResponse{
		ID:                 b.ID,
		ConfirmationNumber: b.ConfirmationNumber,
		SalonID:            b.SalonID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		CustomerNotes:      b.CustomerNotes,
		BookingDate:        b.BookingDate,
		BookingTime:        b.BookingTime,
		DurationMinutes:    b.DurationMinutes,
		StylistID:          b.StylistID,
		StylistName:        b.StylistName,
		TotalPrice:         b.TotalPrice,
		NumberOfPeople:     b.NumberOfPeople,
		Status:             b.Status,
		People:             people,
		CreatedAt:          b.CreatedAt,
	}
}
