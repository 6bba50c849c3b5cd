package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// InactiveStatuses never occupy a stylist's time.
var InactiveStatuses = []BookingStatus{StatusCancelled, StatusNoShow}

// BookedServiceSnapshot is the denormalised service entry stored on the booking header.
type BookedServiceSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Duration string `json:"duration"`
}

// Booking is the header row. StylistID/StylistName hold the first person's first
// service choice only: a best-effort primary stylist, not authoritative.
type Booking struct {
	ID                 string                  `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID            string                  `gorm:"type:uuid;not null;index:idx_bookings_salon_date" json:"salon_id"`
	ConfirmationNumber string                  `gorm:"uniqueIndex;not null" json:"confirmation_number"`
	CustomerName       string                  `gorm:"not null" json:"customer_name"`
	CustomerEmail      string                  `gorm:"not null" json:"customer_email"`
	CustomerPhone      string                  `gorm:"not null" json:"customer_phone"`
	CustomerNotes      *string                 `json:"customer_notes,omitempty"`
	BookingDate        string                  `gorm:"type:varchar(10);not null;index:idx_bookings_salon_date" json:"booking_date"`
	BookingTime        string                  `gorm:"type:varchar(5);not null" json:"booking_time"`
	DurationMinutes    int                     `gorm:"not null" json:"duration_minutes"`
	StylistID          *string                 `gorm:"type:uuid" json:"stylist_id,omitempty"`
	StylistName        string                  `gorm:"not null" json:"stylist_name"`
	Services           []BookedServiceSnapshot `gorm:"serializer:json;type:jsonb;not null" json:"services"`
	TotalPrice         float64                 `gorm:"not null" json:"total_price"`
	NumberOfPeople     int                     `gorm:"not null" json:"number_of_people"`
	Status             BookingStatus           `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`

	People []BookingPerson `gorm:"foreignKey:BookingID" json:"people,omitempty"`
}

type BookingPerson struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID   string    `gorm:"type:uuid;not null;index" json:"booking_id"`
	PersonName  string    `gorm:"not null" json:"person_name"`
	PersonOrder int       `gorm:"not null" json:"person_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Services []BookingServiceRow `gorm:"foreignKey:BookingPeopleID" json:"services,omitempty"`
}

func (BookingPerson) TableName() string { return "booking_people" }

// BookingServiceRow copies service and stylist names so the booking survives catalogue edits.
type BookingServiceRow struct {
	ID              string    `gorm:"type:uuid;primaryKey" json:"id"`
	BookingPeopleID string    `gorm:"type:uuid;not null;index" json:"booking_people_id"`
	ServiceID       string    `gorm:"type:uuid;not null" json:"service_id"`
	ServiceName     string    `gorm:"not null" json:"service_name"`
	ServicePrice    string    `gorm:"not null" json:"service_price"`
	ServiceDuration string    `gorm:"not null" json:"service_duration"`
	DurationMinutes int       `gorm:"not null;default:60" json:"duration_minutes"`
	StylistID       *string   `gorm:"type:uuid;index" json:"stylist_id,omitempty"`
	StylistName     string    `gorm:"not null" json:"stylist_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (BookingServiceRow) TableName() string { return "booking_services" }

func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (p *BookingPerson) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (r *BookingServiceRow) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// BookedInterval is one stylist occupancy derived from an active booking.
// A nil StylistID means the booking was taken with "any available".
type BookedInterval struct {
	BookingID       string  `json:"booking_id"`
	StylistID       *string `json:"stylist_id"`
	BookingTime     string  `json:"booking_time"`
	DurationMinutes int     `json:"duration_minutes"`
}
