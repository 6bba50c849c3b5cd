package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Salon struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Slug         string    `gorm:"uniqueIndex;not null" json:"slug"`
	Name         string    `gorm:"not null" json:"name"`
	Tagline      *string   `json:"tagline,omitempty"`
	BookingEmail *string   `json:"booking_email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
	WorkingHours *string   `json:"working_hours,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Service is a salon offering. Price and Duration are display strings ("From $85", "45 min").
type Service struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID     string    `gorm:"type:uuid;not null;index" json:"salon_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       string    `gorm:"not null" json:"price"`
	Duration    string    `gorm:"not null" json:"duration"`
	Popular     bool      `gorm:"not null;default:false" json:"popular"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Stylist struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	SalonID      string    `gorm:"type:uuid;not null;index" json:"salon_id"`
	Name         string    `gorm:"not null" json:"name"`
	Title        *string   `json:"title,omitempty"`
	Specialties  []string  `gorm:"serializer:json" json:"specialties"`
	Availability string    `json:"availability"`
	Bio          *string   `json:"bio,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SalonRef is the slice of a salon the booking flow needs.
type SalonRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Salon) Ref() SalonRef {
	return SalonRef{ID: s.ID, Name: s.Name}
}

// Catalog is the data a booking session is opened with; it is read-only for the session.
type Catalog struct {
	Salon    Salon
	Services []Service
	Stylists []Stylist
}

func (s *Salon) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (s *Service) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (s *Stylist) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
