package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Eursukkul/salon-booking-service/internal/availability"
	"github.com/Eursukkul/salon-booking-service/internal/metrics"
	"github.com/Eursukkul/salon-booking-service/internal/models"
	"github.com/Eursukkul/salon-booking-service/internal/repository"
	"github.com/Eursukkul/salon-booking-service/internal/wizard"
	"github.com/Eursukkul/salon-booking-service/pkg/logging"
)

// BookingService drives booking sessions for the HTTP layer: it opens wizards for a
// salon, answers availability questions and hands finished wizards to the submission pipeline.
type BookingService interface {
	Catalog(ctx context.Context, slug string) (*models.Catalog, error)
	Availability(ctx context.Context, slug, date, stylistID string, durationMinutes int) ([]availability.Slot, error)
	OpenSession(ctx context.Context, slug, preselectedServiceID string) (string, *wizard.Wizard, error)
	Session(id string) (*wizard.Wizard, error)
	CloseSession(id string) error
	SessionSlots(ctx context.Context, id, date string) ([]availability.Slot, error)
	SelectTime(ctx context.Context, id, clock string) error
	Submit(ctx context.Context, id string) (*models.Booking, error)
	FindBooking(ctx context.Context, confirmation string) (*models.Booking, error)
}

type BookingServiceDeps struct {
	Salons       repository.SalonRepository
	Bookings     repository.BookingRepository
	Availability availability.Service
	Submission   SubmissionService
	Sessions     *wizard.Store
	ResetDelay   time.Duration
	Metrics      *metrics.BookingMetrics
	Logger       *zap.Logger
}

type bookingService struct {
	salons     repository.SalonRepository
	bookings   repository.BookingRepository
	avail      availability.Service
	submission SubmissionService
	sessions   *wizard.Store
	resetDelay time.Duration
	metrics    *metrics.BookingMetrics
	logger     *zap.Logger

	mu         sync.Mutex
	submitting map[string]bool
}

func NewBookingService(deps BookingServiceDeps) BookingService {
	return &bookingService{
		salons:     deps.Salons,
		bookings:   deps.Bookings,
		avail:      deps.Availability,
		submission: deps.Submission,
		sessions:   deps.Sessions,
		resetDelay: deps.ResetDelay,
		metrics:    deps.Metrics,
		logger:     logging.OrNop(deps.Logger).Named("booking"),
		submitting: make(map[string]bool),
	}
}

func (s *bookingService) Catalog(ctx context.Context, slug string) (*models.Catalog, error) {
	salon, err := s.salons.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalonNotFound
		}
		return nil, fmt.Errorf("find salon: %w", err)
	}
	services, err := s.salons.ListServices(ctx, salon.ID)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	stylists, err := s.salons.ListStylists(ctx, salon.ID)
	if err != nil {
		return nil, fmt.Errorf("list stylists: %w", err)
	}
	return &models.Catalog{Salon: *salon, Services: services, Stylists: stylists}, nil
}

// Availability lists slots for a salon without a session. An empty or "any" stylist
// id asks for any available stylist.
func (s *bookingService) Availability(ctx context.Context, slug, date, stylistID string, durationMinutes int) ([]availability.Slot, error) {
	catalog, err := s.Catalog(ctx, slug)
	if err != nil {
		return nil, err
	}

	req := availability.Request{
		SalonID:         catalog.Salon.ID,
		Date:            date,
		DurationMinutes: durationMinutes,
		StylistCount:    len(catalog.Stylists),
	}
	if stylistID != "" && stylistID != models.AnyStylistID {
		known := false
		for _, st := range catalog.Stylists {
			if st.ID == stylistID {
				known = true
				break
			}
		}
		if !known {
			return nil, wizard.ErrUnknownStylist
		}
		req.StylistID = &stylistID
	}

	s.metrics.ObserveSlotLookup(req.StylistID == nil)
	return s.avail.Slots(ctx, req)
}

func (s *bookingService) OpenSession(ctx context.Context, slug, preselectedServiceID string) (string, *wizard.Wizard, error) {
	catalog, err := s.Catalog(ctx, slug)
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	w, err := wizard.New(*catalog, wizard.Options{
		ResetDelay: s.resetDelay,
		DateCheck: func(date string) error {
			_, err := s.avail.ParseDay(date)
			return err
		},
		PreselectedServiceID: preselectedServiceID,
		OnBookingComplete: func() {
			s.logger.Info("booking wizard completed", zap.String("session_id", id))
		},
		OnClose: func() {
			s.sessions.Remove(id)
		},
	})
	if err != nil {
		return "", nil, err
	}
	s.sessions.Put(id, w)

	s.metrics.ObserveSessionOpened()
	s.logger.Debug("booking session opened", zap.String("session_id", id), zap.String("salon", slug))
	return id, w, nil
}

func (s *bookingService) Session(id string) (*wizard.Wizard, error) {
	return s.sessions.Get(id)
}

func (s *bookingService) CloseSession(id string) error {
	return s.sessions.Close(id)
}

// SessionSlots scopes the grid to the session's primary stylist and booked duration.
func (s *bookingService) SessionSlots(ctx context.Context, id, date string) ([]availability.Slot, error) {
	w, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	req := w.SlotRequest(date)
	s.metrics.ObserveSlotLookup(req.StylistID == nil)
	return s.avail.Slots(ctx, req)
}

// SelectTime rejects a time that is already taken before storing it on the wizard.
// The time is dropped if the date or stylist changed while it was being checked.
func (s *bookingService) SelectTime(ctx context.Context, id, clock string) error {
	w, err := s.sessions.Get(id)
	if err != nil {
		return err
	}
	date := w.Data().Date
	if date == "" {
		return wizard.ErrDateRequired
	}
	req := w.SlotRequest(date)
	if err := s.avail.CheckSlot(ctx, req, clock); err != nil {
		return err
	}
	return w.SelectCheckedTime(req, clock)
}

func (s *bookingService) Submit(ctx context.Context, id string) (*models.Booking, error) {
	w, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if w.Completed() {
		return nil, wizard.ErrCompleted
	}

	s.mu.Lock()
	if s.submitting[id] {
		s.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	s.submitting[id] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.submitting, id)
		s.mu.Unlock()
	}()

	booking, err := s.submission.Submit(ctx, w.Catalog(), w.Data())
	if err != nil {
		return nil, err
	}
	if err := w.Complete(); err != nil {
		s.logger.Warn("wizard already completed", zap.String("session_id", id), zap.Error(err))
	}
	return booking, nil
}

func (s *bookingService) FindBooking(ctx context.Context, confirmation string) (*models.Booking, error) {
	b, err := s.bookings.FindByConfirmationNumber(ctx, confirmation)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return b, nil
}
