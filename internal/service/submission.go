package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Eursukkul/salon-booking-service/internal/availability"
	"github.com/Eursukkul/salon-booking-service/internal/metrics"
	"github.com/Eursukkul/salon-booking-service/internal/models"
	"github.com/Eursukkul/salon-booking-service/internal/repository"
	"github.com/Eursukkul/salon-booking-service/internal/validation"
	"github.com/Eursukkul/salon-booking-service/internal/wizard"
	"github.com/Eursukkul/salon-booking-service/pkg/logging"
)

// Publisher is satisfied by *rabbitmq.Publisher.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// AnyStylistHeaderName is stored on rows booked with "any available".
const AnyStylistHeaderName = "Any Available"

type SubmissionService interface {
	Submit(ctx context.Context, catalog models.Catalog, data models.BookingData) (*models.Booking, error)
}

type SubmissionDeps struct {
	Bookings     repository.BookingRepository
	Availability availability.Service
	Validator    *validation.Validator
	Confirmation ConfirmationGenerator
	Publisher    Publisher
	Metrics      *metrics.BookingMetrics
	Logger       *zap.Logger
	Now          func() time.Time
}

type submissionService struct {
	bookings  repository.BookingRepository
	avail     availability.Service
	validator *validation.Validator
	confirm   ConfirmationGenerator
	publisher Publisher
	metrics   *metrics.BookingMetrics
	logger    *zap.Logger
	now       func() time.Time
}

func NewSubmissionService(deps SubmissionDeps) SubmissionService {
	s := &submissionService{
		bookings:  deps.Bookings,
		avail:     deps.Availability,
		validator: deps.Validator,
		confirm:   deps.Confirmation,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		logger:    logging.OrNop(deps.Logger).Named("submission"),
		now:       deps.Now,
	}
	if s.validator == nil {
		s.validator = validation.New()
	}
	if s.confirm == nil {
		s.confirm = NewConfirmationGenerator(ConfirmationRemote, deps.Bookings)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Submit validates data and persists the header, people and service rows in one
// transaction. Nothing is written unless every check passes.
func (s *submissionService) Submit(ctx context.Context, catalog models.Catalog, data models.BookingData) (*models.Booking, error) {
	started := s.now()
	booking, err := s.submit(ctx, catalog, data)
	s.metrics.ObserveSubmission(outcome(err), s.now().Sub(started).Seconds())
	return booking, err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "confirmed"
	case errors.Is(err, ErrSlotUnavailable):
		return "slot_taken"
	case errors.Is(err, ErrBookingFailed):
		return "failed"
	default:
		return "invalid"
	}
}

func (s *submissionService) submit(ctx context.Context, catalog models.Catalog, data models.BookingData) (*models.Booking, error) {
	if data.Salon.ID == "" || data.Date == "" || data.Time == "" {
		return nil, ErrMissingBookingInfo
	}
	c := data.PrimaryContact
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.Phone) == "" {
		return nil, ErrMissingContact
	}

	if len(data.PeopleBookings) == 0 {
		return nil, ErrIncompleteBooking
	}
	for _, p := range data.PeopleBookings {
		if !p.Ready() {
			return nil, ErrIncompleteBooking
		}
	}

	contact := validation.SanitizeContact(c)
	total := wizard.TotalPrice(data.PeopleBookings)
	if err := s.validator.ValidateBooking(validation.BookingInput{
		CustomerName:  contact.Name,
		CustomerEmail: contact.Email,
		CustomerPhone: contact.Phone,
		BookingDate:   data.Date,
		TotalPrice:    total,
	}); err != nil {
		return nil, err
	}

	day, err := s.avail.ParseDay(data.Date)
	if err != nil {
		return nil, err
	}

	header := buildHeader(data, contact, total)
	people := buildPeople(data.PeopleBookings)

	err = s.bookings.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Serialise submissions for this salon and day
		if err := s.bookings.LockSalonDate(ctx, tx, data.Salon.ID, data.Date); err != nil {
			return fmt.Errorf("%w: lock: %v", ErrBookingFailed, err)
		}

		// 2. Re-check every stylist this booking occupies
		booked, err := s.bookings.FindBookedIntervalsTx(ctx, tx, data.Salon.ID, data.Date)
		if err != nil {
			return fmt.Errorf("%w: load bookings: %v", ErrBookingFailed, err)
		}
		if err := s.checkSlots(day, data, len(catalog.Stylists), booked); err != nil {
			return err
		}

		// 3. Confirmation number
		number, err := s.confirm.Generate(ctx, tx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBookingFailed, err)
		}
		header.ConfirmationNumber = number

		// 4. Header, then people and their services
		if err := s.bookings.CreateBooking(ctx, tx, header); err != nil {
			return fmt.Errorf("%w: insert booking: %v", ErrBookingFailed, err)
		}
		for i := range people {
			people[i].BookingID = header.ID
			if err := s.bookings.CreatePerson(ctx, tx, &people[i]); err != nil {
				return fmt.Errorf("%w: insert person %d: %v", ErrBookingFailed, i+1, err)
			}
			for j := range people[i].Services {
				row := &people[i].Services[j]
				row.BookingPeopleID = people[i].ID
				if err := s.bookings.CreateServiceRow(ctx, tx, row); err != nil {
					return fmt.Errorf("%w: insert service: %v", ErrBookingFailed, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) || errors.Is(err, ErrBookingFailed) {
			s.logger.Warn("booking submission rejected", zap.String("salon_id", data.Salon.ID), zap.Error(err))
			return nil, err
		}
		s.logger.Error("booking transaction failed", zap.String("salon_id", data.Salon.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}

	header.People = people
	s.avail.Invalidate(ctx, data.Salon.ID, data.Date)
	s.publish(header, catalog)

	s.logger.Info("booking confirmed",
		zap.String("confirmation", header.ConfirmationNumber),
		zap.String("salon_id", header.SalonID),
		zap.String("date", header.BookingDate),
		zap.String("time", header.BookingTime),
	)
	return header, nil
}

// pendingBookingID marks intervals claimed by the booking being checked.
const pendingBookingID = "pending"

// checkSlots verifies every named stylist is free, then that enough stylists remain
// for each "any available" guest once the named ones are taken.
func (s *submissionService) checkSlots(day time.Time, data models.BookingData, stylistCount int, booked []models.BookedInterval) error {
	now := s.now()
	query := func(id *string, duration int) availability.Query {
		return availability.Query{
			Day:             day,
			StylistID:       id,
			DurationMinutes: duration,
			StylistCount:    stylistCount,
			Now:             now,
		}
	}

	claimed := append([]models.BookedInterval(nil), booked...)
	seen := map[string]bool{}
	for _, sel := range data.FlatServices() {
		st, ok := sel.Stylist.Stylist()
		if !ok || seen[st.ID] {
			continue
		}
		seen[st.ID] = true

		id := st.ID
		q := query(&id, wizard.StylistDuration(data.PeopleBookings, &id))
		if ok, reason := availability.Free(q, booked, data.Time); !ok {
			return fmt.Errorf("%w: %s with %s", ErrSlotUnavailable, reason, st.Name)
		}
		claimed = append(claimed, models.BookedInterval{
			BookingID:       pendingBookingID,
			StylistID:       &id,
			BookingTime:     data.Time,
			DurationMinutes: q.DurationMinutes,
		})
	}

	for i, dur := range anyGuestDurations(data.PeopleBookings) {
		if ok, reason := availability.Free(query(nil, dur), claimed, data.Time); !ok {
			return fmt.Errorf("%w: %s with %s", ErrSlotUnavailable, reason, models.AnyStylistName)
		}
		claimed = append(claimed, models.BookedInterval{
			BookingID:       fmt.Sprintf("%s-any-%d", pendingBookingID, i),
			BookingTime:     data.Time,
			DurationMinutes: dur,
		})
	}
	return nil
}

// anyGuestDurations lists, per person with at least one "any available" service,
// the minutes those services take. Each such person needs a stylist of their own.
func anyGuestDurations(people []models.PersonBooking) []int {
	var out []int
	for _, p := range people {
		total := 0
		for _, sel := range p.Services {
			if sel.Stylist.IsAny() {
				total += wizard.ParseDurationMinutes(sel.Service.Duration)
			}
		}
		if total > 0 {
			out = append(out, total)
		}
	}
	return out
}

// publish is fire-and-forget: a broker failure never fails a committed booking.
func (s *submissionService) publish(b *models.Booking, catalog models.Catalog) {
	if s.publisher == nil {
		return
	}
	evt := models.BookingConfirmedEvent{
		Booking:    *b,
		SalonName:  catalog.Salon.Name,
		SalonEmail: catalog.Salon.BookingEmail,
	}
	if err := s.publisher.Publish(models.RoutingBookingConfirmed, evt); err != nil {
		s.logger.Warn("publish booking.confirmed failed", zap.String("confirmation", b.ConfirmationNumber), zap.Error(err))
	}
}

func stylistName(c models.StylistChoice) string {
	if st, ok := c.Stylist(); ok {
		return st.Name
	}
	return AnyStylistHeaderName
}

// buildHeader takes the first person's first service as the best-effort primary stylist.
func buildHeader(data models.BookingData, contact models.Contact, total float64) *models.Booking {
	first := data.PeopleBookings[0].Services[0].Stylist

	var snapshots []models.BookedServiceSnapshot
	for _, sel := range data.FlatServices() {
		snapshots = append(snapshots, models.BookedServiceSnapshot{
			ID:       sel.Service.ID,
			Name:     sel.Service.Name,
			Price:    sel.Service.Price,
			Duration: sel.Service.Duration,
		})
	}

	var notes *string
	if contact.Notes != "" {
		notes = &contact.Notes
	}

	return &models.Booking{
		SalonID:         data.Salon.ID,
		CustomerName:    contact.Name,
		CustomerEmail:   contact.Email,
		CustomerPhone:   contact.Phone,
		CustomerNotes:   notes,
		BookingDate:     data.Date,
		BookingTime:     data.Time,
		DurationMinutes: wizard.StylistDuration(data.PeopleBookings, first.StylistID()),
		StylistID:       first.StylistID(),
		StylistName:     stylistName(first),
		Services:        snapshots,
		TotalPrice:      total,
		NumberOfPeople:  len(data.PeopleBookings),
		Status:          models.StatusPending,
	}
}

func buildPeople(people []models.PersonBooking) []models.BookingPerson {
	out := make([]models.BookingPerson, 0, len(people))
	for i, p := range people {
		person := models.BookingPerson{
			PersonName:  wizard.DisplayPersonName(p, i),
			PersonOrder: i + 1,
		}
		for _, sel := range p.Services {
			person.Services = append(person.Services, models.BookingServiceRow{
				ServiceID:       sel.Service.ID,
				ServiceName:     sel.Service.Name,
				ServicePrice:    sel.Service.Price,
				ServiceDuration: sel.Service.Duration,
				DurationMinutes: wizard.ParseDurationMinutes(sel.Service.Duration),
				StylistID:       sel.Stylist.StylistID(),
				StylistName:     stylistName(sel.Stylist),
			})
		}
		out = append(out, person)
	}
	return out
}
