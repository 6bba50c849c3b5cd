package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Eursukkul/salon-booking-service/internal/models"
	"github.com/Eursukkul/salon-booking-service/pkg/logging"
)

var (
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrDateOutOfRange  = errors.New("date is outside the booking window")
	ErrSlotUnavailable = errors.New("selected time slot is no longer available")
)

const dateLayout = "2006-01-02"

type BookingReader interface {
	FindBookedIntervals(ctx context.Context, salonID, date string) ([]models.BookedInterval, error)
}

type Request struct {
	SalonID         string
	Date            string
	StylistID       *string
	DurationMinutes int
	StylistCount    int
}

type Service interface {
	Slots(ctx context.Context, req Request) ([]Slot, error)
	CheckSlot(ctx context.Context, req Request, clock string) error
	ParseDay(date string) (time.Time, error)
	Invalidate(ctx context.Context, salonID, date string)
}

type Options struct {
	Location   *time.Location
	WindowDays int
	Now        func() time.Time
	Logger     *zap.Logger
}

type service struct {
	repo       BookingReader
	cache      Cache
	loc        *time.Location
	windowDays int
	now        func() time.Time
	logger     *zap.Logger
}

// NewService builds the availability service. cache may be nil.
func NewService(repo BookingReader, cache Cache, opts Options) Service {
	s := &service{
		repo:       repo,
		cache:      cache,
		loc:        opts.Location,
		windowDays: opts.WindowDays,
		now:        opts.Now,
		logger:     logging.OrNop(opts.Logger).Named("availability"),
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.windowDays <= 0 {
		s.windowDays = 90
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ParseDay validates that date lies between today and today+window, inclusive.
func (s *service) ParseDay(date string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	if day.Before(today) || day.After(today.AddDate(0, 0, s.windowDays)) {
		return time.Time{}, ErrDateOutOfRange
	}
	return day, nil
}

func (s *service) Slots(ctx context.Context, req Request) ([]Slot, error) {
	day, err := s.ParseDay(req.Date)
	if err != nil {
		return nil, err
	}
	booked, err := s.booked(ctx, req.SalonID, req.Date)
	if err != nil {
		return nil, err
	}
	return BuildSlots(s.query(day, req), booked), nil
}

func (s *service) CheckSlot(ctx context.Context, req Request, clock string) error {
	day, err := s.ParseDay(req.Date)
	if err != nil {
		return err
	}
	booked, err := s.booked(ctx, req.SalonID, req.Date)
	if err != nil {
		return err
	}
	if ok, reason := Free(s.query(day, req), booked, clock); !ok {
		return fmt.Errorf("%w: %s", ErrSlotUnavailable, reason)
	}
	return nil
}

func (s *service) Invalidate(ctx context.Context, salonID, date string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, salonID, date); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("salon_id", salonID), zap.String("date", date), zap.Error(err))
	}
}

func (s *service) query(day time.Time, req Request) Query {
	return Query{
		Day:             day,
		StylistID:       req.StylistID,
		DurationMinutes: req.DurationMinutes,
		StylistCount:    req.StylistCount,
		Now:             s.now(),
	}
}

func (s *service) booked(ctx context.Context, salonID, date string) ([]models.BookedInterval, error) {
	if s.cache != nil {
		intervals, ok, err := s.cache.Get(ctx, salonID, date)
		if err != nil {
			s.logger.Warn("cache read failed, falling back to database", zap.Error(err))
		} else if ok {
			return intervals, nil
		}
	}

	intervals, err := s.repo.FindBookedIntervals(ctx, salonID, date)
	if err != nil {
		return nil, fmt.Errorf("load booked intervals: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, salonID, date, intervals); err != nil {
			s.logger.Warn("cache write failed", zap.Error(err))
		}
	}
	return intervals, nil
}
