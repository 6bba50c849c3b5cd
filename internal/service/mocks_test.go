package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	db *gorm.DB

	intervalsFn  func(ctx context.Context, salonID, date string) ([]models.BookedInterval, error)
	lockFn       func(ctx context.Context, tx *gorm.DB, salonID, date string) error
	confirmFn    func(ctx context.Context, tx *gorm.DB) (string, error)
	createFn     func(ctx context.Context, tx *gorm.DB, b *models.Booking) error
	personFn     func(ctx context.Context, tx *gorm.DB, p *models.BookingPerson) error
	serviceRowFn func(ctx context.Context, tx *gorm.DB, r *models.BookingServiceRow) error
	findFn       func(ctx context.Context, number string) (*models.Booking, error)

	mu          sync.Mutex
	bookings    int
	people      int
	serviceRows int
}

func (m *mockBookingRepo) FindBookedIntervals(ctx context.Context, salonID, date string) ([]models.BookedInterval, error) {
	if m.intervalsFn != nil {
		return m.intervalsFn(ctx, salonID, date)
	}
	return nil, nil
}
func (m *mockBookingRepo) FindBookedIntervalsTx(ctx context.Context, _ *gorm.DB, salonID, date string) ([]models.BookedInterval, error) {
	return m.FindBookedIntervals(ctx, salonID, date)
}
func (m *mockBookingRepo) LockSalonDate(ctx context.Context, tx *gorm.DB, salonID, date string) error {
	if m.lockFn != nil {
		return m.lockFn(ctx, tx, salonID, date)
	}
	return nil
}
func (m *mockBookingRepo) GenerateConfirmationNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	if m.confirmFn != nil {
		return m.confirmFn(ctx, tx)
	}
	return "BK000001AA", nil
}
func (m *mockBookingRepo) CreateBooking(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, tx, b); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings++
	b.ID = "booking-1"
	return nil
}
func (m *mockBookingRepo) CreatePerson(ctx context.Context, tx *gorm.DB, p *models.BookingPerson) error {
	if m.personFn != nil {
		if err := m.personFn(ctx, tx, p); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.people++
	p.ID = "person-" + p.PersonName
	return nil
}
func (m *mockBookingRepo) CreateServiceRow(ctx context.Context, tx *gorm.DB, r *models.BookingServiceRow) error {
	if m.serviceRowFn != nil {
		if err := m.serviceRowFn(ctx, tx, r); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.serviceRows++
	return nil
}
func (m *mockBookingRepo) FindByConfirmationNumber(ctx context.Context, number string) (*models.Booking, error) {
	return m.findFn(ctx, number)
}
func (m *mockBookingRepo) GetDB() *gorm.DB { return m.db }

func (m *mockBookingRepo) inserts() (int, int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings, m.people, m.serviceRows
}

// --- Mock SalonRepository ---

type mockSalonRepo struct {
	findBySlugFn func(ctx context.Context, slug string) (*models.Salon, error)
	services     []models.Service
	stylists     []models.Stylist
}

func (m *mockSalonRepo) FindBySlug(ctx context.Context, slug string) (*models.Salon, error) {
	return m.findBySlugFn(ctx, slug)
}
func (m *mockSalonRepo) ListServices(context.Context, string) ([]models.Service, error) {
	return m.services, nil
}
func (m *mockSalonRepo) ListStylists(context.Context, string) ([]models.Stylist, error) {
	return m.stylists, nil
}

// --- Mock Publisher ---

type mockPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (m *mockPublisher) Publish(routingKey string, _ any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, routingKey)
	return m.err
}

// --- Fixtures ---

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func nowFn() time.Time { return fixedNow }

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func sampleCatalog() models.Catalog {
	return models.Catalog{
		Salon: models.Salon{ID: "salon-1", Slug: "glow", Name: "Glow Studio"},
		Services: []models.Service{
			{ID: "color", SalonID: "salon-1", Name: "Color", Price: "From $85", Duration: "2 hours"},
			{ID: "cut", SalonID: "salon-1", Name: "Haircut", Price: "$45", Duration: "45 min"},
		},
		Stylists: []models.Stylist{
			{ID: "jane", SalonID: "salon-1", Name: "Jane"},
			{ID: "sam", SalonID: "salon-1", Name: "Sam"},
		},
	}
}
