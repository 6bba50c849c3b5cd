package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

type BookingRepository interface {
	FindBookedIntervals(ctx context.Context, salonID, date string) ([]models.BookedInterval, error)
	FindBookedIntervalsTx(ctx context.Context, tx *gorm.DB, salonID, date string) ([]models.BookedInterval, error)
	LockSalonDate(ctx context.Context, tx *gorm.DB, salonID, date string) error
	GenerateConfirmationNumber(ctx context.Context, tx *gorm.DB) (string, error)
	CreateBooking(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	CreatePerson(ctx context.Context, tx *gorm.DB, person *models.BookingPerson) error
	CreateServiceRow(ctx context.Context, tx *gorm.DB, row *models.BookingServiceRow) error
	FindByConfirmationNumber(ctx context.Context, number string) (*models.Booking, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

// One interval per (booking, stylist). Rows chosen with "any available" have a NULL stylist_id.
const bookedIntervalsSQL = `
SELECT b.id AS booking_id,
       bs.stylist_id AS stylist_id,
       b.booking_time AS booking_time,
       SUM(bs.duration_minutes) AS duration_minutes
FROM bookings b
JOIN booking_people bp ON bp.booking_id = b.id
JOIN booking_services bs ON bs.booking_people_id = bp.id
WHERE b.salon_id = ? AND b.booking_date = ? AND b.status NOT IN ?
GROUP BY b.id, bs.stylist_id, b.booking_time
ORDER BY b.booking_time`

func inactiveStatuses() []string {
	out := make([]string, len(models.InactiveStatuses))
	for i, s := range models.InactiveStatuses {
		out[i] = string(s)
	}
	return out
}

func (r *bookingRepository) FindBookedIntervals(ctx context.Context, salonID, date string) ([]models.BookedInterval, error) {
	return r.FindBookedIntervalsTx(ctx, r.db, salonID, date)
}

func (r *bookingRepository) FindBookedIntervalsTx(ctx context.Context, tx *gorm.DB, salonID, date string) ([]models.BookedInterval, error) {
	var intervals []models.BookedInterval
	err := tx.WithContext(ctx).
		Raw(bookedIntervalsSQL, salonID, date, inactiveStatuses()).
		Scan(&intervals).Error
	return intervals, err
}

// LockSalonDate serialises submissions for one salon and day until the transaction ends.
func (r *bookingRepository) LockSalonDate(ctx context.Context, tx *gorm.DB, salonID, date string) error {
	return tx.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", salonID+":"+date).Error
}

func (r *bookingRepository) GenerateConfirmationNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	var number string
	err := tx.WithContext(ctx).Raw("SELECT generate_confirmation_number()").Scan(&number).Error
	return number, err
}

func (r *bookingRepository) CreateBooking(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return tx.WithContext(ctx).Omit("People").Create(booking).Error
}

func (r *bookingRepository) CreatePerson(ctx context.Context, tx *gorm.DB, person *models.BookingPerson) error {
	return tx.WithContext(ctx).Omit("Services").Create(person).Error
}

func (r *bookingRepository) CreateServiceRow(ctx context.Context, tx *gorm.DB, row *models.BookingServiceRow) error {
	return tx.WithContext(ctx).Create(row).Error
}

func (r *bookingRepository) FindByConfirmationNumber(ctx context.Context, number string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("People", func(db *gorm.DB) *gorm.DB { return db.Order("person_order ASC") }).
		Preload("People.Services").
		Where("confirmation_number = ?", number).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
