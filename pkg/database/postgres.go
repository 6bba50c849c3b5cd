package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

// The code is unique across all bookings; collisions are retried inside the function.
const confirmationFunctionSQL = `
CREATE OR REPLACE FUNCTION generate_confirmation_number() RETURNS text AS $$
DECLARE
	candidate text;
BEGIN
	LOOP
		candidate := 'BK'
			|| right(((extract(epoch FROM clock_timestamp()) * 1000)::bigint)::text, 6)
			|| upper(substr(md5(random()::text), 1, 2));
		EXIT WHEN NOT EXISTS (SELECT 1 FROM bookings WHERE confirmation_number = candidate);
	END LOOP;
	RETURN candidate;
END;
$$ LANGUAGE plpgsql`

func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Salon{},
		&models.Service{},
		&models.Stylist{},
		&models.Booking{},
		&models.BookingPerson{},
		&models.BookingServiceRow{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	if err := db.Exec(confirmationFunctionSQL).Error; err != nil {
		return fmt.Errorf("create generate_confirmation_number: %w", err)
	}

	// Availability lookups only look at bookings that still occupy a stylist.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_active_day
		ON bookings (salon_id, booking_date)
		WHERE status NOT IN ('cancelled', 'no_show')
	`).Error; err != nil {
		return fmt.Errorf("create active booking index: %w", err)
	}
	return nil
}

// NewPostgresDB connects and migrates, exiting the process on failure.
func NewPostgresDB(dsn string, log *zap.Logger) *gorm.DB {
	db, err := Open(dsn)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}
	return db
}
