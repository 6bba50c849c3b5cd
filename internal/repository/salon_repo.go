package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

type SalonRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Salon, error)
	ListServices(ctx context.Context, salonID string) ([]models.Service, error)
	ListStylists(ctx context.Context, salonID string) ([]models.Stylist, error)
}

type salonRepository struct {
	db *gorm.DB
}

func NewSalonRepository(db *gorm.DB) SalonRepository {
	return &salonRepository{db: db}
}

func (r *salonRepository) FindBySlug(ctx context.Context, slug string) (*models.Salon, error) {
	var salon models.Salon
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&salon).Error; err != nil {
		return nil, err
	}
	return &salon, nil
}

func (r *salonRepository) ListServices(ctx context.Context, salonID string) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Order("popular DESC, name ASC").
		Find(&services).Error
	return services, err
}

func (r *salonRepository) ListStylists(ctx context.Context, salonID string) ([]models.Stylist, error) {
	var stylists []models.Stylist
	err := r.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Order("name ASC").
		Find(&stylists).Error
	return stylists, err
}
