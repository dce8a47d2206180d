package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/models"
)

type DonationFilter struct {
	DonorID    string
	Type       constants.DonationType
	Status     constants.DonationStatus
	DisasterID string
}

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Donor").
		Preload("Disaster")
}

func (r *DonationRepository) Create(ctx context.Context, d *models.Donation) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error; err != nil {
		return fmt.Errorf("failed to create donation: %w", err)
	}
	return nil
}

func (r *DonationRepository) FindByID(ctx context.Context, id string) (*models.Donation, error) {
	var d models.Donation
	err := r.preloaded(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if translate(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch donation: %w", err)
	}
	return &d, nil
}

// List returns donations matching every set filter, newest first.
func (r *DonationRepository) List(ctx context.Context, filter DonationFilter) ([]models.Donation, error) {
	var out []models.Donation

	q := r.preloaded(ctx).Order("created_at DESC")
	if filter.DonorID != "" {
		q = q.Where("donor_id = ?", filter.DonorID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DisasterID != "" {
		q = q.Where("disaster_id = ?", filter.DisasterID)
	}

	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return out, nil
}

func (r *DonationRepository) Save(ctx context.Context, d *models.Donation) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(d).Error; err != nil {
		return fmt.Errorf("failed to save donation: %w", err)
	}
	return nil
}
