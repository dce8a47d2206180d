package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/models"
)

type AidRequestFilter struct {
	VictimID     string
	Status       constants.AidRequestStatus
	AidType      constants.AidType
	Urgency      constants.Urgency
	DisasterID   string
	ExceedsLimit *bool
}

type AidRequestRepository struct {
	db *gorm.DB
}

func NewAidRequestRepository(db *gorm.DB) *AidRequestRepository {
	return &AidRequestRepository{db: db}
}

func (r *AidRequestRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Victim").
		Preload("Disaster")
}

func (r *AidRequestRepository) Create(ctx context.Context, req *models.AidRequest) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create aid request: %w", err)
	}
	return nil
}

func (r *AidRequestRepository) FindByID(ctx context.Context, id string) (*models.AidRequest, error) {
	var req models.AidRequest
	err := r.preloaded(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if translate(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch aid request: %w", err)
	}
	return &req, nil
}

// List returns aid requests matching every set filter, newest first.
func (r *AidRequestRepository) List(ctx context.Context, filter AidRequestFilter) ([]models.AidRequest, error) {
	var out []models.AidRequest

	q := r.preloaded(ctx).Order("created_at DESC")
	if filter.VictimID != "" {
		q = q.Where("victim_id = ?", filter.VictimID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AidType != "" {
		q = q.Where("aid_type = ?", filter.AidType)
	}
	if filter.Urgency != "" {
		q = q.Where("urgency = ?", filter.Urgency)
	}
	if filter.DisasterID != "" {
		q = q.Where("disaster_id = ?", filter.DisasterID)
	}
	if filter.ExceedsLimit != nil {
		q = q.Where("exceeds_limit = ?", *filter.ExceedsLimit)
	}

	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list aid requests: %w", err)
	}
	return out, nil
}

func (r *AidRequestRepository) Save(ctx context.Context, req *models.AidRequest) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(req).Error; err != nil {
		return fmt.Errorf("failed to save aid request: %w", err)
	}
	return nil
}
