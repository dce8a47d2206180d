package repositories

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/models"
)

type DisasterFilter struct {
	Status   constants.DisasterStatus
	City     string
	Type     constants.DisasterType
	Severity constants.Severity
}

type DisasterRepository struct {
	db *gorm.DB
}

func NewDisasterRepository(db *gorm.DB) *DisasterRepository {
	return &DisasterRepository{db: db}
}

func (r *DisasterRepository) Create(ctx context.Context, d *models.Disaster) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("failed to create disaster: %w", err)
	}
	return nil
}

func (r *DisasterRepository) FindByID(ctx context.Context, id string) (*models.Disaster, error) {
	var d models.Disaster
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if translate(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch disaster: %w", err)
	}
	return &d, nil
}

// Exists is used to validate optional disaster references.
func (r *DisasterRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Disaster{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check disaster: %w", err)
	}
	return count > 0, nil
}

func (r *DisasterRepository) applyFilter(q *gorm.DB, filter DisasterFilter) *gorm.DB {
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}
	if city := strings.ToLower(strings.TrimSpace(filter.City)); city != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+city+"%")
	}
	return q
}

// List returns disasters matching every set filter, newest first.
func (r *DisasterRepository) List(ctx context.Context, filter DisasterFilter) ([]models.Disaster, error) {
	var out []models.Disaster
	q := r.applyFilter(r.db.WithContext(ctx), filter).Order("created_at DESC")
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list disasters: %w", err)
	}
	return out, nil
}

// SearchCandidates returns rows whose name, location or city contains any of
// terms, narrowed by filter. Ranking happens in the service.
func (r *DisasterRepository) SearchCandidates(ctx context.Context, terms []string, filter DisasterFilter, limit int) ([]models.Disaster, error) {
	var out []models.Disaster
	q := r.applyFilter(r.db.WithContext(ctx), filter)

	if len(terms) > 0 {
		match := r.db.Where("1 = 0")
		for _, term := range terms {
			like := containsPattern(term)
			match = match.Or(`LOWER(name) LIKE ? ESCAPE '\'`, like).
				Or(`LOWER(location) LIKE ? ESCAPE '\'`, like).
				Or(`LOWER(city) LIKE ? ESCAPE '\'`, like)
		}
		q = q.Where(match)
	}

	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to search disasters: %w", err)
	}
	return out, nil
}

func (r *DisasterRepository) Save(ctx context.Context, d *models.Disaster) error {
	if err := r.db.WithContext(ctx).Save(d).Error; err != nil {
		return fmt.Errorf("failed to save disaster: %w", err)
	}
	return nil
}

func (r *DisasterRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Disaster{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete disaster: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
