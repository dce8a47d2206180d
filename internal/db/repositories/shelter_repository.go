package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/models"
)

type ShelterFilter struct {
	DonorID      string
	Statuses     []constants.ShelterStatus
	City         string
	DisasterID   string
	IncludeDonor bool
	// ByFreeBeds orders by descending free beds instead of newest first.
	ByFreeBeds bool
}

type ShelterRepository struct {
	db *gorm.DB
}

func NewShelterRepository(db *gorm.DB) *ShelterRepository {
	return &ShelterRepository{db: db}
}

func (r *ShelterRepository) Create(ctx context.Context, s *models.Shelter) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error; err != nil {
		return fmt.Errorf("failed to create shelter: %w", err)
	}
	return nil
}

func (r *ShelterRepository) FindByID(ctx context.Context, id string, includeDonor bool) (*models.Shelter, error) {
	var s models.Shelter

	q := r.db.WithContext(ctx).Preload("Disaster")
	if includeDonor {
		q = q.Preload("Donor")
	}

	if err := q.Where("id = ?", id).First(&s).Error; err != nil {
		if translate(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch shelter: %w", err)
	}
	return &s, nil
}

func (r *ShelterRepository) List(ctx context.Context, filter ShelterFilter) ([]models.Shelter, error) {
	var out []models.Shelter

	q := r.db.WithContext(ctx).Preload("Disaster")
	if filter.IncludeDonor {
		q = q.Preload("Donor")
	}
	if filter.DonorID != "" {
		q = q.Where("donor_id = ?", filter.DonorID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if city := strings.ToLower(strings.TrimSpace(filter.City)); city != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+city+"%")
	}
	if filter.DisasterID != "" {
		q = q.Where("disaster_id = ?", filter.DisasterID)
	}

	if filter.ByFreeBeds {
		q = q.Order("(beds_available - beds_occupied) DESC").Order("created_at DESC")
	} else {
		q = q.Order("created_at DESC")
	}

	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list shelters: %w", err)
	}
	return out, nil
}

// UpdateGuarded writes every column of s, but only if the bed counts are
// still the ones the caller read. The model hook recomputes Status.
func (r *ShelterRepository) UpdateGuarded(ctx context.Context, s *models.Shelter, prevAvailable, prevOccupied int) error {
	res := r.db.WithContext(ctx).
		Model(s).
		Select("*").
		Omit(clause.Associations).
		Where("beds_available = ? AND beds_occupied = ?", prevAvailable, prevOccupied).
		Updates(s)
	if res.Error != nil {
		return fmt.Errorf("failed to update shelter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleWrite
	}
	return nil
}

// CompareAndSetOccupancy sets beds_occupied on the row read as current and
// stores the derived status in the same statement. It fails with
// ErrStaleWrite when the row changed since it was read.
func (r *ShelterRepository) CompareAndSetOccupancy(ctx context.Context, current *models.Shelter, occupied int) (constants.ShelterStatus, error) {
	status := models.DeriveShelterStatus(current.Status, occupied, current.BedsAvailable)

	res := r.db.WithContext(ctx).
		Model(&models.Shelter{}).
		Where("id = ? AND beds_available = ? AND beds_occupied = ? AND status = ?",
			current.ID, current.BedsAvailable, current.BedsOccupied, current.Status).
		UpdateColumns(map[string]any{
			"beds_occupied": occupied,
			"status":        status,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return "", fmt.Errorf("failed to update occupancy: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrStaleWrite
	}
	return status, nil
}

func (r *ShelterRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Shelter{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete shelter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
