package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/models"
)

type UserFilter struct {
	Role       constants.Role
	IsVerified *bool
	IsActive   *bool
	Query      string
}

type UserRepositoryGORM struct {
	db *gorm.DB
}

// NewUserRepositoryGORM creates a new GORM-based user repository
func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

func (r *UserRepositoryGORM) withProfiles(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("DonorProfile").
		Preload("VolunteerProfile")
}

// Create inserts the user together with whichever profile is set.
func (r *UserRepositoryGORM) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if translate(err) == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user with its role profile
func (r *UserRepositoryGORM) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User

	err := r.withProfiles(ctx).
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		if translate(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// FindByEmail looks up a user by its normalised email.
func (r *UserRepositoryGORM) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := r.withProfiles(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error

	if err != nil {
		if translate(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}

	return &user, nil
}

// EmailTaken reports whether another user already uses email.
func (r *UserRepositoryGORM) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return r.taken(ctx, "email", strings.ToLower(strings.TrimSpace(email)), excludeID)
}

// NationalIDTaken reports whether another user already registered nationalID.
func (r *UserRepositoryGORM) NationalIDTaken(ctx context.Context, nationalID, excludeID string) (bool, error) {
	return r.taken(ctx, "national_id", strings.TrimSpace(nationalID), excludeID)
}

func (r *UserRepositoryGORM) taken(ctx context.Context, column, value, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s: %w", column, err)
	}
	return count > 0, nil
}

// List returns users matching filter, newest first.
func (r *UserRepositoryGORM) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	var users []models.User

	q := r.withProfiles(ctx).Order("created_at DESC")
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.IsVerified != nil {
		q = q.Where("is_verified = ?", *filter.IsVerified)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Query)); term != "" {
		like := containsPattern(term)
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\'`, like, like, like)
	}

	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Save writes the user row and upserts its profile in one transaction.
func (r *UserRepositoryGORM) Save(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}
		if user.DonorProfile != nil {
			user.DonorProfile.UserID = user.ID
			if err := tx.Save(user.DonorProfile).Error; err != nil {
				return err
			}
		}
		if user.VolunteerProfile != nil {
			user.VolunteerProfile.UserID = user.ID
			if err := tx.Save(user.VolunteerProfile).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if translate(err) == ErrDuplicate {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// UpdateColumns patches the given columns without touching associations.
func (r *UserRepositoryGORM) UpdateColumns(ctx context.Context, id string, values map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumns(values)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user, its profiles and its task memberships, keeping
// each affected task's volunteer count equal to its membership size. An
// ASSIGNED task left with nobody reopens as AVAILABLE.
func (r *UserRepositoryGORM) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []string
		if err := tx.Model(&models.TaskAssignment{}).
			Where("volunteer_id = ?", id).
			Pluck("task_id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("volunteer_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Task{}).
				Where("id IN ?", taskIDs).
				UpdateColumn("volunteers_assigned", gorm.Expr("volunteers_assigned - 1")).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Task{}).
				Where("id IN ? AND volunteers_assigned = 0 AND status = ?", taskIDs, constants.TaskStatusAssigned).
				UpdateColumn("status", constants.TaskStatusAvailable).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.DonorProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.VolunteerProfile{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
