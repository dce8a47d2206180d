package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/models"
)

type TaskFilter struct {
	Statuses    []constants.TaskStatus
	FieldType   constants.FieldType
	DisasterID  string
	VolunteerID string
	// WithCapacity keeps only tasks that still have a free volunteer slot.
	WithCapacity      bool
	IncludeVolunteers bool
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) preloaded(ctx context.Context, includeVolunteers bool) *gorm.DB {
	q := r.db.WithContext(ctx).
		Preload("Disaster").
		Preload("AssignedVolunteers", func(db *gorm.DB) *gorm.DB {
			return db.Order("assigned_at ASC")
		})
	if includeVolunteers {
		q = q.Preload("AssignedVolunteers.Volunteer")
	}
	return q
}

func (r *TaskRepository) Create(ctx context.Context, t *models.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string, includeVolunteers bool) (*models.Task, error) {
	var t models.Task
	err := r.preloaded(ctx, includeVolunteers).Where("id = ?", id).First(&t).Error
	if err != nil {
		if translate(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return &t, nil
}

func (r *TaskRepository) memberOf(volunteerID string) *gorm.DB {
	return r.db.Model(&models.TaskAssignment{}).
		Select("task_id").
		Where("volunteer_id = ?", volunteerID)
}

// List returns tasks matching every set filter, newest first.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	var out []models.Task

	q := r.preloaded(ctx, filter.IncludeVolunteers).Order("created_at DESC")
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.FieldType != "" {
		q = q.Where("field_type = ?", filter.FieldType)
	}
	if filter.DisasterID != "" {
		q = q.Where("disaster_id = ?", filter.DisasterID)
	}
	if filter.VolunteerID != "" {
		q = q.Where("id IN (?)", r.memberOf(filter.VolunteerID))
	}
	if filter.WithCapacity {
		q = q.Where("volunteers_assigned < volunteers_required")
	}

	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return out, nil
}

// CountActiveForVolunteer counts ASSIGNED or IN_PROGRESS tasks the volunteer
// belongs to.
func (r *TaskRepository) CountActiveForVolunteer(ctx context.Context, volunteerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("status IN ?", constants.ActiveTaskStatuses).
		Where("id IN (?)", r.memberOf(volunteerID)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active tasks: %w", err)
	}
	return count, nil
}

// Assign adds volunteerID to the task's assigned set. The capacity check is a
// conditional UPDATE, so two concurrent assigns cannot both take the last
// slot, and the membership primary key rejects duplicates.
func (r *TaskRepository) Assign(ctx context.Context, taskID, volunteerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ?", taskID).First(&task).Error; err != nil {
			if translate(err) == ErrNotFound {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load task: %w", err)
		}

		if task.Status != constants.TaskStatusAvailable && task.Status != constants.TaskStatusAssigned {
			return ErrTaskNotOpen
		}

		var member int64
		if err := tx.Model(&models.TaskAssignment{}).
			Where("task_id = ? AND volunteer_id = ?", taskID, volunteerID).
			Count(&member).Error; err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if member > 0 {
			return ErrAlreadyAssigned
		}

		if task.VolunteersAssigned >= task.VolunteersRequired {
			return ErrTaskFull
		}

		now := time.Now()
		res := tx.Model(&models.Task{}).
			Where("id = ? AND status IN ? AND volunteers_assigned < volunteers_required",
				taskID, constants.OpenTaskStatuses).
			UpdateColumns(map[string]any{
				"volunteers_assigned": gorm.Expr("volunteers_assigned + 1"),
				"status":              constants.TaskStatusAssigned,
				"assigned_at":         gorm.Expr("COALESCE(assigned_at, ?)", now),
				"updated_at":          now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to reserve slot: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrTaskFull
		}

		err := tx.Create(&models.TaskAssignment{
			TaskID:      taskID,
			VolunteerID: volunteerID,
			AssignedAt:  now,
		}).Error
		if err != nil {
			if errors.Is(translate(err), ErrDuplicate) {
				return ErrAlreadyAssigned
			}
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
		return nil
	})
}

// UpdateColumns patches status bookkeeping columns. Membership and counts are
// only ever changed by Assign.
func (r *TaskRepository) UpdateColumns(ctx context.Context, id string, values map[string]any) error {
	values["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).UpdateColumns(values)
	if res.Error != nil {
		return fmt.Errorf("failed to update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
