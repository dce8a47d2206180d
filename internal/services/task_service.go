package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/logging"
	"resq-relief/resq/internal/metrics"
	"resq-relief/resq/internal/models"
	"resq-relief/resq/internal/models/dtos"
)

// TaskService covers admin task management and the volunteer workflow.
type TaskService struct {
	tasks     *repositories.TaskRepository
	users     *repositories.UserRepositoryGORM
	disasters *repositories.DisasterRepository
	metrics   *metrics.MetricsRegistry
}

func NewTaskService(
	tasks *repositories.TaskRepository,
	users *repositories.UserRepositoryGORM,
	disasters *repositories.DisasterRepository,
	m *metrics.MetricsRegistry,
) *TaskService {
	return &TaskService{
		tasks:     tasks,
		users:     users,
		disasters: disasters,
		metrics:   m,
	}
}

func (s *TaskService) Create(ctx context.Context, actor Actor, req dtos.TaskRequest) (*models.Task, error) {
	taskType, err := common.ParseEnumField("taskType", req.TaskType, constants.TaskTypes)
	if err != nil {
		return nil, err
	}
	fieldType, err := common.ParseEnumField("fieldType", req.FieldType, constants.FieldTypes)
	if err != nil {
		return nil, err
	}
	priority, err := common.ParseEnumFieldOr("priority", req.Priority, constants.Priorities, constants.PriorityMedium)
	if err != nil {
		return nil, err
	}
	disasterID, err := ensureDisaster(ctx, s.disasters, &req.DisasterID)
	if err != nil {
		return nil, err
	}
	if disasterID == nil {
		return nil, common.ValidationError("disasterId is required")
	}

	task := &models.Task{
		Title:              strings.TrimSpace(req.Title),
		Description:        strings.TrimSpace(req.Description),
		TaskType:           taskType,
		FieldType:          fieldType,
		DisasterID:         *disasterID,
		Location:           strings.TrimSpace(req.Location),
		VolunteersRequired: req.VolunteersRequired,
		Status:             constants.TaskStatusAvailable,
		Priority:           priority,
		CreatedByID:        actor.ID,
		AssignedVolunteers: []models.TaskAssignment{},
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	logging.Info("Task created", "task_id", task.ID, "required", task.VolunteersRequired, "by", actor.ID)
	return task, nil
}

func (s *TaskService) List(ctx context.Context, filter repositories.TaskFilter) ([]models.Task, error) {
	filter.IncludeVolunteers = true
	return s.tasks.List(ctx, filter)
}

func (s *TaskService) Get(ctx context.Context, actor Actor, id string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id, actor.IsAdmin())
	if err != nil {
		return nil, notFound(err, constants.MsgTaskNotFound)
	}
	return task, nil
}

// Available lists open tasks with a free slot. Without an explicit field
// type the volunteer's own volunteerRole is used, if set.
func (s *TaskService) Available(ctx context.Context, actor Actor, fieldType constants.FieldType) ([]models.Task, error) {
	if fieldType == "" {
		user, err := s.users.FindByID(ctx, actor.ID)
		if err != nil {
			return nil, notFound(err, constants.MsgUserNotFound)
		}
		if user.VolunteerProfile != nil {
			fieldType = user.VolunteerProfile.VolunteerRole
		}
	}

	return s.tasks.List(ctx, repositories.TaskFilter{
		Statuses:     constants.OpenTaskStatuses,
		FieldType:    fieldType,
		WithCapacity: true,
	})
}

func (s *TaskService) MyTasks(ctx context.Context, actor Actor, status constants.TaskStatus) ([]models.Task, error) {
	filter := repositories.TaskFilter{VolunteerID: actor.ID}
	if status != "" {
		filter.Statuses = []constants.TaskStatus{status}
	}
	return s.tasks.List(ctx, filter)
}

// Assign adds the calling volunteer to the task.
func (s *TaskService) Assign(ctx context.Context, actor Actor, taskID string) (*models.Task, error) {
	err := s.tasks.Assign(ctx, taskID, actor.ID)
	if err != nil {
		outcome, mapped := assignOutcome(err)
		s.metrics.TaskAssignmentsTotal.WithLabelValues(outcome).Inc()
		return nil, mapped
	}
	s.metrics.TaskAssignmentsTotal.WithLabelValues("assigned").Inc()
	logging.Info("Volunteer assigned to task", "task_id", taskID, "volunteer_id", actor.ID)

	return s.Get(ctx, actor, taskID)
}

func assignOutcome(err error) (string, error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return "not_found", common.NotFoundError(constants.MsgTaskNotFound)
	case errors.Is(err, repositories.ErrTaskNotOpen):
		return "not_open", common.ValidationError(constants.MsgTaskNotOpen)
	case errors.Is(err, repositories.ErrAlreadyAssigned):
		return "duplicate", common.ValidationError(constants.MsgTaskAlreadyAssigned)
	case errors.Is(err, repositories.ErrTaskFull):
		return "full", common.ValidationError(constants.MsgTaskFull)
	}
	return "error", err
}

// UpdateStatus moves a task along its lifecycle. Only an assigned volunteer
// or an admin may do so; any status value is accepted.
func (s *TaskService) UpdateStatus(ctx context.Context, actor Actor, id string, req dtos.StatusUpdateRequest) (*models.Task, error) {
	status, err := common.ParseEnumField("status", req.Status, constants.TaskStatuses)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id, false)
	if err != nil {
		return nil, notFound(err, constants.MsgTaskNotFound)
	}
	if !actor.IsAdmin() && !task.HasVolunteer(actor.ID) {
		return nil, common.ForbiddenError(constants.MsgNotTaskMember)
	}

	now := time.Now()
	values := map[string]any{"status": status}
	if status == constants.TaskStatusInProgress && task.StartedAt == nil {
		values["started_at"] = now
	}
	if status == constants.TaskStatusCompleted {
		values["completed_at"] = now
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		values["notes"] = notes
	}

	if err := s.tasks.UpdateColumns(ctx, id, values); err != nil {
		return nil, notFound(err, constants.MsgTaskNotFound)
	}
	logging.Info("Task status updated", "task_id", id, "status", status, "by", actor.ID)

	return s.Get(ctx, actor, id)
}

// UpdateVolunteerProfile edits the volunteer's own profile. Switching
// volunteerRole is refused while any ASSIGNED or IN_PROGRESS task is held.
func (s *TaskService) UpdateVolunteerProfile(ctx context.Context, actor Actor, req dtos.VolunteerProfileRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, notFound(err, constants.MsgUserNotFound)
	}
	if user.VolunteerProfile == nil {
		user.VolunteerProfile = &models.VolunteerProfile{Skills: models.StringList{}}
	}
	profile := user.VolunteerProfile

	if req.VolunteerRole != nil {
		role, err := common.ParseEnumField("volunteerRole", *req.VolunteerRole, constants.FieldTypes)
		if err != nil {
			return nil, err
		}
		if role != profile.VolunteerRole {
			active, err := s.tasks.CountActiveForVolunteer(ctx, actor.ID)
			if err != nil {
				return nil, err
			}
			if active > 0 {
				return nil, &common.AppError{
					Kind:    common.KindValidation,
					Message: fmt.Sprintf("%s (%d active)", constants.MsgRoleChangeBlocked, active),
					Data:    dtos.RoleChangeBlocked{ActiveTasks: active},
				}
			}
			profile.VolunteerRole = role
		}
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		user.Address = strings.TrimSpace(*req.Address)
	}
	if req.Skills != nil {
		profile.Skills = cleanSkills(req.Skills)
	}
	if req.WorkingHours != nil {
		profile.WorkingHours = strings.TrimSpace(*req.WorkingHours)
	}
	if req.Experience != nil {
		profile.Experience = strings.TrimSpace(*req.Experience)
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
