package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/models/dtos"
)

// CreateTask handles POST /api/volunteers/tasks
func (h *Handlers) CreateTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.TaskRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		task, err := h.deps.Services.Tasks.Create(r.Context(), actor(r), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Task created successfully", task, http.StatusCreated)
	}
}

// ListTasks handles GET /api/volunteers/tasks
func (h *Handlers) ListTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter repositories.TaskFilter

		status, err := common.QueryEnum(r, "status", constants.TaskStatuses)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		if status != "" {
			filter.Statuses = []constants.TaskStatus{status}
		}
		if filter.FieldType, err = common.QueryEnum(r, "fieldType", constants.FieldTypes); err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		filter.DisasterID = common.QueryString(r, "disaster")

		list, err := h.deps.Services.Tasks.List(r.Context(), filter)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), nil)
	}
}

// GetTask handles GET /api/volunteers/tasks/{id}
func (h *Handlers) GetTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := h.deps.Services.Tasks.Get(r.Context(), actor(r), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "", task)
	}
}

// AvailableTasks handles GET /api/volunteers/tasks/available
//
// @Summary      Open tasks with a free slot
// @Description  Without fieldType the volunteer's own volunteerRole filters the list.
// @Tags         Volunteers
// @Produce      json
// @Param        fieldType  query  string  false  "ON_FIELD or OFF_FIELD"
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/volunteers/tasks/available [get]
func (h *Handlers) AvailableTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fieldType, err := common.QueryEnum(r, "fieldType", constants.FieldTypes)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		list, err := h.deps.Services.Tasks.Available(r.Context(), actor(r), fieldType)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), nil)
	}
}

// MyTasks handles GET /api/volunteers/my-tasks
func (h *Handlers) MyTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := common.QueryEnum(r, "status", constants.TaskStatuses)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		list, err := h.deps.Services.Tasks.MyTasks(r.Context(), actor(r), status)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), nil)
	}
}

// AssignTask handles POST /api/volunteers/tasks/{id}/assign
//
// @Summary      Join a task
// @Tags         Volunteers
// @Produce      json
// @Param        id  path  string  true  "Task id"
// @Success      200  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      404  {object}  dtos.APIResponse
// @Router       /api/volunteers/tasks/{id}/assign [post]
func (h *Handlers) AssignTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		task, err := h.deps.Services.Tasks.Assign(r.Context(), actor(r), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Task assigned successfully", task)
	}
}

// UpdateTaskStatus handles PUT /api/volunteers/tasks/{id}/status
func (h *Handlers) UpdateTaskStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.StatusUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		task, err := h.deps.Services.Tasks.UpdateStatus(r.Context(), actor(r), chi.URLParam(r, "id"), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Task status updated", task)
	}
}

// UpdateVolunteerProfile handles PUT /api/volunteers/profile
func (h *Handlers) UpdateVolunteerProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.VolunteerProfileRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		user, err := h.deps.Services.Tasks.UpdateVolunteerProfile(r.Context(), actor(r), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Profile updated successfully", user)
	}
}
