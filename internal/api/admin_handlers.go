package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/models/dtos"
)

// Dashboard handles GET /api/admin/dashboard
//
// @Summary      Admin counters
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/admin/dashboard [get]
func (h *Handlers) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.deps.Services.Stats.Dashboard(r.Context())
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "", stats)
	}
}

// PublicStats handles GET /api/stats
//
// @Summary      Landing page counters
// @Tags         Stats
// @Produce      json
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/stats [get]
func (h *Handlers) PublicStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.deps.Services.Stats.Public(r.Context())
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "", stats)
	}
}

// ListUsers handles GET /api/admin/users
func (h *Handlers) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			filter repositories.UserFilter
			err    error
		)
		if filter.Role, err = common.QueryEnum(r, "role", constants.Roles); err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		if filter.IsVerified, err = common.QueryBool(r, "isVerified"); err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		if filter.IsActive, err = common.QueryBool(r, "isActive"); err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		filter.Query = common.QueryString(r, "q")

		list, err := h.deps.Services.Users.List(r.Context(), filter)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), nil)
	}
}

// GetUser handles GET /api/admin/users/{id}
func (h *Handlers) GetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.deps.Services.Users.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "", user)
	}
}

// CreateUser handles POST /api/admin/users
func (h *Handlers) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.CreateUserRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		user, err := h.deps.Services.Users.Create(r.Context(), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "User created successfully", user, http.StatusCreated)
	}
}

// UpdateUser handles PUT /api/admin/users/{id}
func (h *Handlers) UpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateUserRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		user, err := h.deps.Services.Users.Update(r.Context(), actor(r), chi.URLParam(r, "id"), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "User updated successfully", user)
	}
}

// VerifyUser handles PUT /api/admin/users/{id}/verify
func (h *Handlers) VerifyUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.deps.Services.Users.Verify(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "User verified successfully", user)
	}
}

// SetUserActive handles PUT /api/admin/users/{id}/active
func (h *Handlers) SetUserActive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.SetActiveRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		user, err := h.deps.Services.Users.SetActive(r.Context(), actor(r), chi.URLParam(r, "id"), *req.IsActive)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		msg := "User activated"
		if !user.IsActive {
			msg = "User deactivated"
		}
		common.RespondSuccess(w, msg, user)
	}
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *Handlers) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.deps.Services.Users.Delete(r.Context(), actor(r), chi.URLParam(r, "id")); err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "User deleted successfully", nil)
	}
}
