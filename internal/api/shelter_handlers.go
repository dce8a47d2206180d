package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/models/dtos"
)

// AvailableShelters handles GET /api/shelters/available
//
// @Summary      Shelters still listed for intake
// @Description  AVAILABLE and FULL shelters, most free beds first.
// @Tags         Shelters
// @Produce      json
// @Param        city      query  string  false  "City substring"
// @Param        disaster  query  string  false  "Disaster id"
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/shelters/available [get]
func (h *Handlers) AvailableShelters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.deps.Services.Shelters.Available(r.Context(),
			common.QueryString(r, "city"),
			common.QueryString(r, "disaster"),
		)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), nil)
	}
}

// OfferShelter handles POST /api/shelters
func (h *Handlers) OfferShelter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ShelterRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		s, err := h.deps.Services.Shelters.Offer(r.Context(), actor(r), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Shelter offered successfully", s, http.StatusCreated)
	}
}

// MyShelters handles GET /api/shelters/my-shelters
func (h *Handlers) MyShelters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.deps.Services.Shelters.Mine(r.Context(), actor(r))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), nil)
	}
}

// ListShelters handles GET /api/shelters
func (h *Handlers) ListShelters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := common.QueryEnum(r, "status", constants.ShelterStatuses)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		list, err := h.deps.Services.Shelters.List(r.Context(), status, common.QueryString(r, "city"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), nil)
	}
}

// GetShelter handles GET /api/shelters/{id}
func (h *Handlers) GetShelter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.deps.Services.Shelters.Get(r.Context(), actor(r), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "", s)
	}
}

// UpdateShelter handles PUT /api/shelters/{id}
func (h *Handlers) UpdateShelter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ShelterUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		s, err := h.deps.Services.Shelters.Update(r.Context(), actor(r), chi.URLParam(r, "id"), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Shelter updated successfully", s)
	}
}

// DeleteShelter handles DELETE /api/shelters/{id}
func (h *Handlers) DeleteShelter() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.deps.Services.Shelters.Delete(r.Context(), actor(r), chi.URLParam(r, "id")); err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Shelter deleted successfully", nil)
	}
}

// UpdateShelterOccupancy handles PUT /api/shelters/{id}/occupancy
//
// @Summary      Set occupied beds
// @Description  Rejected with 400 above capacity and 409 when the shelter changed concurrently.
// @Tags         Shelters
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.OccupancyRequest  true  "Occupied beds"
// @Success      200  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Failure      409  {object}  dtos.APIResponse
// @Router       /api/shelters/{id}/occupancy [put]
func (h *Handlers) UpdateShelterOccupancy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.OccupancyRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		s, err := h.deps.Services.Shelters.UpdateOccupancy(r.Context(), actor(r), chi.URLParam(r, "id"), *req.BedsOccupied)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Shelter occupancy updated", s)
	}
}
