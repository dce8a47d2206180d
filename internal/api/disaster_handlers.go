package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/models/dtos"
)

func disasterFilter(r *http.Request) (repositories.DisasterFilter, error) {
	var (
		f   repositories.DisasterFilter
		err error
	)
	if f.Status, err = common.QueryEnum(r, "status", constants.DisasterStatuses); err != nil {
		return f, err
	}
	if f.Type, err = common.QueryEnum(r, "type", constants.DisasterTypes); err != nil {
		return f, err
	}
	if f.Severity, err = common.QueryEnum(r, "severity", constants.Severities); err != nil {
		return f, err
	}
	f.City = common.QueryString(r, "city")
	return f, nil
}

// ListDisasters handles GET /api/disasters
//
// @Summary      List disasters
// @Tags         Disasters
// @Produce      json
// @Param        status    query  string  false  "PENDING, ACTIVE, RESOLVED or REJECTED"
// @Param        city      query  string  false  "City substring"
// @Param        type      query  string  false  "Disaster type"
// @Param        severity  query  string  false  "Severity"
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/disasters [get]
func (h *Handlers) ListDisasters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := disasterFilter(r)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		list, err := h.deps.Services.Disasters.List(r.Context(), filter)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), nil)
	}
}

// SearchDisasters handles GET /api/disasters/search
//
// @Summary      Free-text disaster search
// @Tags         Disasters
// @Produce      json
// @Param        q  query  string  false  "Search terms"
// @Success      200  {object}  dtos.APIResponse
// @Router       /api/disasters/search [get]
func (h *Handlers) SearchDisasters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := disasterFilter(r)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		list, err := h.deps.Services.Disasters.Search(r.Context(), common.QueryString(r, "q"), filter)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), nil)
	}
}

// GetDisaster handles GET /api/disasters/{id}
func (h *Handlers) GetDisaster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.deps.Services.Disasters.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "", d)
	}
}

// ReportDisaster handles POST /api/disasters/report
//
// @Summary      Report a disaster for admin review
// @Tags         Disasters
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.DisasterRequest  true  "Disaster"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Router       /api/disasters/report [post]
func (h *Handlers) ReportDisaster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.DisasterRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		d, err := h.deps.Services.Disasters.Report(r.Context(), actor(r), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Disaster reported successfully. Awaiting verification.", d, http.StatusCreated)
	}
}

// AddDisaster handles POST /api/disasters
func (h *Handlers) AddDisaster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.DisasterRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		d, err := h.deps.Services.Disasters.Add(r.Context(), actor(r), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Disaster added successfully", d, http.StatusCreated)
	}
}

// UpdateDisaster handles PUT /api/disasters/{id}
func (h *Handlers) UpdateDisaster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.DisasterUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		d, err := h.deps.Services.Disasters.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Disaster updated successfully", d)
	}
}

// VerifyDisaster handles PUT /api/disasters/{id}/verify
func (h *Handlers) VerifyDisaster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.deps.Services.Disasters.Verify(r.Context(), actor(r), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Disaster verified successfully", d)
	}
}

// RejectDisaster handles PUT /api/disasters/{id}/reject. The reason is optional.
func (h *Handlers) RejectDisaster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.RejectRequest
		if err := common.DecodeOptionalJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		d, err := h.deps.Services.Disasters.Reject(r.Context(), actor(r), chi.URLParam(r, "id"), req.Reason)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Disaster rejected", d)
	}
}

// ResolveDisaster handles PUT /api/disasters/{id}/resolve
func (h *Handlers) ResolveDisaster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.deps.Services.Disasters.Resolve(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Disaster marked as resolved", d)
	}
}

// DeleteDisaster handles DELETE /api/disasters/{id}
func (h *Handlers) DeleteDisaster() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.deps.Services.Disasters.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Disaster deleted successfully", nil)
	}
}
