package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/models/dtos"
)

// CreateAidRequest handles POST /api/aid-requests
//
// @Summary      Submit an aid request
// @Description  Amounts above the configured per-type limit are accepted and flagged for review.
// @Tags         AidRequests
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.AidRequestCreate  true  "Aid request"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Router       /api/aid-requests [post]
func (h *Handlers) CreateAidRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.AidRequestCreate
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		ar, err := h.deps.Services.AidRequests.Create(r.Context(), actor(r), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		msg := "Aid request submitted successfully"
		if ar.ExceedsLimit {
			msg = "Aid request submitted. The amount exceeds the system limit and will be reviewed by an admin."
		}
		common.RespondSuccess(w, msg, ar, http.StatusCreated)
	}
}

// MyAidRequests handles GET /api/aid-requests/my-requests
func (h *Handlers) MyAidRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := common.QueryEnum(r, "status", constants.AidRequestStatuses)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		list, err := h.deps.Services.AidRequests.MyRequests(r.Context(), actor(r), status)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), nil)
	}
}

// PendingAidRequests handles GET /api/aid-requests/pending
func (h *Handlers) PendingAidRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exceeds, err := common.QueryBool(r, "exceedsLimit")
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		list, err := h.deps.Services.AidRequests.Pending(r.Context(), exceeds)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), nil)
	}
}

// ListAidRequests handles GET /api/aid-requests
func (h *Handlers) ListAidRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			filter repositories.AidRequestFilter
			err    error
		)
		if filter.Status, err = common.QueryEnum(r, "status", constants.AidRequestStatuses); err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		if filter.AidType, err = common.QueryEnum(r, "aidType", constants.AidTypes); err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		if filter.Urgency, err = common.QueryEnum(r, "urgency", constants.Urgencies); err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		filter.DisasterID = common.QueryString(r, "disaster")

		list, err := h.deps.Services.AidRequests.List(r.Context(), filter)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), nil)
	}
}

// GetAidRequest handles GET /api/aid-requests/{id}
func (h *Handlers) GetAidRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ar, err := h.deps.Services.AidRequests.Get(r.Context(), actor(r), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "", ar)
	}
}

// ApproveAidRequest handles PUT /api/aid-requests/{id}/approve
func (h *Handlers) ApproveAidRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ar, err := h.deps.Services.AidRequests.Approve(r.Context(), actor(r), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Aid request approved", ar)
	}
}

// RejectAidRequest handles PUT /api/aid-requests/{id}/reject
func (h *Handlers) RejectAidRequest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.RejectRequest
		if err := common.DecodeOptionalJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		ar, err := h.deps.Services.AidRequests.Reject(r.Context(), actor(r), chi.URLParam(r, "id"), req.Reason)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Aid request rejected", ar)
	}
}

// UpdateAidRequestStatus handles PUT /api/aid-requests/{id}/status
func (h *Handlers) UpdateAidRequestStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.StatusUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		ar, err := h.deps.Services.AidRequests.UpdateStatus(r.Context(), actor(r), chi.URLParam(r, "id"), req.Status)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Aid request status updated", ar)
	}
}
