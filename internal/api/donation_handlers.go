package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/models/dtos"
)

func donationFilter(r *http.Request) (repositories.DonationFilter, error) {
	var (
		f   repositories.DonationFilter
		err error
	)
	if f.Type, err = common.QueryEnum(r, "type", constants.DonationTypes); err != nil {
		return f, err
	}
	if f.Status, err = common.QueryEnum(r, "status", constants.DonationStatuses); err != nil {
		return f, err
	}
	f.DisasterID = common.QueryString(r, "disaster")
	return f, nil
}

// CreateMoneyDonation handles POST /api/donations/money
//
// @Summary      Record a money donation
// @Description  The transaction id is accepted as proof of payment; the donation starts VERIFIED.
// @Tags         Donations
// @Accept       json
// @Produce      json
// @Param        input  body  dtos.MoneyDonationRequest  true  "Donation"
// @Success      201  {object}  dtos.APIResponse
// @Failure      400  {object}  dtos.APIResponse
// @Router       /api/donations/money [post]
func (h *Handlers) CreateMoneyDonation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.MoneyDonationRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		d, err := h.deps.Services.Donations.CreateMoney(r.Context(), actor(r), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Thank you for your donation", d, http.StatusCreated)
	}
}

// CreateItemDonation handles POST /api/donations/items
func (h *Handlers) CreateItemDonation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ItemDonationRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		d, err := h.deps.Services.Donations.CreateItems(r.Context(), actor(r), req)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Item donation submitted for verification", d, http.StatusCreated)
	}
}

// MyDonations handles GET /api/donations/my-donations
func (h *Handlers) MyDonations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := donationFilter(r)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		list, stats, err := h.deps.Services.Donations.MyDonations(r.Context(), actor(r), filter)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), stats)
	}
}

// ListDonations handles GET /api/donations
func (h *Handlers) ListDonations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := donationFilter(r)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		list, stats, err := h.deps.Services.Donations.List(r.Context(), filter)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondCollection(w, list, len(list), stats)
	}
}

// GetDonation handles GET /api/donations/{id}
func (h *Handlers) GetDonation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.deps.Services.Donations.Get(r.Context(), actor(r), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "", d)
	}
}

// VerifyDonation handles PUT /api/donations/{id}/verify
func (h *Handlers) VerifyDonation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := h.deps.Services.Donations.Verify(r.Context(), actor(r), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Donation verified", d)
	}
}

// RejectDonation handles PUT /api/donations/{id}/reject
func (h *Handlers) RejectDonation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.RejectRequest
		if err := common.DecodeOptionalJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		d, err := h.deps.Services.Donations.Reject(r.Context(), actor(r), chi.URLParam(r, "id"), req.Reason)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Donation rejected", d)
	}
}

// UpdateDonationStatus handles PUT /api/donations/{id}/status
func (h *Handlers) UpdateDonationStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.StatusUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.RespondAppError(w, r, err)
			return
		}

		d, err := h.deps.Services.Donations.UpdateStatus(r.Context(), actor(r), chi.URLParam(r, "id"), req.Status)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		common.RespondSuccess(w, "Donation status updated", d)
	}
}
