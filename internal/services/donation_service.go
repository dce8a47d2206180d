package services

import (
	"context"
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

type DonationService struct {
	donations *repositories.DonationRepository
	disasters *repositories.DisasterRepository
	metrics   *metrics.MetricsRegistry
}

func NewDonationService(
	donations *repositories.DonationRepository,
	disasters *repositories.DisasterRepository,
	m *metrics.MetricsRegistry,
) *DonationService {
	return &DonationService{
		donations: donations,
		disasters: disasters,
		metrics:   m,
	}
}

// CreateMoney records a money donation. The transaction id is taken as proof
// of payment, so it starts VERIFIED.
func (s *DonationService) CreateMoney(ctx context.Context, actor Actor, req dtos.MoneyDonationRequest) (*models.Donation, error) {
	disasterID, err := ensureDisaster(ctx, s.disasters, req.DisasterID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	d := &models.Donation{
		DonorID:       actor.ID,
		Type:          constants.DonationTypeMoney,
		DisasterID:    disasterID,
		Amount:        req.Amount,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		TransactionID: strings.TrimSpace(req.TransactionID),
		Status:        constants.DonationStatusVerified,
		VerifiedAt:    &now,
	}
	if err := s.donations.Create(ctx, d); err != nil {
		return nil, err
	}

	s.metrics.DonationsCreated.WithLabelValues(string(d.Type)).Inc()
	s.metrics.MoneyDonatedTotal.Add(d.Amount)
	return d, nil
}

// CreateItems records an in-kind donation pending admin verification.
func (s *DonationService) CreateItems(ctx context.Context, actor Actor, req dtos.ItemDonationRequest) (*models.Donation, error) {
	disasterID, err := ensureDisaster(ctx, s.disasters, req.DisasterID)
	if err != nil {
		return nil, err
	}

	d := &models.Donation{
		DonorID:     actor.ID,
		Type:        constants.DonationTypeItems,
		DisasterID:  disasterID,
		ItemType:    strings.TrimSpace(req.ItemType),
		Quantity:    req.Quantity,
		Description: strings.TrimSpace(req.Description),
		Status:      constants.DonationStatusPending,
	}
	if err := s.donations.Create(ctx, d); err != nil {
		return nil, err
	}

	s.metrics.DonationsCreated.WithLabelValues(string(d.Type)).Inc()
	return d, nil
}

func (s *DonationService) MyDonations(ctx context.Context, actor Actor, filter repositories.DonationFilter) ([]models.Donation, dtos.DonationStats, error) {
	filter.DonorID = actor.ID
	return s.List(ctx, filter)
}

func (s *DonationService) List(ctx context.Context, filter repositories.DonationFilter) ([]models.Donation, dtos.DonationStats, error) {
	list, err := s.donations.List(ctx, filter)
	if err != nil {
		return nil, dtos.DonationStats{}, err
	}
	return list, SummarizeDonations(list), nil
}

// SummarizeDonations reduces an already filtered list.
func SummarizeDonations(list []models.Donation) dtos.DonationStats {
	stats := dtos.DonationStats{TotalDonations: len(list)}
	for _, d := range list {
		switch d.Type {
		case constants.DonationTypeMoney:
			stats.TotalMoney += d.Amount
		case constants.DonationTypeItems:
			stats.TotalItems++
		}
	}
	return stats
}

func (s *DonationService) Get(ctx context.Context, actor Actor, id string) (*models.Donation, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && d.DonorID != actor.ID {
		return nil, common.ForbiddenError(constants.MsgNotResourceOwner)
	}
	return d, nil
}

func (s *DonationService) find(ctx context.Context, id string) (*models.Donation, error) {
	d, err := s.donations.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, constants.MsgDonationNotFound)
	}
	return d, nil
}

func (s *DonationService) Verify(ctx context.Context, actor Actor, id string) (*models.Donation, error) {
	return s.review(ctx, actor, id, constants.DonationStatusVerified, "")
}

func (s *DonationService) Reject(ctx context.Context, actor Actor, id, reason string) (*models.Donation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, common.ValidationError("reason is required")
	}
	return s.review(ctx, actor, id, constants.DonationStatusRejected, reason)
}

// review settles a PENDING donation; anything else is a 400.
func (s *DonationService) review(ctx context.Context, actor Actor, id string, status constants.DonationStatus, reason string) (*models.Donation, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != constants.DonationStatusPending {
		return nil, common.ValidationError(constants.MsgDonationNotPending)
	}

	now := time.Now()
	d.Status = status
	d.VerifiedByID = strPtr(actor.ID)
	d.VerifiedAt = &now
	if status == constants.DonationStatusRejected {
		d.RejectionReason = reason
	}

	if err := s.donations.Save(ctx, d); err != nil {
		return nil, err
	}
	logging.Info("Donation reviewed", "donation_id", id, "status", status, "by", actor.ID)
	return d, nil
}

// UpdateStatus sets any value of the status enum for downstream bookkeeping.
func (s *DonationService) UpdateStatus(ctx context.Context, actor Actor, id, rawStatus string) (*models.Donation, error) {
	status, err := common.ParseEnumField("status", rawStatus, constants.DonationStatuses)
	if err != nil {
		return nil, err
	}
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	d.Status = status
	if err := s.donations.Save(ctx, d); err != nil {
		return nil, err
	}
	logging.Info("Donation status updated", "donation_id", id, "status", status, "by", actor.ID)
	return d, nil
}
