package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/config"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/logging"
	"resq-relief/resq/internal/metrics"
	"resq-relief/resq/internal/models"
	"resq-relief/resq/internal/models/dtos"
)

type AidRequestService struct {
	requests  *repositories.AidRequestRepository
	disasters *repositories.DisasterRepository
	limits    config.AidLimits
	metrics   *metrics.MetricsRegistry
}

// NewAidRequestService keeps its own copy of limits for its lifetime.
func NewAidRequestService(
	requests *repositories.AidRequestRepository,
	disasters *repositories.DisasterRepository,
	limits config.AidLimits,
	m *metrics.MetricsRegistry,
) *AidRequestService {
	return &AidRequestService{
		requests:  requests,
		disasters: disasters,
		limits:    limits,
		metrics:   m,
	}
}

// Create files a request for the victim. A breach of the type limit is
// flagged, never blocked.
func (s *AidRequestService) Create(ctx context.Context, actor Actor, req dtos.AidRequestCreate) (*models.AidRequest, error) {
	aidType, err := common.ParseEnumField("aidType", req.AidType, constants.AidTypes)
	if err != nil {
		return nil, err
	}
	urgency, err := common.ParseEnumFieldOr("urgency", req.Urgency, constants.Urgencies, constants.UrgencyMedium)
	if err != nil {
		return nil, err
	}
	disasterID, err := ensureDisaster(ctx, s.disasters, req.DisasterID)
	if err != nil {
		return nil, err
	}

	familySize := req.FamilySize
	if familySize == 0 {
		familySize = 1
	}

	limit := s.limits.For(aidType)
	ar := &models.AidRequest{
		VictimID:     actor.ID,
		DisasterID:   disasterID,
		AidType:      aidType,
		Amount:       req.Amount,
		FamilySize:   familySize,
		Urgency:      urgency,
		Description:  strings.TrimSpace(req.Description),
		Location:     strings.TrimSpace(req.Location),
		Status:       constants.AidStatusPending,
		ExceedsLimit: req.Amount > limit,
		SystemLimit:  limit,
	}

	if err := s.requests.Create(ctx, ar); err != nil {
		return nil, err
	}

	s.metrics.AidRequestsCreated.WithLabelValues(string(aidType), strconv.FormatBool(ar.ExceedsLimit)).Inc()
	if ar.ExceedsLimit {
		logging.Info("Aid request exceeds type limit",
			"aid_request_id", ar.ID,
			"aid_type", aidType,
			"amount", ar.Amount,
			"limit", limit,
		)
	}
	return ar, nil
}

func (s *AidRequestService) MyRequests(ctx context.Context, actor Actor, status constants.AidRequestStatus) ([]models.AidRequest, error) {
	return s.requests.List(ctx, repositories.AidRequestFilter{VictimID: actor.ID, Status: status})
}

func (s *AidRequestService) Pending(ctx context.Context, exceedsLimit *bool) ([]models.AidRequest, error) {
	return s.requests.List(ctx, repositories.AidRequestFilter{
		Status:       constants.AidStatusPending,
		ExceedsLimit: exceedsLimit,
	})
}

func (s *AidRequestService) List(ctx context.Context, filter repositories.AidRequestFilter) ([]models.AidRequest, error) {
	return s.requests.List(ctx, filter)
}

// Get returns the request to its victim or an admin.
func (s *AidRequestService) Get(ctx context.Context, actor Actor, id string) (*models.AidRequest, error) {
	ar, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && ar.VictimID != actor.ID {
		return nil, common.ForbiddenError(constants.MsgNotResourceOwner)
	}
	return ar, nil
}

func (s *AidRequestService) find(ctx context.Context, id string) (*models.AidRequest, error) {
	ar, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, constants.MsgAidRequestNotFound)
	}
	return ar, nil
}

func (s *AidRequestService) Approve(ctx context.Context, actor Actor, id string) (*models.AidRequest, error) {
	return s.review(ctx, actor, id, constants.AidStatusApproved, "")
}

func (s *AidRequestService) Reject(ctx context.Context, actor Actor, id, reason string) (*models.AidRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, common.ValidationError("reason is required")
	}
	return s.review(ctx, actor, id, constants.AidStatusRejected, reason)
}

func (s *AidRequestService) review(ctx context.Context, actor Actor, id string, status constants.AidRequestStatus, reason string) (*models.AidRequest, error) {
	ar, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ar.Status = status
	ar.ReviewedByID = strPtr(actor.ID)
	ar.ReviewedAt = &now
	if status == constants.AidStatusRejected {
		ar.RejectionReason = reason
	}

	if err := s.requests.Save(ctx, ar); err != nil {
		return nil, err
	}
	logging.Info("Aid request reviewed", "aid_request_id", id, "status", status, "by", actor.ID)
	return ar, nil
}

// UpdateStatus sets any value of the status enum. DELIVERED and RECEIVED
// stamp their timestamps.
func (s *AidRequestService) UpdateStatus(ctx context.Context, actor Actor, id, rawStatus string) (*models.AidRequest, error) {
	status, err := common.ParseEnumField("status", rawStatus, constants.AidRequestStatuses)
	if err != nil {
		return nil, err
	}
	ar, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ar.Status = status
	switch status {
	case constants.AidStatusDelivered:
		ar.DeliveredAt = &now
	case constants.AidStatusReceived:
		ar.ReceivedAt = &now
	}

	if err := s.requests.Save(ctx, ar); err != nil {
		return nil, err
	}
	logging.Info("Aid request status updated", "aid_request_id", id, "status", status, "by", actor.ID)
	return ar, nil
}
