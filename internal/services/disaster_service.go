package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/logging"
	"resq-relief/resq/internal/models"
	"resq-relief/resq/internal/models/dtos"
)

type DisasterService struct {
	disasters *repositories.DisasterRepository
}

func NewDisasterService(disasters *repositories.DisasterRepository) *DisasterService {
	return &DisasterService{disasters: disasters}
}

func (s *DisasterService) List(ctx context.Context, filter repositories.DisasterFilter) ([]models.Disaster, error) {
	return s.disasters.List(ctx, filter)
}

// Search ranks disasters by how many query terms hit name (3), location (2)
// and city (1). Ties keep newest first.
func (s *DisasterService) Search(ctx context.Context, query string, filter repositories.DisasterFilter) ([]models.Disaster, error) {
	terms := strings.Fields(strings.ToLower(query))

	candidates, err := s.disasters.SearchCandidates(ctx, terms, filter, constants.SearchCandidateLimit)
	if err != nil {
		return nil, err
	}

	if len(terms) > 0 {
		scores := make(map[string]int, len(candidates))
		matched := candidates[:0]
		for _, d := range candidates {
			if score := searchScore(d, terms); score > 0 {
				scores[d.ID] = score
				matched = append(matched, d)
			}
		}
		candidates = matched
		sort.SliceStable(candidates, func(i, j int) bool {
			return scores[candidates[i].ID] > scores[candidates[j].ID]
		})
	}

	if len(candidates) > constants.SearchResultLimit {
		candidates = candidates[:constants.SearchResultLimit]
	}
	return candidates, nil
}

func searchScore(d models.Disaster, terms []string) int {
	name := strings.ToLower(d.Name)
	location := strings.ToLower(d.Location)
	city := strings.ToLower(d.City)

	score := 0
	for _, t := range terms {
		if strings.Contains(name, t) {
			score += 3
		}
		if strings.Contains(location, t) {
			score += 2
		}
		if strings.Contains(city, t) {
			score++
		}
	}
	return score
}

func (s *DisasterService) Get(ctx context.Context, id string) (*models.Disaster, error) {
	d, err := s.disasters.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, constants.MsgDisasterNotFound)
	}
	return d, nil
}

// Report records a disaster raised by any signed-in user; it waits for an
// admin to verify it.
func (s *DisasterService) Report(ctx context.Context, actor Actor, req dtos.DisasterRequest) (*models.Disaster, error) {
	d, err := disasterFromRequest(req)
	if err != nil {
		return nil, err
	}
	d.Status = constants.DisasterStatusPending
	d.ReportedByID = actor.ID

	if err := s.disasters.Create(ctx, d); err != nil {
		return nil, err
	}
	logging.Info("Disaster reported", "disaster_id", d.ID, "reported_by", actor.ID)
	return d, nil
}

// Add records an admin-created disaster, active immediately.
func (s *DisasterService) Add(ctx context.Context, actor Actor, req dtos.DisasterRequest) (*models.Disaster, error) {
	d, err := disasterFromRequest(req)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	d.Status = constants.DisasterStatusActive
	d.ReportedByID = actor.ID
	d.VerifiedByID = strPtr(actor.ID)
	d.VerifiedAt = &now

	if err := s.disasters.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func disasterFromRequest(req dtos.DisasterRequest) (*models.Disaster, error) {
	dtype, err := common.ParseEnumField("type", req.Type, constants.DisasterTypes)
	if err != nil {
		return nil, err
	}
	severity, err := common.ParseEnumFieldOr("severity", req.Severity, constants.Severities, constants.SeverityMedium)
	if err != nil {
		return nil, err
	}

	return &models.Disaster{
		Name:           strings.TrimSpace(req.Name),
		Type:           dtype,
		Description:    strings.TrimSpace(req.Description),
		Location:       strings.TrimSpace(req.Location),
		City:           strings.TrimSpace(req.City),
		Severity:       severity,
		AffectedPeople: req.AffectedPeople,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
	}, nil
}

// Update applies a partial edit; enums are validated like on create.
func (s *DisasterService) Update(ctx context.Context, id string, req dtos.DisasterUpdateRequest) (*models.Disaster, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		d.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		if d.Type, err = common.ParseEnumField("type", *req.Type, constants.DisasterTypes); err != nil {
			return nil, err
		}
	}
	if req.Severity != nil {
		if d.Severity, err = common.ParseEnumField("severity", *req.Severity, constants.Severities); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if d.Status, err = common.ParseEnumField("status", *req.Status, constants.DisasterStatuses); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		d.Description = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		d.Location = strings.TrimSpace(*req.Location)
	}
	if req.City != nil {
		d.City = strings.TrimSpace(*req.City)
	}
	if req.AffectedPeople != nil {
		d.AffectedPeople = *req.AffectedPeople
	}
	if req.Latitude != nil {
		d.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		d.Longitude = req.Longitude
	}

	if err := s.disasters.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DisasterService) Verify(ctx context.Context, actor Actor, id string) (*models.Disaster, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	d.Status = constants.DisasterStatusActive
	d.VerifiedByID = strPtr(actor.ID)
	d.VerifiedAt = &now
	d.RejectionReason = ""

	if err := s.disasters.Save(ctx, d); err != nil {
		return nil, err
	}
	logging.Info("Disaster verified", "disaster_id", id, "by", actor.ID)
	return d, nil
}

func (s *DisasterService) Reject(ctx context.Context, actor Actor, id, reason string) (*models.Disaster, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	d.Status = constants.DisasterStatusRejected
	d.VerifiedByID = strPtr(actor.ID)
	d.VerifiedAt = &now
	d.RejectionReason = strings.TrimSpace(reason)

	if err := s.disasters.Save(ctx, d); err != nil {
		return nil, err
	}
	logging.Info("Disaster rejected", "disaster_id", id, "by", actor.ID)
	return d, nil
}

func (s *DisasterService) Resolve(ctx context.Context, id string) (*models.Disaster, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	d.Status = constants.DisasterStatusResolved
	d.ResolvedAt = &now

	if err := s.disasters.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DisasterService) Delete(ctx context.Context, id string) error {
	if err := s.disasters.Delete(ctx, id); err != nil {
		return notFound(err, constants.MsgDisasterNotFound)
	}
	return nil
}
