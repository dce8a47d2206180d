package services

import (
	"context"
	"errors"
	"strings"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/logging"
	"resq-relief/resq/internal/metrics"
	"resq-relief/resq/internal/models"
	"resq-relief/resq/internal/models/dtos"
)

type ShelterService struct {
	shelters  *repositories.ShelterRepository
	disasters *repositories.DisasterRepository
	metrics   *metrics.MetricsRegistry
}

func NewShelterService(
	shelters *repositories.ShelterRepository,
	disasters *repositories.DisasterRepository,
	m *metrics.MetricsRegistry,
) *ShelterService {
	return &ShelterService{
		shelters:  shelters,
		disasters: disasters,
		metrics:   m,
	}
}

// Offer registers a donor's shelter. Status is derived from the bed counts.
func (s *ShelterService) Offer(ctx context.Context, actor Actor, req dtos.ShelterRequest) (*models.Shelter, error) {
	if req.BedsOccupied > req.BedsAvailable {
		return nil, common.ValidationError(constants.MsgOccupancyExceeded)
	}
	disasterID, err := ensureDisaster(ctx, s.disasters, req.DisasterID)
	if err != nil {
		return nil, err
	}

	shelter := &models.Shelter{
		DonorID:       actor.ID,
		DisasterID:    disasterID,
		Name:          strings.TrimSpace(req.Name),
		Address:       strings.TrimSpace(req.Address),
		City:          strings.TrimSpace(req.City),
		ContactPhone:  strings.TrimSpace(req.ContactPhone),
		Description:   strings.TrimSpace(req.Description),
		BedsAvailable: req.BedsAvailable,
		BedsOccupied:  req.BedsOccupied,
		Facilities:    models.Facilities(req.Facilities),
		Status:        constants.ShelterStatusAvailable,
	}
	if err := s.shelters.Create(ctx, shelter); err != nil {
		return nil, err
	}

	logging.Info("Shelter offered", "shelter_id", shelter.ID, "donor_id", actor.ID, "beds", shelter.BedsAvailable)
	return shelter, nil
}

// Get returns any shelter to a signed-in user; admins also get the donor.
func (s *ShelterService) Get(ctx context.Context, actor Actor, id string) (*models.Shelter, error) {
	shelter, err := s.shelters.FindByID(ctx, id, actor.IsAdmin())
	if err != nil {
		return nil, notFound(err, constants.MsgShelterNotFound)
	}
	return shelter, nil
}

// Available lists AVAILABLE and FULL shelters, most free beds first.
func (s *ShelterService) Available(ctx context.Context, city, disasterID string) ([]models.Shelter, error) {
	return s.shelters.List(ctx, repositories.ShelterFilter{
		Statuses:   []constants.ShelterStatus{constants.ShelterStatusAvailable, constants.ShelterStatusFull},
		City:       city,
		DisasterID: disasterID,
		ByFreeBeds: true,
	})
}

func (s *ShelterService) Mine(ctx context.Context, actor Actor) ([]models.Shelter, error) {
	return s.shelters.List(ctx, repositories.ShelterFilter{DonorID: actor.ID})
}

func (s *ShelterService) List(ctx context.Context, status constants.ShelterStatus, city string) ([]models.Shelter, error) {
	filter := repositories.ShelterFilter{City: city, IncludeDonor: true}
	if status != "" {
		filter.Statuses = []constants.ShelterStatus{status}
	}
	return s.shelters.List(ctx, filter)
}

// owned loads the shelter and checks the caller may mutate it.
func (s *ShelterService) owned(ctx context.Context, actor Actor, id string) (*models.Shelter, error) {
	shelter, err := s.shelters.FindByID(ctx, id, false)
	if err != nil {
		return nil, notFound(err, constants.MsgShelterNotFound)
	}
	if !actor.IsAdmin() && shelter.DonorID != actor.ID {
		return nil, common.ForbiddenError(constants.MsgShelterNotOwner)
	}
	return shelter, nil
}

// Update edits a shelter for its donor or an admin.
func (s *ShelterService) Update(ctx context.Context, actor Actor, id string, req dtos.ShelterUpdateRequest) (*models.Shelter, error) {
	shelter, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	prevAvailable, prevOccupied := shelter.BedsAvailable, shelter.BedsOccupied

	if req.Name != nil {
		shelter.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		shelter.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		shelter.City = strings.TrimSpace(*req.City)
	}
	if req.ContactPhone != nil {
		shelter.ContactPhone = strings.TrimSpace(*req.ContactPhone)
	}
	if req.Description != nil {
		shelter.Description = strings.TrimSpace(*req.Description)
	}
	if req.BedsAvailable != nil {
		shelter.BedsAvailable = *req.BedsAvailable
	}
	if req.BedsOccupied != nil {
		shelter.BedsOccupied = *req.BedsOccupied
	}
	if req.Facilities != nil {
		shelter.Facilities = models.Facilities(*req.Facilities)
	}
	if req.Status != nil {
		if shelter.Status, err = common.ParseEnumField("status", *req.Status, constants.ShelterStatuses); err != nil {
			return nil, err
		}
	}
	if req.DisasterID != nil {
		if shelter.DisasterID, err = ensureDisaster(ctx, s.disasters, req.DisasterID); err != nil {
			return nil, err
		}
		shelter.Disaster = nil
	}

	if shelter.BedsOccupied > shelter.BedsAvailable {
		return nil, common.ValidationError(constants.MsgOccupancyExceeded)
	}

	if err := s.shelters.UpdateGuarded(ctx, shelter, prevAvailable, prevOccupied); err != nil {
		if errors.Is(err, repositories.ErrStaleWrite) {
			return nil, common.ConflictError(constants.MsgConcurrentUpdate)
		}
		return nil, err
	}
	return shelter, nil
}

func (s *ShelterService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.shelters.Delete(ctx, id); err != nil {
		return notFound(err, constants.MsgShelterNotFound)
	}
	logging.Info("Shelter deleted", "shelter_id", id, "by", actor.ID)
	return nil
}

// UpdateOccupancy sets the occupied bed count. The write only lands if the
// shelter is unchanged since it was read; a lost race is a 409.
func (s *ShelterService) UpdateOccupancy(ctx context.Context, actor Actor, id string, occupied int) (*models.Shelter, error) {
	if occupied < 0 {
		return nil, common.ValidationError("bedsOccupied must be at least 0")
	}

	shelter, err := s.shelters.FindByID(ctx, id, false)
	if err != nil {
		return nil, notFound(err, constants.MsgShelterNotFound)
	}
	if occupied > shelter.BedsAvailable {
		s.metrics.OccupancyUpdates.WithLabelValues("rejected").Inc()
		return nil, common.ValidationError(constants.MsgOccupancyExceeded)
	}

	status, err := s.shelters.CompareAndSetOccupancy(ctx, shelter, occupied)
	if err != nil {
		if errors.Is(err, repositories.ErrStaleWrite) {
			s.metrics.OccupancyUpdates.WithLabelValues("conflict").Inc()
			return nil, common.ConflictError(constants.MsgConcurrentUpdate)
		}
		return nil, err
	}
	s.metrics.OccupancyUpdates.WithLabelValues("applied").Inc()

	shelter.BedsOccupied = occupied
	shelter.Status = status
	logging.Info("Shelter occupancy updated",
		"shelter_id", id,
		"beds_occupied", occupied,
		"status", status,
		"by", actor.ID,
	)
	return shelter, nil
}
