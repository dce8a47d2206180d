package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/metrics"
	"resq-relief/resq/internal/models/dtos"
)

// StatsService builds the admin dashboard and the cached public counters.
type StatsService struct {
	stats   *repositories.StatsRepository
	cache   common.CacheInterface
	ttl     time.Duration
	metrics *metrics.MetricsRegistry
}

func NewStatsService(stats *repositories.StatsRepository, cache common.CacheInterface, ttl time.Duration, m *metrics.MetricsRegistry) *StatsService {
	return &StatsService{
		stats:   stats,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
	}
}

// Dashboard runs every counter concurrently.
func (s *StatsService) Dashboard(ctx context.Context) (*dtos.DashboardStats, error) {
	out := &dtos.DashboardStats{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		byRole, err := s.stats.Grouped(gctx, constants.CountUsersByRole)
		if err != nil {
			return err
		}
		out.Users.ByRole = byRole
		for _, n := range byRole {
			out.Users.Total += n
		}
		return nil
	})
	g.Go(func() (err error) {
		out.Disasters, err = s.stats.Grouped(gctx, constants.CountDisastersByStatus)
		return err
	})
	g.Go(func() (err error) {
		out.AidRequests.ByStatus, err = s.stats.Grouped(gctx, constants.CountAidRequestsByStatus)
		return err
	})
	g.Go(func() (err error) {
		out.AidRequests.PendingOverLimit, err = s.stats.PendingOverLimit(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Tasks, err = s.stats.Grouped(gctx, constants.CountTasksByStatus)
		return err
	})
	g.Go(func() error {
		byType, err := s.stats.Grouped(gctx, constants.CountDonationsByType)
		if err != nil {
			return err
		}
		out.Donations.ByType = byType
		for _, n := range byType {
			out.Donations.Total += n
		}
		return nil
	})
	g.Go(func() (err error) {
		out.Donations.VerifiedMoney, err = s.stats.VerifiedMoney(gctx)
		return err
	})
	g.Go(func() error {
		capacity, err := s.stats.OpenShelterCapacity(gctx)
		if err != nil {
			return err
		}
		out.Shelters = dtos.ShelterCounts{Open: capacity.Shelters, FreeBeds: capacity.FreeBeds}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Public returns the landing-page counters, cached for the configured TTL.
func (s *StatsService) Public(ctx context.Context) (*dtos.PublicStats, error) {
	key := string(constants.CachePrefixPublicStats)
	loaded := false
	out, err := common.CacheGetOrSetAs(s.cache, key, s.ttl, func() (dtos.PublicStats, error) {
		loaded = true
		return s.loadPublic(ctx)
	})
	if err != nil {
		return nil, err
	}

	if loaded {
		s.metrics.CacheMissesTotal.WithLabelValues(key).Inc()
	} else {
		s.metrics.CacheHitsTotal.WithLabelValues(key).Inc()
	}
	return &out, nil
}

func (s *StatsService) loadPublic(ctx context.Context) (dtos.PublicStats, error) {
	var (
		out       dtos.PublicStats
		users     map[string]int64
		disasters map[string]int64
		tasks     map[string]int64
		shelters  map[string]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.stats.Grouped(gctx, constants.CountUsersByRole)
		return err
	})
	g.Go(func() (err error) {
		disasters, err = s.stats.Grouped(gctx, constants.CountDisastersByStatus)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = s.stats.Grouped(gctx, constants.CountTasksByStatus)
		return err
	})
	g.Go(func() (err error) {
		out.PeopleHelped, err = s.stats.PeopleHelped(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.MoneyRaised, err = s.stats.VerifiedMoney(gctx)
		return err
	})
	g.Go(func() (err error) {
		shelters, err = s.stats.Grouped(gctx, constants.CountSheltersByStatus)
		return err
	})
	if err := g.Wait(); err != nil {
		return out, err
	}

	out.ActiveDisasters = disasters[string(constants.DisasterStatusActive)]
	out.AvailableShelters = shelters[string(constants.ShelterStatusAvailable)]
	out.CompletedTasks = tasks[string(constants.TaskStatusCompleted)]
	out.Volunteers = users[string(constants.RoleVolunteer)]
	out.Donors = users[string(constants.RoleDonor)]
	if out.PeopleHelped == 0 {
		out.PeopleHelped = users[string(constants.RoleVictim)]
	}
	return out, nil
}
