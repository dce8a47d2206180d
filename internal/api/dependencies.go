package api

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"resq-relief/resq/internal/auth"
	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/config"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/metrics"
	"resq-relief/resq/internal/services"
)

type Repositories struct {
	Users       *repositories.UserRepositoryGORM
	Disasters   *repositories.DisasterRepository
	AidRequests *repositories.AidRequestRepository
	Donations   *repositories.DonationRepository
	Shelters    *repositories.ShelterRepository
	Tasks       *repositories.TaskRepository
	Stats       *repositories.StatsRepository
}

type Services struct {
	Auth        *services.AuthService
	Users       *services.UserService
	Disasters   *services.DisasterService
	AidRequests *services.AidRequestService
	Donations   *services.DonationService
	Shelters    *services.ShelterService
	Tasks       *services.TaskService
	Stats       *services.StatsService
}

type Dependencies struct {
	Config   *config.Config
	Repo     *Repositories
	Services *Services
	Cache    common.CacheInterface
	Metrics  *metrics.MetricsRegistry
	Tokens   *auth.TokenService
	DB       *sqlx.DB
}

// InitDependencies wires repositories and services over the given
// connections. The caller owns gdb, sqlxDB and cache.
func InitDependencies(cfg *config.Config, gdb *gorm.DB, sqlxDB *sqlx.DB, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Users:       repositories.NewUserRepositoryGORM(gdb),
		Disasters:   repositories.NewDisasterRepository(gdb),
		AidRequests: repositories.NewAidRequestRepository(gdb),
		Donations:   repositories.NewDonationRepository(gdb),
		Shelters:    repositories.NewShelterRepository(gdb),
		Tasks:       repositories.NewTaskRepository(gdb),
		Stats:       repositories.NewStatsRepository(sqlxDB),
	}

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiry)

	svcs := &Services{
		Auth:        services.NewAuthService(repos.Users, tokens, cache),
		Users:       services.NewUserService(repos.Users),
		Disasters:   services.NewDisasterService(repos.Disasters),
		AidRequests: services.NewAidRequestService(repos.AidRequests, repos.Disasters, cfg.AidLimits, metricsReg),
		Donations:   services.NewDonationService(repos.Donations, repos.Disasters, metricsReg),
		Shelters:    services.NewShelterService(repos.Shelters, repos.Disasters, metricsReg),
		Tasks:       services.NewTaskService(repos.Tasks, repos.Users, repos.Disasters, metricsReg),
		Stats:       services.NewStatsService(repos.Stats, cache, cfg.Cache.StatsTTL, metricsReg),
	}

	return &Dependencies{
		Config:   cfg,
		Repo:     repos,
		Services: svcs,
		Cache:    cache,
		Metrics:  metricsReg,
		Tokens:   tokens,
		DB:       sqlxDB,
	}, nil
}
