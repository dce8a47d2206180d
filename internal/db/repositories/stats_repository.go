package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"resq-relief/resq/internal/constants"
)

type bucketCount struct {
	Bucket string `db:"bucket"`
	Total  int64  `db:"total"`
}

type ShelterCapacity struct {
	Shelters int64 `db:"shelters"`
	FreeBeds int64 `db:"free_beds"`
}

// StatsRepository runs the reporting queries over the sqlx handle.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db}
}

// Grouped runs one of the "bucket, total" queries and returns it as a map.
func (r *StatsRepository) Grouped(ctx context.Context, query string) (map[string]int64, error) {
	var rows []bucketCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("grouped count: %w", err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Bucket] = row.Total
	}
	return out, nil
}

func (r *StatsRepository) PendingOverLimit(ctx context.Context) (int64, error) {
	var n int64
	query := r.db.Rebind(constants.CountPendingOverLimit)
	if err := r.db.GetContext(ctx, &n, query, string(constants.AidStatusPending), true); err != nil {
		return 0, fmt.Errorf("count pending over limit: %w", err)
	}
	return n, nil
}

// VerifiedMoney sums money donations that are neither pending nor rejected.
func (r *StatsRepository) VerifiedMoney(ctx context.Context) (float64, error) {
	var sum float64
	query := r.db.Rebind(constants.SumVerifiedMoney)
	err := r.db.GetContext(ctx, &sum, query,
		string(constants.DonationTypeMoney),
		string(constants.DonationStatusPending),
		string(constants.DonationStatusRejected),
	)
	if err != nil {
		return 0, fmt.Errorf("sum verified money: %w", err)
	}
	return sum, nil
}

// PeopleHelped counts aid requests that reached DELIVERED or RECEIVED.
func (r *StatsRepository) PeopleHelped(ctx context.Context) (int64, error) {
	var n int64
	query := r.db.Rebind(constants.CountAidRequestsInStatuses)
	err := r.db.GetContext(ctx, &n, query,
		string(constants.AidStatusDelivered),
		string(constants.AidStatusReceived),
	)
	if err != nil {
		return 0, fmt.Errorf("count people helped: %w", err)
	}
	return n, nil
}

// OpenShelterCapacity counts AVAILABLE and FULL shelters and their free beds.
func (r *StatsRepository) OpenShelterCapacity(ctx context.Context) (ShelterCapacity, error) {
	var out ShelterCapacity
	query := r.db.Rebind(constants.ShelterCapacity)
	err := r.db.GetContext(ctx, &out, query,
		string(constants.ShelterStatusAvailable),
		string(constants.ShelterStatusFull),
	)
	if err != nil {
		return out, fmt.Errorf("shelter capacity: %w", err)
	}
	return out, nil
}

// Ping is used by the health check.
func (r *StatsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
