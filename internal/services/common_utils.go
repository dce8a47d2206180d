package services

import (
	"context"
	"errors"
	"strings"

	"resq-relief/resq/internal/auth"
	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
)

// Actor is the authenticated caller a service acts on behalf of.
type Actor struct {
	ID   string
	Role constants.Role
}

func (a Actor) IsAdmin() bool { return a.Role == constants.RoleAdmin }

// ActorFromClaims builds the Actor for an authenticated request.
func ActorFromClaims(c auth.UserClaims) Actor {
	if c == nil {
		return Actor{}
	}
	return Actor{ID: c.UserID(), Role: c.Role()}
}

// notFound turns repositories.ErrNotFound into a NotFound AppError.
func notFound(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return common.NotFoundError(msg)
	}
	return err
}

type disasterChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ensureDisaster validates an optional disaster reference and returns it
// normalised (nil when blank).
func ensureDisaster(ctx context.Context, disasters disasterChecker, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	ref := strings.TrimSpace(*id)
	ok, err := disasters.Exists(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ValidationError("disasterId does not reference an existing disaster")
	}
	return &ref, nil
}

func strPtr(s string) *string { return &s }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
