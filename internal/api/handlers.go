package api

import (
	"net/http"

	"resq-relief/resq/internal/auth"
	"resq-relief/resq/internal/services"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// actor returns the caller set by the auth middleware. Routes that call it
// are always mounted behind Authenticate.
func actor(r *http.Request) services.Actor {
	return services.ActorFromClaims(auth.GetUserClaims(r.Context()))
}
