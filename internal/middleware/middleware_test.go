package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resq-relief/resq/internal/auth"
	"resq-relief/resq/internal/config"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/metrics"
	"resq-relief/resq/internal/models"
	"resq-relief/resq/internal/models/dtos"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, repositories.ErrNotFound
}

type brokenUsers struct{}

func (brokenUsers) FindByID(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection refused")
}

type fakeRevocations map[string]bool

func (f fakeRevocations) IsRevoked(id string) bool { return f[id] }

func newUser(id string, role constants.Role, active bool) *models.User {
	u := &models.User{Role: role, IsActive: active}
	u.ID = id
	return u
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		w.Write([]byte("anonymous"))
		return
	}
	w.Write([]byte(claims.UserID() + ":" + string(claims.Role())))
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body dtos.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Message
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokenService("middleware-test-secret", time.Hour)
	users := fakeUsers{
		"u-active":   newUser("u-active", constants.RoleVolunteer, true),
		"u-inactive": newUser("u-inactive", constants.RoleDonor, false),
	}
	revoked := fakeRevocations{}
	authn := NewAuthenticator(tokens, users, revoked)
	handler := authn.Authenticate(http.HandlerFunc(whoAmI))

	activeToken, activeClaims, err := tokens.Issue("u-active", constants.RoleVolunteer)
	require.NoError(t, err)
	inactiveToken, _, err := tokens.Issue("u-inactive", constants.RoleDonor)
	require.NoError(t, err)
	ghostToken, _, err := tokens.Issue("u-ghost", constants.RoleVictim)
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, constants.MsgUnauthorized, decodeMessage(t, rec))
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+activeToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u-active:VOLUNTEER", rec.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: constants.TokenCookieName, Value: activeToken})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, constants.MsgInvalidToken, decodeMessage(t, rec))
	})

	t.Run("unknown user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+ghostToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("inactive user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+inactiveToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, constants.MsgAccountInactive, decodeMessage(t, rec))
	})

	t.Run("revoked token", func(t *testing.T) {
		revoked[activeClaims.TokenID()] = true
		defer delete(revoked, activeClaims.TokenID())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+activeToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("stored role wins", func(t *testing.T) {
		users["u-active"].Role = constants.RoleAdmin
		defer func() { users["u-active"].Role = constants.RoleVolunteer }()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+activeToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "u-active:ADMIN", rec.Body.String())
	})
}

func TestAuthenticateLookupFailure(t *testing.T) {
	tokens := auth.NewTokenService("middleware-test-secret", time.Hour)
	authn := NewAuthenticator(tokens, brokenUsers{}, fakeRevocations{})

	token, _, err := tokens.Issue("u1", constants.RoleDonor)
	require.NoError(t, err)

	for name, handler := range map[string]http.Handler{
		"required": authn.Authenticate(http.HandlerFunc(whoAmI)),
		"optional": authn.OptionalAuth(http.HandlerFunc(whoAmI)),
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, constants.MsgServerError, decodeMessage(t, rec))
		})
	}

	// Requests without a token never reach the lookup.
	rec := httptest.NewRecorder()
	authn.OptionalAuth(http.HandlerFunc(whoAmI)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	tokens := auth.NewTokenService("middleware-test-secret", time.Hour)
	users := fakeUsers{"u1": newUser("u1", constants.RoleDonor, true)}
	handler := NewAuthenticator(tokens, users, fakeRevocations{}).OptionalAuth(http.HandlerFunc(whoAmI))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "anonymous", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer broken")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "anonymous", rec.Body.String())

	token, _, err := tokens.Issue("u1", constants.RoleDonor)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "u1:DONOR", rec.Body.String())
}

func TestRequireRoles(t *testing.T) {
	handler := RequireRoles(constants.RoleAdmin, constants.RoleVolunteer)(http.HandlerFunc(whoAmI))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	withRole := func(role constants.Role) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := auth.SetUserClaims(req.Context(), &auth.JWTClaims{UserUUID: "x", RoleValue: role})
		return req.WithContext(ctx)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withRole(constants.RoleVictim))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, constants.MsgForbiddenRole, decodeMessage(t, rec))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withRole(constants.RoleVolunteer))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	rl := NewRateLimiter(config.RateLimitConfig{Requests: 2, Window: time.Hour}, m)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1111"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:3333"))
	// a different client has its own bucket
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1111"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RateLimitedTotal))
}

func TestRateLimiterSweep(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	rl := NewRateLimiter(config.RateLimitConfig{Requests: 1, Window: time.Minute}, m)

	rl.getLimiter("10.0.0.9")
	rl.visitors["10.0.0.9"].lastSeen = time.Now().Add(-2 * time.Minute)
	rl.getLimiter("10.0.0.10")

	rl.Sweep()
	assert.NotContains(t, rl.visitors, "10.0.0.9")
	assert.Contains(t, rl.visitors, "10.0.0.10")
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware(m))
	r.Get("/api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, RequestIDFromContext(r.Context()))
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/4b0c0f3e-8f4e-4a39-9d57-1d2d7c1c9a11", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("/api/tasks/{id}", http.MethodGet, "418"),
	))
}

func TestRequestIDIsPropagated(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(RequestIDFromContext(r.Context())))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "/api/shelters/{id}/occupancy", NormalizeEndpoint("/api/shelters/4b0c0f3e-8f4e-4a39-9d57-1d2d7c1c9a11/occupancy"))
	assert.Equal(t, "/api/disasters/{id}", NormalizeEndpoint("/api/disasters/42"))
	assert.Equal(t, "/api/stats/public", NormalizeEndpoint("/api/stats/public"))
}
