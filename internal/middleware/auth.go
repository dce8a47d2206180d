package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"resq-relief/resq/internal/auth"
	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/models"
)

type userLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type revocationChecker interface {
	IsRevoked(tokenID string) bool
}

// Authenticator resolves the bearer token (or token cookie) of a request
// into UserClaims backed by a live, active user.
type Authenticator struct {
	tokens  *auth.TokenService
	users   userLookup
	revoked revocationChecker
}

func NewAuthenticator(tokens *auth.TokenService, users userLookup, revoked revocationChecker) *Authenticator {
	return &Authenticator{
		tokens:  tokens,
		users:   users,
		revoked: revoked,
	}
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(constants.TokenCookieName); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

// resolve returns the claims for the request, or the message to reject it
// with. A non-nil error means the user lookup itself failed.
func (a *Authenticator) resolve(r *http.Request) (auth.UserClaims, string, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return nil, constants.MsgUnauthorized, nil
	}

	parsed, err := a.tokens.Parse(raw)
	if err != nil || a.revoked.IsRevoked(parsed.TokenID()) {
		return nil, constants.MsgInvalidToken, nil
	}

	user, err := a.users.FindByID(r.Context(), parsed.UserID())
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, constants.MsgInvalidToken, nil
	}
	if err != nil {
		return nil, "", err
	}
	if !user.IsActive {
		return nil, constants.MsgAccountInactive, nil
	}

	// The stored role wins over the one baked into the token.
	return &auth.JWTClaims{
		UserUUID:  user.ID,
		RoleValue: user.Role,
		JTI:       parsed.TokenID(),
		Expiry:    parsed.ExpiresAt(),
	}, "", nil
}

// Authenticate rejects the request with 401 unless it carries a valid token
// for an existing active user.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, reject, err := a.resolve(r)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		if claims == nil {
			common.RespondError(w, reject, http.StatusUnauthorized)
			return
		}

		setRequestUser(r.Context(), claims.UserID())
		ctx := auth.SetUserClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches claims when the request carries a usable token and
// otherwise lets it through anonymously.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _, err := a.resolve(r)
		if err != nil {
			common.RespondAppError(w, r, err)
			return
		}
		if claims != nil {
			setRequestUser(r.Context(), claims.UserID())
			r = r.WithContext(auth.SetUserClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles lets the request through only when the authenticated role is
// one of roles. It must run after Authenticate.
func RequireRoles(roles ...constants.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				common.RespondError(w, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}
			if !claims.HasRole(roles...) {
				common.RespondError(w, constants.MsgForbiddenRole, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
