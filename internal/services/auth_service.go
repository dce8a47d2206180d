package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resq-relief/resq/internal/auth"
	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/logging"
	"resq-relief/resq/internal/models"
	"resq-relief/resq/internal/models/dtos"
)

// AuthService handles signup, login and the caller's own account.
type AuthService struct {
	users  *repositories.UserRepositoryGORM
	tokens *auth.TokenService
	cache  common.CacheInterface
}

func NewAuthService(users *repositories.UserRepositoryGORM, tokens *auth.TokenService, cache common.CacheInterface) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		cache:  cache,
	}
}

// Register creates a self-service account and signs the user in.
func (s *AuthService) Register(ctx context.Context, req dtos.RegisterRequest) (*dtos.AuthResponse, error) {
	role, err := common.ParseEnumField("role", req.Role, constants.Roles)
	if err != nil {
		return nil, err
	}
	if role == constants.RoleAdmin {
		return nil, common.ValidationError(constants.MsgAdminSignup)
	}

	user, err := newUser(ctx, s.users, req, role)
	if err != nil {
		return nil, err
	}
	user.IsActive = true

	if err := s.users.Create(ctx, user); err != nil {
		if err == repositories.ErrDuplicate {
			return nil, common.ValidationError(constants.MsgUserExists)
		}
		return nil, err
	}

	logging.Info("User registered", "user_id", user.ID, "role", user.Role)
	return s.session(user)
}

// Login verifies credentials and stamps lastLogin.
func (s *AuthService) Login(ctx context.Context, req dtos.LoginRequest) (*dtos.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err == repositories.ErrNotFound {
		return nil, common.UnauthorizedError(constants.MsgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, common.UnauthorizedError(constants.MsgInvalidCredentials)
	}
	if !user.IsActive {
		return nil, common.ForbiddenError(constants.MsgAccountInactive)
	}

	now := time.Now()
	if err := s.users.UpdateColumns(ctx, user.ID, map[string]any{"last_login": now}); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	return s.session(user)
}

func (s *AuthService) session(user *models.User) (*dtos.AuthResponse, error) {
	token, _, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &dtos.AuthResponse{Token: token, User: user}, nil
}

// Logout deny-lists the token until it would have expired anyway.
func (s *AuthService) Logout(claims auth.UserClaims) {
	ttl := time.Until(claims.ExpiresAt())
	if ttl <= 0 || claims.TokenID() == "" {
		return
	}
	s.cache.Set(string(constants.CachePrefixRevokedToken)+claims.TokenID(), true, ttl)
}

func (s *AuthService) IsRevoked(tokenID string) bool {
	if tokenID == "" {
		return false
	}
	_, found := s.cache.Get(string(constants.CachePrefixRevokedToken) + tokenID)
	return found
}

func (s *AuthService) Me(ctx context.Context, actor Actor) (*models.User, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, notFound(err, constants.MsgUserNotFound)
	}
	return user, nil
}

// UpdateProfile edits the caller's contact details and, for donors, the
// donor type.
func (s *AuthService) UpdateProfile(ctx context.Context, actor Actor, req dtos.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Me(ctx, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		user.Address = strings.TrimSpace(*req.Address)
	}
	if req.DonorType != nil {
		if user.Role != constants.RoleDonor {
			return nil, common.ValidationError("donorType is only allowed for DONOR users")
		}
		donorType, err := common.ParseEnumField("donorType", *req.DonorType, constants.DonorTypes)
		if err != nil {
			return nil, err
		}
		if user.DonorProfile == nil {
			user.DonorProfile = &models.DonorProfile{}
		}
		user.DonorProfile.DonorType = donorType
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actor Actor, req dtos.ChangePasswordRequest) error {
	user, err := s.Me(ctx, actor)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return common.ValidationError(constants.MsgWrongPassword)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdateColumns(ctx, user.ID, map[string]any{
		"password":   hash,
		"updated_at": time.Now(),
	})
}

// newUser validates uniqueness and builds the user with its role profile.
// The caller decides IsActive and IsVerified.
func newUser(ctx context.Context, users *repositories.UserRepositoryGORM, req dtos.RegisterRequest, role constants.Role) (*models.User, error) {
	email := normalizeEmail(req.Email)
	taken, err := users.EmailTaken(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ValidationError(constants.MsgUserExists)
	}

	var nationalID *string
	if req.NationalID != nil && strings.TrimSpace(*req.NationalID) != "" {
		nationalID = strPtr(strings.TrimSpace(*req.NationalID))
		taken, err := users.NationalIDTaken(ctx, *nationalID, "")
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.ValidationError(constants.MsgNationalIDTaken)
		}
	}

	donor, volunteer, err := buildProfiles(role, profileInput{
		DonorType:     req.DonorType,
		VolunteerRole: req.VolunteerRole,
		Skills:        req.Skills,
		WorkingHours:  req.WorkingHours,
		Experience:    req.Experience,
	})
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return &models.User{
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		Password:         hash,
		Phone:            strings.TrimSpace(req.Phone),
		NationalID:       nationalID,
		Address:          strings.TrimSpace(req.Address),
		Role:             role,
		DonorProfile:     donor,
		VolunteerProfile: volunteer,
	}, nil
}
