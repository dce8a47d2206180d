package services

import (
	"context"
	"strings"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/db/repositories"
	"resq-relief/resq/internal/logging"
	"resq-relief/resq/internal/models"
	"resq-relief/resq/internal/models/dtos"
)

// UserService is the admin-side user management.
type UserService struct {
	users *repositories.UserRepositoryGORM
}

func NewUserService(users *repositories.UserRepositoryGORM) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, filter repositories.UserFilter) ([]models.User, error) {
	return s.users.List(ctx, filter)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, constants.MsgUserNotFound)
	}
	return user, nil
}

// Create adds an account of any role, ADMIN included.
func (s *UserService) Create(ctx context.Context, req dtos.CreateUserRequest) (*models.User, error) {
	role, err := common.ParseEnumField("role", req.Role, constants.Roles)
	if err != nil {
		return nil, err
	}

	user, err := newUser(ctx, s.users, req.RegisterRequest, role)
	if err != nil {
		return nil, err
	}
	user.IsActive = true
	user.IsVerified = req.IsVerified

	if err := s.users.Create(ctx, user); err != nil {
		if err == repositories.ErrDuplicate {
			return nil, common.ValidationError(constants.MsgUserExists)
		}
		return nil, err
	}

	logging.Info("User created by admin", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *UserService) Update(ctx context.Context, actor Actor, id string, req dtos.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(ctx, id)
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
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		taken, err := s.users.EmailTaken(ctx, email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.ValidationError(constants.MsgUserExists)
		}
		user.Email = email
	}
	if req.NationalID != nil {
		nid := strings.TrimSpace(*req.NationalID)
		if nid == "" {
			user.NationalID = nil
		} else {
			taken, err := s.users.NationalIDTaken(ctx, nid, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, common.ValidationError(constants.MsgNationalIDTaken)
			}
			user.NationalID = &nid
		}
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}
	if req.IsActive != nil {
		if !*req.IsActive && user.ID == actor.ID {
			return nil, common.ValidationError(constants.MsgCannotModifySelf)
		}
		user.IsActive = *req.IsActive
	}

	if err := applyProfileUpdate(user, req); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		if err == repositories.ErrDuplicate {
			return nil, common.ValidationError(constants.MsgUserExists)
		}
		return nil, err
	}
	return user, nil
}

func applyProfileUpdate(user *models.User, req dtos.UpdateUserRequest) error {
	volunteerFields := req.VolunteerRole != nil || req.Skills != nil || req.WorkingHours != nil || req.Experience != nil

	if req.DonorType != nil {
		if user.Role != constants.RoleDonor {
			return common.ValidationError("donorType is only allowed for DONOR users")
		}
		donorType, err := common.ParseEnumField("donorType", *req.DonorType, constants.DonorTypes)
		if err != nil {
			return err
		}
		if user.DonorProfile == nil {
			user.DonorProfile = &models.DonorProfile{}
		}
		user.DonorProfile.DonorType = donorType
	}

	if !volunteerFields {
		return nil
	}
	if user.Role != constants.RoleVolunteer {
		return common.ValidationError("volunteer profile fields are only allowed for VOLUNTEER users")
	}
	if user.VolunteerProfile == nil {
		user.VolunteerProfile = &models.VolunteerProfile{Skills: models.StringList{}}
	}
	vp := user.VolunteerProfile
	if req.VolunteerRole != nil {
		ft, err := common.ParseEnumField("volunteerRole", *req.VolunteerRole, constants.FieldTypes)
		if err != nil {
			return err
		}
		vp.VolunteerRole = ft
	}
	if req.Skills != nil {
		vp.Skills = cleanSkills(req.Skills)
	}
	if req.WorkingHours != nil {
		vp.WorkingHours = strings.TrimSpace(*req.WorkingHours)
	}
	if req.Experience != nil {
		vp.Experience = strings.TrimSpace(*req.Experience)
	}
	return nil
}

func (s *UserService) Verify(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsVerified = true
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetActive activates or deactivates an account. Admins cannot deactivate
// themselves.
func (s *UserService) SetActive(ctx context.Context, actor Actor, id string, active bool) (*models.User, error) {
	if !active && id == actor.ID {
		return nil, common.ValidationError(constants.MsgCannotModifySelf)
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	logging.Info("User active flag changed", "user_id", id, "active", active, "by", actor.ID)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor Actor, id string) error {
	if id == actor.ID {
		return common.ValidationError(constants.MsgCannotModifySelf)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFound(err, constants.MsgUserNotFound)
	}
	logging.Info("User deleted", "user_id", id, "by", actor.ID)
	return nil
}
