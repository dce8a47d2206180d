package services

import (
	"strings"

	"resq-relief/resq/internal/common"
	"resq-relief/resq/internal/constants"
	"resq-relief/resq/internal/models"
)

// profileInput carries the role-specific fields of a signup or admin create.
type profileInput struct {
	DonorType     string
	VolunteerRole string
	Skills        []string
	WorkingHours  string
	Experience    string
}

func (p profileInput) hasVolunteerFields() bool {
	return p.VolunteerRole != "" || len(p.Skills) > 0 || p.WorkingHours != "" || p.Experience != ""
}

// buildProfiles returns the single profile matching role. Fields belonging to
// another role are rejected.
func buildProfiles(role constants.Role, in profileInput) (*models.DonorProfile, *models.VolunteerProfile, error) {
	if role != constants.RoleDonor && strings.TrimSpace(in.DonorType) != "" {
		return nil, nil, common.ValidationError("donorType is only allowed for DONOR users")
	}
	if role != constants.RoleVolunteer && in.hasVolunteerFields() {
		return nil, nil, common.ValidationError("volunteer profile fields are only allowed for VOLUNTEER users")
	}

	switch role {
	case constants.RoleDonor:
		donorType, err := common.ParseEnumFieldOr("donorType", in.DonorType, constants.DonorTypes, constants.DonorTypeIndividual)
		if err != nil {
			return nil, nil, err
		}
		return &models.DonorProfile{DonorType: donorType}, nil, nil

	case constants.RoleVolunteer:
		var fieldType constants.FieldType
		if strings.TrimSpace(in.VolunteerRole) != "" {
			ft, err := common.ParseEnumField("volunteerRole", in.VolunteerRole, constants.FieldTypes)
			if err != nil {
				return nil, nil, err
			}
			fieldType = ft
		}
		return nil, &models.VolunteerProfile{
			VolunteerRole: fieldType,
			Skills:        cleanSkills(in.Skills),
			WorkingHours:  strings.TrimSpace(in.WorkingHours),
			Experience:    strings.TrimSpace(in.Experience),
		}, nil
	}
	return nil, nil, nil
}

func cleanSkills(skills []string) models.StringList {
	out := make(models.StringList, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(s)]; dup {
			continue
		}
		seen[strings.ToLower(s)] = struct{}{}
		out = append(out, s)
	}
	return out
}
