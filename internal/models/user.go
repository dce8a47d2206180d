package models

import (
	"time"

	"resq-relief/resq/internal/constants"
)

// User is the identity core shared by every role. Role-specific data lives
// in DonorProfile and VolunteerProfile; at most the one matching Role exists.
type User struct {
	Base
	Name       string         `gorm:"column:name;not null" json:"name"`
	Email      string         `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password   string         `gorm:"column:password;not null" json:"-"`
	Phone      string         `gorm:"column:phone" json:"phone"`
	NationalID *string        `gorm:"column:national_id;uniqueIndex" json:"nationalId,omitempty"`
	Address    string         `gorm:"column:address" json:"address"`
	Role       constants.Role `gorm:"column:role;type:varchar(16);index;not null" json:"role"`
	IsVerified bool           `gorm:"column:is_verified" json:"isVerified"`
	IsActive   bool           `gorm:"column:is_active" json:"isActive"`
	LastLogin  *time.Time     `gorm:"column:last_login" json:"lastLogin,omitempty"`

	// Relationships
	DonorProfile     *DonorProfile     `gorm:"foreignKey:UserID" json:"donorProfile,omitempty"`
	VolunteerProfile *VolunteerProfile `gorm:"foreignKey:UserID" json:"volunteerProfile,omitempty"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool { return u.Role == constants.RoleAdmin }

type DonorProfile struct {
	UserID    string              `gorm:"column:user_id;primaryKey;type:varchar(36)" json:"-"`
	DonorType constants.DonorType `gorm:"column:donor_type;type:varchar(24)" json:"donorType"`
}

func (DonorProfile) TableName() string {
	return "donor_profiles"
}

type VolunteerProfile struct {
	UserID        string              `gorm:"column:user_id;primaryKey;type:varchar(36)" json:"-"`
	VolunteerRole constants.FieldType `gorm:"column:volunteer_role;type:varchar(16)" json:"volunteerRole,omitempty"`
	Skills        StringList          `gorm:"column:skills" json:"skills"`
	WorkingHours  string              `gorm:"column:working_hours" json:"workingHours,omitempty"`
	Experience    string              `gorm:"column:experience" json:"experience,omitempty"`
}

func (VolunteerProfile) TableName() string {
	return "volunteer_profiles"
}
