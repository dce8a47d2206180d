package models

import (
	"time"

	"resq-relief/resq/internal/constants"
)

type Disaster struct {
	Base
	Name            string                   `gorm:"column:name;not null" json:"name"`
	Type            constants.DisasterType   `gorm:"column:type;type:varchar(24);index;not null" json:"type"`
	Description     string                   `gorm:"column:description" json:"description"`
	Location        string                   `gorm:"column:location;not null" json:"location"`
	City            string                   `gorm:"column:city;index;not null" json:"city"`
	Severity        constants.Severity       `gorm:"column:severity;type:varchar(16);not null" json:"severity"`
	Status          constants.DisasterStatus `gorm:"column:status;type:varchar(16);index;not null" json:"status"`
	AffectedPeople  int                      `gorm:"column:affected_people" json:"affectedPeople"`
	Latitude        *float64                 `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude       *float64                 `gorm:"column:longitude" json:"longitude,omitempty"`
	ReportedByID    string                   `gorm:"column:reported_by;type:varchar(36);index" json:"reportedBy"`
	VerifiedByID    *string                  `gorm:"column:verified_by;type:varchar(36)" json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time               `gorm:"column:verified_at" json:"verifiedAt,omitempty"`
	RejectionReason string                   `gorm:"column:rejection_reason" json:"rejectionReason,omitempty"`
	ResolvedAt      *time.Time               `gorm:"column:resolved_at" json:"resolvedAt,omitempty"`
}

func (Disaster) TableName() string {
	return "disasters"
}
