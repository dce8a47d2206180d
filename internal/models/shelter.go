package models

import (
	"gorm.io/gorm"

	"resq-relief/resq/internal/constants"
)

type Facilities struct {
	Food        bool `gorm:"column:food" json:"food"`
	Water       bool `gorm:"column:water" json:"water"`
	Medical     bool `gorm:"column:medical" json:"medical"`
	Electricity bool `gorm:"column:electricity" json:"electricity"`
	Sanitation  bool `gorm:"column:sanitation" json:"sanitation"`
}

type Shelter struct {
	Base
	DonorID       string                  `gorm:"column:donor_id;type:varchar(36);index;not null" json:"donorId"`
	DisasterID    *string                 `gorm:"column:disaster_id;type:varchar(36);index" json:"disasterId,omitempty"`
	Name          string                  `gorm:"column:name;not null" json:"name"`
	Address       string                  `gorm:"column:address;not null" json:"address"`
	City          string                  `gorm:"column:city;index;not null" json:"city"`
	ContactPhone  string                  `gorm:"column:contact_phone" json:"contactPhone,omitempty"`
	Description   string                  `gorm:"column:description" json:"description,omitempty"`
	BedsAvailable int                     `gorm:"column:beds_available;not null" json:"bedsAvailable"`
	BedsOccupied  int                     `gorm:"column:beds_occupied;not null" json:"bedsOccupied"`
	Facilities    Facilities              `gorm:"embedded;embeddedPrefix:facility_" json:"facilities"`
	Status        constants.ShelterStatus `gorm:"column:status;type:varchar(16);index;not null" json:"status"`

	// Relationships
	Donor    *User     `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	Disaster *Disaster `gorm:"foreignKey:DisasterID" json:"disaster,omitempty"`
}

func (Shelter) TableName() string {
	return "shelters"
}

// DeriveShelterStatus is the occupancy rule: a shelter at or over capacity is
// FULL, a FULL shelter back under capacity reverts to AVAILABLE, and any other
// status (notably INACTIVE) is left alone.
func DeriveShelterStatus(prev constants.ShelterStatus, occupied, available int) constants.ShelterStatus {
	if occupied >= available {
		return constants.ShelterStatusFull
	}
	if prev == constants.ShelterStatusFull || prev == "" {
		return constants.ShelterStatusAvailable
	}
	return prev
}

// BeforeSave recomputes Status on every Create and Save.
func (s *Shelter) BeforeSave(tx *gorm.DB) error {
	s.Status = DeriveShelterStatus(s.Status, s.BedsOccupied, s.BedsAvailable)
	return nil
}

func (s *Shelter) FreeBeds() int {
	if s.BedsOccupied >= s.BedsAvailable {
		return 0
	}
	return s.BedsAvailable - s.BedsOccupied
}
