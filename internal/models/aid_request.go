package models

import (
	"time"

	"resq-relief/resq/internal/constants"
)

type AidRequest struct {
	Base
	VictimID        string                     `gorm:"column:victim_id;type:varchar(36);index;not null" json:"victimId"`
	DisasterID      *string                    `gorm:"column:disaster_id;type:varchar(36);index" json:"disasterId,omitempty"`
	AidType         constants.AidType          `gorm:"column:aid_type;type:varchar(16);not null" json:"aidType"`
	Amount          int                        `gorm:"column:amount;not null" json:"amount"`
	FamilySize      int                        `gorm:"column:family_size" json:"familySize"`
	Urgency         constants.Urgency          `gorm:"column:urgency;type:varchar(16)" json:"urgency"`
	Description     string                     `gorm:"column:description" json:"description,omitempty"`
	Location        string                     `gorm:"column:location" json:"location,omitempty"`
	Status          constants.AidRequestStatus `gorm:"column:status;type:varchar(16);index;not null" json:"status"`
	ExceedsLimit    bool                       `gorm:"column:exceeds_limit;index" json:"exceedsLimit"`
	SystemLimit     int                        `gorm:"column:system_limit" json:"systemLimit"`
	ReviewedByID    *string                    `gorm:"column:reviewed_by;type:varchar(36)" json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time                 `gorm:"column:reviewed_at" json:"reviewedAt,omitempty"`
	RejectionReason string                     `gorm:"column:rejection_reason" json:"rejectionReason,omitempty"`
	DeliveredAt     *time.Time                 `gorm:"column:delivered_at" json:"deliveredAt,omitempty"`
	ReceivedAt      *time.Time                 `gorm:"column:received_at" json:"receivedAt,omitempty"`

	// Relationships
	Victim   *User     `gorm:"foreignKey:VictimID" json:"victim,omitempty"`
	Disaster *Disaster `gorm:"foreignKey:DisasterID" json:"disaster,omitempty"`
}

func (AidRequest) TableName() string {
	return "aid_requests"
}
