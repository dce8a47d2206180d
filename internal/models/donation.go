package models

import (
	"time"

	"resq-relief/resq/internal/constants"
)

type Donation struct {
	Base
	DonorID         string                   `gorm:"column:donor_id;type:varchar(36);index;not null" json:"donorId"`
	Type            constants.DonationType   `gorm:"column:type;type:varchar(16);index;not null" json:"type"`
	DisasterID      *string                  `gorm:"column:disaster_id;type:varchar(36);index" json:"disasterId,omitempty"`
	Amount          float64                  `gorm:"column:amount" json:"amount,omitempty"`
	PaymentMethod   string                   `gorm:"column:payment_method" json:"paymentMethod,omitempty"`
	TransactionID   string                   `gorm:"column:transaction_id" json:"transactionId,omitempty"`
	ItemType        string                   `gorm:"column:item_type" json:"itemType,omitempty"`
	Quantity        int                      `gorm:"column:quantity" json:"quantity,omitempty"`
	Description     string                   `gorm:"column:description" json:"description,omitempty"`
	Status          constants.DonationStatus `gorm:"column:status;type:varchar(16);index;not null" json:"status"`
	VerifiedByID    *string                  `gorm:"column:verified_by;type:varchar(36)" json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time               `gorm:"column:verified_at" json:"verifiedAt,omitempty"`
	RejectionReason string                   `gorm:"column:rejection_reason" json:"rejectionReason,omitempty"`

	// Relationships
	Donor    *User     `gorm:"foreignKey:DonorID" json:"donor,omitempty"`
	Disaster *Disaster `gorm:"foreignKey:DisasterID" json:"disaster,omitempty"`
}

func (Donation) TableName() string {
	return "donations"
}
