package constants

import (
	"fmt"
	"strings"
)

type (
	DisasterType     string
	Severity         string
	DisasterStatus   string
	AidType          string
	Urgency          string
	AidRequestStatus string
	DonationType     string
	DonationStatus   string
	ShelterStatus    string
	TaskType         string
	FieldType        string
	TaskStatus       string
	Priority         string
	DonorType        string
)

const (
	DisasterTypeFlood      DisasterType = "FLOOD"
	DisasterTypeEarthquake DisasterType = "EARTHQUAKE"
	DisasterTypeCyclone    DisasterType = "CYCLONE"
	DisasterTypeFire       DisasterType = "FIRE"
	DisasterTypeLandslide  DisasterType = "LANDSLIDE"
	DisasterTypeTsunami    DisasterType = "TSUNAMI"
	DisasterTypeDrought    DisasterType = "DROUGHT"
	DisasterTypeOther      DisasterType = "OTHER"
)

var DisasterTypes = []DisasterType{
	DisasterTypeFlood, DisasterTypeEarthquake, DisasterTypeCyclone, DisasterTypeFire,
	DisasterTypeLandslide, DisasterTypeTsunami, DisasterTypeDrought, DisasterTypeOther,
}

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

const (
	DisasterStatusPending  DisasterStatus = "PENDING"
	DisasterStatusActive   DisasterStatus = "ACTIVE"
	DisasterStatusResolved DisasterStatus = "RESOLVED"
	DisasterStatusRejected DisasterStatus = "REJECTED"
)

var DisasterStatuses = []DisasterStatus{
	DisasterStatusPending, DisasterStatusActive, DisasterStatusResolved, DisasterStatusRejected,
}

const (
	AidTypeFood    AidType = "FOOD"
	AidTypeClothes AidType = "CLOTHES"
	AidTypeShelter AidType = "SHELTER"
	AidTypeMedical AidType = "MEDICAL"
)

var AidTypes = []AidType{AidTypeFood, AidTypeClothes, AidTypeShelter, AidTypeMedical}

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

var Urgencies = []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}

const (
	AidStatusPending   AidRequestStatus = "PENDING"
	AidStatusVerified  AidRequestStatus = "VERIFIED"
	AidStatusApproved  AidRequestStatus = "APPROVED"
	AidStatusAllocated AidRequestStatus = "ALLOCATED"
	AidStatusDelivered AidRequestStatus = "DELIVERED"
	AidStatusReceived  AidRequestStatus = "RECEIVED"
	AidStatusRejected  AidRequestStatus = "REJECTED"
)

var AidRequestStatuses = []AidRequestStatus{
	AidStatusPending, AidStatusVerified, AidStatusApproved, AidStatusAllocated,
	AidStatusDelivered, AidStatusReceived, AidStatusRejected,
}

const (
	DonationTypeMoney   DonationType = "MONEY"
	DonationTypeItems   DonationType = "ITEMS"
	DonationTypeShelter DonationType = "SHELTER"
)

var DonationTypes = []DonationType{DonationTypeMoney, DonationTypeItems, DonationTypeShelter}

const (
	DonationStatusPending   DonationStatus = "PENDING"
	DonationStatusVerified  DonationStatus = "VERIFIED"
	DonationStatusApproved  DonationStatus = "APPROVED"
	DonationStatusReceived  DonationStatus = "RECEIVED"
	DonationStatusAllocated DonationStatus = "ALLOCATED"
	DonationStatusRejected  DonationStatus = "REJECTED"
)

var DonationStatuses = []DonationStatus{
	DonationStatusPending, DonationStatusVerified, DonationStatusApproved,
	DonationStatusReceived, DonationStatusAllocated, DonationStatusRejected,
}

const (
	ShelterStatusAvailable ShelterStatus = "AVAILABLE"
	ShelterStatusFull      ShelterStatus = "FULL"
	ShelterStatusInactive  ShelterStatus = "INACTIVE"
)

var ShelterStatuses = []ShelterStatus{ShelterStatusAvailable, ShelterStatusFull, ShelterStatusInactive}

const (
	TaskTypeRescue            TaskType = "RESCUE"
	TaskTypeMedical           TaskType = "MEDICAL"
	TaskTypeFoodDistribution  TaskType = "FOOD_DISTRIBUTION"
	TaskTypeShelterManagement TaskType = "SHELTER_MANAGEMENT"
	TaskTypeLogistics         TaskType = "LOGISTICS"
	TaskTypeCommunication     TaskType = "COMMUNICATION"
	TaskTypeOther             TaskType = "OTHER"
)

var TaskTypes = []TaskType{
	TaskTypeRescue, TaskTypeMedical, TaskTypeFoodDistribution, TaskTypeShelterManagement,
	TaskTypeLogistics, TaskTypeCommunication, TaskTypeOther,
}

const (
	FieldTypeOnField  FieldType = "ON_FIELD"
	FieldTypeOffField FieldType = "OFF_FIELD"
)

var FieldTypes = []FieldType{FieldTypeOnField, FieldTypeOffField}

const (
	TaskStatusAvailable  TaskStatus = "AVAILABLE"
	TaskStatusAssigned   TaskStatus = "ASSIGNED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

var TaskStatuses = []TaskStatus{
	TaskStatusAvailable, TaskStatusAssigned, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled,
}

// OpenTaskStatuses are the states in which a task still accepts volunteers.
var OpenTaskStatuses = []TaskStatus{TaskStatusAvailable, TaskStatusAssigned}

// ActiveTaskStatuses are the states that pin a volunteer to a task.
var ActiveTaskStatuses = []TaskStatus{TaskStatusAssigned, TaskStatusInProgress}

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

const (
	DonorTypeIndividual   DonorType = "INDIVIDUAL"
	DonorTypeOrganization DonorType = "ORGANIZATION"
	DonorTypeNGO          DonorType = "NGO"
	DonorTypeCorporate    DonorType = "CORPORATE"
)

var DonorTypes = []DonorType{DonorTypeIndividual, DonorTypeOrganization, DonorTypeNGO, DonorTypeCorporate}

// ParseEnum upper-cases raw and checks it against the closed set.
func ParseEnum[T ~string](field, raw string, allowed []T) (T, error) {
	candidate := T(strings.ToUpper(strings.TrimSpace(raw)))
	for _, v := range allowed {
		if v == candidate {
			return v, nil
		}
	}
	names := make([]string, len(allowed))
	for i, v := range allowed {
		names[i] = string(v)
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q: must be one of %s", field, raw, strings.Join(names, ", "))
}
