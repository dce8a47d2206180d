package dtos

// Auth

type RegisterRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=100"`
	Email         string   `json:"email" validate:"required,email"`
	Password      string   `json:"password" validate:"required,min=6"`
	Phone         string   `json:"phone" validate:"required"`
	NationalID    *string  `json:"nationalId" validate:"omitempty,min=4"`
	Address       string   `json:"address"`
	Role          string   `json:"role" validate:"required"`
	DonorType     string   `json:"donorType"`
	VolunteerRole string   `json:"volunteerRole"`
	Skills        []string `json:"skills"`
	WorkingHours  string   `json:"workingHours"`
	Experience    string   `json:"experience"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,min=1"`
	Address   *string `json:"address"`
	DonorType *string `json:"donorType"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// Admin user management

type CreateUserRequest struct {
	RegisterRequest
	IsVerified bool `json:"isVerified"`
}

type UpdateUserRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	Phone         *string  `json:"phone" validate:"omitempty,min=1"`
	Address       *string  `json:"address"`
	NationalID    *string  `json:"nationalId" validate:"omitempty,min=4"`
	IsVerified    *bool    `json:"isVerified"`
	IsActive      *bool    `json:"isActive"`
	DonorType     *string  `json:"donorType"`
	VolunteerRole *string  `json:"volunteerRole"`
	Skills        []string `json:"skills"`
	WorkingHours  *string  `json:"workingHours"`
	Experience    *string  `json:"experience"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// Disasters

type DisasterRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Type           string   `json:"type" validate:"required"`
	Description    string   `json:"description" validate:"required"`
	Location       string   `json:"location" validate:"required"`
	City           string   `json:"city" validate:"required"`
	Severity       string   `json:"severity"`
	AffectedPeople int      `json:"affectedPeople" validate:"min=0"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

type DisasterUpdateRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Type           *string  `json:"type"`
	Description    *string  `json:"description"`
	Location       *string  `json:"location" validate:"omitempty,min=1"`
	City           *string  `json:"city" validate:"omitempty,min=1"`
	Severity       *string  `json:"severity"`
	Status         *string  `json:"status"`
	AffectedPeople *int     `json:"affectedPeople" validate:"omitempty,min=0"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// Aid requests

type AidRequestCreate struct {
	AidType     string  `json:"aidType" validate:"required"`
	Amount      int     `json:"amount" validate:"required,min=1"`
	FamilySize  int     `json:"familySize" validate:"omitempty,min=1"`
	Urgency     string  `json:"urgency"`
	Description string  `json:"description" validate:"max=1000"`
	Location    string  `json:"location"`
	DisasterID  *string `json:"disasterId" validate:"omitempty,uuid"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"max=1000"`
}

// Donations

type MoneyDonationRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required"`
	TransactionID string  `json:"transactionId" validate:"required"`
	DisasterID    *string `json:"disasterId" validate:"omitempty,uuid"`
}

type ItemDonationRequest struct {
	ItemType    string  `json:"itemType" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
	Description string  `json:"description" validate:"required"`
	DisasterID  *string `json:"disasterId" validate:"omitempty,uuid"`
}

// Shelters

type FacilitiesInput struct {
	Food        bool `json:"food"`
	Water       bool `json:"water"`
	Medical     bool `json:"medical"`
	Electricity bool `json:"electricity"`
	Sanitation  bool `json:"sanitation"`
}

type ShelterRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Address       string          `json:"address" validate:"required"`
	City          string          `json:"city" validate:"required"`
	ContactPhone  string          `json:"contactPhone"`
	Description   string          `json:"description"`
	BedsAvailable int             `json:"bedsAvailable" validate:"required,min=1"`
	BedsOccupied  int             `json:"bedsOccupied" validate:"min=0"`
	Facilities    FacilitiesInput `json:"facilities"`
	DisasterID    *string         `json:"disasterId" validate:"omitempty,uuid"`
}

type ShelterUpdateRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Address       *string          `json:"address" validate:"omitempty,min=1"`
	City          *string          `json:"city" validate:"omitempty,min=1"`
	ContactPhone  *string          `json:"contactPhone"`
	Description   *string          `json:"description"`
	BedsAvailable *int             `json:"bedsAvailable" validate:"omitempty,min=1"`
	BedsOccupied  *int             `json:"bedsOccupied" validate:"omitempty,min=0"`
	Facilities    *FacilitiesInput `json:"facilities"`
	Status        *string          `json:"status"`
	DisasterID    *string          `json:"disasterId" validate:"omitempty,uuid"`
}

type OccupancyRequest struct {
	BedsOccupied *int `json:"bedsOccupied" validate:"required,min=0"`
}

// Tasks

type TaskRequest struct {
	Title              string `json:"title" validate:"required,max=200"`
	Description        string `json:"description" validate:"required"`
	TaskType           string `json:"taskType" validate:"required"`
	FieldType          string `json:"fieldType" validate:"required"`
	DisasterID         string `json:"disasterId" validate:"required,uuid"`
	Location           string `json:"location"`
	VolunteersRequired int    `json:"volunteersRequired" validate:"required,min=1"`
	Priority           string `json:"priority"`
}

type VolunteerProfileRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Phone         *string  `json:"phone" validate:"omitempty,min=1"`
	Address       *string  `json:"address"`
	VolunteerRole *string  `json:"volunteerRole"`
	Skills        []string `json:"skills"`
	WorkingHours  *string  `json:"workingHours"`
	Experience    *string  `json:"experience"`
}
