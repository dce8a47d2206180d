package dtos

import (
	"time"

	"resq-relief/resq/internal/models"
)

// APIResponse is the envelope every endpoint writes.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Stats   any    `json:"stats,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type DonationStats struct {
	TotalMoney     float64 `json:"totalMoney"`
	TotalItems     int     `json:"totalItems"`
	TotalDonations int     `json:"totalDonations"`
}

// RoleChangeBlocked is returned with the 400 when a volunteer tries to switch
// field type while still holding active tasks.
type RoleChangeBlocked struct {
	ActiveTasks int64 `json:"activeTasks"`
}

type UserCounts struct {
	Total  int64            `json:"total"`
	ByRole map[string]int64 `json:"byRole"`
}

type AidRequestCounts struct {
	ByStatus         map[string]int64 `json:"byStatus"`
	PendingOverLimit int64            `json:"pendingOverLimit"`
}

type DonationCounts struct {
	Total         int64            `json:"total"`
	ByType        map[string]int64 `json:"byType"`
	VerifiedMoney float64          `json:"verifiedMoney"`
}

type ShelterCounts struct {
	Open     int64 `json:"open"`
	FreeBeds int64 `json:"freeBeds"`
}

type DashboardStats struct {
	Users       UserCounts       `json:"users"`
	Disasters   map[string]int64 `json:"disasters"`
	AidRequests AidRequestCounts `json:"aidRequests"`
	Tasks       map[string]int64 `json:"tasks"`
	Donations   DonationCounts   `json:"donations"`
	Shelters    ShelterCounts    `json:"shelters"`
}

type PublicStats struct {
	ActiveDisasters   int64   `json:"activeDisasters"`
	PeopleHelped      int64   `json:"peopleHelped"`
	Volunteers        int64   `json:"volunteers"`
	Donors            int64   `json:"donors"`
	MoneyRaised       float64 `json:"moneyRaised"`
	AvailableShelters int64   `json:"availableShelters"`
	CompletedTasks    int64   `json:"completedTasks"`
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
	UpSince  time.Time                `json:"up_since"`
	Uptime   string                   `json:"uptime"`
}
