package constants

const (
	MsgServerError        = "Server error. Please try again later."
	MsgUnauthorized       = "Not authorized, please log in"
	MsgInvalidToken       = "Not authorized, token failed"
	MsgAccountInactive    = "Your account has been deactivated"
	MsgForbiddenRole      = "You do not have permission to perform this action"
	MsgInvalidCredentials = "Invalid email or password"
	MsgUserExists         = "User already exists"
	MsgNationalIDTaken    = "National ID is already registered"
	MsgInvalidBody        = "Invalid request body"
	MsgTooManyRequests    = "Too many requests, please try again later"
	MsgRouteNotFound      = "Route not found"
)

const (
	MsgUserNotFound       = "User not found"
	MsgDisasterNotFound   = "Disaster not found"
	MsgAidRequestNotFound = "Aid request not found"
	MsgDonationNotFound   = "Donation not found"
	MsgShelterNotFound    = "Shelter not found"
	MsgTaskNotFound       = "Task not found"
)

const (
	MsgTaskNotOpen         = "Task is no longer accepting volunteers"
	MsgTaskAlreadyAssigned = "You are already assigned to this task"
	MsgTaskFull            = "Task already has the required number of volunteers"
	MsgNotTaskMember       = "You are not assigned to this task"
	MsgOccupancyExceeded   = "Occupied beds cannot exceed available beds"
	MsgShelterNotOwner     = "Not authorized to modify this shelter"
	MsgConcurrentUpdate    = "The record was modified by another request, please retry"
	MsgNotResourceOwner    = "Not authorized to access this resource"
	MsgDonationNotPending  = "Only pending donations can be verified or rejected"
	MsgRoleChangeBlocked   = "Cannot change volunteer role while holding active tasks"
	MsgCannotModifySelf    = "Admins cannot delete or deactivate their own account"
	MsgWrongPassword       = "Current password is incorrect"
	MsgAdminSignup         = "Admin accounts cannot be self-registered"
)
