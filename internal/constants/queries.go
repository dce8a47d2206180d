package constants

// Reporting queries run through sqlx; placeholders are rebound per driver.
const (
	CountUsersByRole = `
	SELECT role AS bucket, COUNT(*) AS total FROM users GROUP BY role
	`

	CountDisastersByStatus = `
	SELECT status AS bucket, COUNT(*) AS total FROM disasters GROUP BY status
	`

	CountAidRequestsByStatus = `
	SELECT status AS bucket, COUNT(*) AS total FROM aid_requests GROUP BY status
	`

	CountTasksByStatus = `
	SELECT status AS bucket, COUNT(*) AS total FROM tasks GROUP BY status
	`

	CountSheltersByStatus = `
	SELECT status AS bucket, COUNT(*) AS total FROM shelters GROUP BY status
	`

	CountDonationsByType = `
	SELECT type AS bucket, COUNT(*) AS total FROM donations GROUP BY type
	`

	CountPendingOverLimit = `
	SELECT COUNT(*) FROM aid_requests WHERE status = ? AND exceeds_limit = ?
	`

	SumVerifiedMoney = `
	SELECT COALESCE(SUM(amount), 0) FROM donations WHERE type = ? AND status NOT IN (?, ?)
	`

	CountAidRequestsInStatuses = `
	SELECT COUNT(*) FROM aid_requests WHERE status IN (?, ?)
	`

	ShelterCapacity = `
	SELECT COUNT(*) AS shelters, COALESCE(SUM(beds_available - beds_occupied), 0) AS free_beds
	FROM shelters WHERE status IN (?, ?)
	`
)
