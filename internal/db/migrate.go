package db

import (
	"fmt"

	"gorm.io/gorm"

	"resq-relief/resq/internal/models"
)

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&models.User{},
		&models.DonorProfile{},
		&models.VolunteerProfile{},
		&models.Disaster{},
		&models.AidRequest{},
		&models.Donation{},
		&models.Shelter{},
		&models.Task{},
		&models.TaskAssignment{},
	}
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
