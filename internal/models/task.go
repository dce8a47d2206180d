package models

import (
	"time"

	"resq-relief/resq/internal/constants"
)

type Task struct {
	Base
	Title              string               `gorm:"column:title;not null" json:"title"`
	Description        string               `gorm:"column:description" json:"description"`
	TaskType           constants.TaskType   `gorm:"column:task_type;type:varchar(24);not null" json:"taskType"`
	FieldType          constants.FieldType  `gorm:"column:field_type;type:varchar(16);index;not null" json:"fieldType"`
	DisasterID         string               `gorm:"column:disaster_id;type:varchar(36);index;not null" json:"disasterId"`
	Location           string               `gorm:"column:location" json:"location,omitempty"`
	VolunteersRequired int                  `gorm:"column:volunteers_required;not null" json:"volunteersRequired"`
	VolunteersAssigned int                  `gorm:"column:volunteers_assigned;not null" json:"volunteersAssigned"`
	Status             constants.TaskStatus `gorm:"column:status;type:varchar(16);index;not null" json:"status"`
	Priority           constants.Priority   `gorm:"column:priority;type:varchar(16)" json:"priority"`
	CreatedByID        string               `gorm:"column:created_by;type:varchar(36)" json:"createdBy"`
	AssignedAt         *time.Time           `gorm:"column:assigned_at" json:"assignedAt,omitempty"`
	StartedAt          *time.Time           `gorm:"column:started_at" json:"startedAt,omitempty"`
	CompletedAt        *time.Time           `gorm:"column:completed_at" json:"completedAt,omitempty"`
	Notes              string               `gorm:"column:notes" json:"notes,omitempty"`

	// Relationships
	Disaster           *Disaster        `gorm:"foreignKey:DisasterID" json:"disaster,omitempty"`
	AssignedVolunteers []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignedVolunteers"`
}

func (Task) TableName() string {
	return "tasks"
}

// HasVolunteer reports whether volunteerID is in the loaded assigned set.
func (t *Task) HasVolunteer(volunteerID string) bool {
	for _, a := range t.AssignedVolunteers {
		if a.VolunteerID == volunteerID {
			return true
		}
	}
	return false
}

// TaskAssignment is one membership of a volunteer in a task's assigned set.
// The composite primary key makes a duplicate membership unrepresentable.
type TaskAssignment struct {
	TaskID      string    `gorm:"column:task_id;primaryKey;type:varchar(36)" json:"-"`
	VolunteerID string    `gorm:"column:volunteer_id;primaryKey;type:varchar(36);index" json:"volunteerId"`
	AssignedAt  time.Time `gorm:"column:assigned_at" json:"assignedAt"`

	// Relationships
	Volunteer *User `gorm:"foreignKey:VolunteerID" json:"volunteer,omitempty"`
}

func (TaskAssignment) TableName() string {
	return "task_assignments"
}
