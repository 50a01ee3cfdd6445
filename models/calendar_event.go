package models

import (
	"time"
)

type CalendarEvent struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Start       time.Time `json:"start" gorm:"not null"`
	End         time.Time `json:"end" gorm:"not null"`
	Location    string    `json:"location,omitempty"`
	CreatedByID string    `json:"createdById" gorm:"type:uuid;not null"`
	CreatedBy   *User     `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID"`
	Attendees   []User    `json:"attendees,omitempty" gorm:"many2many:calendar_event_attendees;"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CalendarEventCreate struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Start       time.Time `json:"start" binding:"required"`
	End         time.Time `json:"end" binding:"required"`
	Location    string    `json:"location"`
}
