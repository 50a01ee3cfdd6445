package models

import (
	"time"
)

// ReminderMarker records that a payment reminder was dispatched to a user on a
// given calendar day. The (user_id, date) pair is unique so a user can never
// be reminded twice on the same day, no matter how often the job runs or how
// many instances run it. Markers are evicted after seven days.
type ReminderMarker struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_reminder_user_date"`
	Date      string    `json:"date" gorm:"type:varchar(10);not null;uniqueIndex:idx_reminder_user_date"`
	CreatedAt time.Time `json:"createdAt"`
}
