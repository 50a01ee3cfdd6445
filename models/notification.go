package models

import (
	"time"
)

type NotificationType string

const (
	NotificationPaymentReminder NotificationType = "payment_reminder"
	NotificationEvent           NotificationType = "event"
	NotificationGeneral         NotificationType = "general"
)

type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    string           `json:"userId" gorm:"type:uuid;not null;index"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type" gorm:"type:varchar(20);default:'general'"`
	Read      bool             `json:"read" gorm:"default:false"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type NotificationCreate struct {
	UserID  string           `json:"userId" binding:"required"`
	Message string           `json:"message" binding:"required"`
	Type    NotificationType `json:"type"`
}
