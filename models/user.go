package models

import (
	"time"
)

type Role string

const (
	AdminRole  Role = "admin"
	MemberRole Role = "member"
	UserRole   Role = "user"
)

type SubscriptionStatus string

const (
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
	SubscriptionUnset      SubscriptionStatus = ""
)

// User is a registered account. The billing fields (StripeCustomerId,
// StripeSubscriptionId, SubscriptionStatus, MemberSince) are only meaningful
// while IsMember is true; clearing membership clears them too.
type User struct {
	ID                   string             `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name                 string             `json:"name"`
	Email                string             `json:"email" gorm:"uniqueIndex"`
	Password             string             `json:"-"`
	Role                 Role               `json:"role" gorm:"type:varchar(20);default:'user'"`
	IsMember             bool               `json:"isMember" gorm:"default:false"`
	MemberSince          *time.Time         `json:"memberSince"`
	StripeCustomerId     string             `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionId string             `json:"stripeSubscriptionId,omitempty"`
	SubscriptionStatus   SubscriptionStatus `json:"subscriptionStatus" gorm:"type:varchar(20)"`
	CreatedAt            time.Time          `json:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt"`
}

type UserCreate struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
