package models

import (
	"time"
)

type PaymentType string

const (
	PaymentSubscription PaymentType = "subscription"
	PaymentDonation     PaymentType = "donation"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment is an immutable ledger entry. UserID is nullable because donations
// may be anonymous. Month and Year are set only for subscription payments;
// at most one completed subscription payment may exist per (user, month, year).
type Payment struct {
	ID                    string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID                *string       `json:"userId" gorm:"type:uuid;index"`
	Type                  PaymentType   `json:"type" gorm:"type:varchar(20);not null"`
	Amount                int64         `json:"amount"`
	Currency              string        `json:"currency" gorm:"type:varchar(10);default:'eur'"`
	Status                PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	StripePaymentIntentId string        `json:"stripePaymentIntentId,omitempty" gorm:"index"`
	StripeSubscriptionId  string        `json:"stripeSubscriptionId,omitempty"`
	Month                 int           `json:"month,omitempty"`
	Year                  int           `json:"year,omitempty"`
	PaymentMethod         string        `json:"paymentMethod,omitempty" gorm:"type:varchar(20)"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}
