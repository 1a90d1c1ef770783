package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

type Booking struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	TourID uint      `gorm:"index" json:"tour_id"`

	Adults     int       `json:"adults"`
	Kids       int       `json:"kids"`
	TourDate   time.Time `json:"tour_date"`
	IsPrivate  bool      `gorm:"default:false" json:"is_private"`
	TotalPrice float64   `json:"total_price"`
	Donation   float64   `gorm:"default:0" json:"donation"`

	SpecialRequirements string `gorm:"type:varchar(500)" json:"special_requirements,omitempty"`

	PaymentMethod string        `gorm:"type:varchar(20)" json:"payment_method"`
	PaymentID     string        `gorm:"type:varchar(50)" json:"payment_id"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`

	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	// Soft removal from "my bookings" only; not gorm.DeletedAt on purpose,
	// admin views still query these rows.
	DeletedAt *time.Time `json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tour *Tour `gorm:"foreignKey:TourID" json:"tour,omitempty"`
}

func (b *Booking) ParticipantCount() int {
	return b.Adults + b.Kids
}

// Reference is the display title used when a message thread points at a booking.
func (b *Booking) Reference() string {
	if b.Tour != nil {
		return b.Tour.Title
	}
	return ""
}
