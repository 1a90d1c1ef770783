package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageStatus string

const (
	MessageStatusUnread   MessageStatus = "unread"
	MessageStatusRead     MessageStatus = "read"
	MessageStatusArchived MessageStatus = "archived"
)

// Message is a directed message between two users, optionally scoped to a
// booking. Replies reference their parent through ParentMessageID and form a
// forest; children are resolved by query, there is no back-pointer graph.
type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID `gorm:"type:uuid;index" json:"sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;index" json:"receiver_id"`

	BookingID       *uint      `gorm:"index" json:"booking_id,omitempty"`
	ParentMessageID *uuid.UUID `gorm:"type:uuid;index" json:"parent_message_id,omitempty"`

	Subject *string `gorm:"type:varchar(255)" json:"subject,omitempty"`
	Content string  `gorm:"type:text;not null" json:"content"`

	Status MessageStatus `gorm:"type:varchar(20);default:'unread';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Sender   *User    `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User    `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Booking  *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
