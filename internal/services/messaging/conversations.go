package messaging

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mmondo-adventures/tours_be/internal/models"
)

const previewLength = 100

// ConversationSummary is the derived per-counterparty view. It is computed
// on demand from the message table; nothing here is persisted.
type ConversationSummary struct {
	OtherUserID      uuid.UUID   `json:"other_user_id"`
	OtherUserName    string      `json:"other_user_name"`
	OtherUserRole    models.Role `json:"other_user_role"`
	OtherUserCompany string      `json:"other_user_company,omitempty"`

	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int       `json:"unread_count"`

	BookingID    *uint  `json:"booking_id,omitempty"`
	BookingTitle string `json:"booking_title,omitempty"`
}

// Conversations builds one summary per counterparty of userID, newest
// activity first. This is a full scan per thread with no caching; fine at
// the scale this app runs at.
func (s *Store) Conversations(userID uuid.UUID) ([]ConversationSummary, error) {
	otherIDs, err := s.Counterparties(userID)
	if err != nil {
		return nil, err
	}

	out := make([]ConversationSummary, 0, len(otherIDs))
	for _, otherID := range otherIDs {
		var other models.User
		if err := s.DB.First(&other, "id = ?", otherID).Error; err != nil {
			continue
		}

		msgs, err := s.ListConversation(userID, otherID, nil)
		if err != nil {
			return nil, err
		}
		if len(msgs) == 0 {
			continue
		}

		last := msgs[len(msgs)-1]

		unread := 0
		for _, m := range msgs {
			if m.ReceiverID == userID && m.Status == models.MessageStatusUnread {
				unread++
			}
		}

		// First message carrying a booking wins; the thread is assumed to be
		// about one booking at most.
		var bookingID *uint
		var bookingTitle string
		for _, m := range msgs {
			if m.BookingID == nil {
				continue
			}
			var booking models.Booking
			if err := s.DB.Preload("Tour").First(&booking, "id = ?", *m.BookingID).Error; err == nil {
				bookingID = m.BookingID
				bookingTitle = booking.Reference()
				break
			}
		}

		out = append(out, ConversationSummary{
			OtherUserID:      otherID,
			OtherUserName:    other.DisplayName(),
			OtherUserRole:    other.Role,
			OtherUserCompany: other.CompanyName,
			LastMessage:      truncatePreview(last.Content),
			LastMessageTime:  last.CreatedAt,
			UnreadCount:      unread,
			BookingID:        bookingID,
			BookingTitle:     bookingTitle,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageTime.After(out[j].LastMessageTime)
	})
	return out, nil
}

func truncatePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
