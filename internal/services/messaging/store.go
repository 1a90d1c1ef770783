package messaging

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mmondo-adventures/tours_be/internal/models"
)

// MaxPageSize caps ListForUser so a caller can't force an unbounded scan.
const MaxPageSize = 200

const defaultPageSize = 100

// Store owns persistence and retrieval of messages. Authorization lives in
// policy.go and is applied by callers before Create; the store itself only
// enforces the checks that are about the message row (content, self-send,
// referenced booking/parent, receiver/participant ownership on mutation).
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

type CreateInput struct {
	ReceiverID      uuid.UUID
	BookingID       *uint
	ParentMessageID *uuid.UUID
	Subject         *string
	Content         string
}

// Create inserts a new message with status unread. Self-messages are
// rejected.
func (s *Store) Create(senderID uuid.UUID, in CreateInput) (*models.Message, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrEmptyContent
	}
	if senderID == in.ReceiverID {
		return nil, ErrSelfMessage
	}

	if in.BookingID != nil {
		var n int64
		if err := s.DB.Model(&models.Booking{}).Where("id = ?", *in.BookingID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrBookingNotFound
		}
	}

	if in.ParentMessageID != nil {
		var n int64
		if err := s.DB.Model(&models.Message{}).Where("id = ?", *in.ParentMessageID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrParentNotFound
		}
	}

	msg := models.Message{
		SenderID:        senderID,
		ReceiverID:      in.ReceiverID,
		BookingID:       in.BookingID,
		ParentMessageID: in.ParentMessageID,
		Subject:         in.Subject,
		Content:         in.Content,
		Status:          models.MessageStatusUnread,
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Store) GetByID(id uuid.UUID) (*models.Message, error) {
	var msg models.Message
	if err := s.DB.First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// ListForUser returns messages the user sent or received, newest first.
func (s *Store) ListForUser(userID uuid.UUID, skip, limit int) ([]models.Message, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	var msgs []models.Message
	// id is a random uuid, so the tie-break is arbitrary but stable
	err := s.DB.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Offset(skip).
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// ListConversation returns every message exchanged between the two users in
// chronological reading order, regardless of argument order. An optional
// booking id narrows the thread.
func (s *Store) ListConversation(userA, userB uuid.UUID, bookingID *uint) ([]models.Message, error) {
	q := s.DB.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userA, userB, userB, userA,
	)
	if bookingID != nil {
		q = q.Where("booking_id = ?", *bookingID)
	}

	var msgs []models.Message
	// same uuid tie-break as ListForUser, identical from either side
	err := q.Order("created_at ASC, id ASC").Find(&msgs).Error
	return msgs, err
}

func (s *Store) CountUnread(userID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND status = ?", userID, models.MessageStatusUnread).
		Count(&n).Error
	return n, err
}

// MarkRead transitions a message to read. Only the receiver may do this;
// marking an already-read message again is a no-op success.
func (s *Store) MarkRead(id, requesterID uuid.UUID) (*models.Message, error) {
	msg, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if msg.ReceiverID != requesterID {
		return nil, ErrNotMessageReceiver
	}
	if msg.Status == models.MessageStatusRead {
		return msg, nil
	}

	// Single UPDATE keyed on receiver so a concurrent bulk mark-read can't
	// be interleaved with a stale read-then-write.
	if err := s.DB.Model(&models.Message{}).
		Where("id = ? AND receiver_id = ?", id, requesterID).
		Update("status", models.MessageStatusRead).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// MarkConversationRead marks every unread message from senderID to readerID
// as read in one atomic UPDATE and returns the number of rows changed.
func (s *Store) MarkConversationRead(readerID, senderID uuid.UUID) (int64, error) {
	res := s.DB.Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND status = ?",
			readerID, senderID, models.MessageStatusUnread).
		Update("status", models.MessageStatusRead)
	return res.RowsAffected, res.Error
}

// MarkArchived moves a message out of the normal flow. Receiver only, same
// ownership rule as MarkRead.
func (s *Store) MarkArchived(id, requesterID uuid.UUID) (*models.Message, error) {
	msg, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if msg.ReceiverID != requesterID {
		return nil, ErrNotMessageReceiver
	}
	if msg.Status == models.MessageStatusArchived {
		return msg, nil
	}

	if err := s.DB.Model(&models.Message{}).
		Where("id = ? AND receiver_id = ?", id, requesterID).
		Update("status", models.MessageStatusArchived).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Counterparties returns the distinct set of users this user has exchanged
// at least one message with.
func (s *Store) Counterparties(userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.DB.Raw(`
		SELECT DISTINCT other FROM (
			SELECT receiver_id AS other FROM messages WHERE sender_id = ?
			UNION
			SELECT sender_id AS other FROM messages WHERE receiver_id = ?
		) pair`, userID, userID).
		Scan(&ids).Error
	return ids, err
}

// Delete permanently removes a message. Either participant may delete;
// replies are not cascaded, they keep their dangling parent reference.
func (s *Store) Delete(id, requesterID uuid.UUID) error {
	msg, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if msg.SenderID != requesterID && msg.ReceiverID != requesterID {
		return ErrNotParticipant
	}
	return s.DB.Delete(&models.Message{}, "id = ?", id).Error
}
