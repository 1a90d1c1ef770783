package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mmondo-adventures/tours_be/internal/models"
	"github.com/mmondo-adventures/tours_be/internal/realtime"
	"github.com/mmondo-adventures/tours_be/internal/services/messaging"
)

type MessageHandler struct {
	DB       *gorm.DB
	Store    *messaging.Store
	Hub      *realtime.Hub
	Notifier *realtime.Notifier
}

func NewMessageHandler(db *gorm.DB, hub *realtime.Hub, notifier *realtime.Notifier) *MessageHandler {
	return &MessageHandler{
		DB:       db,
		Store:    messaging.NewStore(db),
		Hub:      hub,
		Notifier: notifier,
	}
}

// MessageOut is a message enriched with display names and the booking
// reference, the shape every messaging endpoint returns.
type MessageOut struct {
	ID              string    `json:"id"`
	SenderID        string    `json:"sender_id"`
	ReceiverID      string    `json:"receiver_id"`
	BookingID       *uint     `json:"booking_id,omitempty"`
	ParentMessageID *string   `json:"parent_message_id,omitempty"`
	Subject         *string   `json:"subject,omitempty"`
	Content         string    `json:"content"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	SenderName      string    `json:"sender_name"`
	ReceiverName    string    `json:"receiver_name"`
	BookingRef      *string   `json:"booking_reference,omitempty"`
}

func (h *MessageHandler) enrich(msg *models.Message, users map[uuid.UUID]*models.User) MessageOut {
	lookup := func(id uuid.UUID) *models.User {
		if u, ok := users[id]; ok {
			return u
		}
		var u models.User
		if err := h.DB.First(&u, "id = ?", id).Error; err != nil {
			users[id] = nil
			return nil
		}
		users[id] = &u
		return &u
	}

	out := MessageOut{
		ID:         msg.ID.String(),
		SenderID:   msg.SenderID.String(),
		ReceiverID: msg.ReceiverID.String(),
		BookingID:  msg.BookingID,
		Subject:    msg.Subject,
		Content:    msg.Content,
		Status:     string(msg.Status),
		CreatedAt:  msg.CreatedAt,
		UpdatedAt:  msg.UpdatedAt,
	}
	if msg.ParentMessageID != nil {
		pid := msg.ParentMessageID.String()
		out.ParentMessageID = &pid
	}
	if s := lookup(msg.SenderID); s != nil {
		out.SenderName = s.DisplayName()
	}
	if r := lookup(msg.ReceiverID); r != nil {
		out.ReceiverName = r.DisplayName()
	}
	if msg.BookingID != nil {
		var booking models.Booking
		if err := h.DB.Preload("Tour").First(&booking, "id = ?", *msg.BookingID).Error; err == nil {
			ref := booking.Reference()
			out.BookingRef = &ref
		}
	}
	return out
}

// messagingFail maps the messaging error taxonomy onto HTTP. Unauthorized
// reads and missing rows both come back as 404 so the API does not leak
// which messages exist; policy violations on send are a plain 403.
func messagingFail(c *fiber.Ctx, err error) error {
	switch {
	case messaging.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false, "message": err.Error(),
		})
	case errors.Is(err, messaging.ErrNotMessageReceiver), errors.Is(err, messaging.ErrNotParticipant):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "message": "Message not found or you don't have permission",
		})
	case messaging.IsPermission(err):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false, "message": err.Error(),
		})
	case messaging.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "message": err.Error(),
		})
	default:
		log.Println("Messaging error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false, "message": "Something went wrong",
		})
	}
}

type SendMessageReq struct {
	ReceiverID      string  `json:"receiver_id"`
	BookingID       *uint   `json:"booking_id"`
	ParentMessageID *string `json:"parent_message_id"`
	Subject         *string `json:"subject"`
	Content         string  `json:"content"`
}

// Send creates a message after the role policy approves the pair.
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	sender, err := currentUser(c, h.DB)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var req SendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid receiver ID"})
	}

	var receiver models.User
	if err := h.DB.First(&receiver, "id = ?", receiverID).Error; err != nil {
		return messagingFail(c, messaging.ErrReceiverNotFound)
	}

	var booking *models.Booking
	if req.BookingID != nil {
		var b models.Booking
		if err := h.DB.Preload("Tour").First(&b, "id = ?", *req.BookingID).Error; err != nil {
			return messagingFail(c, messaging.ErrBookingNotFound)
		}
		booking = &b
	}

	if err := messaging.Authorize(sender, &receiver, booking); err != nil {
		return messagingFail(c, err)
	}

	in := messaging.CreateInput{
		ReceiverID: receiverID,
		BookingID:  req.BookingID,
		Subject:    req.Subject,
		Content:    req.Content,
	}
	if req.ParentMessageID != nil {
		pid, err := uuid.Parse(*req.ParentMessageID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid parent message ID"})
		}
		in.ParentMessageID = &pid
	}

	msg, err := h.Store.Create(sender.ID, in)
	if err != nil {
		return messagingFail(c, err)
	}

	users := map[uuid.UUID]*models.User{sender.ID: sender, receiver.ID: &receiver}
	out := h.enrich(msg, users)

	h.Hub.SendToUser(receiverID, fiber.Map{
		"type":    "new_message",
		"message": out,
	})
	h.Notifier.NotifyUser(context.Background(), receiverID, map[string]interface{}{
		"type":      "new_message",
		"sender_id": sender.ID.String(),
		"subject":   req.Subject,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": out})
}

// ListMine returns the caller's messages, newest first.
func (h *MessageHandler) ListMine(c *fiber.Ctx) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	skip := c.QueryInt("skip", 0)
	limit := c.QueryInt("limit", 100)
	unreadOnly := c.QueryBool("unread_only", false)

	msgs, err := h.Store.ListForUser(userUUID, skip, limit)
	if err != nil {
		return messagingFail(c, err)
	}

	users := map[uuid.UUID]*models.User{}
	out := make([]MessageOut, 0, len(msgs))
	for i := range msgs {
		m := &msgs[i]
		if unreadOnly && !(m.ReceiverID == userUUID && m.Status == models.MessageStatusUnread) {
			continue
		}
		out = append(out, h.enrich(m, users))
	}

	return c.JSON(fiber.Map{"success": true, "data": out})
}

// Conversations returns the derived per-counterparty summaries.
func (h *MessageHandler) Conversations(c *fiber.Ctx) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	convs, err := h.Store.Conversations(userUUID)
	if err != nil {
		return messagingFail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": convs})
}

// ConversationWith returns the full thread with one user, oldest first.
func (h *MessageHandler) ConversationWith(c *fiber.Ctx) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	otherUUID, err := uuid.Parse(c.Params("otherUserId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid user ID"})
	}

	var bookingID *uint
	if v := c.QueryInt("booking_id", 0); v > 0 {
		b := uint(v)
		bookingID = &b
	}

	msgs, err := h.Store.ListConversation(userUUID, otherUUID, bookingID)
	if err != nil {
		return messagingFail(c, err)
	}

	users := map[uuid.UUID]*models.User{}
	out := make([]MessageOut, 0, len(msgs))
	for i := range msgs {
		out = append(out, h.enrich(&msgs[i], users))
	}

	return c.JSON(fiber.Map{"success": true, "data": out})
}

// MarkConversationRead bulk-marks everything the other user sent as read.
func (h *MessageHandler) MarkConversationRead(c *fiber.Ctx) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	otherUUID, err := uuid.Parse(c.Params("otherUserId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid user ID"})
	}

	updated, err := h.Store.MarkConversationRead(userUUID, otherUUID)
	if err != nil {
		return messagingFail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"updated": updated}})
}

// MarkRead marks one message read; receiver only.
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	msgUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid message ID"})
	}

	msg, err := h.Store.MarkRead(msgUUID, userUUID)
	if err != nil {
		return messagingFail(c, err)
	}

	users := map[uuid.UUID]*models.User{}
	return c.JSON(fiber.Map{"success": true, "data": h.enrich(msg, users)})
}

// Archive moves a message out of the unread/read flow; receiver only.
func (h *MessageHandler) Archive(c *fiber.Ctx) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	msgUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid message ID"})
	}

	msg, err := h.Store.MarkArchived(msgUUID, userUUID)
	if err != nil {
		return messagingFail(c, err)
	}

	users := map[uuid.UUID]*models.User{}
	return c.JSON(fiber.Map{"success": true, "data": h.enrich(msg, users)})
}

// UnreadCount returns the caller's unread total.
func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	n, err := h.Store.CountUnread(userUUID)
	if err != nil {
		return messagingFail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"unread_count": n}})
}

// Delete permanently removes a message; sender or receiver only.
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	msgUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid message ID"})
	}

	if err := h.Store.Delete(msgUUID, userUUID); err != nil {
		return messagingFail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Message deleted successfully"})
}

// WebSocketHandler keeps a connection open so the hub can push new-message
// events to this user.
func (h *MessageHandler) WebSocketHandler(c *websocket.Conn) {
	userID := c.Query("user_id")
	if userID == "" {
		log.Println("WebSocket: user_id parameter missing")
		c.Close()
		return
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		log.Println("WebSocket: invalid user_id:", userID, "error:", err)
		c.Close()
		return
	}

	log.Printf("WebSocket: user %s connected\n", userID)

	client := &realtime.Client{
		ID:     uuid.New().String(),
		UserID: userUUID,
		Conn:   &realtime.WebSocketConn{Conn: c},
		Send:   make(chan []byte, 256),
	}

	h.Hub.RegisterClient(client)
	defer func() {
		h.Hub.UnregisterClient(client)
		log.Printf("WebSocket: user %s disconnected\n", userID)
	}()

	go func() {
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Println("WebSocket write error:", err)
				return
			}
		}
	}()

	for {
		var payload map[string]interface{}
		if err := c.ReadJSON(&payload); err != nil {
			log.Printf("WebSocket read error for user %s: %v\n", userID, err)
			break
		}
		if msgType, ok := payload["type"].(string); ok && msgType == "pong" {
			continue
		}
	}
}
