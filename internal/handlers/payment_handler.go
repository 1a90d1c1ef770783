package handlers

import (
	"fmt"
	"log"
	"math"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mmondo-adventures/tours_be/internal/models"
	"github.com/mmondo-adventures/tours_be/internal/services/stripe"
)

type PaymentHandler struct {
	DB            *gorm.DB
	StripeService *stripe.StripeService
	BaseURL       string
	FrontendURL   string
}

func NewPaymentHandler(db *gorm.DB, stripeService *stripe.StripeService, baseURL, frontendURL string) *PaymentHandler {
	return &PaymentHandler{DB: db, StripeService: stripeService, BaseURL: baseURL, FrontendURL: frontendURL}
}

type CreatePaymentReq struct {
	BookingID uint `json:"booking_id"`
}

// CreateCheckoutSession opens a Stripe Checkout session for a pending
// booking owned by the caller and stores the session id on the booking.
func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	user, err := currentUser(c, h.DB)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var req CreatePaymentReq
	if err := c.BodyParser(&req); err != nil || req.BookingID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "booking_id is required"})
	}

	var booking models.Booking
	if err := h.DB.Preload("Tour").First(&booking, "id = ?", req.BookingID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Booking not found"})
	}

	if booking.UserID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Only the booking owner can pay"})
	}
	if booking.PaymentStatus != models.PaymentStatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Booking is not awaiting payment"})
	}

	itemName := fmt.Sprintf("Booking #%d", booking.ID)
	if booking.Tour != nil {
		itemName = fmt.Sprintf("%s (%s)", booking.Tour.Title, booking.TourDate.Format("2006-01-02"))
	}

	amountCents := int64(math.Round(booking.TotalPrice * 100))

	session, err := h.StripeService.CreateCheckoutSession(
		fmt.Sprintf("booking-%d", booking.ID),
		itemName,
		amountCents,
		user.Email,
		h.BaseURL+"/api/payments/confirm?session_id={CHECKOUT_SESSION_ID}",
		h.FrontendURL+"/my-bookings?payment=cancelled",
	)
	if err != nil {
		log.Println("Error creating checkout session:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create payment session"})
	}

	if err := h.DB.Model(&booking).Updates(map[string]interface{}{
		"payment_method": "stripe",
		"payment_id":     session.ID,
	}).Error; err != nil {
		log.Println("Error storing payment session:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to store payment session"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"checkout_url": session.URL,
			"session_id":   session.ID,
		},
	})
}

// ConfirmPayment is the success redirect target. It re-checks the session
// with Stripe before marking the booking paid; the query param alone proves
// nothing.
func (h *PaymentHandler) ConfirmPayment(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "session_id is required"})
	}

	var booking models.Booking
	if err := h.DB.First(&booking, "payment_id = ?", sessionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Booking not found"})
	}

	session, err := h.StripeService.GetCheckoutSession(sessionID)
	if err != nil {
		log.Println("Error fetching checkout session:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to verify payment"})
	}

	if session.PaymentStatus != "paid" {
		return c.Redirect(h.FrontendURL+"/my-bookings?payment=pending", fiber.StatusSeeOther)
	}

	if booking.PaymentStatus != models.PaymentStatusPaid {
		if err := h.DB.Model(&booking).
			Update("payment_status", models.PaymentStatusPaid).Error; err != nil {
			log.Println("Error marking booking paid:", err)
		}
	}

	return c.Redirect(h.FrontendURL+"/my-bookings?payment=success", fiber.StatusSeeOther)
}
