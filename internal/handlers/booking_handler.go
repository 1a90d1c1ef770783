package handlers

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mmondo-adventures/tours_be/internal/models"
)

const donationAmount = 10.0

type BookingHandler struct {
	DB *gorm.DB
}

func NewBookingHandler(db *gorm.DB) *BookingHandler {
	return &BookingHandler{DB: db}
}

type CreateBookingReq struct {
	TourID              uint   `json:"tour_id"`
	Adults              int    `json:"adults"`
	Kids                int    `json:"kids"`
	TourDate            string `json:"tour_date"` // YYYY-MM-DD
	IsPrivate           bool   `json:"is_private"`
	Donate              bool   `json:"donate"`
	SpecialRequirements string `json:"special_requirements"`
}

// Create books a tour for the caller. The total is computed server-side:
// per-head price, the private departure multiplier, plus an optional fixed
// donation.
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var req CreateBookingReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}

	errors := FieldErrors{}
	if req.Adults < 1 {
		errors.Add("adults", "At least 1 adult required")
	}
	if req.Kids < 0 {
		errors.Add("kids", "Invalid number of kids")
	}

	tourDate, dateErr := time.Parse("2006-01-02", strings.TrimSpace(req.TourDate))
	if dateErr != nil {
		errors.Add("tour_date", "Invalid tour date")
	} else if tourDate.Before(time.Now().Truncate(24 * time.Hour)) {
		errors.Add("tour_date", "Tour date cannot be in the past")
	}

	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var tour models.Tour
	if err := h.DB.First(&tour, "id = ? AND is_active = ?", req.TourID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Tour not found"})
	}

	if tour.MaxParticipants > 0 && req.Adults+req.Kids > tour.MaxParticipants {
		errs := FieldErrors{}
		errs.Add("adults", "Party exceeds the maximum group size for this tour")
		return validationFail(c, errs)
	}

	total := tour.PriceFor(req.Adults, req.Kids, req.IsPrivate)
	donation := 0.0
	if req.Donate {
		donation = donationAmount
		total += donation
	}

	booking := models.Booking{
		UserID:              userUUID,
		TourID:              tour.ID,
		Adults:              req.Adults,
		Kids:                req.Kids,
		TourDate:            tourDate,
		IsPrivate:           req.IsPrivate,
		TotalPrice:          total,
		Donation:            donation,
		SpecialRequirements: strings.TrimSpace(req.SpecialRequirements),
		PaymentStatus:       models.PaymentStatusPending,
	}

	if err := h.DB.Create(&booking).Error; err != nil {
		log.Println("Error creating booking:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create booking"})
	}

	booking.Tour = &tour
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": booking})
}

// ListMine returns the caller's bookings. Soft-removed rows are hidden and
// cancelled ones drop off after 30 days.
func (h *BookingHandler) ListMine(c *fiber.Ctx) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	oneMonthAgo := time.Now().AddDate(0, 0, -30)

	var bookings []models.Booking
	if err := h.DB.
		Preload("Tour").
		Where("user_id = ? AND deleted_at IS NULL", userUUID).
		Where("payment_status != ? OR (payment_status = ? AND cancelled_at >= ?)",
			models.PaymentStatusCancelled, models.PaymentStatusCancelled, oneMonthAgo).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {

		log.Println("Error fetching bookings:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch bookings"})
	}

	return c.JSON(fiber.Map{"success": true, "data": bookings})
}

// Cancel sets a booking to cancelled; allowed up to 24 hours before the tour.
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid booking ID"})
	}

	var booking models.Booking
	if err := h.DB.First(&booking, "id = ? AND user_id = ?", id, userUUID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Booking not found"})
	}

	if time.Now().After(booking.TourDate.Add(-24 * time.Hour)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Cancellation is only allowed up to 24 hours before the tour",
		})
	}

	now := time.Now()
	if err := h.DB.Model(&booking).Updates(map[string]interface{}{
		"payment_status": models.PaymentStatusCancelled,
		"cancelled_at":   now,
	}).Error; err != nil {
		log.Println("Error cancelling booking:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to cancel booking"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Booking cancelled"})
}

// Delete soft-removes a cancelled booking from the caller's list.
func (h *BookingHandler) Delete(c *fiber.Ctx) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid booking ID"})
	}

	res := h.DB.Model(&models.Booking{}).
		Where("id = ? AND user_id = ? AND payment_status = ? AND deleted_at IS NULL",
			id, userUUID, models.PaymentStatusCancelled).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete booking"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Booking not found"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Booking removed"})
}
