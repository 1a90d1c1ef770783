package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mmondo-adventures/tours_be/internal/models"
	"github.com/mmondo-adventures/tours_be/internal/utils"
)

type AdminHandler struct {
	DB *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

// ListBookings returns all non-removed bookings for the back office.
func (h *AdminHandler) ListBookings(c *fiber.Ctx) error {
	var bookings []models.Booking
	if err := h.DB.
		Preload("Tour").
		Preload("User").
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {

		log.Println("Error fetching bookings:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch bookings"})
	}

	return c.JSON(fiber.Map{"success": true, "data": bookings})
}

type statusCount struct {
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	Count         int64                `json:"count"`
}

// Dashboard aggregates revenue and booking stats for the superadmin view.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	var revenue float64
	if err := h.DB.Model(&models.Booking{}).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&revenue).Error; err != nil {
		log.Println("Error computing revenue:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to compute revenue"})
	}

	var donations float64
	if err := h.DB.Model(&models.Booking{}).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(donation), 0)").
		Scan(&donations).Error; err != nil {
		log.Println("Error computing donations:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to compute donations"})
	}

	var byStatus []statusCount
	if err := h.DB.Model(&models.Booking{}).
		Select("payment_status, COUNT(*) AS count").
		Group("payment_status").
		Scan(&byStatus).Error; err != nil {
		log.Println("Error counting bookings:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to count bookings"})
	}

	var totalBookings int64
	h.DB.Model(&models.Booking{}).Count(&totalBookings)

	var totalCustomers int64
	h.DB.Model(&models.User{}).Where("role = ?", models.RoleCustomer).Count(&totalCustomers)

	var recent []models.Booking
	h.DB.Preload("Tour").Preload("User").
		Order("created_at DESC").
		Limit(10).
		Find(&recent)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"revenue":         revenue,
			"donations":       donations,
			"total_bookings":  totalBookings,
			"total_customers": totalCustomers,
			"by_status":       byStatus,
			"recent_bookings": recent,
		},
	})
}

type CreateAdminReq struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // admin or superadmin
}

// CreateAdmin provisions admin/superadmin accounts; superadmin only.
func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	var req CreateAdminReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	role, roleOK := models.ParseRole(req.Role)

	errors := FieldErrors{}
	if strings.TrimSpace(req.FullName) == "" {
		errors.Add("full_name", "Full name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		errors.Add("email", "A valid email is required")
	}
	if len(strings.TrimSpace(req.Password)) < 6 {
		errors.Add("password", "Password must be at least 6 characters")
	}
	if !roleOK || role == models.RoleCustomer {
		errors.Add("role", "Role must be admin or superadmin")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var existing models.User
	if err := h.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		errs := FieldErrors{}
		errs.Add("email", "Email is already registered")
		return validationFail(c, errs)
	} else if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Something went wrong"})
	}

	pw, err := utils.HashPassword(strings.TrimSpace(req.Password))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to process password"})
	}

	u := models.User{
		FullName:      strings.TrimSpace(req.FullName),
		Email:         email,
		Password:      pw,
		Role:          role,
		IsActive:      true,
		EmailVerified: true,
		AuthMethod:    "email",
	}
	if err := h.DB.Create(&u).Error; err != nil {
		log.Println("Error creating admin:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create account"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":        u.ID,
			"full_name": u.FullName,
			"email":     u.Email,
			"role":      u.Role,
		},
	})
}
