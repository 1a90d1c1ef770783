package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mmondo-adventures/tours_be/internal/models"
)

type UsersHandler struct {
	DB *gorm.DB
}

func NewUsersHandler(db *gorm.DB) *UsersHandler {
	return &UsersHandler{DB: db}
}

type UserOut struct {
	ID          string      `json:"id"`
	FullName    string      `json:"full_name"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	CompanyName string      `json:"company_name,omitempty"`
}

// Available lists the users the caller is allowed to message, mirroring the
// messaging role table: customers and admins see superadmins, superadmins
// see active admins and other superadmins.
func (h *UsersHandler) Available(c *fiber.Ctx) error {
	user, err := currentUser(c, h.DB)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var users []models.User
	q := h.DB.Where("is_active = ?", true)
	if user.Role == models.RoleSuperadmin {
		q = q.Where("id != ?", user.ID).Where("role IN ?", []models.Role{models.RoleAdmin, models.RoleSuperadmin})
	} else {
		q = q.Where("role = ?", models.RoleSuperadmin)
	}

	if err := q.Order("full_name ASC").Find(&users).Error; err != nil {
		log.Println("Error fetching available users:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch users"})
	}

	out := make([]UserOut, 0, len(users))
	for _, u := range users {
		out = append(out, UserOut{
			ID:          u.ID.String(),
			FullName:    u.DisplayName(),
			Email:       u.Email,
			Role:        u.Role,
			CompanyName: u.CompanyName,
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": out})
}

// Me returns the authenticated user's profile.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c, h.DB)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "User not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":           user.ID,
			"full_name":    user.FullName,
			"email":        user.Email,
			"role":         user.Role,
			"company_name": user.CompanyName,
			"picture":      user.Picture,
		},
	})
}
