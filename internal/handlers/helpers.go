package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mmondo-adventures/tours_be/internal/models"
)

func getUserUUID(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals("userId")
	if v == nil {
		return uuid.Nil, fmt.Errorf("unauthorized")
	}

	switch t := v.(type) {
	case uuid.UUID:
		return t, nil
	case string:
		return uuid.Parse(t)
	case []byte:
		return uuid.ParseBytes(t)
	default:
		return uuid.Nil, fmt.Errorf("invalid userId type: %T", v)
	}
}

func currentUser(c *fiber.Ctx, db *gorm.DB) (*models.User, error) {
	uid, err := getUserUUID(c)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := db.First(&u, "id = ?", uid).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
