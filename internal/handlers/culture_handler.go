package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mmondo-adventures/tours_be/internal/models"
)

type CultureHandler struct {
	DB *gorm.DB
}

func NewCultureHandler(db *gorm.DB) *CultureHandler {
	return &CultureHandler{DB: db}
}

// ListCountries returns the whole culture bank with galleries, ordered by
// name for a stable page layout.
func (h *CultureHandler) ListCountries(c *fiber.Ctx) error {
	var countries []models.Country
	if err := h.DB.Preload("Images").Order("name ASC").Find(&countries).Error; err != nil {
		log.Println("Error fetching countries:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch countries",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": countries})
}

// GetCountry returns one country by slug.
func (h *CultureHandler) GetCountry(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))

	var country models.Country
	if err := h.DB.Preload("Images").First(&country, "slug = ?", slug).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Country not found",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": country})
}

type CountryReq struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Food        string `json:"food"`
	Dress       string `json:"dress"`
	Traditions  string `json:"traditions"`
	TourThemes  string `json:"tour_themes"`
	VideoURL    string `json:"video_url"`
	VideoCredit string `json:"video_credit"`
	Testimonial string `json:"testimonial"`
	BadgeLabel  string `json:"badge_label"`
	BadgeColor  string `json:"badge_color"`
}

// UpsertCountry creates or updates culture content keyed by slug; back
// office only.
func (h *CultureHandler) UpsertCountry(c *fiber.Ctx) error {
	var req CountryReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	name := strings.TrimSpace(req.Name)

	errors := FieldErrors{}
	if slug == "" {
		errors.Add("slug", "Slug is required")
	}
	if name == "" {
		errors.Add("name", "Name is required")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	var country models.Country
	err := h.DB.First(&country, "slug = ?", slug).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Something went wrong"})
	}

	country.Slug = slug
	country.Name = name
	country.Description = req.Description
	country.Food = req.Food
	country.Dress = req.Dress
	country.Traditions = req.Traditions
	country.TourThemes = req.TourThemes
	country.VideoURL = req.VideoURL
	country.VideoCredit = req.VideoCredit
	country.Testimonial = req.Testimonial
	country.BadgeLabel = req.BadgeLabel
	country.BadgeColor = req.BadgeColor

	if err := h.DB.Save(&country).Error; err != nil {
		log.Println("Error saving country:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to save country"})
	}

	return c.JSON(fiber.Map{"success": true, "data": country})
}

// AddCountryImage attaches a gallery image to a country.
func (h *CultureHandler) AddCountryImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid country ID"})
	}

	var country models.Country
	if err := h.DB.First(&country, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Country not found"})
	}

	var req struct {
		ImageURL  string `json:"image_url"`
		AltText   string `json:"alt_text"`
		IsPrimary bool   `json:"is_primary"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "image_url is required"})
	}

	img := models.CountryImage{
		CountryID: country.ID,
		ImageURL:  strings.TrimSpace(req.ImageURL),
		AltText:   req.AltText,
		IsPrimary: req.IsPrimary,
	}
	if err := h.DB.Create(&img).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to add image"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": img})
}

// DeleteCountry removes a country and, through the FK constraint, its
// gallery.
func (h *CultureHandler) DeleteCountry(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid country ID"})
	}

	res := h.DB.Delete(&models.Country{}, "id = ?", id)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete country"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Country not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}
