package handlers

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mmondo-adventures/tours_be/internal/models"
)

type TourHandler struct {
	DB *gorm.DB
}

func NewTourHandler(db *gorm.DB) *TourHandler {
	return &TourHandler{DB: db}
}

// ListPublic returns active tours for the public catalogue.
func (h *TourHandler) ListPublic(c *fiber.Ctx) error {
	var tours []models.Tour
	q := h.DB.Preload("Images").Where("is_active = ?", true)

	if country := strings.TrimSpace(c.Query("country")); country != "" {
		q = q.Where("country = ?", country)
	}

	if err := q.Order("created_at DESC").Find(&tours).Error; err != nil {
		log.Println("Error fetching tours:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch tours",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": tours})
}

// GetDetail returns one tour with its gallery.
func (h *TourHandler) GetDetail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid tour ID",
		})
	}

	var tour models.Tour
	if err := h.DB.Preload("Images").First(&tour, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Tour not found",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": tour})
}

type TourReq struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	Duration           string   `json:"duration"`
	Locations          string   `json:"locations"`
	Country            string   `json:"country"`
	ImageURL           string   `json:"image_url"`
	TourType           string   `json:"tour_type"`
	Risk               string   `json:"risk"`
	MaxParticipants    int      `json:"max_participants"`
	Included           []string `json:"included"`
	NotIncluded        []string `json:"not_included"`
	CancellationPolicy string   `json:"cancellation_policy"`
}

func (r *TourReq) validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(r.Title) == "" {
		errs.Add("title", "Title is required")
	}
	if strings.TrimSpace(r.Country) == "" {
		errs.Add("country", "Country is required")
	}
	if r.Price <= 0 {
		errs.Add("price", "Price must be greater than zero")
	}
	return errs
}

// Create adds a tour; admin/superadmin only (route-level role check).
func (h *TourHandler) Create(c *fiber.Ctx) error {
	var req TourReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}

	if errs := req.validate(); len(errs) > 0 {
		return validationFail(c, errs)
	}

	tour := models.Tour{
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		Price:              req.Price,
		Duration:           req.Duration,
		Locations:          req.Locations,
		Country:            strings.TrimSpace(req.Country),
		ImageURL:           req.ImageURL,
		TourType:           req.TourType,
		Risk:               req.Risk,
		MaxParticipants:    req.MaxParticipants,
		Included:           toJSONList(req.Included),
		NotIncluded:        toJSONList(req.NotIncluded),
		CancellationPolicy: req.CancellationPolicy,
		IsActive:           true,
	}
	if tour.TourType == "" {
		tour.TourType = "normal"
	}
	if tour.MaxParticipants <= 0 {
		tour.MaxParticipants = 20
	}

	if err := h.DB.Create(&tour).Error; err != nil {
		log.Println("Error creating tour:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create tour"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": tour})
}

// Update edits an existing tour.
func (h *TourHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid tour ID"})
	}

	var tour models.Tour
	if err := h.DB.First(&tour, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Tour not found"})
	}

	var req TourReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request"})
	}

	if errs := req.validate(); len(errs) > 0 {
		return validationFail(c, errs)
	}

	tour.Title = strings.TrimSpace(req.Title)
	tour.Description = req.Description
	tour.Price = req.Price
	tour.Duration = req.Duration
	tour.Locations = req.Locations
	tour.Country = strings.TrimSpace(req.Country)
	tour.ImageURL = req.ImageURL
	tour.Risk = req.Risk
	tour.CancellationPolicy = req.CancellationPolicy
	if req.TourType != "" {
		tour.TourType = req.TourType
	}
	if req.MaxParticipants > 0 {
		tour.MaxParticipants = req.MaxParticipants
	}
	if req.Included != nil {
		tour.Included = toJSONList(req.Included)
	}
	if req.NotIncluded != nil {
		tour.NotIncluded = toJSONList(req.NotIncluded)
	}

	if err := h.DB.Save(&tour).Error; err != nil {
		log.Println("Error updating tour:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update tour"})
	}

	return c.JSON(fiber.Map{"success": true, "data": tour})
}

// Deactivate hides a tour from the public catalogue without deleting
// bookings that reference it.
func (h *TourHandler) Deactivate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid tour ID"})
	}

	res := h.DB.Model(&models.Tour{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to deactivate tour"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Tour not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// AddImage attaches a gallery image record to a tour.
func (h *TourHandler) AddImage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid tour ID"})
	}

	var tour models.Tour
	if err := h.DB.First(&tour, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Tour not found"})
	}

	var req struct {
		ImageURL  string `json:"image_url"`
		IsPrimary bool   `json:"is_primary"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "image_url is required"})
	}

	img := models.TourImage{
		TourID:    tour.ID,
		ImageURL:  strings.TrimSpace(req.ImageURL),
		IsPrimary: req.IsPrimary,
	}
	if err := h.DB.Create(&img).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to add image"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": img})
}

func toJSONList(items []string) datatypes.JSON {
	if items == nil {
		return datatypes.JSON([]byte("[]"))
	}
	b, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(b)
}
