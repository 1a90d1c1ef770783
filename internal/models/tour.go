package models

import (
	"time"

	"gorm.io/datatypes"
)

const PrivateTourMultiplier = 1.35

type Tour struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"type:varchar(100);index" json:"title"`
	Description string  `gorm:"type:varchar(500)" json:"description"`
	Price       float64 `json:"price"` // per participant
	Duration    string  `gorm:"type:varchar(50)" json:"duration"`
	Locations   string  `gorm:"type:varchar(100)" json:"locations"`
	Country     string  `gorm:"type:varchar(100);not null" json:"country"`
	ImageURL    string  `gorm:"type:varchar(200)" json:"image_url"`

	TourType        string `gorm:"type:varchar(50);default:'normal'" json:"tour_type"`
	Risk            string `gorm:"type:varchar(500)" json:"risk,omitempty"`
	MaxParticipants int    `gorm:"default:20" json:"max_participants"`

	// Lists stored as JSON (["park fees", "lunch", ...])
	Included    datatypes.JSON `json:"included"`
	NotIncluded datatypes.JSON `json:"not_included"`

	CancellationPolicy string `gorm:"type:varchar(500)" json:"cancellation_policy"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Images []TourImage `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

type TourImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	TourID    uint   `gorm:"index" json:"tour_id"`
	ImageURL  string `gorm:"type:varchar(200)" json:"image_url"`
	IsPrimary bool   `gorm:"default:false" json:"is_primary"`
}

// PriceFor computes the total for a party. Private departures cost 35% extra.
func (t *Tour) PriceFor(adults, kids int, private bool) float64 {
	base := float64(adults+kids) * t.Price
	if private {
		return base * PrivateTourMultiplier
	}
	return base
}
