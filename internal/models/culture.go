package models

import "time"

// Country holds the East Africa culture-bank content, not tour data.
type Country struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Slug string `gorm:"type:varchar(50);uniqueIndex" json:"slug"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`

	Description string `gorm:"type:varchar(1000)" json:"description,omitempty"`
	Food        string `gorm:"type:varchar(1000)" json:"food,omitempty"`
	Dress       string `gorm:"type:varchar(1000)" json:"dress,omitempty"`
	Traditions  string `gorm:"type:varchar(1500)" json:"traditions,omitempty"`
	TourThemes  string `gorm:"type:varchar(1000)" json:"tour_themes,omitempty"`

	VideoURL    string `gorm:"type:varchar(300)" json:"video_url,omitempty"`
	VideoCredit string `gorm:"type:varchar(200)" json:"video_credit,omitempty"`
	Testimonial string `gorm:"type:varchar(1500)" json:"testimonial,omitempty"`

	BadgeLabel string `gorm:"type:varchar(50)" json:"badge_label,omitempty"`
	BadgeColor string `gorm:"type:varchar(50)" json:"badge_color,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Images []CountryImage `gorm:"foreignKey:CountryID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

type CountryImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	CountryID uint   `gorm:"index" json:"country_id"`
	ImageURL  string `gorm:"type:varchar(300);not null" json:"image_url"`
	AltText   string `gorm:"type:varchar(200)" json:"alt_text,omitempty"`
	IsPrimary bool   `gorm:"default:false" json:"is_primary"`
}
