package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// ParseRole normalizes a claim or request value to a known role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleCustomer, RoleAdmin, RoleSuperadmin:
		return r, true
	default:
		return "", false
	}
}

// User is the single source of truth for roles: one enum column,
// no is_admin/is_superadmin flags on the side.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`

	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CompanyName string `gorm:"type:varchar(100)" json:"company_name,omitempty"`
	CompanyLink string `gorm:"type:varchar(200)" json:"company_link,omitempty"`
	Picture     string `json:"picture,omitempty"`

	GoogleID      *string `gorm:"uniqueIndex" json:"-"`
	EmailVerified bool    `gorm:"default:false" json:"email_verified"`
	AuthMethod    string  `gorm:"type:varchar(20);default:'email'" json:"auth_method"`

	NewsletterSubscribed bool   `gorm:"default:false" json:"newsletter_subscribed"`
	UnsubscribeToken     string `gorm:"type:varchar(36)" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.UnsubscribeToken == "" {
		u.UnsubscribeToken = uuid.New().String()
	}
	return
}

// DisplayName falls back to the email when the profile has no full name.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
