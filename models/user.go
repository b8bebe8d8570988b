package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values accepted by the authorization gate.
const (
	RoleCustomer = "CUSTOMER"
	RoleVendor   = "VENDOR"
	RoleAdmin    = "ADMIN"
)

// ValidRole reports whether role is one of the three dashboard roles.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleVendor || role == RoleAdmin
}

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name      string     `json:"name"`
	Phone     string     `gorm:"not null;index" json:"phone"`
	Role      string     `gorm:"not null;default:CUSTOMER" json:"role"` // CUSTOMER, VENDOR, ADMIN
	VendorID  *uuid.UUID `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
