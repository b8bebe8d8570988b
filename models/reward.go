package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Reward struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	VendorID       uuid.UUID `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Title          string    `gorm:"not null" json:"title"`
	Description    string    `json:"description"`
	PointsRequired int       `gorm:"not null" json:"points_required"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (r *Reward) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
