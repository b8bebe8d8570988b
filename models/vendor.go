package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor is a merchant node authorized to issue credits and define rewards.
// Revocation is a soft delete: the tombstoned row keeps historical transactions
// valid while the default scopes hide it from verification and crediting.
type Vendor struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Category        string         `json:"category"`
	Logo            string         `json:"logo"`
	QRURL           string         `gorm:"column:qr_url" json:"qr_url"`
	PointsPerRupee  float64        `gorm:"default:0.1" json:"points_per_rupee"`
	TotalScans      int            `gorm:"default:0" json:"total_scans"`
	TotalCustomers  int            `gorm:"default:0" json:"total_customers"`
	AuthorizedPhone string         `gorm:"uniqueIndex;not null" json:"authorized_phone"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
