package ledger

import (
	"loyaltyhub-backend/models"
	"loyaltyhub-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Catalog is the per-vendor list of redeemable rewards.
type Catalog struct {
	DB *gorm.DB
}

// ListRewards returns the catalog. A nil vendorID is the global view used by
// the customer wallet and the admin console; otherwise the list is
// vendor-filtered.
func (c *Catalog) ListRewards(vendorID *uuid.UUID) ([]models.Reward, error) {
	var rewards []models.Reward
	q := c.DB.Order("points_required ASC")
	if vendorID != nil {
		q = q.Where("vendor_id = ?", *vendorID)
	}
	err := q.Find(&rewards).Error
	return rewards, err
}

// GetReward looks up one reward.
func (c *Catalog) GetReward(id uuid.UUID) (*models.Reward, error) {
	var reward models.Reward
	if err := c.DB.Where("id = ?", id).First(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

// AddReward creates a catalog entry for the vendor. pointsRequired must be a
// positive integer.
func (c *Catalog) AddReward(vendorID uuid.UUID, title, description string, pointsRequired int) (*models.Reward, error) {
	if pointsRequired <= 0 {
		return nil, utils.Validationf("points required must be a positive integer")
	}
	if title == "" {
		return nil, utils.Validationf("title is required")
	}

	reward := &models.Reward{
		VendorID:       vendorID,
		Title:          title,
		Description:    description,
		PointsRequired: pointsRequired,
	}
	if err := c.DB.Create(reward).Error; err != nil {
		return nil, err
	}
	return reward, nil
}

// IsEligible reports whether a balance covers the reward.
func IsEligible(reward *models.Reward, balance int) bool {
	return balance >= reward.PointsRequired
}
