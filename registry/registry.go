// Package registry is the authorization gate: it maps a phone number to a
// role and, for merchants, to a vendor identity. It also owns the admin-facing
// vendor lifecycle (register, revoke).
package registry

import (
	"errors"
	"strings"

	"loyaltyhub-backend/models"
	"loyaltyhub-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultPointsPerRupee is the accrual rate assigned to newly registered
// vendors.
const DefaultPointsPerRupee = 0.1

// Access is the result of a verification: whether the phone is authorized for
// the requested role, and the vendor binding for merchant logins.
type Access struct {
	Authorized bool
	VendorID   *uuid.UUID
}

// NormalizePhone strips non-digit characters and enforces the 10-digit format.
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 10 {
		return "", utils.Validationf("enter a valid 10-digit number")
	}
	return digits, nil
}

type Registry struct {
	DB *gorm.DB
}

// Verify decides authorization for a phone/role pair. Pure lookup: no user or
// vendor record is touched.
//
// Admin access by any well-formed phone is a deliberate simplification of this
// demo system, not a pattern to harden silently.
func (r *Registry) Verify(phone, role string) (Access, error) {
	digits, err := NormalizePhone(phone)
	if err != nil {
		return Access{}, err
	}
	if !models.ValidRole(role) {
		return Access{}, utils.Validationf("unknown role %q", role)
	}

	switch role {
	case models.RoleAdmin, models.RoleCustomer:
		return Access{Authorized: true}, nil
	default: // VENDOR
		var vendor models.Vendor
		err := r.DB.Where("authorized_phone = ?", digits).First(&vendor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Access{Authorized: false}, nil
		}
		if err != nil {
			return Access{}, err
		}
		return Access{Authorized: true, VendorID: &vendor.ID}, nil
	}
}

// RegisterVendor creates a merchant with the default accrual rate, zeroed
// counters and a deterministic QR target. The authorized phone is the unique
// key merchant logins are verified against.
func (r *Registry) RegisterVendor(name, category, phone string) (*models.Vendor, error) {
	digits, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, utils.Validationf("name is required")
	}

	var existing models.Vendor
	if err := r.DB.Unscoped().Where("authorized_phone = ?", digits).First(&existing).Error; err == nil {
		return nil, utils.Validationf("phone number already registered to a merchant")
	}

	vendor := &models.Vendor{
		ID:              uuid.New(),
		Name:            name,
		Category:        category,
		PointsPerRupee:  DefaultPointsPerRupee,
		TotalScans:      0,
		TotalCustomers:  0,
		AuthorizedPhone: digits,
		Logo:            utils.VendorLogoURL(name),
	}
	vendor.QRURL = utils.VendorQRPayload(vendor.ID)

	if err := r.DB.Create(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

// RevokeVendor tombstones the merchant. Historical transactions keep their
// vendor id; the phone and QR target stop working for future authorization
// and crediting.
func (r *Registry) RevokeVendor(id uuid.UUID) error {
	result := r.DB.Where("id = ?", id).Delete(&models.Vendor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetVendor returns a live (non-revoked) vendor.
func (r *Registry) GetVendor(id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB.Where("id = ?", id).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// ListVendors returns all live vendors, newest first.
func (r *Registry) ListVendors() ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.DB.Order("created_at DESC").Find(&vendors).Error
	return vendors, err
}
