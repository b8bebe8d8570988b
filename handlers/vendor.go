package handlers

import (
	"errors"
	"net/http"

	"loyaltyhub-backend/ledger"
	"loyaltyhub-backend/models"
	"loyaltyhub-backend/registry"
	"loyaltyhub-backend/services"
	"loyaltyhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorHandler serves the merchant terminal.
type VendorHandler struct {
	DB       *gorm.DB
	Ledger   *ledger.Engine
	Catalog  *ledger.Catalog
	Insights *services.InsightsClient
}

func sessionVendorID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("vendor_id")
	if !exists {
		c.JSON(http.StatusForbidden, gin.H{"error": "No merchant associated with this account"})
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "No merchant associated with this account"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *VendorHandler) loadVendor(c *gin.Context) (*models.Vendor, bool) {
	vendorID, ok := sessionVendorID(c)
	if !ok {
		return nil, false
	}

	var vendor models.Vendor
	if err := h.DB.Where("id = ?", vendorID).First(&vendor).Error; err != nil {
		// The vendor was revoked after this session was issued.
		c.JSON(http.StatusForbidden, gin.H{"error": "Merchant registration has been revoked"})
		return nil, false
	}
	return &vendor, true
}

// Dashboard returns the merchant profile, counters and recent ledger
// activity.
func (h *VendorHandler) Dashboard(c *gin.Context) {
	vendor, ok := h.loadVendor(c)
	if !ok {
		return
	}

	txs, err := h.Ledger.VendorTransactions(vendor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	pointsIssued := 0
	pointsRedeemed := 0
	for i := range txs {
		if txs[i].Type == models.TxCredit {
			pointsIssued += txs[i].Points
		} else {
			pointsRedeemed += txs[i].Points
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"vendor":          vendor,
		"transactions":    txs,
		"points_issued":   pointsIssued,
		"points_redeemed": pointsRedeemed,
	})
}

// CreditBill records a billing credit for a customer: points accrue at the
// vendor's rate, rounded down. The customer is identified by phone, matching
// the walk-in checkout flow.
func (h *VendorHandler) CreditBill(c *gin.Context) {
	vendor, ok := h.loadVendor(c)
	if !ok {
		return
	}

	var req struct {
		CustomerPhone string  `json:"customer_phone" binding:"required"`
		Amount        float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	digits, err := registry.NormalizePhone(req.CustomerPhone)
	if err != nil {
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer phone"})
		return
	}

	// Walk-in customers are onboarded at the counter.
	var customer models.User
	err = h.DB.Where("phone = ? AND role = ?", digits, models.RoleCustomer).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = models.User{Name: "Verified User", Phone: digits, Role: models.RoleCustomer}
		if err := h.DB.Create(&customer).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to onboard customer"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up customer"})
		return
	}

	tx, err := h.Ledger.RecordBilling(customer.ID, vendor, req.Amount)
	if err != nil {
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record credit"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

func (h *VendorHandler) ListRewards(c *gin.Context) {
	vendorID, ok := sessionVendorID(c)
	if !ok {
		return
	}

	rewards, err := h.Catalog.ListRewards(&vendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rewards"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

func (h *VendorHandler) CreateReward(c *gin.Context) {
	vendor, ok := h.loadVendor(c)
	if !ok {
		return
	}

	var req struct {
		Title          string `json:"title" binding:"required"`
		Description    string `json:"description"`
		PointsRequired int    `json:"points_required" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	reward, err := h.Catalog.AddReward(vendor.ID, req.Title, req.Description, req.PointsRequired)
	if err != nil {
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reward"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reward": reward})
}

// SuggestReward asks the insight collaborator for a reward idea and adds the
// first suggestion to the catalog. The collaborator is best-effort; its static
// fallback keeps this endpoint working offline.
func (h *VendorHandler) SuggestReward(c *gin.Context) {
	vendor, ok := h.loadVendor(c)
	if !ok {
		return
	}

	ideas := h.Insights.RewardIdeas(c.Request.Context(), vendor.Name, vendor.Category)
	if len(ideas) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No suggestions available right now"})
		return
	}

	idea := ideas[0]
	reward, err := h.Catalog.AddReward(vendor.ID, idea.Title, idea.Description, idea.PointsRequired)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save suggested reward"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reward": reward, "suggestions": ideas})
}

// GetQR returns the vendor's deterministic QR payload and a rendered image
// URL for the printable merchant kit.
func (h *VendorHandler) GetQR(c *gin.Context) {
	vendor, ok := h.loadVendor(c)
	if !ok {
		return
	}

	payload := utils.VendorQRPayload(vendor.ID)
	c.JSON(http.StatusOK, gin.H{
		"payload":   payload,
		"image_url": utils.QRImageURL(payload),
		"vendor": gin.H{
			"id":       vendor.ID,
			"name":     vendor.Name,
			"category": vendor.Category,
			"logo":     vendor.Logo,
		},
	})
}
