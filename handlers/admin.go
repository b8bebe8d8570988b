package handlers

import (
	"errors"
	"net/http"

	"loyaltyhub-backend/models"
	"loyaltyhub-backend/registry"
	"loyaltyhub-backend/services"
	"loyaltyhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminHandler serves the global admin console.
type AdminHandler struct {
	DB       *gorm.DB
	Registry *registry.Registry
	Insights *services.InsightsClient
}

func (h *AdminHandler) ListVendors(c *gin.Context) {
	vendors, err := h.Registry.ListVendors()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load merchants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

func (h *AdminHandler) RegisterVendor(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category"`
		Phone    string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Category == "" {
		req.Category = "Cafe"
	}

	vendor, err := h.Registry.RegisterVendor(req.Name, req.Category, req.Phone)
	if err != nil {
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register merchant"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vendor": vendor})
}

// RevokeVendor tombstones the merchant: its phone and QR target stop working
// while historical ledger entries stay intact.
func (h *AdminHandler) RevokeVendor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid merchant id"})
		return
	}

	if err := h.Registry.RevokeVendor(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Merchant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke merchant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Merchant revoked"})
}

// Summary aggregates network totals and decorates them with insight text from
// the external generator (static fallback when unavailable).
func (h *AdminHandler) Summary(c *gin.Context) {
	var totalVendors int64
	if err := h.DB.Model(&models.Vendor{}).Count(&totalVendors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary"})
		return
	}

	var totalTxs int64
	if err := h.DB.Model(&models.Transaction{}).Count(&totalTxs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary"})
		return
	}

	var totalPoints int64
	if err := h.DB.Model(&models.Transaction{}).
		Select("COALESCE(SUM(points), 0)").
		Scan(&totalPoints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary"})
		return
	}

	summary := services.Summary{
		TotalVendors: int(totalVendors),
		TotalTxs:     int(totalTxs),
		TotalPoints:  int(totalPoints),
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":  summary,
		"insights": h.Insights.AdminInsights(c.Request.Context(), summary),
	})
}
