package handlers

import (
	"errors"
	"net/http"
	"time"

	"loyaltyhub-backend/models"
	"loyaltyhub-backend/registry"
	"loyaltyhub-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB       *gorm.DB
	Registry *registry.Registry
}

// displayName mirrors the onboarding copy each role sees after verification.
func displayName(role string) string {
	switch role {
	case models.RoleAdmin:
		return "System Administrator"
	case models.RoleVendor:
		return "Verified Merchant"
	default:
		return "Verified User"
	}
}

// Login is the authorization gate: a phone number plus a requested role. There
// is no password; the registry decides whether the number is authorized for
// the role and resolves the vendor binding for merchants.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
		Role  string `json:"role"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleCustomer
	}

	access, err := h.Registry.Verify(req.Phone, req.Role)
	if err != nil {
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}
	if !access.Authorized {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. This number is not registered for the requested role."})
		return
	}

	digits, _ := registry.NormalizePhone(req.Phone)

	var user models.User
	err = h.DB.Where("phone = ? AND role = ?", digits, req.Role).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Name:     displayName(req.Role),
			Phone:    digits,
			Role:     req.Role,
			VendorID: access.VendorID,
		}
		if err := h.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	} else if req.Role == models.RoleVendor {
		// Re-bind in case the merchant was re-registered under a new vendor id.
		user.VendorID = access.VendorID
		if err := h.DB.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
	}

	token, err := utils.GenerateToken(user.ID, user.Phone, user.Role, user.VendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, user.Phone, user.Role, user.VendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	rt := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	h.DB.Create(&rt)

	response := gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":        user.ID,
			"name":      user.Name,
			"phone":     user.Phone,
			"role":      user.Role,
			"vendor_id": user.VendorID,
		},
	}

	if user.VendorID != nil {
		var vendor models.Vendor
		if err := h.DB.Where("id = ?", user.VendorID).First(&vendor).Error; err == nil {
			response["vendor"] = gin.H{
				"id":       vendor.ID,
				"name":     vendor.Name,
				"category": vendor.Category,
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// Refresh exchanges a stored refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	var stored models.RefreshToken
	if err := h.DB.Where("token = ?", req.RefreshToken).First(&stored).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token not recognized"})
		return
	}
	if time.Now().After(stored.ExpiresAt) {
		h.DB.Delete(&stored)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired"})
		return
	}

	token, err := utils.GenerateToken(claims.UserID, claims.Phone, claims.Role, claims.VendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout revokes every refresh token held by the session's user. The access
// token simply ages out.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.DB.Where("user_id = ?", userID).Delete(&models.RefreshToken{})
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user models.User
	if err := h.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	response := gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"phone":     user.Phone,
		"role":      user.Role,
		"vendor_id": user.VendorID,
	}

	if user.VendorID != nil {
		var vendor models.Vendor
		if err := h.DB.Where("id = ?", user.VendorID).First(&vendor).Error; err == nil {
			response["vendor"] = gin.H{
				"id":       vendor.ID,
				"name":     vendor.Name,
				"category": vendor.Category,
				"logo":     vendor.Logo,
			}
		}
	}

	c.JSON(http.StatusOK, response)
}
