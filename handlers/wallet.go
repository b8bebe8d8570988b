package handlers

import (
	"errors"
	"net/http"

	"loyaltyhub-backend/ledger"
	"loyaltyhub-backend/models"
	"loyaltyhub-backend/services"
	"loyaltyhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// stampCycle is the number of check-in credits per stamp card row shown on the
// wallet home screen.
const stampCycle = 5

// WalletHandler serves the customer dashboard. It owns no business rules;
// every invariant lives in the ledger, catalog and registry.
type WalletHandler struct {
	DB       *gorm.DB
	Ledger   *ledger.Engine
	Catalog  *ledger.Catalog
	Scanner  *services.Scanner
	Sessions *services.ScanStore
}

func sessionUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}

// GetWallet returns the derived balance plus the stamp-card progress.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	balance, err := h.Ledger.Balance(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}

	var credits int64
	if err := h.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TxCredit).
		Count(&credits).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":      balance,
		"stamps":       int(credits) % stampCycle,
		"stamp_cycle":  stampCycle,
		"total_earned": credits,
	})
}

func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	txs, err := h.Ledger.Transactions(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// ListRewards returns the global catalog annotated with per-reward
// eligibility against the caller's derived balance.
func (h *WalletHandler) ListRewards(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	balance, err := h.Ledger.Balance(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}

	rewards, err := h.Catalog.ListRewards(nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rewards"})
		return
	}

	type offeredReward struct {
		models.Reward
		Eligible bool `json:"eligible"`
	}
	offers := make([]offeredReward, 0, len(rewards))
	for i := range rewards {
		offers = append(offers, offeredReward{
			Reward:   rewards[i],
			Eligible: ledger.IsEligible(&rewards[i], balance),
		})
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance, "rewards": offers})
}

// Scan runs the simulated camera flow: a scan session enters PENDING_VERIFY,
// resolves to a vendor after the capture delay and is credited as a check-in.
// Permission denial or an empty merchant registry rejects the session.
func (h *WalletHandler) Scan(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	session := h.Sessions.Begin(userID)

	vendor, err := h.Scanner.Scan(c.Request.Context())
	if err != nil {
		var pd *utils.PermissionDeniedError
		switch {
		case errors.As(err, &pd):
			h.Sessions.Reject(session.ID, pd.Msg)
			c.JSON(http.StatusForbidden, gin.H{"error": pd.Msg, "session": session})
		case errors.Is(err, gorm.ErrRecordNotFound):
			h.Sessions.Reject(session.ID, "no merchants available to scan")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No merchants available to scan", "session": session})
		default:
			h.Sessions.Reject(session.ID, "scan aborted")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Scan aborted", "session": session})
		}
		return
	}

	h.creditCheckin(c, session, vendor)
}

// Checkin is the direct QR-payload path: the client already decoded a vendor
// id and submits it for verification.
func (h *WalletHandler) Checkin(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req struct {
		VendorID string `json:"vendor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vendor id"})
		return
	}

	session := h.Sessions.Begin(userID)

	var vendor models.Vendor
	if err := h.DB.Where("id = ?", vendorID).First(&vendor).Error; err != nil {
		h.Sessions.Reject(session.ID, "unknown merchant")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unknown or revoked merchant", "session": session})
		return
	}

	h.creditCheckin(c, session, &vendor)
}

func (h *WalletHandler) creditCheckin(c *gin.Context, session *services.ScanSession, vendor *models.Vendor) {
	tx, err := h.Ledger.RecordCheckin(session.UserID, vendor)
	if err != nil {
		h.Sessions.Reject(session.ID, "check-in failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record check-in", "session": session})
		return
	}
	h.Sessions.Credit(session.ID, vendor.ID, tx.ID)

	balance, err := h.Ledger.Balance(session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session":     session,
		"transaction": tx,
		"balance":     balance,
		"vendor": gin.H{
			"id":       vendor.ID,
			"name":     vendor.Name,
			"category": vendor.Category,
		},
	})
}

// Redeem debits the reward cost and returns the voucher transaction. A
// shortfall reports the exact number of missing points and writes nothing.
func (h *WalletHandler) Redeem(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		return
	}

	var req struct {
		RewardID string `json:"reward_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	rewardID, err := uuid.Parse(req.RewardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward id"})
		return
	}

	reward, err := h.Catalog.GetReward(rewardID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reward not found"})
		return
	}

	tx, err := h.Ledger.RecordDebit(userID, reward)
	if err != nil {
		var ip *utils.InsufficientPointsError
		if errors.As(err, &ip) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Insufficient points",
				"missing": ip.Missing,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to redeem reward"})
		return
	}

	balance, err := h.Ledger.Balance(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"voucher": gin.H{
			"transaction": tx,
			"title":       reward.Title,
			"description": reward.Description,
		},
		"balance": balance,
	})
}
