// Package ledger owns the points bookkeeping: balance derivation, credit
// creation and redemption debits. A user's balance is never stored; it is
// always summed from the append-only transaction log.
package ledger

import (
	"math"

	"loyaltyhub-backend/models"
	"loyaltyhub-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckinPoints is the flat award for a QR check-in (no bill attached).
const CheckinPoints = 20

type Engine struct {
	DB *gorm.DB
}

// Balance derives the user's point balance from their transaction history.
// This is the only place a balance is ever computed.
func (e *Engine) Balance(userID uuid.UUID) (int, error) {
	return balanceTx(e.DB, userID)
}

func balanceTx(db *gorm.DB, userID uuid.UUID) (int, error) {
	var balance int64
	err := db.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN points ELSE -points END), 0)", models.TxCredit).
		Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	return int(balance), nil
}

// Transactions returns the user's ledger entries, newest first.
func (e *Engine) Transactions(userID uuid.UUID) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := e.DB.Where("user_id = ?", userID).Order("date DESC").Find(&txs).Error
	return txs, err
}

// VendorTransactions returns a vendor's issued ledger entries, newest first.
func (e *Engine) VendorTransactions(vendorID uuid.UUID) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := e.DB.Where("vendor_id = ?", vendorID).Order("date DESC").Find(&txs).Error
	return txs, err
}

// RecordBilling appends a billing credit: points are derived from the billed
// amount at the vendor's rate, rounded down. Amount must be positive.
func (e *Engine) RecordBilling(userID uuid.UUID, vendor *models.Vendor, amount float64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, utils.Validationf("amount must be greater than zero")
	}

	entry := &models.Transaction{
		UserID:      userID,
		VendorID:    vendor.ID,
		Amount:      amount,
		Points:      int(math.Floor(amount * vendor.PointsPerRupee)),
		Type:        models.TxCredit,
		Status:      models.TxStatusCompleted,
		Description: "Billing at " + vendor.Name,
	}
	if err := e.DB.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordCheckin appends a flat check-in credit (amount 0) and bumps the
// vendor's scan counters in the same transaction.
func (e *Engine) RecordCheckin(userID uuid.UUID, vendor *models.Vendor) (*models.Transaction, error) {
	entry := &models.Transaction{
		UserID:      userID,
		VendorID:    vendor.ID,
		Amount:      0,
		Points:      CheckinPoints,
		Type:        models.TxCredit,
		Status:      models.TxStatusCompleted,
		Description: "Check-in at " + vendor.Name,
	}

	err := e.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		var prior int64
		if err := tx.Model(&models.Transaction{}).
			Where("vendor_id = ? AND user_id = ? AND id <> ?", vendor.ID, userID, entry.ID).
			Count(&prior).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"total_scans": gorm.Expr("total_scans + 1")}
		if prior == 0 {
			updates["total_customers"] = gorm.Expr("total_customers + 1")
		}
		return tx.Model(&models.Vendor{}).Where("id = ?", vendor.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordDebit redeems a reward. The balance check and the debit insert run in
// one database transaction so no interleaved mutation can observe or produce a
// partially-written ledger. On a shortfall nothing is written and the error
// carries the exact number of missing points.
func (e *Engine) RecordDebit(userID uuid.UUID, reward *models.Reward) (*models.Transaction, error) {
	entry := &models.Transaction{
		UserID:      userID,
		VendorID:    reward.VendorID,
		Amount:      0,
		Points:      reward.PointsRequired,
		Type:        models.TxDebit,
		Status:      models.TxStatusCompleted,
		Description: reward.Title,
	}

	err := e.DB.Transaction(func(tx *gorm.DB) error {
		balance, err := balanceTx(tx, userID)
		if err != nil {
			return err
		}
		if balance < reward.PointsRequired {
			return &utils.InsufficientPointsError{Missing: reward.PointsRequired - balance}
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
