package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction types and statuses. The ledger is append-only: no code path
// updates or deletes a transaction once created.
const (
	TxCredit = "CREDIT"
	TxDebit  = "DEBIT"

	TxStatusCompleted = "COMPLETED"
)

type Transaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	VendorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Amount      float64   `gorm:"default:0" json:"amount"` // non-zero only for billing credits
	Points      int       `gorm:"not null" json:"points"`
	Type        string    `gorm:"not null" json:"type"` // CREDIT or DEBIT
	Status      string    `gorm:"not null;default:COMPLETED" json:"status"`
	Date        time.Time `gorm:"not null" json:"date"`
	Description string    `json:"description"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	return nil
}

// SignedPoints returns the balance contribution of the entry: +points for a
// credit, -points for a debit.
func (t *Transaction) SignedPoints() int {
	if t.Type == TxDebit {
		return -t.Points
	}
	return t.Points
}
