package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the append-only audit row written in the same atomic unit
// as every balance mutation. Rows are never updated or deleted.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Type        string          `gorm:"size:30;not null;index" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"` // positive = credit, negative = debit
	Description string          `gorm:"size:255" json:"description"`
	Reference   string          `gorm:"size:128;index" json:"reference"` // e.g. deposit/withdraw order_id
	CreatedAt   time.Time       `json:"created_at"`
}

func (Transaction) TableName() string { return "transactions" }
