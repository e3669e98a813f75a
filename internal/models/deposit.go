package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Deposit struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	UserID  uint            `gorm:"not null;index" json:"user_id"`
	OrderID string          `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	Amount  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	// Bonus is fixed at creation time from the config snapshot; it is only
	// credited if the deposit confirms.
	Bonus       decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"bonus"`
	Status      string          `gorm:"size:20;not null;index" json:"status"` // PENDING, CONFIRMED, REJECTED
	ProviderRef string          `gorm:"size:128" json:"provider_ref"`
	CopyPaste   string          `gorm:"type:text" json:"-"` // PIX copy-paste payload returned to the client
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ResolvedAt  *time.Time      `json:"resolved_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Deposit) TableName() string { return "deposits" }
