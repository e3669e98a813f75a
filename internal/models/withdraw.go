package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Withdraw struct {
	ID      uint            `gorm:"primaryKey" json:"id"`
	UserID  uint            `gorm:"not null;index" json:"user_id"`
	OrderID string          `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	Amount  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`

	// Payout destination.
	Name     string `gorm:"size:120;not null" json:"name"`
	Document string `gorm:"size:32;not null" json:"document"`
	PixKey   string `gorm:"size:140;not null" json:"pix_key"`

	Status      string         `gorm:"size:20;not null;index" json:"status"` // PENDING, APPROVED, REJECTED
	ProviderRef string         `gorm:"size:128" json:"provider_ref"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ResolvedAt  *time.Time     `json:"resolved_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Withdraw) TableName() string { return "withdraws" }
