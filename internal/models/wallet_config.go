package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletConfig is the operator-tunable singleton row (id = 1). Services read
// it as an immutable per-operation snapshot; the admin handler is the only
// writer.
type WalletConfig struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	MinDeposit  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"min_deposit"`
	MaxDeposit  decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"max_deposit"`
	MinWithdraw decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"min_withdraw"`
	MaxWithdraw decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"max_withdraw"`

	// BonusDepositRate is a fraction of the deposit amount (0.30 = 30%).
	// RolloverMultiplier scales the granted bonus into required wagering
	// volume.
	BonusDepositRate   decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"bonus_deposit_rate"`
	RolloverMultiplier decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0" json:"rollover_multiplier"`
	RolloverEnabled    bool            `gorm:"not null;default:true" json:"rollover_enabled"`

	AllowDeposits   bool `gorm:"not null;default:true" json:"allow_deposits"`
	AllowWithdraws  bool `gorm:"not null;default:true" json:"allow_withdraws"`
	MaintenanceMode bool `gorm:"not null;default:false" json:"maintenance_mode"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (WalletConfig) TableName() string { return "wallet_configs" }
