package models

import (
	"time"

	"banca/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:120" json:"name"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:20;not null;index" json:"role"`   // USER | ADMIN
	Status       string `gorm:"size:20;not null;index" json:"status"` // PENDING | ACTIVE | SUSPENDED

	// Balance is withdrawable real funds; BonusBalance is restricted until
	// RolloverRemaining reaches zero. All three never go negative.
	Balance           decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`
	BonusBalance      decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"bonus_balance"`
	RolloverRemaining decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"rollover_remaining"`

	TotalBets    decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"total_bets"`
	TotalWins    decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"total_wins"`
	MetaProgress decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"meta_progress"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool  { return u.Role == domain.RoleAdmin }
func (u *User) IsActive() bool { return u.Status == domain.UserStatusActive }
