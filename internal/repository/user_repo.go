package repository

import (
	"context"

	"banca/internal/domain"
	"banca/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy bound to an open transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return storeErr(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, storeErr(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, storeErr(err)
	}
	return &u, nil
}

// Credit adds amount to the balance column in a single statement. The
// UPDATE itself takes the row lock, so there is no read-then-write gap.
func (r *UserRepository) Credit(ctx context.Context, userID uint, amount decimal.Decimal) error {
	return r.add(ctx, userID, "balance", amount)
}

// CreditBonus adds amount to the restricted bonus balance.
func (r *UserRepository) CreditBonus(ctx context.Context, userID uint, amount decimal.Decimal) error {
	return r.add(ctx, userID, "bonus_balance", amount)
}

func (r *UserRepository) add(ctx context.Context, userID uint, column string, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update(column, gorm.Expr(column+" + ?", amount))
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Debit subtracts amount from balance, guarded in the WHERE clause so the
// balance can never go negative regardless of interleaving.
func (r *UserRepository) Debit(ctx context.Context, userID uint, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, userID); err != nil {
			return err
		}
		return domain.ErrInsufficientFunds
	}
	return nil
}

// SetRollover writes the new remaining value guarded on the previous one.
// A concurrent wager wins the race and the caller retries.
func (r *UserRepository) SetRollover(ctx context.Context, userID uint, remaining, expected decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND rollover_remaining = ?", userID, expected).
		Update("rollover_remaining", remaining)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTransient
	}
	return nil
}

// ResetRollover overwrites the remaining requirement, used when a confirmed
// deposit grants a fresh bonus.
func (r *UserRepository) ResetRollover(ctx context.Context, userID uint, remaining decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("rollover_remaining", remaining)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReleaseBonus moves the whole bonus balance into the withdrawable balance.
// Caller must hold the row lock (run inside the same transaction as the
// rollover update).
func (r *UserRepository) ReleaseBonus(ctx context.Context, userID uint, bonus decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND bonus_balance = ?", userID, bonus).
		Updates(map[string]interface{}{
			"balance":       gorm.Expr("balance + ?", bonus),
			"bonus_balance": decimal.Zero,
		})
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTransient
	}
	return nil
}

func (r *UserRepository) SetStatus(ctx context.Context, userID uint, status string) error {
	return storeErr(r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("status", status).Error)
}

// AddCounter bumps one of the aggregate columns (total_bets, total_wins,
// meta_progress).
func (r *UserRepository) AddCounter(ctx context.Context, userID uint, column string, amount decimal.Decimal) error {
	return r.add(ctx, userID, column, amount)
}
