package repository

import (
	"context"
	"errors"
	"time"

	"banca/internal/domain"
	"banca/internal/models"

	"gorm.io/gorm"
)

type WithdrawRepository struct {
	db *gorm.DB
}

func NewWithdrawRepository(db *gorm.DB) *WithdrawRepository {
	return &WithdrawRepository{db: db}
}

func (r *WithdrawRepository) WithTx(tx *gorm.DB) *WithdrawRepository {
	return &WithdrawRepository{db: tx}
}

func (r *WithdrawRepository) Create(ctx context.Context, w *models.Withdraw) error {
	return storeErr(r.db.WithContext(ctx).Create(w).Error)
}

func (r *WithdrawRepository) GetByID(ctx context.Context, id uint) (*models.Withdraw, error) {
	var w models.Withdraw
	if err := r.db.WithContext(ctx).First(&w, id).Error; err != nil {
		return nil, storeErr(err)
	}
	return &w, nil
}

func (r *WithdrawRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Withdraw, error) {
	var w models.Withdraw
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&w).Error; err != nil {
		return nil, storeErr(err)
	}
	return &w, nil
}

func (r *WithdrawRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Withdraw, error) {
	var list []models.Withdraw
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, storeErr(err)
}

func (r *WithdrawRepository) ListByStatus(ctx context.Context, status string, limit int) ([]models.Withdraw, error) {
	var list []models.Withdraw
	q := r.db.WithContext(ctx).Where("status = ?", status).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, storeErr(err)
}

func (r *WithdrawRepository) SetProviderRef(ctx context.Context, id uint, ref string) error {
	return storeErr(r.db.WithContext(ctx).Model(&models.Withdraw{}).
		Where("id = ?", id).
		Update("provider_ref", ref).Error)
}

// Transition moves a pending withdraw to a terminal status; same pre-state
// guard as the deposit transition.
func (r *WithdrawRepository) Transition(ctx context.Context, id uint, to string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Withdraw{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]interface{}{"status": to, "resolved_at": &now})
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		return domain.ErrAlreadyTerminal
	}
	return nil
}
