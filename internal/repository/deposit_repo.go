package repository

import (
	"context"
	"errors"
	"time"

	"banca/internal/domain"
	"banca/internal/models"

	"gorm.io/gorm"
)

type DepositRepository struct {
	db *gorm.DB
}

func NewDepositRepository(db *gorm.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

func (r *DepositRepository) WithTx(tx *gorm.DB) *DepositRepository {
	return &DepositRepository{db: tx}
}

func (r *DepositRepository) Create(ctx context.Context, d *models.Deposit) error {
	return storeErr(r.db.WithContext(ctx).Create(d).Error)
}

func (r *DepositRepository) GetByID(ctx context.Context, id uint) (*models.Deposit, error) {
	var d models.Deposit
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, storeErr(err)
	}
	return &d, nil
}

func (r *DepositRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Deposit, error) {
	var d models.Deposit
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&d).Error; err != nil {
		return nil, storeErr(err)
	}
	return &d, nil
}

func (r *DepositRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Deposit, error) {
	var list []models.Deposit
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, storeErr(err)
}

func (r *DepositRepository) ListByStatus(ctx context.Context, status string, limit int) ([]models.Deposit, error) {
	var list []models.Deposit
	q := r.db.WithContext(ctx).Where("status = ?", status).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, storeErr(err)
}

// SetProviderRef records the gateway charge reference on a pending row.
func (r *DepositRepository) SetProviderRef(ctx context.Context, id uint, ref, copyPaste string) error {
	return storeErr(r.db.WithContext(ctx).Model(&models.Deposit{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"provider_ref": ref, "copy_paste": copyPaste}).Error)
}

// Transition moves a pending deposit to a terminal status. The pre-state
// guard lives in the WHERE clause, so a duplicate confirm (concurrent
// operator click, replayed webhook) affects zero rows and surfaces as
// ErrAlreadyTerminal.
func (r *DepositRepository) Transition(ctx context.Context, id uint, to string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Deposit{}).
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
