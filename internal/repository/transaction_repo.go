package repository

import (
	"context"

	"banca/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

// Append inserts an audit row. Rows are insert-only; there is no update or
// delete path in this repository.
func (r *TransactionRepository) Append(ctx context.Context, t *models.Transaction) error {
	return storeErr(r.db.WithContext(ctx).Create(t).Error)
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Transaction, error) {
	var list []models.Transaction
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&list).Error
	return list, storeErr(err)
}

func (r *TransactionRepository) ListByReference(ctx context.Context, reference string) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.WithContext(ctx).Where("reference = ?", reference).Order("id ASC").Find(&list).Error
	return list, storeErr(err)
}
