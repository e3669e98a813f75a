package repository

import (
	"context"
	"errors"
	"time"

	"banca/internal/domain"

	"gorm.io/gorm"
)

// Atomic executes fn inside one database transaction with a bounded
// deadline. Every balance mutation and its audit row go through here so
// they commit together or not at all.
func Atomic(ctx context.Context, db *gorm.DB, timeout time.Duration, fn func(tx *gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := db.WithContext(ctx).Transaction(fn)
	return storeErr(err)
}

// storeErr maps driver and context failures onto the domain taxonomy.
// Domain sentinels pass through untouched.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.ErrTransient
	}
	return err
}
