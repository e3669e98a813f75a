package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"banca/internal/domain"
	"banca/internal/models"
	"banca/internal/repository"
	"banca/pkg/rollover"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notifier pushes committed wallet events to the user's live sessions.
// Implementations must never block; delivery is best-effort.
type Notifier interface {
	Publish(userID uint, eventType string, data map[string]interface{})
}

const (
	maxAttempts  = 3
	retryBackoff = 50 * time.Millisecond
)

// retryTransient retries fn with exponential backoff while it fails with
// ErrTransient (store timeout, guarded-update conflict). The last error is
// surfaced once attempts are exhausted.
func retryTransient(ctx context.Context, fn func() error) error {
	backoff := retryBackoff
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, domain.ErrTransient) {
			return err
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return domain.ErrTransient
		}
		backoff *= 2
	}
	return err
}

// WalletService is the only component that mutates user balances. Every
// operation runs inside one atomic unit scoped to a single user row and
// appends exactly one transaction row per mutation.
type WalletService struct {
	db       *gorm.DB
	users    *repository.UserRepository
	txs      *repository.TransactionRepository
	notifier Notifier
	timeout  time.Duration

	mu        sync.Mutex
	userLocks map[uint]*sync.Mutex
}

func NewWalletService(db *gorm.DB, users *repository.UserRepository, txs *repository.TransactionRepository, notifier Notifier, timeout time.Duration) *WalletService {
	return &WalletService{
		db:        db,
		users:     users,
		txs:       txs,
		notifier:  notifier,
		timeout:   timeout,
		userLocks: make(map[uint]*sync.Mutex),
	}
}

// lockUser serializes commit-and-publish for one user: two mutations that
// both publish must reach the notifier in the order they committed, so the
// lock spans the atomic unit and the post-commit publish. Returns the
// unlock func.
func (s *WalletService) lockUser(userID uint) func() {
	s.mu.Lock()
	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Credit increases the user's balance (bonus_balance for kind BONUS) and
// returns the post-commit snapshot.
func (s *WalletService) Credit(ctx context.Context, userID uint, amount decimal.Decimal, kind, reference, description string) (*models.User, error) {
	if amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	defer s.lockUser(userID)()
	err := retryTransient(ctx, func() error {
		return repository.Atomic(ctx, s.db, s.timeout, func(tx *gorm.DB) error {
			return s.CreditInTx(ctx, tx, userID, amount, kind, reference, description)
		})
	})
	if err != nil {
		return nil, err
	}
	return s.publishBalance(ctx, userID)
}

// Debit decreases the user's balance. The store-level guard makes the
// amount <= balance check and the decrement one statement, so no
// interleaving can drive the balance negative.
func (s *WalletService) Debit(ctx context.Context, userID uint, amount decimal.Decimal, kind, reference, description string) (*models.User, error) {
	if amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	defer s.lockUser(userID)()
	err := retryTransient(ctx, func() error {
		return repository.Atomic(ctx, s.db, s.timeout, func(tx *gorm.DB) error {
			return s.DebitInTx(ctx, tx, userID, amount, kind, reference, description)
		})
	})
	if err != nil {
		return nil, err
	}
	return s.publishBalance(ctx, userID)
}

// CreditInTx applies a credit inside a caller-owned transaction, for
// workflows that commit a balance effect together with their own row
// transition.
func (s *WalletService) CreditInTx(ctx context.Context, tx *gorm.DB, userID uint, amount decimal.Decimal, kind, reference, description string) error {
	if amount.Sign() <= 0 {
		return domain.ErrInvalidAmount
	}
	users := s.users.WithTx(tx)
	var err error
	if kind == domain.TxBonus {
		err = users.CreditBonus(ctx, userID, amount)
	} else {
		err = users.Credit(ctx, userID, amount)
	}
	if err != nil {
		return err
	}
	return s.txs.WithTx(tx).Append(ctx, &models.Transaction{
		UserID:      userID,
		Type:        kind,
		Amount:      amount,
		Description: description,
		Reference:   reference,
	})
}

// DebitInTx applies a debit inside a caller-owned transaction. The audit
// row carries the negated amount.
func (s *WalletService) DebitInTx(ctx context.Context, tx *gorm.DB, userID uint, amount decimal.Decimal, kind, reference, description string) error {
	if amount.Sign() <= 0 {
		return domain.ErrInvalidAmount
	}
	if err := s.users.WithTx(tx).Debit(ctx, userID, amount); err != nil {
		return err
	}
	return s.txs.WithTx(tx).Append(ctx, &models.Transaction{
		UserID:      userID,
		Type:        kind,
		Amount:      amount.Neg(),
		Description: description,
		Reference:   reference,
	})
}

// ApplyRollover consumes wagered volume against the remaining requirement.
// When the requirement hits zero the whole bonus balance moves into the
// withdrawable balance together with a ROLLOVER_RELEASE audit row. A
// concurrent wager invalidates the guarded update and the operation
// retries from a fresh read.
func (s *WalletService) ApplyRollover(ctx context.Context, userID uint, wagered decimal.Decimal) error {
	defer s.lockUser(userID)()
	return s.applyRollover(ctx, userID, wagered)
}

// applyRollover is ApplyRollover for callers already holding the user lock.
func (s *WalletService) applyRollover(ctx context.Context, userID uint, wagered decimal.Decimal) error {
	if wagered.Sign() <= 0 {
		return nil
	}
	err := retryTransient(ctx, func() error {
		u, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		newRemaining := rollover.Reduce(u.RolloverRemaining, wagered)
		if newRemaining.Equal(u.RolloverRemaining) {
			return nil
		}
		released := decimal.Zero
		if rollover.Unlocked(newRemaining) && u.BonusBalance.Sign() > 0 {
			released = u.BonusBalance
		}
		return repository.Atomic(ctx, s.db, s.timeout, func(tx *gorm.DB) error {
			users := s.users.WithTx(tx)
			if err := users.SetRollover(ctx, userID, newRemaining, u.RolloverRemaining); err != nil {
				return err
			}
			if released.Sign() > 0 {
				if err := users.ReleaseBonus(ctx, userID, released); err != nil {
					return err
				}
				if err := s.txs.WithTx(tx).Append(ctx, &models.Transaction{
					UserID:      userID,
					Type:        domain.TxRolloverRelease,
					Amount:      released,
					Description: "rollover requirement met, bonus released",
				}); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	_, _ = s.publishBalance(ctx, userID)
	return nil
}

// Balance returns the current snapshot for the user.
func (s *WalletService) Balance(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// publishBalance reads the post-commit snapshot and fires balance_update.
// A failed snapshot read surfaces to the caller (the mutation itself is
// already committed); notifier delivery stays best-effort.
func (s *WalletService) publishBalance(ctx context.Context, userID uint) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("[Wallet] post-commit snapshot for user %d: %v", userID, err)
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Publish(userID, domain.EventBalanceUpdate, BalanceData(u))
	}
	return u, nil
}

// BalanceData is the wire payload for balance-bearing events.
func BalanceData(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"balance":            u.Balance,
		"bonus_balance":      u.BonusBalance,
		"rollover_remaining": u.RolloverRemaining,
	}
}
