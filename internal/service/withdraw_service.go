package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"banca/internal/domain"
	"banca/internal/models"
	"banca/internal/repository"
	"banca/pkg/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WithdrawService owns the withdraw row lifecycle. The requested amount is
// debited at creation time (reservation) so the same funds cannot be
// claimed twice while the request awaits approval.
type WithdrawService struct {
	db         *gorm.DB
	configRepo *repository.ConfigRepository
	withdraws  *repository.WithdrawRepository
	users      *repository.UserRepository
	wallet     *WalletService
	provider   payment.Provider
	notifier   Notifier
	timeout    time.Duration
}

func NewWithdrawService(
	db *gorm.DB,
	configRepo *repository.ConfigRepository,
	withdraws *repository.WithdrawRepository,
	users *repository.UserRepository,
	wallet *WalletService,
	provider payment.Provider,
	notifier Notifier,
	timeout time.Duration,
) *WithdrawService {
	return &WithdrawService{
		db:         db,
		configRepo: configRepo,
		withdraws:  withdraws,
		users:      users,
		wallet:     wallet,
		provider:   provider,
		notifier:   notifier,
		timeout:    timeout,
	}
}

// Request runs the eligibility checks and, on success, reserves the funds
// and creates the pending withdraw in one atomic unit.
func (s *WithdrawService) Request(ctx context.Context, userID uint, amount decimal.Decimal, name, document, pixKey string) (*models.Withdraw, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.MaintenanceMode {
		return nil, domain.ErrMaintenance
	}
	if !cfg.AllowWithdraws {
		return nil, domain.ErrWithdrawsDisabled
	}
	if amount.Sign() <= 0 || amount.LessThan(cfg.MinWithdraw) {
		return nil, domain.ErrBelowMinimum
	}
	if amount.GreaterThan(cfg.MaxWithdraw) {
		return nil, domain.ErrAboveMaximum
	}
	w := &models.Withdraw{
		UserID:   userID,
		OrderID:  fmt.Sprintf("wd-%s", uuid.New().String()),
		Amount:   amount,
		Name:     name,
		Document: document,
		PixKey:   pixKey,
		Status:   domain.StatusPending,
	}
	defer s.wallet.lockUser(userID)()
	err = retryTransient(ctx, func() error {
		return repository.Atomic(ctx, s.db, s.timeout, func(tx *gorm.DB) error {
			// The rollover gate reads inside the reservation transaction so
			// a bonus granted after the eligibility checks cannot slip past.
			u, err := s.users.WithTx(tx).GetByID(ctx, userID)
			if err != nil {
				return err
			}
			if cfg.RolloverEnabled && u.RolloverRemaining.Sign() > 0 {
				return domain.ErrRolloverNotMet
			}
			if err := s.wallet.DebitInTx(ctx, tx, userID, amount, domain.TxWithdraw, w.OrderID, "withdraw reservation"); err != nil {
				return err
			}
			return s.withdraws.WithTx(tx).Create(ctx, w)
		})
	})
	if err != nil {
		return nil, err
	}
	if snap, err := s.users.GetByID(ctx, userID); err == nil && s.notifier != nil {
		s.notifier.Publish(userID, domain.EventBalanceUpdate, BalanceData(snap))
	}
	return w, nil
}

// Approve transitions the withdraw and triggers the payout. The funds are
// already reserved, so there is no further balance change. A payout
// initiation failure leaves the row approved; the operator re-runs the
// payout from the gateway side.
func (s *WithdrawService) Approve(ctx context.Context, withdrawID uint) error {
	w, err := s.withdraws.GetByID(ctx, withdrawID)
	if err != nil {
		return err
	}
	// Transition and publish under the user lock so the event lands in
	// commit order; the payout call happens after release to keep gateway
	// latency off the user's other operations.
	unlock := s.wallet.lockUser(w.UserID)
	err = retryTransient(ctx, func() error {
		return s.withdraws.Transition(ctx, w.ID, domain.StatusApproved)
	})
	if err != nil {
		unlock()
		return err
	}
	if s.notifier != nil {
		s.notifier.Publish(w.UserID, domain.EventWithdrawApproved, map[string]interface{}{
			"withdraw_id": w.ID,
			"amount":      w.Amount,
		})
	}
	unlock()
	payout, err := s.provider.CreatePayout(ctx, payment.PayoutRequest{
		OrderID:  w.OrderID,
		Amount:   w.Amount,
		Name:     w.Name,
		Document: w.Document,
		PixKey:   w.PixKey,
	})
	if err != nil {
		log.Printf("[Withdraw] payout init failed for %s: %v", w.OrderID, err)
	} else if err := s.withdraws.SetProviderRef(ctx, w.ID, payout.TxID); err != nil {
		log.Printf("[Withdraw] provider ref save failed for %s: %v", w.OrderID, err)
	}
	return nil
}

// Reject transitions the withdraw and refunds the reserved amount in the
// same atomic unit.
func (s *WithdrawService) Reject(ctx context.Context, withdrawID uint) error {
	w, err := s.withdraws.GetByID(ctx, withdrawID)
	if err != nil {
		return err
	}
	defer s.wallet.lockUser(w.UserID)()
	err = retryTransient(ctx, func() error {
		return repository.Atomic(ctx, s.db, s.timeout, func(tx *gorm.DB) error {
			if err := s.withdraws.WithTx(tx).Transition(ctx, w.ID, domain.StatusRejected); err != nil {
				return err
			}
			return s.wallet.CreditInTx(ctx, tx, w.UserID, w.Amount, domain.TxRefund, w.OrderID, "withdraw rejected, reservation refunded")
		})
	})
	if err != nil {
		return err
	}
	if snap, err := s.users.GetByID(ctx, w.UserID); err == nil && s.notifier != nil {
		s.notifier.Publish(w.UserID, domain.EventBalanceUpdate, BalanceData(snap))
	}
	return nil
}

func (s *WithdrawService) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Withdraw, error) {
	return s.withdraws.ListByUser(ctx, userID, limit)
}
