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
	"banca/pkg/rollover"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DepositService owns the deposit row lifecycle. Balance effects are
// delegated to the wallet engine inside the same atomic unit as the status
// transition.
type DepositService struct {
	db          *gorm.DB
	configRepo  *repository.ConfigRepository
	deposits    *repository.DepositRepository
	users       *repository.UserRepository
	wallet      *WalletService
	provider    payment.Provider
	notifier    Notifier
	callbackURL string
	timeout     time.Duration
}

func NewDepositService(
	db *gorm.DB,
	configRepo *repository.ConfigRepository,
	deposits *repository.DepositRepository,
	users *repository.UserRepository,
	wallet *WalletService,
	provider payment.Provider,
	notifier Notifier,
	callbackURL string,
	timeout time.Duration,
) *DepositService {
	return &DepositService{
		db:          db,
		configRepo:  configRepo,
		deposits:    deposits,
		users:       users,
		wallet:      wallet,
		provider:    provider,
		notifier:    notifier,
		callbackURL: callbackURL,
		timeout:     timeout,
	}
}

// Request validates against the config snapshot, creates the pending
// deposit with its bonus fixed at creation time, and asks the gateway for
// payment instructions.
func (s *DepositService) Request(ctx context.Context, userID uint, amount decimal.Decimal) (*models.Deposit, *payment.Charge, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	if cfg.MaintenanceMode {
		return nil, nil, domain.ErrMaintenance
	}
	if !cfg.AllowDeposits {
		return nil, nil, domain.ErrDepositsDisabled
	}
	if amount.Sign() <= 0 || amount.LessThan(cfg.MinDeposit) || amount.GreaterThan(cfg.MaxDeposit) {
		return nil, nil, domain.ErrInvalidAmount
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	bonus := amount.Mul(cfg.BonusDepositRate).Round(2)
	d := &models.Deposit{
		UserID:  userID,
		OrderID: fmt.Sprintf("dep-%s", uuid.New().String()),
		Amount:  amount,
		Bonus:   bonus,
		Status:  domain.StatusPending,
	}
	if err := s.deposits.Create(ctx, d); err != nil {
		return nil, nil, err
	}

	charge, err := s.provider.CreateCharge(ctx, payment.ChargeRequest{
		OrderID:       d.OrderID,
		Amount:        amount,
		Description:   "Deposit",
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		CallbackURL:   s.callbackURL,
	})
	if err != nil {
		log.Printf("[Deposit] charge init failed for %s: %v", d.OrderID, err)
		if terr := s.deposits.Transition(ctx, d.ID, domain.StatusRejected); terr != nil {
			log.Printf("[Deposit] reject after charge failure: %v", terr)
		}
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	if err := s.deposits.SetProviderRef(ctx, d.ID, charge.TxID, charge.CopyPaste); err != nil {
		log.Printf("[Deposit] provider ref save failed for %s: %v", d.OrderID, err)
	}
	d.ProviderRef = charge.TxID
	d.CopyPaste = charge.CopyPaste
	return d, charge, nil
}

// Confirm resolves a pending deposit into a wallet credit plus bonus grant.
// The terminal-state guard makes duplicate confirmations (operator double
// click, replayed webhook) a no-op error after the first one wins.
func (s *DepositService) Confirm(ctx context.Context, depositID uint) error {
	d, err := s.deposits.GetByID(ctx, depositID)
	if err != nil {
		return err
	}
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return err
	}
	defer s.wallet.lockUser(d.UserID)()
	err = retryTransient(ctx, func() error {
		return repository.Atomic(ctx, s.db, s.timeout, func(tx *gorm.DB) error {
			if err := s.deposits.WithTx(tx).Transition(ctx, d.ID, domain.StatusConfirmed); err != nil {
				return err
			}
			if err := s.wallet.CreditInTx(ctx, tx, d.UserID, d.Amount, domain.TxDeposit, d.OrderID, "deposit confirmed"); err != nil {
				return err
			}
			users := s.users.WithTx(tx)
			if d.Bonus.Sign() > 0 {
				if err := s.wallet.CreditInTx(ctx, tx, d.UserID, d.Bonus, domain.TxBonus, d.OrderID, "deposit bonus"); err != nil {
					return err
				}
				if cfg.RolloverEnabled {
					target := rollover.Target(d.Bonus, cfg.RolloverMultiplier)
					if err := users.ResetRollover(ctx, d.UserID, target); err != nil {
						return err
					}
				}
			}
			if err := users.AddCounter(ctx, d.UserID, "meta_progress", d.Amount); err != nil {
				return err
			}
			u, err := users.GetByID(ctx, d.UserID)
			if err != nil {
				return err
			}
			if u.Status == domain.UserStatusPending {
				if err := users.SetStatus(ctx, d.UserID, domain.UserStatusActive); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, d.UserID)
	if err == nil && s.notifier != nil {
		data := BalanceData(u)
		data["deposit_id"] = d.ID
		data["amount"] = d.Amount
		data["new_balance"] = u.Balance
		s.notifier.Publish(d.UserID, domain.EventDepositConfirmed, data)
	}
	return nil
}

// Reject resolves a pending deposit with no balance effect.
func (s *DepositService) Reject(ctx context.Context, depositID uint) error {
	return retryTransient(ctx, func() error {
		return s.deposits.Transition(ctx, depositID, domain.StatusRejected)
	})
}

// ResolveByOrderID is the webhook entry point: the gateway callback carries
// the correlation id and a settlement status.
func (s *DepositService) ResolveByOrderID(ctx context.Context, orderID string, approved bool) error {
	d, err := s.deposits.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if approved {
		return s.Confirm(ctx, d.ID)
	}
	return s.Reject(ctx, d.ID)
}

func (s *DepositService) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Deposit, error) {
	return s.deposits.ListByUser(ctx, userID, limit)
}
