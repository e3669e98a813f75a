package service

import (
	"context"
	"time"

	"banca/internal/domain"
	"banca/internal/models"
	"banca/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GameService settles bets and wins against the wallet engine. Wagered
// volume feeds the rollover requirement.
type GameService struct {
	db         *gorm.DB
	configRepo *repository.ConfigRepository
	users      *repository.UserRepository
	wallet     *WalletService
	timeout    time.Duration
}

func NewGameService(db *gorm.DB, configRepo *repository.ConfigRepository, users *repository.UserRepository, wallet *WalletService, timeout time.Duration) *GameService {
	return &GameService{db: db, configRepo: configRepo, users: users, wallet: wallet, timeout: timeout}
}

// PlaceBet debits the stake and counts it toward the rollover requirement.
func (s *GameService) PlaceBet(ctx context.Context, userID uint, amount decimal.Decimal) (*models.User, error) {
	if amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.MaintenanceMode {
		return nil, domain.ErrMaintenance
	}
	defer s.wallet.lockUser(userID)()
	err = retryTransient(ctx, func() error {
		return repository.Atomic(ctx, s.db, s.timeout, func(tx *gorm.DB) error {
			if err := s.wallet.DebitInTx(ctx, tx, userID, amount, domain.TxBet, "", "bet placed"); err != nil {
				return err
			}
			return s.users.WithTx(tx).AddCounter(ctx, userID, "total_bets", amount)
		})
	})
	if err != nil {
		return nil, err
	}
	if err := s.wallet.applyRollover(ctx, userID, amount); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err == nil && s.wallet.notifier != nil {
		s.wallet.notifier.Publish(userID, domain.EventBalanceUpdate, BalanceData(u))
	}
	return u, err
}

// SettleWin credits winnings. Wins do not reduce rollover.
func (s *GameService) SettleWin(ctx context.Context, userID uint, amount decimal.Decimal) (*models.User, error) {
	if amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.MaintenanceMode {
		return nil, domain.ErrMaintenance
	}
	defer s.wallet.lockUser(userID)()
	err = retryTransient(ctx, func() error {
		return repository.Atomic(ctx, s.db, s.timeout, func(tx *gorm.DB) error {
			if err := s.wallet.CreditInTx(ctx, tx, userID, amount, domain.TxWin, "", "bet won"); err != nil {
				return err
			}
			return s.users.WithTx(tx).AddCounter(ctx, userID, "total_wins", amount)
		})
	})
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err == nil && s.wallet.notifier != nil {
		s.wallet.notifier.Publish(userID, domain.EventBalanceUpdate, BalanceData(u))
	}
	return u, err
}
