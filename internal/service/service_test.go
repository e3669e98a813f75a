package service_test

import (
	"sync"
	"testing"
	"time"

	"banca/internal/database"
	"banca/internal/domain"
	"banca/internal/models"
	"banca/internal/repository"
	"banca/internal/service"
	"banca/pkg/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testTimeout = 5 * time.Second

// recorder is a Notifier that captures published events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	UserID uint
	Type   string
	Data   map[string]interface{}
}

func (r *recorder) Publish(userID uint, eventType string, data map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{UserID: userID, Type: eventType, Data: data})
}

func (r *recorder) ofType(eventType string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type env struct {
	db        *gorm.DB
	users     *repository.UserRepository
	txs       *repository.TransactionRepository
	deposits  *repository.DepositRepository
	withdraws *repository.WithdrawRepository
	configs   *repository.ConfigRepository
	provider  *payment.StubProvider
	rec       *recorder

	wallet      *service.WalletService
	depositSvc  *service.DepositService
	withdrawSvc *service.WithdrawService
	gameSvc     *service.GameService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedConfig(db))

	e := &env{
		db:        db,
		users:     repository.NewUserRepository(db),
		txs:       repository.NewTransactionRepository(db),
		deposits:  repository.NewDepositRepository(db),
		withdraws: repository.NewWithdrawRepository(db),
		configs:   repository.NewConfigRepository(db),
		provider:  payment.NewStubProvider(),
		rec:       &recorder{},
	}
	e.wallet = service.NewWalletService(db, e.users, e.txs, e.rec, testTimeout)
	e.depositSvc = service.NewDepositService(db, e.configs, e.deposits, e.users, e.wallet, e.provider, e.rec, "", testTimeout)
	e.withdrawSvc = service.NewWithdrawService(db, e.configs, e.withdraws, e.users, e.wallet, e.provider, e.rec, testTimeout)
	e.gameSvc = service.NewGameService(db, e.configs, e.users, e.wallet, testTimeout)
	return e
}

func (e *env) createUser(t *testing.T, email, balance string) *models.User {
	t.Helper()
	u := &models.User{
		Name:    "Test User",
		Email:   email,
		Role:    domain.RoleUser,
		Status:  domain.UserStatusActive,
		Balance: decimal.RequireFromString(balance),
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

// updateConfig applies fn to the config row.
func (e *env) updateConfig(t *testing.T, fn func(*models.WalletConfig)) {
	t.Helper()
	var cfg models.WalletConfig
	require.NoError(t, e.db.First(&cfg, 1).Error)
	fn(&cfg)
	require.NoError(t, e.db.Save(&cfg).Error)
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }
