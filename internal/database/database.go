package database

import (
	"log"

	"banca/config"
	"banca/internal/domain"
	"banca/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Deposit{},
		&models.Withdraw{},
		&models.Transaction{},
		&models.WalletConfig{},
	)
}

// SeedConfig inserts the singleton wallet config row if it is missing.
func SeedConfig(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.WalletConfig{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&models.WalletConfig{
		ID:                 1,
		MinDeposit:         decimal.NewFromInt(10),
		MaxDeposit:         decimal.NewFromInt(50000),
		MinWithdraw:        decimal.NewFromInt(50),
		MaxWithdraw:        decimal.NewFromInt(5000),
		BonusDepositRate:   decimal.RequireFromString("0.30"),
		RolloverMultiplier: decimal.NewFromInt(10),
		RolloverEnabled:    true,
		AllowDeposits:      true,
		AllowWithdraws:     true,
	}).Error
}

// SeedAdmin creates the default admin account when no admin exists.
func SeedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return
	}
	admin := &models.User{
		Name:         "Admin",
		Email:        "admin@banca.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[Seed] admin: %v", err)
		return
	}
	log.Printf("[Seed] created default admin %s (change the password)", admin.Email)
}
