package service_test

import (
	"context"
	"testing"

	"banca/internal/domain"
	"banca/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceBetFeedsRollover(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "400")
	require.NoError(t, e.db.Model(u).Updates(map[string]interface{}{
		"bonus_balance":      d("30"),
		"rollover_remaining": d("300"),
	}).Error)
	ctx := context.Background()

	snap, err := e.gameSvc.PlaceBet(ctx, u.ID, d("300"))
	require.NoError(t, err)
	assert.True(t, snap.Balance.Equal(d("130")), "100 left + 30 released bonus")
	assert.True(t, snap.BonusBalance.IsZero())
	assert.True(t, snap.RolloverRemaining.IsZero())
	assert.True(t, snap.TotalBets.Equal(d("300")))
}

func TestPlaceBetValidation(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "100")
	ctx := context.Background()

	_, err := e.gameSvc.PlaceBet(ctx, u.ID, d("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = e.gameSvc.PlaceBet(ctx, u.ID, d("150"))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	e.updateConfig(t, func(c *models.WalletConfig) { c.MaintenanceMode = true })
	_, err = e.gameSvc.PlaceBet(ctx, u.ID, d("50"))
	assert.ErrorIs(t, err, domain.ErrMaintenance)
}

func TestSettleWin(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "100")
	ctx := context.Background()

	snap, err := e.gameSvc.SettleWin(ctx, u.ID, d("250"))
	require.NoError(t, err)
	assert.True(t, snap.Balance.Equal(d("350")))
	assert.True(t, snap.TotalWins.Equal(d("250")))

	rows, err := e.txs.ListByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.TxWin, rows[0].Type)
}
