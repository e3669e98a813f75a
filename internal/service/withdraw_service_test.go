package service_test

import (
	"context"
	"testing"

	"banca/internal/domain"
	"banca/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithdraw(t *testing.T, e *env, userID uint, amount string) (*models.Withdraw, error) {
	t.Helper()
	return e.withdrawSvc.Request(context.Background(), userID, d(amount), "Test User", "00000000000", "user@example.com")
}

// Eligibility matrix from the configured limits: min 50, max 5000.
func TestRequestWithdrawEligibility(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "10000")
	ctx := context.Background()

	_, err := requestWithdraw(t, e, u.ID, "49")
	assert.ErrorIs(t, err, domain.ErrBelowMinimum)

	_, err = requestWithdraw(t, e, u.ID, "5001")
	assert.ErrorIs(t, err, domain.ErrAboveMaximum)

	require.NoError(t, e.db.Model(&models.User{}).Where("id = ?", u.ID).
		Update("rollover_remaining", d("20")).Error)
	_, err = requestWithdraw(t, e, u.ID, "100")
	assert.ErrorIs(t, err, domain.ErrRolloverNotMet)

	// disabling rollover lifts the gate
	e.updateConfig(t, func(c *models.WalletConfig) { c.RolloverEnabled = false })
	_, err = requestWithdraw(t, e, u.ID, "100")
	assert.NoError(t, err)

	e.updateConfig(t, func(c *models.WalletConfig) { c.AllowWithdraws = false })
	_, err = requestWithdraw(t, e, u.ID, "100")
	assert.ErrorIs(t, err, domain.ErrWithdrawsDisabled)

	e.updateConfig(t, func(c *models.WalletConfig) { c.AllowWithdraws = true; c.MaintenanceMode = true })
	_, err = requestWithdraw(t, e, u.ID, "100")
	assert.ErrorIs(t, err, domain.ErrMaintenance)

	ctxSnap, err := e.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ctxSnap.Balance.Equal(d("9900")), "only the one accepted request reserved funds")
}

func TestRequestWithdrawInsufficientFunds(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "80")
	ctx := context.Background()

	_, err := requestWithdraw(t, e, u.ID, "100")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// nothing persisted: no withdraw row, no audit row, balance intact
	list, err := e.withdraws.ListByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	rows, err := e.txs.ListByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
	snap, _ := e.users.GetByID(ctx, u.ID)
	assert.True(t, snap.Balance.Equal(d("80")))
}

// Reservation prevents the same funds being claimed twice while pending.
func TestRequestWithdrawReservesFunds(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "500")

	w, err := requestWithdraw(t, e, u.ID, "400")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, w.Status)

	snap, _ := e.users.GetByID(context.Background(), u.ID)
	assert.True(t, snap.Balance.Equal(d("100")))

	_, err = requestWithdraw(t, e, u.ID, "400")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

// Reject path: reserve 200 from 500, reject refunds to 500 and the audit
// trail for this withdraw is exactly the reserve debit and refund credit.
func TestRejectWithdrawRefunds(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "500")
	ctx := context.Background()

	w, err := requestWithdraw(t, e, u.ID, "200")
	require.NoError(t, err)
	snap, _ := e.users.GetByID(ctx, u.ID)
	assert.True(t, snap.Balance.Equal(d("300")))

	require.NoError(t, e.withdrawSvc.Reject(ctx, w.ID))
	snap, _ = e.users.GetByID(ctx, u.ID)
	assert.True(t, snap.Balance.Equal(d("500")))

	got, err := e.withdraws.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)

	rows, err := e.txs.ListByReference(ctx, w.OrderID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.TxWithdraw, rows[0].Type)
	assert.True(t, rows[0].Amount.Equal(d("-200")))
	assert.Equal(t, domain.TxRefund, rows[1].Type)
	assert.True(t, rows[1].Amount.Equal(d("200")))

	// a second reject is a terminal-guard no-op
	assert.ErrorIs(t, e.withdrawSvc.Reject(ctx, w.ID), domain.ErrAlreadyTerminal)
	snap, _ = e.users.GetByID(ctx, u.ID)
	assert.True(t, snap.Balance.Equal(d("500")), "no double refund")
}

func TestApproveWithdraw(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "500")
	ctx := context.Background()

	w, err := requestWithdraw(t, e, u.ID, "200")
	require.NoError(t, err)
	require.NoError(t, e.withdrawSvc.Approve(ctx, w.ID))

	// funds were already reserved; approval changes nothing further
	snap, _ := e.users.GetByID(ctx, u.ID)
	assert.True(t, snap.Balance.Equal(d("300")))

	got, err := e.withdraws.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.NotEmpty(t, got.ProviderRef)

	events := e.rec.ofType(domain.EventWithdrawApproved)
	require.Len(t, events, 1)
	assert.Equal(t, u.ID, events[0].UserID)

	assert.ErrorIs(t, e.withdrawSvc.Approve(ctx, w.ID), domain.ErrAlreadyTerminal)
	assert.ErrorIs(t, e.withdrawSvc.Reject(ctx, w.ID), domain.ErrAlreadyTerminal)
}

// The rollover gate is evaluated inside the reservation transaction, so a
// requirement present at debit time blocks the withdraw with no row and no
// balance effect.
func TestRolloverGateCheckedWithReservation(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "gate@example.com", "500")
	require.NoError(t, e.db.Model(&models.User{}).Where("id = ?", u.ID).
		Update("rollover_remaining", d("120")).Error)

	_, err := e.withdrawSvc.Request(context.Background(), u.ID, d("200"), "Test User", "00011122233", "gate@pix")
	assert.ErrorIs(t, err, domain.ErrRolloverNotMet)

	snap, err := e.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, snap.Balance.Equal(d("500")), "reservation must not survive the gate")

	rows, err := e.withdraws.ListByUser(context.Background(), u.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
