package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"banca/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditAndDebit(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "0")
	ctx := context.Background()

	snap, err := e.wallet.Credit(ctx, u.ID, d("100"), domain.TxDeposit, "dep-1", "deposit")
	require.NoError(t, err)
	assert.True(t, snap.Balance.Equal(d("100")))

	snap, err = e.wallet.Debit(ctx, u.ID, d("40"), domain.TxBet, "", "bet")
	require.NoError(t, err)
	assert.True(t, snap.Balance.Equal(d("60")))

	_, err = e.wallet.Credit(ctx, u.ID, d("0"), domain.TxDeposit, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = e.wallet.Credit(ctx, u.ID, d("-5"), domain.TxDeposit, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	// every mutation produced exactly one audit row
	list, err := e.txs.ListByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Amount.Equal(d("-40")))
	assert.True(t, list[1].Amount.Equal(d("100")))
}

func TestBonusCreditTargetsBonusBalance(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "0")
	ctx := context.Background()

	snap, err := e.wallet.Credit(ctx, u.ID, d("30"), domain.TxBonus, "dep-1", "bonus")
	require.NoError(t, err)
	assert.True(t, snap.Balance.IsZero())
	assert.True(t, snap.BonusBalance.Equal(d("30")))
}

// No lost updates: concurrent credits and debits must sum exactly.
func TestConcurrentMutationsConserveBalance(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "1000")
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		credit := i%2 == 0
		go func(credit bool) {
			defer wg.Done()
			var err error
			if credit {
				_, err = e.wallet.Credit(ctx, u.ID, d("7"), domain.TxWin, "", "win")
			} else {
				_, err = e.wallet.Debit(ctx, u.ID, d("5"), domain.TxBet, "", "bet")
			}
			if err != nil {
				t.Errorf("mutation: %v", err)
			}
		}(credit)
	}
	wg.Wait()

	// 1000 + 10*7 - 10*5 = 1020
	snap, err := e.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, snap.Balance.Equal(d("1020")), "balance = %s", snap.Balance)

	list, err := e.txs.ListByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, list, workers)
}

// The balance never goes negative, whatever the interleaving.
func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "100")
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	var denied int
	var mu sync.Mutex
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.wallet.Debit(ctx, u.ID, d("30"), domain.TxBet, "", "bet")
			if err != nil {
				if !errors.Is(err, domain.ErrInsufficientFunds) {
					t.Errorf("unexpected: %v", err)
				}
				mu.Lock()
				denied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// only 3 debits of 30 fit into 100
	assert.Equal(t, workers-3, denied)
	snap, err := e.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, snap.Balance.Equal(d("10")), "balance = %s", snap.Balance)
	assert.True(t, snap.Balance.Sign() >= 0)
}

// Rollover walkthrough from the wagering side: bonus 30, multiplier 10
// requires 300 of volume; wagering 300 releases the bonus.
func TestApplyRolloverRelease(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "u@example.com", "500")
	ctx := context.Background()
	require.NoError(t, e.db.Model(u).Updates(map[string]interface{}{
		"bonus_balance":      d("30"),
		"rollover_remaining": d("300"),
	}).Error)

	require.NoError(t, e.wallet.ApplyRollover(ctx, u.ID, d("120")))
	snap, _ := e.users.GetByID(ctx, u.ID)
	assert.True(t, snap.RolloverRemaining.Equal(d("180")))
	assert.True(t, snap.BonusBalance.Equal(d("30")))

	require.NoError(t, e.wallet.ApplyRollover(ctx, u.ID, d("180")))
	snap, _ = e.users.GetByID(ctx, u.ID)
	assert.True(t, snap.RolloverRemaining.IsZero())
	assert.True(t, snap.BonusBalance.IsZero())
	assert.True(t, snap.Balance.Equal(d("530")), "bonus moved into balance")

	releases, err := e.txs.ListByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, domain.TxRolloverRelease, releases[0].Type)
	assert.True(t, releases[0].Amount.Equal(d("30")))

	// further wagering is a no-op
	require.NoError(t, e.wallet.ApplyRollover(ctx, u.ID, d("50")))
}

// Events for one user must reach the notifier in commit order: a later
// commit can never be announced before an earlier one.
func TestEventsFollowCommitOrder(t *testing.T) {
	e := newEnv(t)
	u := e.createUser(t, "order@example.com", "0")
	_, err := e.wallet.Credit(context.Background(), u.ID, d("1000"), domain.TxDeposit, "", "seed")
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.wallet.Credit(context.Background(), u.ID, d("1"), domain.TxWin, "", "tick")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	events := e.rec.ofType(domain.EventBalanceUpdate)
	require.Len(t, events, workers+1)
	prev := decimal.Zero
	for _, evt := range events {
		bal, ok := evt.Data["balance"].(decimal.Decimal)
		require.True(t, ok)
		assert.True(t, bal.GreaterThan(prev), "balance %s out of order after %s", bal, prev)
		prev = bal
	}
	assert.True(t, prev.Equal(d("1016")))
}
