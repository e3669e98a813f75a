package handler

import (
	"net/http"

	"banca/internal/middleware"
	"banca/internal/repository"
	"banca/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	wallet *service.WalletService
	txs    *repository.TransactionRepository
}

func NewWalletHandler(wallet *service.WalletService, txs *repository.TransactionRepository) *WalletHandler {
	return &WalletHandler{wallet: wallet, txs: txs}
}

// GetBalance returns the authenticated user's wallet snapshot.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.wallet.Balance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":            u.Balance,
		"bonus_balance":      u.BonusBalance,
		"rollover_remaining": u.RolloverRemaining,
		"status":             u.Status,
		"total_bets":         u.TotalBets,
		"total_wins":         u.TotalWins,
		"meta_progress":      u.MetaProgress,
	})
}

func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.txs.ListByUser(c.Request.Context(), userID, 100)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}
