package handler

import (
	"net/http"

	"banca/internal/middleware"
	"banca/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type GameHandler struct {
	games *service.GameService
}

func NewGameHandler(games *service.GameService) *GameHandler {
	return &GameHandler{games: games}
}

func (h *GameHandler) PlaceBet(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Amount decimal.Decimal `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.games.PlaceBet(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":            u.Balance,
		"bonus_balance":      u.BonusBalance,
		"rollover_remaining": u.RolloverRemaining,
	})
}

// SettleWin is operator-driven (game engine callback in production).
func (h *GameHandler) SettleWin(c *gin.Context) {
	var req struct {
		UserID uint            `json:"user_id" binding:"required"`
		Amount decimal.Decimal `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.games.SettleWin(c.Request.Context(), req.UserID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": u.Balance})
}
