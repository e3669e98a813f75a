package handler

import (
	"net/http"

	"banca/internal/middleware"
	"banca/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WithdrawHandler struct {
	withdraws *service.WithdrawService
}

func NewWithdrawHandler(withdraws *service.WithdrawService) *WithdrawHandler {
	return &WithdrawHandler{withdraws: withdraws}
}

// Create reserves the funds and opens a pending withdraw.
func (h *WithdrawHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Amount   decimal.Decimal `json:"amount" binding:"required"`
		Name     string          `json:"name" binding:"required"`
		Document string          `json:"document" binding:"required"`
		PixKey   string          `json:"pix_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := h.withdraws.Request(c.Request.Context(), userID, req.Amount, req.Name, req.Document, req.PixKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"withdraw_id": w.ID,
		"order_id":    w.OrderID,
		"amount":      w.Amount,
		"status":      w.Status,
	})
}

func (h *WithdrawHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.withdraws.ListByUser(c.Request.Context(), userID, 50)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdraws": list})
}
