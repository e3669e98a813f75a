package handler

import (
	"net/http"

	"banca/internal/middleware"
	"banca/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DepositHandler struct {
	deposits *service.DepositService
}

func NewDepositHandler(deposits *service.DepositService) *DepositHandler {
	return &DepositHandler{deposits: deposits}
}

// Create opens a pending deposit and returns the PIX payment instructions.
func (h *DepositHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Amount decimal.Decimal `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, charge, err := h.deposits.Request(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"deposit_id": d.ID,
		"order_id":   d.OrderID,
		"amount":     d.Amount,
		"bonus":      d.Bonus,
		"status":     d.Status,
		"instructions": gin.H{
			"copy_paste":  charge.CopyPaste,
			"qr_code_url": charge.QRCodeURL,
			"expires_at":  charge.ExpiresAt,
		},
	})
}

func (h *DepositHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	list, err := h.deposits.ListByUser(c.Request.Context(), userID, 50)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": list})
}
