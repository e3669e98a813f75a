package handler

import (
	"net/http"
	"strconv"

	"banca/internal/domain"
	"banca/internal/models"
	"banca/internal/repository"
	"banca/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AdminHandler struct {
	configRepo   *repository.ConfigRepository
	deposits     *service.DepositService
	withdraws    *service.WithdrawService
	wallet       *service.WalletService
	depositRepo  *repository.DepositRepository
	withdrawRepo *repository.WithdrawRepository
}

func NewAdminHandler(
	configRepo *repository.ConfigRepository,
	deposits *service.DepositService,
	withdraws *service.WithdrawService,
	wallet *service.WalletService,
	depositRepo *repository.DepositRepository,
	withdrawRepo *repository.WithdrawRepository,
) *AdminHandler {
	return &AdminHandler{
		configRepo:   configRepo,
		deposits:     deposits,
		withdraws:    withdraws,
		wallet:       wallet,
		depositRepo:  depositRepo,
		withdrawRepo: withdrawRepo,
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (h *AdminHandler) ConfirmDeposit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.deposits.Confirm(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusConfirmed})
}

func (h *AdminHandler) RejectDeposit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.deposits.Reject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusRejected})
}

func (h *AdminHandler) ApproveWithdraw(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.withdraws.Approve(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusApproved})
}

func (h *AdminHandler) RejectWithdraw(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.withdraws.Reject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": domain.StatusRejected})
}

func (h *AdminHandler) ListDeposits(c *gin.Context) {
	status := c.DefaultQuery("status", domain.StatusPending)
	list, err := h.depositRepo.ListByStatus(c.Request.Context(), status, 200)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": list})
}

func (h *AdminHandler) ListWithdraws(c *gin.Context) {
	status := c.DefaultQuery("status", domain.StatusPending)
	list, err := h.withdrawRepo.ListByStatus(c.Request.Context(), status, 200)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdraws": list})
}

func (h *AdminHandler) GetConfig(c *gin.Context) {
	cfg, err := h.configRepo.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateConfig replaces the singleton config row. Running operations keep
// the snapshot they already read.
func (h *AdminHandler) UpdateConfig(c *gin.Context) {
	var cfg models.WalletConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.configRepo.Update(c.Request.Context(), &cfg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type adjustRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Direction   string          `json:"direction" binding:"required,oneof=credit debit"`
	Description string          `json:"description"`
}

// AdjustBalance applies a manual operator correction through the wallet
// engine so the audit trail and balance invariants still hold.
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	desc := req.Description
	if desc == "" {
		desc = "manual adjustment"
	}
	var (
		u   *models.User
		err error
	)
	if req.Direction == "credit" {
		u, err = h.wallet.Credit(c.Request.Context(), userID, req.Amount, domain.TxAdjustment, "", desc)
	} else {
		u, err = h.wallet.Debit(c.Request.Context(), userID, req.Amount, domain.TxAdjustment, "", desc)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
