package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"banca/internal/domain"
	"banca/internal/service"

	"github.com/gin-gonic/gin"
)

// PixCallback is the settlement webhook from the PIX gateway. ExternalID is
// the correlation id we sent on the charge.
type PixCallback struct {
	TransactionID string `json:"transaction_id"`
	ExternalID    string `json:"external_id"`
	Status        string `json:"status"` // APPROVED, EXPIRED, CANCELED
	Amount        string `json:"amount"`
	PaidAt        string `json:"paid_at"`
}

type PixWebhookHandler struct {
	deposits *service.DepositService
}

func NewPixWebhookHandler(deposits *service.DepositService) *PixWebhookHandler {
	return &PixWebhookHandler{deposits: deposits}
}

// Handle consumes the gateway callback. The terminal-state guard makes a
// replayed callback a no-op, so this endpoint always acknowledges with 200
// once the payload parses.
func (h *PixWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	var payload PixCallback
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[PIX callback] unmarshal: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if payload.ExternalID == "" {
		log.Printf("[PIX callback] no external_id, acknowledging")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	approved := payload.Status == "APPROVED"
	err = h.deposits.ResolveByOrderID(c.Request.Context(), payload.ExternalID, approved)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAlreadyTerminal):
		log.Printf("[PIX callback] %s already resolved, acknowledging", payload.ExternalID)
	case errors.Is(err, domain.ErrNotFound):
		log.Printf("[PIX callback] no deposit for external_id=%s", payload.ExternalID)
	default:
		log.Printf("[PIX callback] resolve %s: %v", payload.ExternalID, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
