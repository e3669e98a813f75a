package handler

import (
	"errors"
	"net/http"

	"banca/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondError maps the domain taxonomy onto HTTP statuses with a
// machine-readable reason code.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrBelowMinimum),
		errors.Is(err, domain.ErrAboveMaximum),
		errors.Is(err, domain.ErrRolloverNotMet),
		errors.Is(err, domain.ErrInsufficientFunds):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrDepositsDisabled),
		errors.Is(err, domain.ErrWithdrawsDisabled):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrMaintenance),
		errors.Is(err, domain.ErrTransient):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrAlreadyTerminal):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrGatewayUnavailable):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": domain.Code(err)})
}
