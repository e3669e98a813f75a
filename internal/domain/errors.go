package domain

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrRolloverNotMet     = errors.New("rollover requirement not met")
	ErrBelowMinimum       = errors.New("amount below minimum")
	ErrAboveMaximum       = errors.New("amount above maximum")
	ErrDepositsDisabled   = errors.New("deposits are disabled")
	ErrWithdrawsDisabled  = errors.New("withdraws are disabled")
	ErrMaintenance        = errors.New("maintenance mode")
	ErrAlreadyTerminal    = errors.New("already in a terminal state")
	ErrTransient          = errors.New("transient store error")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// Code returns the machine-readable reason code for an error, for API
// responses. Unknown errors map to INTERNAL.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, ErrInsufficientFunds):
		return "INSUFFICIENT_FUNDS"
	case errors.Is(err, ErrRolloverNotMet):
		return "ROLLOVER_NOT_MET"
	case errors.Is(err, ErrBelowMinimum):
		return "BELOW_MINIMUM"
	case errors.Is(err, ErrAboveMaximum):
		return "ABOVE_MAXIMUM"
	case errors.Is(err, ErrDepositsDisabled):
		return "DEPOSITS_DISABLED"
	case errors.Is(err, ErrWithdrawsDisabled):
		return "WITHDRAWS_DISABLED"
	case errors.Is(err, ErrMaintenance):
		return "MAINTENANCE"
	case errors.Is(err, ErrAlreadyTerminal):
		return "ALREADY_TERMINAL"
	case errors.Is(err, ErrTransient):
		return "TRANSIENT"
	case errors.Is(err, ErrGatewayUnavailable):
		return "GATEWAY_UNAVAILABLE"
	}
	return "INTERNAL"
}
