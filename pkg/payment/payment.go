package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ChargeRequest asks the gateway for a PIX charge. OrderID is the
// correlation id echoed back on the webhook.
type ChargeRequest struct {
	OrderID       string
	Amount        decimal.Decimal
	Description   string
	CustomerName  string
	CustomerEmail string
	CallbackURL   string
}

type Charge struct {
	TxID      string
	CopyPaste string // "copia e cola" payload the client pays with
	QRCodeURL string
	ExpiresAt time.Time
}

// PayoutRequest sends reserved withdraw funds to the user's PIX key.
type PayoutRequest struct {
	OrderID  string
	Amount   decimal.Decimal
	Name     string
	Document string
	PixKey   string
}

type Payout struct {
	TxID   string
	Status string
}

type Provider interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
	CreatePayout(ctx context.Context, req PayoutRequest) (*Payout, error)
}
