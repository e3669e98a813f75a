package payment

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// StubProvider approves everything locally. Used in development and tests
// when no gateway credentials are configured.
type StubProvider struct {
	seq  atomic.Int64
	Fail bool // force errors to exercise compensation paths
}

func NewStubProvider() *StubProvider { return &StubProvider{} }

func (s *StubProvider) CreateCharge(_ context.Context, req ChargeRequest) (*Charge, error) {
	if s.Fail {
		return nil, fmt.Errorf("stub charge failure")
	}
	n := s.seq.Add(1)
	return &Charge{
		TxID:      fmt.Sprintf("stub-charge-%d", n),
		CopyPaste: fmt.Sprintf("00020126stub%s5204000053039865802BR", req.OrderID),
		QRCodeURL: "",
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}, nil
}

func (s *StubProvider) CreatePayout(_ context.Context, req PayoutRequest) (*Payout, error) {
	if s.Fail {
		return nil, fmt.Errorf("stub payout failure")
	}
	n := s.seq.Add(1)
	return &Payout{TxID: fmt.Sprintf("stub-payout-%d", n), Status: "PROCESSING"}, nil
}
