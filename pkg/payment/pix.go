package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PixProvider talks to the PIX gateway over its merchant API: authenticate
// for a short-lived token, then create the charge or payout.
type PixProvider struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	client       *http.Client
}

func NewPixProvider(baseURL, clientID, clientSecret string) *PixProvider {
	return &PixProvider{
		BaseURL:      baseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

type pixAuthReq struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type pixAuthResp struct {
	AccessToken string `json:"access_token"`
}

// getToken fetches a fresh token per call, as the gateway recommends.
func (p *PixProvider) getToken(ctx context.Context) (string, error) {
	var out pixAuthResp
	if err := p.post(ctx, "/v1/oauth/token", "", pixAuthReq{ClientID: p.ClientID, ClientSecret: p.ClientSecret}, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

type pixChargeReq struct {
	Amount        string `json:"amount"`
	Description   string `json:"description"`
	ExternalID    string `json:"external_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CallbackURL   string `json:"callback_url,omitempty"`
}

type pixChargeResp struct {
	TransactionID string `json:"transaction_id"`
	CopyPaste     string `json:"pix_copy_paste"`
	QRCodeURL     string `json:"qr_code_url"`
	ExpiresAt     string `json:"expires_at"`
}

func (p *PixProvider) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	token, err := p.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("pix auth: %w", err)
	}
	body := pixChargeReq{
		Amount:        req.Amount.StringFixed(2),
		Description:   req.Description,
		ExternalID:    req.OrderID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CallbackURL:   req.CallbackURL,
	}
	var out pixChargeResp
	if err := p.post(ctx, "/v1/pix/charges", token, body, &out); err != nil {
		return nil, fmt.Errorf("pix charge: %w", err)
	}
	expires, _ := time.Parse(time.RFC3339, out.ExpiresAt)
	return &Charge{
		TxID:      out.TransactionID,
		CopyPaste: out.CopyPaste,
		QRCodeURL: out.QRCodeURL,
		ExpiresAt: expires,
	}, nil
}

type pixPayoutReq struct {
	Amount     string `json:"amount"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Document   string `json:"document"`
	PixKey     string `json:"pix_key"`
}

type pixPayoutResp struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

func (p *PixProvider) CreatePayout(ctx context.Context, req PayoutRequest) (*Payout, error) {
	token, err := p.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("pix auth: %w", err)
	}
	body := pixPayoutReq{
		Amount:     req.Amount.StringFixed(2),
		ExternalID: req.OrderID,
		Name:       req.Name,
		Document:   req.Document,
		PixKey:     req.PixKey,
	}
	var out pixPayoutResp
	if err := p.post(ctx, "/v1/pix/payouts", token, body, &out); err != nil {
		return nil, fmt.Errorf("pix payout: %w", err)
	}
	return &Payout{TxID: out.TransactionID, Status: out.Status}, nil
}

func (p *PixProvider) post(ctx context.Context, path, token string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
