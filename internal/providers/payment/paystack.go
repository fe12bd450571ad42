package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrInvalidConfig  = errors.New("paystack_config_invalid")
	ErrRequestFailed  = errors.New("paystack_request_failed")
	ErrInvalidPayload = errors.New("paystack_response_invalid")
)

type paystackTransaction struct {
	Status bool `json:"status"`
	Data   struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

type paystackErrorResponse struct {
	Message string `json:"message"`
}

type PaystackVerifier struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystack(secretKey, baseURL string) *PaystackVerifier {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &PaystackVerifier{
		secretKey: strings.TrimSpace(secretKey),
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 12 * time.Second},
	}
}

func (v *PaystackVerifier) Enabled() bool {
	return v.secretKey != ""
}

func (v *PaystackVerifier) Verify(ctx context.Context, reference string) (Verification, error) {
	if v.secretKey == "" {
		return Verification{}, ErrInvalidConfig
	}

	path := "/transaction/verify/" + url.PathEscape(strings.TrimSpace(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+path, nil)
	if err != nil {
		return Verification{}, err
	}
	req.Header.Set("Authorization", "Bearer "+v.secretKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return Verification{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var paystackErr paystackErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&paystackErr); err != nil {
			return Verification{}, ErrRequestFailed
		}
		message := strings.TrimSpace(paystackErr.Message)
		if message == "" {
			return Verification{}, ErrRequestFailed
		}
		return Verification{}, errors.New(message)
	}

	var tx paystackTransaction
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		return Verification{}, err
	}
	if tx.Data.Reference == "" {
		return Verification{}, ErrInvalidPayload
	}

	return Verification{
		Reference: tx.Data.Reference,
		Amount:    tx.Data.Amount,
		Currency:  tx.Data.Currency,
		Paid:      tx.Status && strings.EqualFold(tx.Data.Status, "success"),
	}, nil
}

var _ Verifier = (*PaystackVerifier)(nil)
