package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Webpay Plus REST endpoints (normal transaction flow).
const transactionsPath = "/rpc/api/webpay/v1.2/transactions"

// StatusAuthorized is the commit status that settles a purchase as paid.
// The gateway is not consistent about casing, compare case-insensitively.
const StatusAuthorized = "AUTHORIZED"

type WebpayClient struct {
	baseURL      string
	commerceCode string
	apiKey       string
	httpClient   *http.Client
}

type WebpayConfig struct {
	BaseURL      string
	CommerceCode string
	APIKey       string
	Timeout      time.Duration
}

type createTransactionRequest struct {
	BuyOrder  string `json:"buy_order"`
	SessionID string `json:"session_id"`
	Amount    int64  `json:"amount"`
	ReturnURL string `json:"return_url"`
}

// CreateTransactionResponse carries the correlation token and the redirect
// target the buyer is sent to.
type CreateTransactionResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// CommitTransactionResponse is the settlement result for a token.
type CommitTransactionResponse struct {
	VCI               string `json:"vci"`
	Amount            int64  `json:"amount"`
	Status            string `json:"status"`
	BuyOrder          string `json:"buy_order"`
	SessionID         string `json:"session_id"`
	AuthorizationCode string `json:"authorization_code"`
	PaymentTypeCode   string `json:"payment_type_code"`
	ResponseCode      int    `json:"response_code"`
	TransactionDate   string `json:"transaction_date"`
}

func NewWebpayClient(cfg WebpayConfig) *WebpayClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &WebpayClient{
		baseURL:      cfg.BaseURL,
		commerceCode: cfg.CommerceCode,
		apiKey:       cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Create opens a Webpay transaction and returns the gateway token plus the
// URL the buyer must be redirected to.
func (wc *WebpayClient) Create(ctx context.Context, buyOrder, sessionID string, amount int64, returnURL string) (*CreateTransactionResponse, error) {
	reqBody := createTransactionRequest{
		BuyOrder:  buyOrder,
		SessionID: sessionID,
		Amount:    amount,
		ReturnURL: returnURL,
	}

	var result CreateTransactionResponse
	if err := wc.do(ctx, http.MethodPost, transactionsPath, reqBody, &result); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if result.Token == "" || result.URL == "" {
		return nil, fmt.Errorf("create transaction returned an incomplete response")
	}

	return &result, nil
}

// Commit confirms the transaction identified by token after the buyer comes
// back from the gateway and returns its final status.
func (wc *WebpayClient) Commit(ctx context.Context, token string) (*CommitTransactionResponse, error) {
	var result CommitTransactionResponse
	if err := wc.do(ctx, http.MethodPut, transactionsPath+"/"+token, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &result, nil
}

func (wc *WebpayClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, wc.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Tbk-Api-Key-Id", wc.commerceCode)
	req.Header.Set("Tbk-Api-Key-Secret", wc.apiKey)

	resp, err := wc.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, payload)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
