// Package asset provides implementations of the asset transfer gateway: an
// HTTP client for a remote transfer service and an in-memory bank for local
// mode and tests.
package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client implements domain.AssetGateway against a REST transfer service.
type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewClient creates a new asset gateway client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type transferRequest struct {
	Owner     string `json:"owner"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

type approveRequest struct {
	Spender string `json:"spender"`
	Amount  int64  `json:"amount"`
}

type balanceResponse struct {
	Account string `json:"account"`
	Balance int64  `json:"balance"`
}

func (c *Client) TransferFrom(ctx context.Context, owner, recipient string, amount int64) error {
	return c.post(ctx, "/api/v1/transfer_from", transferRequest{
		Owner:     owner,
		Recipient: recipient,
		Amount:    amount,
	})
}

func (c *Client) Approve(ctx context.Context, spender string, amount int64) error {
	return c.post(ctx, "/api/v1/approve", approveRequest{
		Spender: spender,
		Amount:  amount,
	})
}

func (c *Client) BalanceOf(ctx context.Context, account string) (int64, error) {
	endpoint := fmt.Sprintf("%s/api/v1/balance?account=%s", c.BaseURL, url.QueryEscape(account))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("query balance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("asset gateway error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var out balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode balance: %w", err)
	}
	return out.Balance, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("call asset gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("asset gateway error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}
}
