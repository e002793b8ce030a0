// Package yield provides implementations of the yield pool collaborator: an
// HTTP client for a remote lending pool and an in-memory pool for local mode
// and tests.
package yield

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Bloinx/investco/internal/domain"
)

// Client implements domain.YieldPool against a REST lending pool service.
type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewClient creates a new yield pool client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type supplyRequest struct {
	Asset        string `json:"asset"`
	Amount       int64  `json:"amount"`
	OnBehalfOf   string `json:"on_behalf_of"`
	ReferralCode uint16 `json:"referral_code"`
}

type withdrawRequest struct {
	Asset     string `json:"asset"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
}

type withdrawResponse struct {
	Withdrawn int64 `json:"withdrawn"`
}

type accountDataResponse struct {
	CollateralValue int64 `json:"collateral_value"`
	DebtValue       int64 `json:"debt_value"`
	AvailableBorrow int64 `json:"available_borrow"`
}

func (c *Client) Supply(ctx context.Context, asset string, amount int64, onBehalfOf string, referralCode uint16) error {
	_, err := c.post(ctx, "/api/v1/supply", supplyRequest{
		Asset:        asset,
		Amount:       amount,
		OnBehalfOf:   onBehalfOf,
		ReferralCode: referralCode,
	})
	return err
}

func (c *Client) Withdraw(ctx context.Context, asset string, amount int64, recipient string) (int64, error) {
	body, err := c.post(ctx, "/api/v1/withdraw", withdrawRequest{
		Asset:     asset,
		Amount:    amount,
		Recipient: recipient,
	})
	if err != nil {
		return 0, err
	}

	var out withdrawResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("decode withdraw response: %w", err)
	}
	return out.Withdrawn, nil
}

func (c *Client) AccountData(ctx context.Context, account string) (domain.AccountData, error) {
	endpoint := fmt.Sprintf("%s/api/v1/account?account=%s", c.BaseURL, url.QueryEscape(account))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.AccountData{}, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return domain.AccountData{}, fmt.Errorf("query account data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.AccountData{}, fmt.Errorf("yield pool error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var out accountDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.AccountData{}, fmt.Errorf("decode account data: %w", err)
	}
	return domain.AccountData{
		CollateralValue: out.CollateralValue,
		DebtValue:       out.DebtValue,
		AvailableBorrow: out.AvailableBorrow,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call yield pool: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yield pool error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}
}
