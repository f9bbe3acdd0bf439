package ranking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/commercekit/category-merchandising/internal/domain"
	"github.com/google/uuid"
)

// IdentifierByCustomerID tags requests whose product ranking is personalized
// by the shopper's tracking id.
const IdentifierByCustomerID = "cid"

// Client talks to the remote ranking/merchandising API. The core performs no
// retries; any retry or deadline policy belongs to the transport.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

type merchandiseRequest struct {
	Merchant          string           `json:"merchant"`
	CustomerID        string           `json:"customer_id"`
	Category          string           `json:"category,omitempty"`
	Page              int              `json:"page"`
	IncludeFilters    domain.FilterSet `json:"include_filters"`
	ExcludeFilters    domain.FilterSet `json:"exclude_filters"`
	Identifier        string           `json:"identifier"`
	Preview           bool             `json:"preview"`
	Limit             int              `json:"limit"`
	ContinuationToken string           `json:"continuation_token,omitempty"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

// Execute runs one merchandising request and returns the ordered ranking
// result. Transport and protocol failures are returned unmodified in meaning:
// the caller is expected to fall back to the native listing.
func (c *Client) Execute(ctx context.Context, req *domain.MerchandiseRequest) (*domain.RankingResult, error) {
	payload := merchandiseRequest{
		Merchant:          req.Account.MerchantID,
		CustomerID:        req.CustomerID,
		Category:          req.Category,
		Page:              req.PageNumber,
		IncludeFilters:    req.Facets.Include,
		ExcludeFilters:    req.Facets.Exclude,
		Identifier:        IdentifierByCustomerID,
		Preview:           req.PreviewMode,
		Limit:             req.Limit,
		ContinuationToken: req.ContinuationToken,
	}

	var result domain.RankingResult
	if err := c.post(ctx, "/v1/merchandise", req.Account.APIToken, payload, &result); err != nil {
		return nil, fmt.Errorf("execute merchandise request: %w", err)
	}

	return &result, nil
}

// CreateSession mints a new tracking identity for a shopper without one.
func (c *Client) CreateSession(ctx context.Context, store *domain.Store, account *domain.Account) (string, error) {
	payload := map[string]string{"merchant": account.MerchantID, "store": store.Code}

	var resp sessionResponse
	if err := c.post(ctx, "/v1/session", account.APIToken, payload, &resp); err != nil {
		return "", fmt.Errorf("create ranking session: %w", err)
	}
	if resp.SessionID == "" {
		return "", fmt.Errorf("create ranking session: empty session id in response")
	}

	return resp.SessionID, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ranking api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ranking api status %d: %s", resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ranking api response: %w", err)
	}

	return nil
}
