package cartmanager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/storefront-go/cart-controller/internal/domain/entity"
	"github.com/storefront-go/cart-controller/internal/platform/logger"
	"github.com/storefront-go/cart-controller/internal/remote"
)

const cartEndpointPath = "/api/cart"

type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// Client implements remote.CartManager over the single HTTP action endpoint.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        logger.Logger
}

var _ remote.CartManager = (*Client)(nil)

func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("cart service base URL is not configured")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		log:        log,
	}, nil
}

func (c *Client) FetchCart(ctx context.Context, userID string) (*entity.CartSnapshot, error) {
	return c.call(ctx, remote.ActionRequest{
		Action: remote.ActionGet,
		UserID: userID,
	})
}

func (c *Client) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*entity.CartSnapshot, error) {
	return c.call(ctx, remote.ActionRequest{
		Action:    remote.ActionUpdate,
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

func (c *Client) RemoveItem(ctx context.Context, userID, productID string) (*entity.CartSnapshot, error) {
	return c.call(ctx, remote.ActionRequest{
		Action:    remote.ActionRemove,
		UserID:    userID,
		ProductID: productID,
	})
}

func (c *Client) call(ctx context.Context, req remote.ActionRequest) (*entity.CartSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal cart action %q: %w", req.Action, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+cartEndpointPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build cart request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cart service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp remote.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return nil, fmt.Errorf("cart service returned %d: %s", resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("cart service returned %d", resp.StatusCode)
	}

	var cartResp remote.CartResponse
	if err := json.NewDecoder(resp.Body).Decode(&cartResp); err != nil {
		return nil, fmt.Errorf("decode cart response: %w", err)
	}

	c.log.Debugf("cart action %q for user %s: %d items", req.Action, req.UserID, cartResp.ItemCount)
	return cartResp.Snapshot(req.UserID), nil
}
