// Package remote is the HTTP client for the order-management API the
// terminal mirrors and feeds. Every call is fire-and-forget from the
// state engine's perspective: failures surface to the caller and the
// in-memory state is never rolled back.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/foodiespos/terminal/internal/modules/catalog"
	"github.com/foodiespos/terminal/internal/modules/order"
	"github.com/foodiespos/terminal/internal/modules/seating"
)

// ErrUnauthorized reports a rejected or expired session token.
var ErrUnauthorized = errors.New("remote: unauthorized")

// TokenSource supplies the bearer token attached to every request; an
// empty token sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// Client talks JSON to the remote order-management API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient creates a client for the API at baseURL. A zero timeout
// defaults to five seconds.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// SignInResult is the session granted by the remote on sign-in.
type SignInResult struct {
	Token     string `json:"token"`
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Username  string `json:"username"`
	Role      string `json:"role"`
}

// SignIn exchanges credentials for a session token and user profile.
func (c *Client) SignIn(ctx context.Context, username, password string) (SignInResult, error) {
	var result SignInResult
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/sign-in", nil, body, &result); err != nil {
		return SignInResult{}, err
	}
	return result, nil
}

// Categories fetches the category feed.
func (c *Client) Categories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Items fetches the menu item feed.
func (c *Client) Items(ctx context.Context) ([]catalog.Item, error) {
	var items []catalog.Item
	if err := c.do(ctx, http.MethodGet, "/items", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Agents fetches the tax agent feed.
func (c *Client) Agents(ctx context.Context) ([]catalog.Agent, error) {
	var agents []catalog.Agent
	if err := c.do(ctx, http.MethodGet, "/agents", nil, nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// OrderPayload is the flattened order submission.
type OrderPayload struct {
	Items        []order.SubmitUnit `json:"items"`
	Discount     float64            `json:"discount"`
	DiscountType order.DiscountType `json:"discountType"`
	OrderType    string             `json:"orderType"`
	DiningTable  *int64             `json:"diningTable,omitempty"`
	TVARate      *float64           `json:"tvaRate,omitempty"`
	Guests       int                `json:"guests"`
	User         int64              `json:"user"`
}

// CreateOrder submits the order and returns the assigned id; the
// remote answers with the bare numeric identifier.
func (c *Client) CreateOrder(ctx context.Context, payload OrderPayload) (int64, error) {
	var id int64
	if err := c.do(ctx, http.MethodPost, "/orders/create", nil, payload, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// SetGuests updates the guest count of a persisted order.
func (c *Client) SetGuests(ctx context.Context, orderID int64, guests int) error {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(orderID, 10))
	query.Set("guests", strconv.Itoa(guests))
	return c.do(ctx, http.MethodPost, "/orders/guests", query, nil, nil)
}

// Payment is one settled amount for an order.
type Payment struct {
	OrderID     int64   `json:"orderId"`
	Amount      float64 `json:"amount"`
	PaymentType string  `json:"paymentType"`
}

// SubmitPayments records the payment splits for an order.
func (c *Client) SubmitPayments(ctx context.Context, payments []Payment) error {
	return c.do(ctx, http.MethodPost, "/payments/order", nil, payments, nil)
}

// PrintOrder asks the remote to print the kitchen ticket.
func (c *Client) PrintOrder(ctx context.Context, orderID int64) error {
	return c.printCall(ctx, "/print/order", orderID)
}

// PrintReceipt asks the remote to print the guest receipt.
func (c *Client) PrintReceipt(ctx context.Context, orderID int64) error {
	return c.printCall(ctx, "/print/receipt", orderID)
}

func (c *Client) printCall(ctx context.Context, path string, orderID int64) error {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(orderID, 10))
	return c.do(ctx, http.MethodPost, path, query, nil, nil)
}

// PushTables uploads the modified tables so the remote layout matches
// the terminal's.
func (c *Client) PushTables(ctx context.Context, tables []seating.Table) error {
	return c.do(ctx, http.MethodPost, "/tables/sync", nil, tables, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode %s: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("remote: build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("remote: %s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote: %s %s: status %d: %s", method, path, resp.StatusCode, payload)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s response: %w", path, err)
	}
	return nil
}
