// Package rest implements the backend ports over the finance REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finview/internal/api"
	"finview/internal/core"
)

// DefaultSessionCookie is the cookie the backend issues on login.
const DefaultSessionCookie = "token"

const defaultTimeout = 15 * time.Second

// Client talks to the external finance REST API. It is safe for concurrent
// use; the session token is passed per call, never stored.
type Client struct {
	baseURL       string
	sessionCookie string
	httpClient    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests and for
// custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithSessionCookie overrides the session cookie name.
func WithSessionCookie(name string) Option {
	return func(c *Client) { c.sessionCookie = name }
}

// NewClient creates a backend client for the given base URL, e.g.
// "http://localhost:5000/api".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		sessionCookie: DefaultSessionCookie,
		httpClient:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Error is a decoded backend failure response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// do issues a request and decodes a JSON response into out (when non-nil).
// Non-2xx responses are decoded into *Error using the backend's
// {"message": ...} body.
func (c *Client) do(ctx context.Context, s api.Session, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s != "" {
		req.AddCookie(&http.Cookie{Name: c.sessionCookie, Value: string(s)})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Message
		}
		slog.DebugContext(ctx, "Backend request failed",
			"method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// Wire representations. The backend emits Mongo-style "_id" identifiers;
// both "_id" and "id" are accepted.
type (
	wireID struct {
		Mongo string `json:"_id"`
		Plain string `json:"id"`
	}

	wireTransaction struct {
		wireID
		Amount      float64              `json:"amount"`
		Type        core.TransactionType `json:"type"`
		Category    string               `json:"category"`
		Date        core.Date            `json:"date"`
		Description string               `json:"description"`
		Account     *core.AccountRef     `json:"account"`
	}

	wireAccount struct {
		wireID
		Name           string           `json:"name"`
		Type           core.AccountType `json:"type"`
		CurrentBalance float64          `json:"currentBalance"`
	}
)

func (w wireID) id() string {
	if w.Mongo != "" {
		return w.Mongo
	}
	return w.Plain
}

func (w wireTransaction) toDomain() core.Transaction {
	return core.Transaction{
		ID:          w.id(),
		Amount:      w.Amount,
		Type:        w.Type,
		Category:    w.Category,
		Date:        w.Date,
		Description: w.Description,
		Account:     w.Account,
	}
}

func (w wireAccount) toDomain() core.Account {
	return core.Account{
		ID:             w.id(),
		Name:           w.Name,
		Type:           w.Type,
		CurrentBalance: w.CurrentBalance,
	}
}

// ListTransactions implements api.TransactionLister.
func (c *Client) ListTransactions(ctx context.Context, s api.Session, f api.TransactionFilters) ([]core.Transaction, error) {
	query := url.Values{}
	if f.AccountID != "" {
		query.Set("accountId", f.AccountID)
	}
	if f.Category != "" {
		query.Set("category", f.Category)
	}
	if f.StartDate != "" {
		query.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		query.Set("endDate", f.EndDate)
	}

	var wire []wireTransaction
	if err := c.do(ctx, s, http.MethodGet, "/transactions", query, nil, &wire); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	txs := make([]core.Transaction, len(wire))
	for i, w := range wire {
		txs[i] = w.toDomain()
	}
	return txs, nil
}

// CreateTransaction implements api.TransactionWriter.
func (c *Client) CreateTransaction(ctx context.Context, s api.Session, in core.TransactionInput) (core.Transaction, error) {
	var w wireTransaction
	if err := c.do(ctx, s, http.MethodPost, "/transactions", nil, in, &w); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return w.toDomain(), nil
}

// UpdateTransaction implements api.TransactionWriter.
func (c *Client) UpdateTransaction(ctx context.Context, s api.Session, id string, in core.TransactionInput) (core.Transaction, error) {
	var w wireTransaction
	if err := c.do(ctx, s, http.MethodPut, "/transactions/"+url.PathEscape(id), nil, in, &w); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", id, err)
	}
	return w.toDomain(), nil
}

// DeleteTransaction implements api.TransactionWriter.
func (c *Client) DeleteTransaction(ctx context.Context, s api.Session, id string) error {
	if err := c.do(ctx, s, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

// ListAccounts implements api.AccountLister.
func (c *Client) ListAccounts(ctx context.Context, s api.Session) ([]core.Account, error) {
	var wire []wireAccount
	if err := c.do(ctx, s, http.MethodGet, "/accounts", nil, nil, &wire); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	accounts := make([]core.Account, len(wire))
	for i, w := range wire {
		accounts[i] = w.toDomain()
	}
	return accounts, nil
}

// CreateAccount implements api.AccountWriter.
func (c *Client) CreateAccount(ctx context.Context, s api.Session, in core.AccountInput) (core.Account, error) {
	var w wireAccount
	if err := c.do(ctx, s, http.MethodPost, "/accounts", nil, in, &w); err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	return w.toDomain(), nil
}

// UpdateAccount implements api.AccountWriter.
func (c *Client) UpdateAccount(ctx context.Context, s api.Session, id string, in core.AccountInput) (core.Account, error) {
	var w wireAccount
	if err := c.do(ctx, s, http.MethodPut, "/accounts/"+url.PathEscape(id), nil, in, &w); err != nil {
		return core.Account{}, fmt.Errorf("update account %s: %w", id, err)
	}
	return w.toDomain(), nil
}

// DeleteAccount implements api.AccountWriter.
func (c *Client) DeleteAccount(ctx context.Context, s api.Session, id string) error {
	if err := c.do(ctx, s, http.MethodDelete, "/accounts/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	return nil
}

// authenticate posts credentials to an auth endpoint. The backend issues the
// session as a cookie on the response; the token is extracted and returned so
// the front end can relay it to the browser.
func (c *Client) authenticate(ctx context.Context, path string, creds map[string]string) (api.Profile, api.Session, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return api.Profile{}, "", fmt.Errorf("encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return api.Profile{}, "", fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return api.Profile{}, "", fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Message = body.Message
		}
		return api.Profile{}, "", fmt.Errorf("%s: %w", path, apiErr)
	}

	var profile api.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return api.Profile{}, "", fmt.Errorf("decode %s response: %w", path, err)
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == c.sessionCookie {
			return profile, api.Session(cookie.Value), nil
		}
	}
	return api.Profile{}, "", fmt.Errorf("%s response missing %q cookie", path, c.sessionCookie)
}

// Register implements api.Authenticator. A successful registration signs the
// new user in directly.
func (c *Client) Register(ctx context.Context, name, email, password string) (api.Profile, api.Session, error) {
	return c.authenticate(ctx, "/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
}

// Login implements api.Authenticator.
func (c *Client) Login(ctx context.Context, email, password string) (api.Profile, api.Session, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{
		"email": email, "password": password,
	})
}

// Logout implements api.Authenticator.
func (c *Client) Logout(ctx context.Context, s api.Session) error {
	if err := c.do(ctx, s, http.MethodGet, "/auth/logout", nil, nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// GetProfile implements api.Authenticator.
func (c *Client) GetProfile(ctx context.Context, s api.Session) (api.Profile, error) {
	var profile api.Profile
	if err := c.do(ctx, s, http.MethodGet, "/users/profile", nil, nil, &profile); err != nil {
		return api.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile implements api.Authenticator.
func (c *Client) UpdateProfile(ctx context.Context, s api.Session, in api.ProfileInput) (api.Profile, error) {
	var profile api.Profile
	if err := c.do(ctx, s, http.MethodPut, "/users/profile", nil, in, &profile); err != nil {
		return api.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}
