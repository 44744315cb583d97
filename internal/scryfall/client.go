// Package scryfall fetches card printings from the Scryfall API and reads its
// bulk data exports.
package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.scryfall.com"
	rateLimitDelay = 100 * time.Millisecond
	requestTimeout = 30 * time.Second
	maxPages       = 100
)

// Client is a rate-limited Scryfall API client.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	userAgent   string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			c.baseURL = u
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		baseURL:     DefaultBaseURL,
		userAgent:   "cardvault/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is the error object Scryfall returns with non-2xx responses.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("scryfall %d %s: %s", e.Status, e.Code, e.Details)
	}
	return fmt.Sprintf("scryfall %d %s", e.Status, e.Code)
}

// SearchSet returns every printing of the set with the given code, following
// pagination. A set with no printings is not an error.
func (c *Client) SearchSet(ctx context.Context, code string) ([]Card, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, errors.New("set code is required")
	}
	q := url.Values{}
	q.Set("q", "set:"+code)
	q.Set("unique", "prints")
	q.Set("order", "set")
	next := c.baseURL + "/cards/search?" + q.Encode()

	var cards []Card
	for page := 0; next != "" && page < maxPages; page++ {
		var list cardList
		err := c.doRequest(ctx, next, &list)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return cards, nil
		}
		if err != nil {
			return nil, fmt.Errorf("search set %s: %w", code, err)
		}
		cards = append(cards, list.Data...)
		next = ""
		if list.HasMore {
			next = list.NextPage
		}
	}
	return cards, nil
}

// GetCard retrieves a card by its Scryfall ID.
func (c *Client) GetCard(ctx context.Context, id string) (*Card, error) {
	var card Card
	if err := c.doRequest(ctx, c.baseURL+"/cards/"+url.PathEscape(id), &card); err != nil {
		return nil, fmt.Errorf("get card %s: %w", id, err)
	}
	return &card, nil
}

func (c *Client) doRequest(ctx context.Context, target string, result any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Code == "" {
			apiErr.Code = http.StatusText(resp.StatusCode)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("parse JSON response: %w", err)
	}
	return nil
}
