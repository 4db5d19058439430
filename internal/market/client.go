// Package market talks to the price (CoinGecko) and news (CryptoPanic) APIs.
package market

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

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultPriceURL = "https://api.coingecko.com/api/v3/simple/price"
	DefaultNewsURL  = "https://cryptopanic.com/api/v1/posts/"
	DefaultCurrency = "eur"
)

// ErrStatus is wrapped by errors for non-2xx responses.
var ErrStatus = errors.New("unexpected status")

type Client struct {
	PriceURL   string
	NewsURL    string
	NewsToken  string
	Currency   string
	MaxRetries uint64

	http *http.Client
	// initial retry interval; tests shorten it
	retryInterval time.Duration
}

// NewClient returns a client with defaults filled in for empty values.
func NewClient(priceURL, newsURL, newsToken, currency string, timeout time.Duration, maxRetries uint64) *Client {
	if priceURL == "" {
		priceURL = DefaultPriceURL
	}
	if newsURL == "" {
		newsURL = DefaultNewsURL
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		PriceURL:      priceURL,
		NewsURL:       newsURL,
		NewsToken:     newsToken,
		Currency:      strings.ToLower(currency),
		MaxRetries:    maxRetries,
		http:          &http.Client{Timeout: timeout},
		retryInterval: 500 * time.Millisecond,
	}
}

// Quote is the price data of one coin. Fields are nil when the API
// omitted them or returned null.
type Quote struct {
	Price     *float64
	Change24h *float64
}

// NewsItem is one news post.
type NewsItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type newsResponse struct {
	Results []NewsItem `json:"results"`
}

// Prices fetches quotes for coinIDs. Coins unknown to the API are absent
// from the result.
func (c *Client) Prices(ctx context.Context, coinIDs []string) (map[string]Quote, error) {
	if len(coinIDs) == 0 {
		return map[string]Quote{}, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(coinIDs, ","))
	q.Set("vs_currencies", c.Currency)
	q.Set("include_24hr_change", "true")

	var raw map[string]map[string]*float64
	if err := c.getJSON(ctx, c.PriceURL, q, &raw); err != nil {
		return nil, fmt.Errorf("price request failed: %w", err)
	}

	changeKey := c.Currency + "_24h_change"
	quotes := make(map[string]Quote, len(raw))
	for id, fields := range raw {
		quotes[id] = Quote{
			Price:     fields[c.Currency],
			Change24h: fields[changeKey],
		}
	}
	return quotes, nil
}

// News fetches the latest news posts mentioning any of coinIDs.
func (c *Client) News(ctx context.Context, coinIDs []string) ([]NewsItem, error) {
	if len(coinIDs) == 0 {
		return nil, nil
	}

	currencies := make([]string, len(coinIDs))
	for i, id := range coinIDs {
		currencies[i] = strings.ToUpper(id)
	}

	q := url.Values{}
	q.Set("auth_token", c.NewsToken)
	q.Set("currencies", strings.Join(currencies, ","))
	q.Set("kind", "news")

	var resp newsResponse
	if err := c.getJSON(ctx, c.NewsURL, q, &resp); err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	return resp.Results, nil
}

// getJSON performs a GET with retries on network errors, 429 and 5xx.
func (c *Client) getJSON(ctx context.Context, base string, q url.Values, out any) error {
	endpoint, err := url.Parse(base)
	if err != nil {
		return err
	}
	endpoint.RawQuery = q.Encode()

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// drain so the connection can be reused
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			statusErr := fmt.Errorf("%w: %s", ErrStatus, resp.Status)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.retryInterval
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, c.MaxRetries), ctx)

	return backoff.Retry(op, policy)
}
