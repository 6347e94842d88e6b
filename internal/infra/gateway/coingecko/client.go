package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL      = "https://api.coingecko.com/api/v3"
	headerAPIKey        = "x-cg-demo-api-key"
	requestTimeout      = 10 * time.Second
	rateLimitRetryAfter = 60 * time.Second

	// CoinID is the CoinGecko listing id for the ledger's native asset.
	CoinID = "ripple"

	// PriceDecimals is the scale of returned prices: USD values are
	// big.Int amounts scaled by 10^8.
	PriceDecimals = 8
)

// Client is a CoinGecko API client.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new CoinGecko API client.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: defaultBaseURL,
	}
}

// WithBaseURL overrides the API endpoint. Used in tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// SpotPrice fetches the current USD price for the native asset,
// scaled to a big.Int with PriceDecimals decimal places.
func (c *Client) SpotPrice(ctx context.Context) (*big.Int, error) {
	params := url.Values{}
	params.Set("ids", CoinID)
	params.Set("vs_currencies", "usd")
	params.Set("precision", "8")

	reqURL := fmt.Sprintf("%s/simple/price?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{
			RetryAfter: rateLimitRetryAfter,
			Message:    "CoinGecko API rate limit exceeded",
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var rawPrices map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&rawPrices); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	usdPrice, ok := rawPrices[CoinID]["usd"]
	if !ok {
		return nil, fmt.Errorf("USD price not found in response")
	}

	return scaleFloatToBigInt(usdPrice, PriceDecimals), nil
}

// scaleFloatToBigInt converts a float64 to a big.Int by scaling by
// 10^decimals. Example: scaleFloatToBigInt(2.41, 8) returns 241000000.
func scaleFloatToBigInt(value float64, decimals int) *big.Int {
	multiplier := new(big.Float).SetInt(new(big.Int).Exp(
		big.NewInt(10),
		big.NewInt(int64(decimals)),
		nil,
	))

	scaled := new(big.Float).Mul(big.NewFloat(value), multiplier)

	result, _ := scaled.Int(nil)
	return result
}

// RateLimitError represents a rate limit error from the CoinGecko API.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
}

// IsRateLimitError checks if an error is a rate limit error.
func IsRateLimitError(err error) bool {
	_, ok := err.(*RateLimitError)
	return ok
}
