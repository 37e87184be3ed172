package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.coingecko.com"

	// El tier gratuito admite ~30 req/min. La cache absorbe casi todo el
	// tráfico repetido, pero el primer análisis de una wallet activa puede
	// tocar muchos (activo, día) distintos.
	requestsPerMin = 25

	maxRetries    = 3
	baseRetryWait = time.Second
)

// Client es el HTTP client del price source histórico (CoinGecko).
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient crea un Client. Si baseURL está vacío usa el de producción.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(requestsPerMin)/60, 5),
	}
}

// historyResponse es el DTO de /coins/{id}/history.
type historyResponse struct {
	MarketData *struct {
		CurrentPrice map[string]float64 `json:"current_price"`
	} `json:"market_data"`
}

// HistoricalPrice implementa ports.PriceProvider: precio USD de cierre del
// día dado. CoinGecko usa fechas DD-MM-YYYY en este endpoint.
func (c *Client) HistoricalPrice(ctx context.Context, coinID string, day time.Time) (float64, error) {
	url := fmt.Sprintf("%s/api/v3/coins/%s/history?date=%s&localization=false",
		c.baseURL, coinID, day.UTC().Format("02-01-2006"))

	var resp historyResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return 0, fmt.Errorf("coingecko.HistoricalPrice: %s: %w", coinID, err)
	}

	if resp.MarketData == nil {
		return 0, fmt.Errorf("coingecko.HistoricalPrice: %s: no market data for %s",
			coinID, day.Format("2006-01-02"))
	}
	price, ok := resp.MarketData.CurrentPrice["usd"]
	if !ok || price < 0 {
		return 0, fmt.Errorf("coingecko.HistoricalPrice: %s: no usd price", coinID)
	}
	return price, nil
}

// get hace un GET con rate limiting y retries.
func (c *Client) get(ctx context.Context, url string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
