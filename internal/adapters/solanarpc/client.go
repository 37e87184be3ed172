package solanarpc

import (
	"bytes"
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
	defaultRPCURL = "https://api.mainnet-beta.solana.com"

	// El RPC público limita ~100 req/10s por IP. Replay conservador.
	requestsPerSec = 4

	// Máximo de firmas a reconstruir en el path de fallback. El replay
	// cuesta una request por transacción, no conviene irse muy atrás.
	maxSignatures = 50

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client habla JSON-RPC con un nodo Solana. Es el source de fallback:
// más lento y de menor nivel que Helius, pero sin dependencia de terceros.
type Client struct {
	http    *http.Client
	rpcURL  string
	limiter *rate.Limiter
}

// NewClient crea un Client. Si rpcURL está vacío usa mainnet-beta público.
func NewClient(rpcURL string) *Client {
	if rpcURL == "" {
		rpcURL = defaultRPCURL
	}
	return &Client{
		http:    &http.Client{Timeout: 20 * time.Second},
		rpcURL:  rpcURL,
		limiter: rate.NewLimiter(requestsPerSec, 4),
	}
}

type rpcRequest struct {
	Jsonrpc string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// call ejecuta un método JSON-RPC con rate limiting y retries, y decodifica
// result en out.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{Jsonrpc: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("%s failed after %d retries: %w", method, maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("%s: server error %d after %d retries", method, resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("%s: read body: %w", method, err)
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("%s: client error %d: %s", method, resp.StatusCode, string(raw))
		}

		var rpcResp rpcResponse
		if err := json.Unmarshal(raw, &rpcResp); err != nil {
			return fmt.Errorf("%s: decode envelope: %w", method, err)
		}
		if rpcResp.Error != nil {
			return fmt.Errorf("%s: rpc error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
		}
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
		return nil
	}
	return fmt.Errorf("%s: exhausted %d retries", method, maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
