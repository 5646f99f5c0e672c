package names

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"dinorun/x/arcade/types"
)

const (
	DefaultNeynarURL        = "https://api.neynar.com"
	DefaultNeynarRate       = 5
	DefaultNeynarTimeout    = 5 * time.Second
	neynarBulkByAddressPath = "/v2/farcaster/user/bulk-by-address"
	maxResponseBytes        = 1 << 20
)

// NeynarConfig configures the Farcaster identity client.
type NeynarConfig struct {
	BaseURL string `mapstructure:"base-url"`
	APIKey  string `mapstructure:"api-key"`
	// RequestsPerSecond caps outbound lookups; zero disables the limit.
	RequestsPerSecond float64       `mapstructure:"requests-per-second"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// DefaultNeynarConfig returns a config without an API key, which makes every
// lookup resolve to no name.
func DefaultNeynarConfig() NeynarConfig {
	return NeynarConfig{
		BaseURL:           DefaultNeynarURL,
		RequestsPerSecond: DefaultNeynarRate,
		Timeout:           DefaultNeynarTimeout,
	}
}

// NeynarClient looks up the Farcaster username bound to an address.
type NeynarClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

var _ types.IdentityLookup = (*NeynarClient)(nil)

func NewNeynarClient(cfg NeynarConfig) *NeynarClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNeynarURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultNeynarTimeout
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &NeynarClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Lookup returns the first username bound to addr, or "" when there is none
// or no API key is configured.
func (c *NeynarClient) Lookup(ctx context.Context, addr types.Address) (string, error) {
	if c.apiKey == "" {
		return "", nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	key := addr.Key()
	endpoint := fmt.Sprintf("%s%s?addresses=%s", c.baseURL, neynarBulkByAddressPath, url.QueryEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("api_key", c.apiKey)
	req.Header.Set("accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errorsmod.Wrap(err, "neynar request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", errorsmod.Wrap(err, "failed to read neynar response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("neynar returned %s", resp.Status)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("neynar returned invalid json")
	}

	return gjson.GetBytes(body, gjson.Escape(key)+".0.username").String(), nil
}
