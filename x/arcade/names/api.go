package names

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"dinorun/x/arcade/telemetry"
	"dinorun/x/arcade/types"
)

// ResolveNamesPath is the route served by Handler.
const ResolveNamesPath = "/api/resolve-names"

// NameResponse is the resolve-names payload. Name is null when unresolved.
type NameResponse struct {
	Name *string `json:"name"`
}

// Handler serves identity lookups over HTTP, caching every answer for CacheTTL.
type Handler struct {
	lookup  types.IdentityLookup
	cache   Cache
	logger  log.Logger
	metrics *telemetry.Metrics
}

func NewHandler(lookup types.IdentityLookup, cache Cache, logger log.Logger, metrics *telemetry.Metrics) *Handler {
	if cache == nil {
		cache = NewMemoryCache(DefaultMemoryCacheSize, CacheTTL)
	}
	return &Handler{
		lookup:  lookup,
		cache:   cache,
		logger:  logger.With("module", "x/"+types.ModuleName+"/names"),
		metrics: metrics,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var resp NameResponse
	if addr, err := types.ParseAddress(r.URL.Query().Get("address")); err == nil {
		if name := h.name(r.Context(), addr); name != "" {
			resp.Name = &name
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to write response", "err", err)
	}
}

func (h *Handler) name(ctx context.Context, addr types.Address) string {
	key := addr.Key()
	name, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Error("name cache read failed", "err", err)
	}
	if ok {
		return name
	}

	if h.lookup == nil {
		return ""
	}
	start := time.Now()
	name, err = h.lookup.Lookup(ctx, addr)
	h.metrics.ObserveLookup(time.Since(start).Seconds(), err == nil)
	if err != nil {
		h.logger.Debug("identity lookup failed", types.AttrPlayer, addr, "err", err)
		return ""
	}
	if err := h.cache.Set(ctx, key, name, CacheTTL); err != nil {
		h.logger.Error("name cache write failed", "err", err)
	}
	return name
}

// APIClient is an IdentityLookup backed by a resolve-names endpoint.
type APIClient struct {
	baseURL string
	client  *http.Client
}

var _ types.IdentityLookup = (*APIClient)(nil)

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = DefaultNeynarTimeout
	}
	return &APIClient{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

func (c *APIClient) Lookup(ctx context.Context, addr types.Address) (string, error) {
	endpoint := c.baseURL + ResolveNamesPath + "?address=" + url.QueryEscape(addr.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", errorsmod.Wrap(err, "resolve-names request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resolve-names returned %s", resp.Status)
	}

	var body NameResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errorsmod.Wrap(err, "failed to decode resolve-names response")
	}
	if body.Name == nil {
		return "", nil
	}
	return *body.Name, nil
}
