package birdeye

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"solprice/internal/provider"
	"solprice/internal/solana"
)

// envelope is the common BirdEye response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// rawPrice is one entry of the multi_price data map.
type rawPrice struct {
	Value     *decimal.Decimal `json:"value"`
	Liquidity *decimal.Decimal `json:"liquidity"`
}

// rawOverview is the token_overview data payload.
type rawOverview struct {
	Value          *decimal.Decimal `json:"value"`
	Symbol         string           `json:"symbol"`
	Decimals       *int             `json:"decimals"`
	UpdateUnixTime *int64           `json:"updateUnixTime"`
	Liquidity      *decimal.Decimal `json:"liquidity"`
	Supply         *decimal.Decimal `json:"supply"`
}

// FetchPrices fetches prices for all addresses in a single round trip via the
// multi_price endpoint. The result holds exactly one entry per requested
// address; a nil entry means the upstream returned null for that address.
func (c *APIClient) FetchPrices(ctx context.Context, addresses []string) (map[string]*provider.PriceInfo, error) {
	if err := solana.ValidateAll(addresses); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("list_address", strings.Join(addresses, ","))
	env, err := c.get(ctx, "/defi/multi_price", query)
	if err != nil {
		return nil, err
	}

	var data map[string]*rawPrice
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: decoding prices payload: %v", provider.ErrUpstream, err)
	}
	return normalizePrices(addresses, data)
}

// FetchTokenOverview fetches the extended snapshot for a single address via
// the token_overview endpoint. An empty data payload is an upstream rejection,
// not an absence: this endpoint always has data for tokens it accepts.
func (c *APIClient) FetchTokenOverview(ctx context.Context, address string) (*provider.TokenOverview, error) {
	if err := solana.Validate(address); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("address", address)
	env, err := c.get(ctx, "/defi/token_overview", query)
	if err != nil {
		return nil, err
	}

	payload := bytes.TrimSpace(env.Data)
	if len(payload) == 0 || string(payload) == "null" || string(payload) == "{}" {
		return nil, fmt.Errorf("%w: empty overview payload", provider.ErrUpstream)
	}
	var raw rawOverview
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: decoding overview payload: %v", provider.ErrUpstream, err)
	}
	return normalizeOverview(raw), nil
}

// get performs one GET round trip and checks the transport status and the
// success envelope. Every failure mode maps to provider.ErrUpstream.
func (c *APIClient) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: performing request: %v", provider.ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s -> %d", provider.ErrUpstream, path, res.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", provider.ErrUpstream, err)
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: success=false", provider.ErrUpstream)
	}
	return &env, nil
}

// normalizePrices maps the multi_price data onto the requested address set.
// Field policy: a null or missing entry is an explicit absence (nil); when an
// entry is present, value and liquidity are both required and a missing field
// fails the whole batch.
func normalizePrices(addresses []string, data map[string]*rawPrice) (map[string]*provider.PriceInfo, error) {
	prices := make(map[string]*provider.PriceInfo, len(addresses))
	for _, addr := range addresses {
		raw := data[addr]
		if raw == nil {
			prices[addr] = nil
			continue
		}
		if raw.Value == nil || raw.Liquidity == nil {
			return nil, fmt.Errorf("%w: partial price entry for %s", provider.ErrUpstream, addr)
		}
		prices[addr] = &provider.PriceInfo{Value: *raw.Value, Liquidity: *raw.Liquidity}
	}
	return prices, nil
}

// normalizeOverview maps the token_overview payload onto the shared model.
// Field policy: everything is optional; absent fields stay nil rather than
// being coerced to zero.
func normalizeOverview(raw rawOverview) *provider.TokenOverview {
	return &provider.TokenOverview{
		Price:             raw.Value,
		Symbol:            raw.Symbol,
		Decimals:          raw.Decimals,
		LastTradeUnixTime: raw.UpdateUnixTime,
		Liquidity:         raw.Liquidity,
		Supply:            raw.Supply,
	}
}
