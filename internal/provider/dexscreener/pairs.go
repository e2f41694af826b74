package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"solprice/internal/provider"
	"solprice/internal/solana"
)

// Token is one side of a trading pair.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Liquidity is the liquidity block of a pair. The schema guarantees these
// fields only probabilistically; absent values stay nil.
type Liquidity struct {
	USD   *decimal.Decimal `json:"usd"`
	Base  *decimal.Decimal `json:"base"`
	Quote *decimal.Decimal `json:"quote"`
}

// Pair is a single liquidity pool listing for a token. PriceUsd arrives as a
// JSON string and is decoded exactly.
type Pair struct {
	ChainID       string           `json:"chainId"`
	DexID         string           `json:"dexId"`
	PairAddress   string           `json:"pairAddress"`
	BaseToken     Token            `json:"baseToken"`
	QuoteToken    Token            `json:"quoteToken"`
	PriceUsd      *decimal.Decimal `json:"priceUsd"`
	Liquidity     *Liquidity       `json:"liquidity"`
	FDV           *decimal.Decimal `json:"fdv"`
	PairCreatedAt *int64           `json:"pairCreatedAt"`
}

// tokenPairsResponse is the response of the latest/dex/tokens endpoint.
type tokenPairsResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
}

// FetchPrices fetches prices for the addresses, one round trip per address.
// The calls are sequential: batch latency is O(N), which is the documented
// contract of this provider. Any failed call fails the whole batch with no
// partial mapping.
func (c *APIClient) FetchPrices(ctx context.Context, addresses []string) (map[string]*provider.PriceInfo, error) {
	if err := solana.ValidateAll(addresses); err != nil {
		return nil, err
	}

	prices := make(map[string]*provider.PriceInfo, len(addresses))
	for _, addr := range addresses {
		pairs, err := c.FetchTokenPairs(ctx, addr)
		if err != nil {
			return nil, err
		}
		prices[addr] = normalizePrice(pairs, addr)
	}
	return prices, nil
}

// FetchTokenOverview fetches the extended snapshot for a single address from
// its representative pair. A token with no pairs at all yields (nil, nil):
// that is a legitimate terminal state, not an upstream failure.
func (c *APIClient) FetchTokenOverview(ctx context.Context, address string) (*provider.TokenOverview, error) {
	if err := solana.Validate(address); err != nil {
		return nil, err
	}

	pairs, err := c.FetchTokenPairs(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, nil
	}
	return normalizeOverview(pairs, address), nil
}

// FetchTokenPairs returns the raw pair listings for a token. Callers that
// need their own pool selection policy work from this list.
func (c *APIClient) FetchTokenPairs(ctx context.Context, address string) ([]Pair, error) {
	if err := solana.Validate(address); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, address)
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
		return nil, fmt.Errorf("%w: GET tokens/%s -> %d", provider.ErrUpstream, address, res.StatusCode)
	}

	var body tokenPairsResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding pairs response: %v", provider.ErrUpstream, err)
	}
	return body.Pairs, nil
}

// LargestPoolWithSOL returns the pair that lists the token directly against
// wrapped SOL with the highest USD liquidity, or nil when no such pair exists.
// Ties keep the first pair encountered, so the result is deterministic as long
// as the upstream ordering is.
func LargestPoolWithSOL(pairs []Pair, address string) *Pair {
	var best *Pair
	var bestLiquidity decimal.Decimal
	for i := range pairs {
		p := &pairs[i]
		if p.BaseToken.Address != address || p.QuoteToken.Address != solana.WSOLMint {
			continue
		}
		liquidity := decimal.Zero
		if p.Liquidity != nil && p.Liquidity.USD != nil {
			liquidity = *p.Liquidity.USD
		}
		if best == nil || liquidity.GreaterThan(bestLiquidity) {
			best = p
			bestLiquidity = liquidity
		}
	}
	return best
}

// representativePair picks the pair that stands in for "the" price of a token:
// the largest pool quoted directly against SOL when one exists, otherwise the
// first pair in the upstream's own relevance order.
func representativePair(pairs []Pair, address string) *Pair {
	if p := LargestPoolWithSOL(pairs, address); p != nil {
		return p
	}
	if len(pairs) > 0 {
		return &pairs[0]
	}
	return nil
}

// normalizePrice builds a PriceInfo from the representative pair.
// Field policy: priceUsd and liquidity.usd zero-default when absent. These are
// data-quality defaults, not errors; the schema does not guarantee the fields.
func normalizePrice(pairs []Pair, address string) *provider.PriceInfo {
	info := &provider.PriceInfo{Value: decimal.Zero, Liquidity: decimal.Zero}
	rep := representativePair(pairs, address)
	if rep == nil {
		return info
	}
	if rep.PriceUsd != nil {
		info.Value = *rep.PriceUsd
	}
	if rep.Liquidity != nil && rep.Liquidity.USD != nil {
		info.Liquidity = *rep.Liquidity.USD
	}
	return info
}

// normalizeOverview builds a TokenOverview from the representative pair.
// Field policy: all optional fields stay nil when absent; Decimals and Supply
// are always nil because the pairs API has no concept of either.
func normalizeOverview(pairs []Pair, address string) *provider.TokenOverview {
	rep := representativePair(pairs, address)
	if rep == nil {
		return nil
	}
	overview := &provider.TokenOverview{
		Price:             rep.PriceUsd,
		Symbol:            rep.BaseToken.Symbol,
		LastTradeUnixTime: rep.PairCreatedAt,
	}
	if rep.Liquidity != nil {
		overview.Liquidity = rep.Liquidity.USD
	}
	return overview
}
