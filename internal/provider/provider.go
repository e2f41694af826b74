package provider

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceInfo is the normalized price snapshot returned by all providers.
// Decimals are exact; values are in USD.
type PriceInfo struct {
	Value     decimal.Decimal `json:"value"`
	Liquidity decimal.Decimal `json:"liquidity"`
}

// TokenOverview is the normalized extended token snapshot. Providers differ in
// what they report: nil pointers mark fields the upstream did not supply, and
// Symbol is empty when the upstream has no concept of it.
type TokenOverview struct {
	Price             *decimal.Decimal `json:"price"`
	Symbol            string           `json:"symbol"`
	Decimals          *int             `json:"decimals"`
	LastTradeUnixTime *int64           `json:"lastTradeUnixTime"`
	Liquidity         *decimal.Decimal `json:"liquidity"`
	Supply            *decimal.Decimal `json:"supply"`
}

// Client is implemented once per upstream price source. Both implementations
// validate addresses before any network activity.
type Client interface {
	Name() string

	// FetchPrices returns exactly one entry per requested address. A nil entry
	// means the upstream knows the address but has no tradable price for it;
	// that is a value, not an error.
	FetchPrices(ctx context.Context, addresses []string) (map[string]*PriceInfo, error)

	// FetchTokenOverview returns the overview for a single address. A nil
	// overview with a nil error means the upstream has no data for the token
	// (e.g. no liquidity pools exist).
	FetchTokenOverview(ctx context.Context, address string) (*TokenOverview, error)
}
