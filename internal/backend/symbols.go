package backend

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/trivex/trivex-go/internal/domain"
)

// ListSymbols fetches the tradable symbols for a sector with each symbol's
// maximum leverage. The backend returns an object keyed by symbol; the
// symbol sequence is sorted for a stable default selection.
func (c *Client) ListSymbols(ctx context.Context, sector domain.Sector) ([]string, map[string]int, error) {
	var byLeverage map[string]int
	if err := c.get(ctx, "/symbols/"+string(sector), &byLeverage); err != nil {
		log.WithError(err).WithField("sector", sector).Error("symbols fetch failed")
		return nil, nil, err
	}

	symbols := make([]string, 0, len(byLeverage))
	for sym := range byLeverage {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols, byLeverage, nil
}

// GetPrice fetches the quote for symbol within sector. The upstream key is
// the composite "symbol-sector" string. A response that is not a number is
// an invalid quote: the call reached the backend, but the value is unusable
// and must not silently replace a previously valid price.
func (c *Client) GetPrice(ctx context.Context, symbol string, sector domain.Sector) (decimal.Decimal, error) {
	key := domain.PriceKey(symbol, sector)
	var resp priceResponse
	if err := c.get(ctx, "/price/"+key, &resp); err != nil {
		return decimal.Zero, err
	}
	price, err := parseQuote(resp.Price)
	if err != nil {
		log.WithField("key", key).Warn("price response is not numeric")
		return decimal.Zero, domain.NewFault(domain.FaultInvalidQuote, "GET /price/"+key, err)
	}
	return price, nil
}

func parseQuote(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return decimal.Zero, errors.New("empty price")
	}
	return decimal.NewFromString(s)
}
