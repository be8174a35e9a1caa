package backend

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Wire shapes. The backend is loose with numeric types (strings and numbers
// both occur), so money fields decode through shopspring decimal, which
// accepts either.

type balanceEntry struct {
	Amount decimal.Decimal `json:"amount"`
}

type positionEntry struct {
	Address      string          `json:"address"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

type transactionEntry struct {
	TransactionID flexInt         `json:"transaction_id"`
	Type          string          `json:"type"`
	Symbol        string          `json:"symbol"`
	Amount        decimal.Decimal `json:"amount"`
	Price         decimal.Decimal `json:"price"`
	Timestamp     string          `json:"timestamp"`
}

type priceResponse struct {
	// Raw so that a non-numeric upstream value ("N/A", null) is a flagged
	// invalid quote, not a transport error.
	Price json.RawMessage `json:"price"`
}

type openOrderBody struct {
	Wallet   string          `json:"wallet"`
	IsBuy    bool            `json:"is_buy"`
	Symbol   string          `json:"symbol"`
	Size     decimal.Decimal `json:"size"`
	Sector   string          `json:"sector"`
	Leverage int             `json:"leverage"`
}

type closeOrderBody struct {
	Symbol string `json:"symbol"`
	Sector string `json:"sector"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type actionBody struct {
	WalletAddress string          `json:"wallet_address"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	Action        string          `json:"action"`
}

// flexInt decodes an integer sent either as a JSON number or a string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// parseTimestamp accepts the formats the backend has been seen to emit.
func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}
