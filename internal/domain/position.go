package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is one open position in the wallet's portfolio.
// The portfolio is a set keyed by symbol; the backend never returns
// duplicate symbols.
type Position struct {
	Symbol       string
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal
}

// FindPosition returns the position for symbol, or nil.
func FindPosition(positions []Position, symbol string) *Position {
	for i := range positions {
		if positions[i].Symbol == symbol {
			return &positions[i]
		}
	}
	return nil
}

// Transaction is one immutable historical ledger record. The backend owns
// ordering; the client renders them as returned.
type Transaction struct {
	ID        int64
	Type      string
	Symbol    string
	Amount    decimal.Decimal
	Price     decimal.Decimal
	Timestamp time.Time
}

// LocalTime renders the transaction timestamp in the local timezone for
// display.
func (t Transaction) LocalTime() string {
	return t.Timestamp.Local().Format("2006-01-02 15:04:05")
}
