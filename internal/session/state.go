package session

import (
	"github.com/shopspring/decimal"

	"github.com/trivex/trivex-go/internal/domain"
)

// Phase is the trade-page position in the selection state machine.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseSectorSelected Phase = "sector_selected"
	PhaseSymbolsLoaded  Phase = "symbols_loaded"
	PhaseSymbolSelected Phase = "symbol_selected"
	PhasePriceLoaded    Phase = "price_loaded"
	PhaseRefreshing     Phase = "refreshing"
)

// Side is the direction of a trade submission.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

func (s Side) IsBuy() bool { return s == SideBuy }

// Snapshot is a copy of the controller's UI-facing state, safe to read
// while the controller keeps mutating.
type Snapshot struct {
	Phase    Phase
	Sector   domain.Sector
	Symbol   string
	Symbols  []string
	Leverage int
	// MaxLeverage is the cap for the currently selected symbol; 1 when the
	// symbol is unknown.
	MaxLeverage int
	Size        decimal.Decimal
	// Price is valid only when HasPrice is true; render N/A otherwise.
	Price    decimal.Decimal
	HasPrice bool

	Balance      decimal.Decimal
	Positions    []domain.Position
	Transactions []domain.Transaction

	// WalletBalance is the on-chain custody balance (settings page).
	WalletBalance decimal.Decimal
	Pool          domain.StakeAccount
}
