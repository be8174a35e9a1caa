// Package ports declares the component contracts the session controller
// consumes. The backend REST API, the settlement contract and the wallet
// signer are external collaborators; these interfaces are the protocol the
// core requires of them.
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/trivex/trivex-go/internal/domain"
)

// SymbolCatalog resolves a sector to its tradable symbols and per-symbol
// maximum leverage. On failure the caller treats the result as empty; there
// is no automatic retry.
type SymbolCatalog interface {
	ListSymbols(ctx context.Context, sector domain.Sector) (symbols []string, maxLeverage map[string]int, err error)
}

// PriceFeed fetches the current quote for symbol+sector. A transport-level
// success with a non-numeric value returns domain.FaultInvalidQuote; the
// caller must not overwrite a previously valid price with it.
type PriceFeed interface {
	GetPrice(ctx context.Context, symbol string, sector domain.Sector) (decimal.Decimal, error)
}

// BalanceLedger reads the off-chain custodial balance and records
// deposit/withdraw intents after a confirmed on-chain transfer.
type BalanceLedger interface {
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)
	RecordAction(ctx context.Context, address string, amount, currentBalance decimal.Decimal, action domain.LedgerAction) error
}

// PositionBook is the read-only view of open positions and transaction
// history. The trade page consumes only positions; the settings page
// consumes both.
type PositionBook interface {
	GetPortfolio(ctx context.Context, address string) ([]domain.Position, error)
	GetTransactions(ctx context.Context, address string) ([]domain.Transaction, error)
}

// OpenOrderRequest carries a validated open-trade submission.
type OpenOrderRequest struct {
	Wallet   string
	IsBuy    bool
	Symbol   string
	Size     decimal.Decimal
	Sector   domain.Sector
	Leverage int
}

// OrderGateway submits trades to the backend. Success or failure is
// synchronous with the HTTP response; there is no settlement polling.
type OrderGateway interface {
	OpenOrder(ctx context.Context, req OpenOrderRequest) error
	CloseOrder(ctx context.Context, symbol string, sector domain.Sector) error
}

// ContractBridge executes on-chain operations through the wallet's signing
// account. Reads work without a signer. Writes are terminal once the call
// returns: a submitted transaction cannot be cancelled.
type ContractBridge interface {
	WalletBalance(ctx context.Context, wallet string) (decimal.Decimal, error)
	Deposit(ctx context.Context, amount decimal.Decimal) error
	Withdraw(ctx context.Context, amount decimal.Decimal) error
	Stake(ctx context.Context, amount decimal.Decimal) error
	Unstake(ctx context.Context, amount decimal.Decimal) error
	StakedBalance(ctx context.Context, wallet string) (decimal.Decimal, error)
	TotalStaked(ctx context.Context) (decimal.Decimal, error)
	APY(ctx context.Context) (decimal.Decimal, error)
}

// Notifier receives the user-visible outcome of an action. The UI decides
// how to present it; the controller decides what it says.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }
