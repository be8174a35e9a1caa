// Package session owns the mutable UI-facing state and the protocol that
// drives the backend and the settlement contract. All orchestration lives
// here: the selection state machine, refresh cycles, action serialization
// and failure classification. Rendering, popups and routing stay outside.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/trivex/trivex-go/internal/domain"
	"github.com/trivex/trivex-go/internal/ports"
)

var log = logrus.WithField("component", "session")

// Deps are the collaborators a controller drives.
type Deps struct {
	Catalog ports.SymbolCatalog
	Prices  ports.PriceFeed
	Ledger  ports.BalanceLedger
	Book    ports.PositionBook
	Orders  ports.OrderGateway
	Bridge  ports.ContractBridge
	Notify  ports.Notifier
}

// Controller is the top-level orchestrator for one session. Methods are
// safe for concurrent use; the mutex is held only to mutate state, never
// across I/O, so multiple fetches can be in flight at once. Results of a
// fetch are applied only if the selection they were issued for is still
// current.
type Controller struct {
	mu   sync.Mutex
	sess *Session
	deps Deps
	gate Gate

	phase    Phase
	sector   domain.Sector
	symbol   string
	symbols  []string
	maxLev   map[string]int
	leverage int
	size     decimal.Decimal
	price    decimal.Decimal
	hasPrice bool

	balance      decimal.Decimal
	positions    []domain.Position
	transactions []domain.Transaction

	walletBalance decimal.Decimal
	pool          domain.StakeAccount

	// Staleness tags: a fetch captures the key at issue time and its result
	// is dropped if the key moved on before it resolved.
	symbolsKey string
	priceKey   string
}

// NewController builds a controller bound to one session.
func NewController(sess *Session, deps Deps) *Controller {
	if deps.Notify == nil {
		deps.Notify = ports.NotifierFunc(func(string) {})
	}
	return &Controller{
		sess:   sess,
		deps:   deps,
		phase:  PhaseIdle,
		maxLev: map[string]int{},
	}
}

func (c *Controller) notify(msg string) {
	c.deps.Notify.Notify(msg)
}

func (c *Controller) requireTradable(op string) error {
	if !c.sess.Connected() {
		return domain.Validationf(op, "wallet not connected")
	}
	if !c.sess.Whitelisted {
		return domain.Validationf(op, "wallet not whitelisted")
	}
	return nil
}

// SelectSector switches the market segment. Symbol, leverage and price go
// back to unset immediately; the new symbol list is fetched and applied only
// if the sector is still the selected one when the response lands. On fetch
// failure the universe is empty; there is no automatic retry.
func (c *Controller) SelectSector(ctx context.Context, sector domain.Sector) error {
	if err := c.requireTradable("select sector"); err != nil {
		return err
	}
	if !sector.Valid() {
		return domain.Validationf("select sector", "unknown sector %q", sector)
	}

	key := string(sector)
	c.mu.Lock()
	c.sector = sector
	c.symbol = ""
	c.leverage = 0
	c.size = decimal.Zero
	c.price = decimal.Zero
	c.hasPrice = false
	c.symbols = nil
	c.maxLev = map[string]int{}
	c.phase = PhaseSectorSelected
	c.symbolsKey = key
	c.priceKey = ""
	c.mu.Unlock()

	symbols, lev, err := c.deps.Catalog.ListSymbols(ctx, sector)
	if err != nil {
		c.applySymbols(key, func() {
			c.symbols = []string{}
			c.maxLev = map[string]int{}
		})
		return err
	}

	c.applySymbols(key, func() {
		c.symbols = symbols
		c.maxLev = lev
		c.phase = PhaseSymbolsLoaded
		if len(symbols) > 0 {
			// Default selection: first symbol of the new universe.
			c.symbol = symbols[0]
			c.leverage = 1
			c.phase = PhaseSymbolSelected
		}
	})

	c.refreshUserInfo(ctx)
	return nil
}

// SelectSymbol switches the tradable. Leverage resets to 1 and the price is
// unset until the new quote resolves; a quote for a superseded selection is
// discarded.
func (c *Controller) SelectSymbol(ctx context.Context, symbol string) error {
	if err := c.requireTradable("select symbol"); err != nil {
		return err
	}
	if symbol == "" {
		return domain.Validationf("select symbol", "symbol is empty")
	}

	c.mu.Lock()
	if c.sector == "" {
		c.mu.Unlock()
		return domain.Validationf("select symbol", "no sector selected")
	}
	sector := c.sector
	c.symbol = symbol
	c.leverage = 1
	c.price = decimal.Zero
	c.hasPrice = false
	c.phase = PhaseSymbolSelected
	key := domain.PriceKey(symbol, sector)
	c.priceKey = key
	c.mu.Unlock()

	price, err := c.deps.Prices.GetPrice(ctx, symbol, sector)
	if err != nil {
		if domain.KindOf(err) == domain.FaultInvalidQuote {
			// Transport succeeded but the value is unusable; the displayed
			// price keeps whatever it was, and the user hears about it.
			c.notify(domain.FaultInvalidQuote.Message())
		}
		log.WithError(err).WithField("key", key).Warn("price fetch failed")
		return err
	}

	if !c.applyPrice(key, func() {
		c.price = price
		c.hasPrice = true
		c.phase = PhasePriceLoaded
	}) {
		log.WithField("key", key).Debug("dropping price for superseded selection")
	}
	return nil
}

// SetLeverage clamps n into [1, maxLeverage(symbol)] and returns the value
// that took effect. With no symbol selected leverage stays unset. State is
// otherwise unchanged.
func (c *Controller) SetLeverage(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.symbol == "" {
		return c.leverage
	}
	max := c.maxLev[c.symbol]
	if max < 1 {
		// Unknown symbol defaults to 1.
		max = 1
	}
	if n < 1 {
		n = 1
	}
	if n > max {
		n = max
	}
	c.leverage = n
	return n
}

// SetSizeByPercentage derives the order size from the available balance:
// size = p/100 * balance, exactly. p is clamped into [0, 100].
func (c *Controller) SetSizeByPercentage(p int) decimal.Decimal {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.size = c.balance.Mul(decimal.New(int64(p), -2))
	return c.size
}

// SetSize overrides the derived size with a manual entry. Leverage is not
// affected.
func (c *Controller) SetSize(size decimal.Decimal) {
	if size.IsNegative() {
		size = decimal.Zero
	}
	c.mu.Lock()
	c.size = size
	c.mu.Unlock()
}

// SubmitOrder validates and submits an open trade, then re-enters a refresh
// cycle regardless of the outcome so balance and positions never go stale
// after an attempted trade.
func (c *Controller) SubmitOrder(ctx context.Context, side Side) error {
	if err := c.requireTradable("submit order"); err != nil {
		return err
	}
	if !c.gate.TryAcquire() {
		f := domain.NewFault(domain.FaultBusy, "submit order", nil)
		c.notify(f.Kind.Message())
		return f
	}
	defer c.gate.Release()

	c.mu.Lock()
	req := ports.OpenOrderRequest{
		Wallet:   c.sess.WalletAddress,
		IsBuy:    side.IsBuy(),
		Symbol:   c.symbol,
		Size:     c.size,
		Sector:   c.sector,
		Leverage: c.leverage,
	}
	price, hasPrice := c.price, c.hasPrice
	c.mu.Unlock()

	if req.Sector == "" || req.Symbol == "" {
		f := domain.Validationf("submit order", "sector and symbol must be selected")
		c.notify(f.Kind.Message())
		return f
	}
	if !req.Size.IsPositive() {
		f := domain.Validationf("submit order", "size must be greater than zero")
		c.notify(f.Kind.Message())
		return f
	}

	err := c.deps.Orders.OpenOrder(ctx, req)
	c.refreshAfterAction(ctx)

	if err != nil {
		log.WithError(err).WithField("symbol", req.Symbol).Error("order submission failed")
		c.notify("An error occurred while placing the order.")
		return err
	}
	if hasPrice {
		c.notify(fmt.Sprintf("%s order placed successfully at $%s!", side, price.StringFixed(2)))
	} else {
		c.notify(fmt.Sprintf("%s order placed successfully!", side))
	}
	return nil
}

// ClosePosition closes the open position for symbol in the selected sector.
// Positions are refreshed whether or not the close succeeded.
func (c *Controller) ClosePosition(ctx context.Context, symbol string) error {
	if err := c.requireTradable("close position"); err != nil {
		return err
	}
	if !c.gate.TryAcquire() {
		f := domain.NewFault(domain.FaultBusy, "close position", nil)
		c.notify(f.Kind.Message())
		return f
	}
	defer c.gate.Release()

	c.mu.Lock()
	sector := c.sector
	c.mu.Unlock()

	if sector == "" || symbol == "" {
		f := domain.Validationf("close position", "sector and symbol must be selected")
		c.notify(f.Kind.Message())
		return f
	}

	err := c.deps.Orders.CloseOrder(ctx, symbol, sector)
	c.refreshAfterAction(ctx)

	if err != nil {
		log.WithError(err).WithField("symbol", symbol).Error("close failed")
		c.notify("Order closure failed. Please try again.")
		return err
	}
	c.notify("Order closed successfully!")
	return nil
}

// Reset clears the whole selection back to Idle. In-flight fetches for the
// old selection resolve into nothing.
func (c *Controller) Reset() error {
	if !c.gate.TryAcquire() {
		return domain.NewFault(domain.FaultBusy, "reset", nil)
	}
	defer c.gate.Release()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sector = ""
	c.symbol = ""
	c.leverage = 0
	c.size = decimal.Zero
	c.price = decimal.Zero
	c.hasPrice = false
	c.symbols = nil
	c.maxLev = map[string]int{}
	c.phase = PhaseIdle
	c.symbolsKey = ""
	c.priceKey = ""
	return nil
}

// Mount runs the initial trade-page refresh. Failures degrade to last-known
// (or zero) display and are only logged; mounting never blocks on them.
func (c *Controller) Mount(ctx context.Context) {
	c.refreshUserInfo(ctx)
}

// refreshAfterAction is the post-action refresh cycle: phase goes through
// Refreshing and returns to where the selection left off.
func (c *Controller) refreshAfterAction(ctx context.Context) {
	c.mu.Lock()
	prev := c.phase
	c.phase = PhaseRefreshing
	c.mu.Unlock()

	c.refreshUserInfo(ctx)

	c.mu.Lock()
	if c.phase == PhaseRefreshing {
		c.phase = prev
	}
	c.mu.Unlock()
}

// refreshUserInfo re-reads balance and positions. On failure each field
// keeps its prior value; an explicitly empty response is a legitimate zero.
func (c *Controller) refreshUserInfo(ctx context.Context) {
	addr := c.sess.WalletAddress

	if bal, err := c.deps.Ledger.GetBalance(ctx, addr); err != nil {
		log.WithError(err).Warn("balance refresh failed, keeping last known value")
	} else {
		c.mu.Lock()
		c.balance = bal
		c.mu.Unlock()
	}

	if positions, err := c.deps.Book.GetPortfolio(ctx, addr); err != nil {
		log.WithError(err).Warn("portfolio refresh failed, keeping last known value")
	} else {
		c.mu.Lock()
		c.positions = positions
		c.mu.Unlock()
	}
}

// applySymbols runs fn under the state lock iff the symbols fetch key still
// matches the current selection.
func (c *Controller) applySymbols(key string, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.symbolsKey != key {
		return false
	}
	fn()
	return true
}

// applyPrice runs fn under the state lock iff the price fetch key still
// matches the current selection.
func (c *Controller) applyPrice(key string, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.priceKey != key {
		return false
	}
	fn()
	return true
}

// Snapshot copies the UI-facing state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	maxLev := 1
	if c.symbol != "" {
		if m, ok := c.maxLev[c.symbol]; ok && m >= 1 {
			maxLev = m
		}
	}
	return Snapshot{
		Phase:         c.phase,
		Sector:        c.sector,
		Symbol:        c.symbol,
		Symbols:       append([]string(nil), c.symbols...),
		Leverage:      c.leverage,
		MaxLeverage:   maxLev,
		Size:          c.size,
		Price:         c.price,
		HasPrice:      c.hasPrice,
		Balance:       c.balance,
		Positions:     append([]domain.Position(nil), c.positions...),
		Transactions:  append([]domain.Transaction(nil), c.transactions...),
		WalletBalance: c.walletBalance,
		Pool:          c.pool,
	}
}

// Busy reports whether a user-triggered action currently holds the gate.
func (c *Controller) Busy() bool {
	return c.gate.Busy()
}
