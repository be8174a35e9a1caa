package session

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/trivex/trivex-go/internal/domain"
	"github.com/trivex/trivex-go/internal/ports"
)

// mockBackend implements the backend-facing ports with call tracking and
// error injection.
type mockBackend struct {
	mu sync.Mutex

	Symbols     []string
	Leverages   map[string]int
	Prices      map[string]decimal.Decimal
	Balance     decimal.Decimal
	Positions   []domain.Position
	Txs         []domain.Transaction
	OpenStatus  error
	CloseStatus error

	// Hooks run inside the corresponding call, before returning.
	OnListSymbols func()
	GetPriceFn    func(symbol string, sector domain.Sector) (decimal.Decimal, error)
	OnOpenOrder   func()

	Calls       map[string]int
	ErrorOnNext map[string]error

	LastOpen ports.OpenOrderRequest
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		Leverages:   map[string]int{},
		Prices:      map[string]decimal.Decimal{},
		Calls:       map[string]int{},
		ErrorOnNext: map[string]error{},
	}
}

func (m *mockBackend) track(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[name]++
	if err, ok := m.ErrorOnNext[name]; ok {
		delete(m.ErrorOnNext, name)
		return err
	}
	return nil
}

func (m *mockBackend) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

func (m *mockBackend) ListSymbols(ctx context.Context, sector domain.Sector) ([]string, map[string]int, error) {
	if m.OnListSymbols != nil {
		m.OnListSymbols()
	}
	if err := m.track("ListSymbols"); err != nil {
		return nil, nil, err
	}
	return m.Symbols, m.Leverages, nil
}

func (m *mockBackend) GetPrice(ctx context.Context, symbol string, sector domain.Sector) (decimal.Decimal, error) {
	if err := m.track("GetPrice"); err != nil {
		return decimal.Zero, err
	}
	if m.GetPriceFn != nil {
		return m.GetPriceFn(symbol, sector)
	}
	return m.Prices[domain.PriceKey(symbol, sector)], nil
}

func (m *mockBackend) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	if err := m.track("GetBalance"); err != nil {
		return decimal.Zero, err
	}
	return m.Balance, nil
}

func (m *mockBackend) RecordAction(ctx context.Context, address string, amount, currentBalance decimal.Decimal, action domain.LedgerAction) error {
	if err := m.track("RecordAction"); err != nil {
		return domain.NewFault(domain.FaultLedgerSync, "record action", err)
	}
	return nil
}

func (m *mockBackend) GetPortfolio(ctx context.Context, address string) ([]domain.Position, error) {
	if err := m.track("GetPortfolio"); err != nil {
		return nil, err
	}
	return m.Positions, nil
}

func (m *mockBackend) GetTransactions(ctx context.Context, address string) ([]domain.Transaction, error) {
	if err := m.track("GetTransactions"); err != nil {
		return nil, err
	}
	return m.Txs, nil
}

func (m *mockBackend) OpenOrder(ctx context.Context, req ports.OpenOrderRequest) error {
	m.mu.Lock()
	m.LastOpen = req
	m.mu.Unlock()
	if m.OnOpenOrder != nil {
		m.OnOpenOrder()
	}
	if err := m.track("OpenOrder"); err != nil {
		return err
	}
	return m.OpenStatus
}

func (m *mockBackend) CloseOrder(ctx context.Context, symbol string, sector domain.Sector) error {
	if err := m.track("CloseOrder"); err != nil {
		return err
	}
	return m.CloseStatus
}

// mockBridge implements ports.ContractBridge.
type mockBridge struct {
	mu sync.Mutex

	OnChain   decimal.Decimal
	Staked    decimal.Decimal
	TotalPool decimal.Decimal
	Rate      decimal.Decimal
	WriteErr  error

	Calls       map[string]int
	ErrorOnNext map[string]error
}

func newMockBridge() *mockBridge {
	return &mockBridge{
		Calls:       map[string]int{},
		ErrorOnNext: map[string]error{},
	}
}

func (m *mockBridge) track(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[name]++
	if err, ok := m.ErrorOnNext[name]; ok {
		delete(m.ErrorOnNext, name)
		return err
	}
	return nil
}

func (m *mockBridge) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

func (m *mockBridge) WalletBalance(ctx context.Context, walletAddr string) (decimal.Decimal, error) {
	if err := m.track("WalletBalance"); err != nil {
		return decimal.Zero, err
	}
	return m.OnChain, nil
}

func (m *mockBridge) write(name string) error {
	if err := m.track(name); err != nil {
		return err
	}
	return m.WriteErr
}

func (m *mockBridge) Deposit(ctx context.Context, amount decimal.Decimal) error {
	return m.write("Deposit")
}

func (m *mockBridge) Withdraw(ctx context.Context, amount decimal.Decimal) error {
	return m.write("Withdraw")
}

func (m *mockBridge) Stake(ctx context.Context, amount decimal.Decimal) error {
	return m.write("Stake")
}

func (m *mockBridge) Unstake(ctx context.Context, amount decimal.Decimal) error {
	return m.write("Unstake")
}

func (m *mockBridge) StakedBalance(ctx context.Context, walletAddr string) (decimal.Decimal, error) {
	if err := m.track("StakedBalance"); err != nil {
		return decimal.Zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Staked, nil
}

func (m *mockBridge) TotalStaked(ctx context.Context) (decimal.Decimal, error) {
	if err := m.track("TotalStaked"); err != nil {
		return decimal.Zero, err
	}
	return m.TotalPool, nil
}

func (m *mockBridge) APY(ctx context.Context) (decimal.Decimal, error) {
	if err := m.track("APY"); err != nil {
		return decimal.Zero, err
	}
	return m.Rate, nil
}

func (m *mockBridge) setStaked(v decimal.Decimal) {
	m.mu.Lock()
	m.Staked = v
	m.mu.Unlock()
}

// recorder collects user-visible messages.
type recorder struct {
	mu       sync.Mutex
	Messages []string
}

func (r *recorder) Notify(msg string) {
	r.mu.Lock()
	r.Messages = append(r.Messages, msg)
	r.mu.Unlock()
}

func (r *recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1]
}

func (r *recorder) Contains(msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.Messages {
		if m == msg {
			return true
		}
	}
	return false
}

func newTestController() (*Controller, *mockBackend, *mockBridge, *recorder) {
	be := newMockBackend()
	br := newMockBridge()
	rec := &recorder{}
	sess := &Session{WalletAddress: "0xabc", Whitelisted: true}
	ctrl := NewController(sess, Deps{
		Catalog: be,
		Prices:  be,
		Ledger:  be,
		Book:    be,
		Orders:  be,
		Bridge:  br,
		Notify:  rec,
	})
	return ctrl, be, br, rec
}
