package backend

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/trivex/trivex-go/internal/domain"
)

// GetBalance reads the off-chain custodial balance: the first entry of the
// balances collection. An empty collection is a legitimate zero, distinct
// from a transport failure where the caller keeps its last-known value.
func (c *Client) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	var balances []balanceEntry
	if err := c.get(ctx, walletPath(address, "balances"), &balances); err != nil {
		return decimal.Zero, err
	}
	if len(balances) == 0 {
		return decimal.Zero, nil
	}
	return balances[0].Amount, nil
}

// GetPortfolio reads the wallet's open positions.
func (c *Client) GetPortfolio(ctx context.Context, address string) ([]domain.Position, error) {
	var entries []positionEntry
	if err := c.get(ctx, walletPath(address, "portfolio"), &entries); err != nil {
		return nil, err
	}
	positions := make([]domain.Position, 0, len(entries))
	for _, e := range entries {
		positions = append(positions, domain.Position{
			Symbol:       e.Symbol,
			Quantity:     e.Quantity,
			AveragePrice: e.AveragePrice,
		})
	}
	return positions, nil
}

// GetTransactions reads the wallet's transaction history in backend order.
func (c *Client) GetTransactions(ctx context.Context, address string) ([]domain.Transaction, error) {
	var entries []transactionEntry
	if err := c.get(ctx, walletPath(address, "transactions"), &entries); err != nil {
		return nil, err
	}
	txs := make([]domain.Transaction, 0, len(entries))
	for _, e := range entries {
		txs = append(txs, domain.Transaction{
			ID:        int64(e.TransactionID),
			Type:      e.Type,
			Symbol:    e.Symbol,
			Amount:    e.Amount,
			Price:     e.Price,
			Timestamp: parseTimestamp(e.Timestamp),
		})
	}
	return txs, nil
}

// RecordAction informs the backend ledger after a confirmed on-chain
// transfer. The on-chain leg and this call are not transactional: a failure
// here leaves the ledger out of sync and is reported as such, but the
// transfer stands.
func (c *Client) RecordAction(ctx context.Context, address string, amount, currentBalance decimal.Decimal, action domain.LedgerAction) error {
	body := actionBody{
		WalletAddress: address,
		Amount:        amount,
		Balance:       currentBalance,
		Action:        string(action),
	}
	if err := c.post(ctx, "/action", body, nil); err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"action": action,
			"amount": amount,
		}).Error("ledger action record failed")
		return domain.NewFault(domain.FaultLedgerSync, "POST /action", err)
	}
	return nil
}
