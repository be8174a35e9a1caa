package session

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/trivex/trivex-go/internal/domain"
)

// Settings-page flows: custodial balance, portfolio, history, and the
// deposit/withdraw protocol against the settlement contract.

// RefreshSettings re-reads everything the settings page shows: ledger
// balance, portfolio, transaction history and the wallet's on-chain custody
// balance. Each read is independent; a failed one keeps its prior value.
func (c *Controller) RefreshSettings(ctx context.Context) {
	c.refreshUserInfo(ctx)

	addr := c.sess.WalletAddress
	if txs, err := c.deps.Book.GetTransactions(ctx, addr); err != nil {
		log.WithError(err).Warn("transactions refresh failed, keeping last known value")
	} else {
		c.mu.Lock()
		c.transactions = txs
		c.mu.Unlock()
	}

	if onchain, err := c.deps.Bridge.WalletBalance(ctx, addr); err != nil {
		log.WithError(err).Warn("on-chain balance refresh failed, keeping last known value")
	} else {
		c.mu.Lock()
		c.walletBalance = onchain
		c.mu.Unlock()
	}
}

// WalletCustodyBalance fetches the on-chain custody balance, used to cap
// the amount offered by the deposit dialog right before it opens.
func (c *Controller) WalletCustodyBalance(ctx context.Context) (decimal.Decimal, error) {
	balance, err := c.deps.Bridge.WalletBalance(ctx, c.sess.WalletAddress)
	if err != nil {
		log.WithError(err).Error("wallet custody balance fetch failed")
		return decimal.Zero, err
	}
	c.mu.Lock()
	c.walletBalance = balance
	c.mu.Unlock()
	return balance, nil
}

// Deposit runs the custody transfer into the contract and records it on the
// backend ledger once the on-chain leg confirmed.
func (c *Controller) Deposit(ctx context.Context, amount decimal.Decimal) error {
	return c.custodyAction(ctx, domain.ActionDeposit, amount)
}

// Withdraw runs the custody transfer out of the contract.
func (c *Controller) Withdraw(ctx context.Context, amount decimal.Decimal) error {
	return c.custodyAction(ctx, domain.ActionWithdraw, amount)
}

func (c *Controller) custodyAction(ctx context.Context, action domain.LedgerAction, amount decimal.Decimal) error {
	op := string(action)
	if err := c.requireTradable(op); err != nil {
		return err
	}
	if !c.gate.TryAcquire() {
		f := domain.NewFault(domain.FaultBusy, op, nil)
		c.notify(f.Kind.Message())
		return f
	}
	defer c.gate.Release()

	if !amount.IsPositive() {
		return domain.Validationf(op, "amount must be greater than zero")
	}

	var err error
	if action == domain.ActionDeposit {
		err = c.deps.Bridge.Deposit(ctx, amount)
	} else {
		err = c.deps.Bridge.Withdraw(ctx, amount)
	}
	if err != nil {
		// A decline happened before broadcast: nothing moved, so the ledger
		// is not told anything. Any other failure is terminal for this call.
		if domain.KindOf(err) == domain.FaultUserCancelled {
			c.notify(domain.FaultUserCancelled.Message())
		} else {
			c.notify(domain.FaultTransaction.Message())
		}
		return err
	}

	c.mu.Lock()
	current := c.balance
	addr := c.sess.WalletAddress
	c.mu.Unlock()

	if err := c.deps.Ledger.RecordAction(ctx, addr, amount, current, action); err != nil {
		// The transfer stands; only the off-chain ledger is behind now.
		c.notify(domain.FaultLedgerSync.Message())
		c.RefreshSettings(ctx)
		return err
	}

	c.RefreshSettings(ctx)
	if action == domain.ActionDeposit {
		c.notify("Deposit completed successfully!")
	} else {
		c.notify("Withdrawal completed successfully!")
	}
	return nil
}
