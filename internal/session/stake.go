package session

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/trivex/trivex-go/internal/domain"
)

// Stake-page flows. Staking needs a connected wallet but not the trading
// whitelist.

func (c *Controller) requireConnected(op string) error {
	if !c.sess.Connected() {
		return domain.Validationf(op, "wallet not connected")
	}
	return nil
}

// RefreshPool re-reads the wallet's staked balance, the pool total and the
// APY. A failed read keeps its prior value.
func (c *Controller) RefreshPool(ctx context.Context) {
	addr := c.sess.WalletAddress

	staked, stakedErr := c.deps.Bridge.StakedBalance(ctx, addr)
	if stakedErr != nil {
		log.WithError(stakedErr).Warn("staked balance refresh failed, keeping last known value")
	}
	total, totalErr := c.deps.Bridge.TotalStaked(ctx)
	if totalErr != nil {
		log.WithError(totalErr).Warn("pool total refresh failed, keeping last known value")
	}
	apy, apyErr := c.deps.Bridge.APY(ctx)
	if apyErr != nil {
		log.WithError(apyErr).Warn("apy refresh failed, keeping last known value")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if stakedErr == nil {
		c.pool.StakedBalance = staked
	}
	if totalErr == nil {
		c.pool.TotalPoolBalance = total
	}
	if apyErr == nil {
		c.pool.APY = apy
	}
	if err := c.pool.Validate(); err != nil {
		log.WithError(err).Warn("inconsistent pool snapshot")
	}
}

// PrepareStake fetches the wallet balance the stake dialog is capped by.
// The dialog only opens when this succeeds.
func (c *Controller) PrepareStake(ctx context.Context) (decimal.Decimal, error) {
	if err := c.requireConnected("stake"); err != nil {
		return decimal.Zero, err
	}
	balance, err := c.deps.Bridge.WalletBalance(ctx, c.sess.WalletAddress)
	if err != nil {
		c.notify("Failed to fetch wallet balance.")
		return decimal.Zero, err
	}
	return balance, nil
}

// PrepareUnstake fetches the staked balance the unstake dialog is capped by.
func (c *Controller) PrepareUnstake(ctx context.Context) (decimal.Decimal, error) {
	if err := c.requireConnected("unstake"); err != nil {
		return decimal.Zero, err
	}
	staked, err := c.deps.Bridge.StakedBalance(ctx, c.sess.WalletAddress)
	if err != nil {
		log.WithError(err).Error("staked balance fetch failed")
		return decimal.Zero, err
	}
	c.mu.Lock()
	c.pool.StakedBalance = staked
	c.mu.Unlock()
	return staked, nil
}

// Stake moves amount into the trading pool, then refreshes the pool view.
func (c *Controller) Stake(ctx context.Context, amount decimal.Decimal) error {
	return c.poolAction(ctx, "stake", amount)
}

// Unstake withdraws amount from the pool. On success the staked balance is
// re-read so the displayed figure reflects the new on-chain value.
func (c *Controller) Unstake(ctx context.Context, amount decimal.Decimal) error {
	return c.poolAction(ctx, "unstake", amount)
}

func (c *Controller) poolAction(ctx context.Context, op string, amount decimal.Decimal) error {
	if err := c.requireConnected(op); err != nil {
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
	if op == "stake" {
		err = c.deps.Bridge.Stake(ctx, amount)
	} else {
		err = c.deps.Bridge.Unstake(ctx, amount)
	}
	if err != nil {
		if domain.KindOf(err) == domain.FaultUserCancelled {
			c.notify(domain.FaultUserCancelled.Message())
		} else {
			c.notify(domain.FaultTransaction.Message())
		}
		return err
	}

	c.RefreshPool(ctx)
	if op == "stake" {
		c.notify("Stake completed successfully!")
	} else {
		c.notify("Unstake completed successfully!")
	}
	return nil
}
