package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// StakeAccount is the per-wallet view of the on-chain staking pool.
type StakeAccount struct {
	StakedBalance    decimal.Decimal
	TotalPoolBalance decimal.Decimal
	APY              decimal.Decimal
}

// Validate checks the pool invariant: a wallet can never hold more of the
// pool than the pool total.
func (a StakeAccount) Validate() error {
	if a.StakedBalance.GreaterThan(a.TotalPoolBalance) {
		return fmt.Errorf("staked balance %s exceeds pool total %s",
			a.StakedBalance, a.TotalPoolBalance)
	}
	return nil
}
