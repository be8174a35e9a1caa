package domain

// LedgerAction names the custody transfer reported to the backend ledger
// after the on-chain leg confirmed.
type LedgerAction string

const (
	ActionDeposit  LedgerAction = "deposit"
	ActionWithdraw LedgerAction = "withdraw"
)
