package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OnChainOpState is the lifecycle state of one in-flight contract call.
type OnChainOpState string

const (
	OpSubmitted OnChainOpState = "submitted"
	OpConfirmed OnChainOpState = "confirmed"
	OpAborted   OnChainOpState = "aborted" // signer declined before broadcast
	OpFailed    OnChainOpState = "failed"  // reverted or RPC error
)

// PendingOnChainOp tracks a single contract write from submission to its
// terminal state. It lives only for the duration of the call and is owned by
// the bridge; it is never persisted or shared.
type PendingOnChainOp struct {
	ID          uuid.UUID
	Entrypoint  string
	Wallet      string
	Amount      decimal.Decimal
	State       OnChainOpState
	SubmittedAt time.Time
	TxHash      string
}

// NewPendingOp creates an op in the Submitted state.
func NewPendingOp(entrypoint, wallet string, amount decimal.Decimal) *PendingOnChainOp {
	return &PendingOnChainOp{
		ID:          uuid.New(),
		Entrypoint:  entrypoint,
		Wallet:      wallet,
		Amount:      amount,
		State:       OpSubmitted,
		SubmittedAt: time.Now(),
	}
}

// Terminal reports whether the op reached a final state.
func (op *PendingOnChainOp) Terminal() bool {
	return op.State == OpConfirmed || op.State == OpAborted || op.State == OpFailed
}

// Confirm marks the op confirmed. Any returned transaction result is treated
// as terminal success; the bridge does not poll for block confirmation.
func (op *PendingOnChainOp) Confirm(txHash string) {
	op.State = OpConfirmed
	op.TxHash = txHash
}

func (op *PendingOnChainOp) Abort() {
	op.State = OpAborted
}

func (op *PendingOnChainOp) Fail() {
	op.State = OpFailed
}
