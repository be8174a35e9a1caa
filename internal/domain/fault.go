package domain

import (
	"errors"
	"fmt"
)

// FaultKind classifies every failure an action boundary can surface.
type FaultKind string

const (
	// FaultValidation: rejected locally, no network call was attempted.
	FaultValidation FaultKind = "validation"
	// FaultNetwork: transport or backend failure; state keeps its prior value.
	FaultNetwork FaultKind = "network"
	// FaultUserCancelled: the wallet signer declined before broadcast.
	FaultUserCancelled FaultKind = "user_cancelled"
	// FaultTransaction: contract reverted or on-chain/RPC error.
	FaultTransaction FaultKind = "transaction_failed"
	// FaultLedgerSync: the on-chain transfer confirmed but the backend
	// ledger update failed afterwards. The two are not transactional; the
	// on-chain effect stands and the ledger is now out of sync.
	FaultLedgerSync FaultKind = "ledger_sync"
	// FaultInvalidQuote: the price endpoint answered but the value is not
	// numeric. The previous valid price must not be overwritten.
	FaultInvalidQuote FaultKind = "invalid_quote"
	// FaultBusy: another user-triggered action holds the session gate.
	FaultBusy FaultKind = "busy"
)

// Fault wraps a component failure with the action it broke and its kind.
// All failures are caught at the action boundary and become one of these;
// none propagate as uncaught faults.
type Fault struct {
	Kind FaultKind
	Op   string
	Err  error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Op, f.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", f.Op, f.Kind, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// NewFault builds a classified fault.
func NewFault(kind FaultKind, op string, err error) *Fault {
	return &Fault{Kind: kind, Op: op, Err: err}
}

// Validationf builds a validation fault with a formatted reason.
func Validationf(op, format string, args ...interface{}) *Fault {
	return &Fault{Kind: FaultValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the classification from an error chain. Unclassified
// errors are treated as network failures, the conservative default for a
// client talking to remote collaborators.
func KindOf(err error) FaultKind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return FaultNetwork
}

// Message is the user-visible outcome for each failure kind. Rendering is a
// UI concern; the wording is core behavior and covered by tests.
func (k FaultKind) Message() string {
	switch k {
	case FaultValidation:
		return "Please fill in all fields before proceeding."
	case FaultUserCancelled:
		return "Transaction aborted by user."
	case FaultTransaction:
		return "An unexpected error occurred. Please try again."
	case FaultLedgerSync:
		return "Failed to update balance."
	case FaultInvalidQuote:
		return "Failed to fetch the current price. Please try again."
	case FaultBusy:
		return "Another action is still in progress."
	default:
		return "A network error occurred. Please try again."
	}
}
