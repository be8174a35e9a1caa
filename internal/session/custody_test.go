package session

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/trivex/trivex-go/internal/domain"
)

func TestDepositSuccess(t *testing.T) {
	ctrl, be, br, rec := newTestController()
	be.Balance = decimal.NewFromInt(1000)
	br.OnChain = decimal.NewFromInt(75)

	if err := ctrl.Deposit(context.Background(), decimal.NewFromInt(25)); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	if got := br.count("Deposit"); got != 1 {
		t.Fatalf("bridge Deposit calls = %d, want 1", got)
	}
	if got := be.count("RecordAction"); got != 1 {
		t.Fatalf("RecordAction calls = %d, want 1", got)
	}
	if got := be.count("GetTransactions"); got != 1 {
		t.Fatalf("GetTransactions calls = %d, settings refresh must follow", got)
	}
	if !rec.Contains("Deposit completed successfully!") {
		t.Fatalf("missing success message, got %v", rec.Messages)
	}
	if !ctrl.Snapshot().WalletBalance.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("wallet balance = %s, want 75", ctrl.Snapshot().WalletBalance)
	}
}

func TestDepositDeclinedSkipsLedger(t *testing.T) {
	ctrl, be, br, rec := newTestController()
	br.ErrorOnNext["Deposit"] = domain.NewFault(domain.FaultUserCancelled, "deposit", errors.New("signer declined"))

	err := ctrl.Deposit(context.Background(), decimal.NewFromInt(25))
	if domain.KindOf(err) != domain.FaultUserCancelled {
		t.Fatalf("kind = %q, want user_cancelled", domain.KindOf(err))
	}
	if got := be.count("RecordAction"); got != 0 {
		t.Fatalf("RecordAction calls = %d, nothing moved so the ledger stays untouched", got)
	}
	if !rec.Contains("Transaction aborted by user.") {
		t.Fatalf("missing abort message, got %v", rec.Messages)
	}
}

func TestDepositLedgerSyncFailure(t *testing.T) {
	ctrl, be, _, rec := newTestController()
	be.ErrorOnNext["RecordAction"] = errors.New("http 502")

	err := ctrl.Deposit(context.Background(), decimal.NewFromInt(25))
	if domain.KindOf(err) != domain.FaultLedgerSync {
		t.Fatalf("kind = %q, want ledger_sync", domain.KindOf(err))
	}
	if !rec.Contains("Failed to update balance.") {
		t.Fatalf("missing ledger-sync message, got %v", rec.Messages)
	}
	// The on-chain leg stands; the view is re-read anyway.
	if got := be.count("GetTransactions"); got != 1 {
		t.Fatalf("GetTransactions calls = %d, want 1", got)
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	ctrl, _, br, _ := newTestController()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		err := ctrl.Deposit(context.Background(), amount)
		if domain.KindOf(err) != domain.FaultValidation {
			t.Fatalf("Deposit(%s) kind = %q, want validation", amount, domain.KindOf(err))
		}
	}
	if got := br.count("Deposit"); got != 0 {
		t.Fatalf("bridge Deposit calls = %d, want 0", got)
	}
}

func TestWithdrawSuccess(t *testing.T) {
	ctrl, be, br, rec := newTestController()

	if err := ctrl.Withdraw(context.Background(), decimal.NewFromInt(10)); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if got := br.count("Withdraw"); got != 1 {
		t.Fatalf("bridge Withdraw calls = %d, want 1", got)
	}
	if got := be.count("RecordAction"); got != 1 {
		t.Fatalf("RecordAction calls = %d, want 1", got)
	}
	if !rec.Contains("Withdrawal completed successfully!") {
		t.Fatalf("missing success message, got %v", rec.Messages)
	}
}

func TestRefreshSettingsKeepsPriorOnFailure(t *testing.T) {
	ctrl, be, br, _ := newTestController()
	be.Balance = decimal.NewFromInt(900)
	br.OnChain = decimal.NewFromInt(40)
	ctx := context.Background()

	ctrl.RefreshSettings(ctx)
	if got := ctrl.Snapshot().WalletBalance; !got.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("wallet balance = %s, want 40", got)
	}

	br.ErrorOnNext["WalletBalance"] = errors.New("rpc timeout")
	be.ErrorOnNext["GetBalance"] = errors.New("http 500")
	ctrl.RefreshSettings(ctx)

	snap := ctrl.Snapshot()
	if !snap.WalletBalance.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("wallet balance = %s, failed read must keep the prior value", snap.WalletBalance)
	}
	if !snap.Balance.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("balance = %s, failed read must keep the prior value", snap.Balance)
	}
}

func TestWalletCustodyBalance(t *testing.T) {
	ctrl, _, br, _ := newTestController()
	br.OnChain = decimal.RequireFromString("12.5")

	got, err := ctrl.WalletCustodyBalance(context.Background())
	if err != nil {
		t.Fatalf("WalletCustodyBalance: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("balance = %s, want 12.5", got)
	}

	br.ErrorOnNext["WalletBalance"] = errors.New("rpc timeout")
	if _, err := ctrl.WalletCustodyBalance(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
