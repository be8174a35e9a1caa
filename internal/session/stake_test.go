package session

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/trivex/trivex-go/internal/domain"
	"github.com/trivex/trivex-go/internal/ports"
)

func TestUnstakeRefreshesStakedBalance(t *testing.T) {
	ctrl, _, br, rec := newTestController()
	br.setStaked(decimal.NewFromInt(100))
	br.TotalPool = decimal.NewFromInt(5000)
	br.Rate = decimal.NewFromInt(12)
	ctx := context.Background()

	if _, err := ctrl.PrepareUnstake(ctx); err != nil {
		t.Fatalf("PrepareUnstake: %v", err)
	}
	if got := ctrl.Snapshot().Pool.StakedBalance; !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("staked = %s, want 100", got)
	}

	// The on-chain figure moves once the unstake lands.
	br.setStaked(decimal.NewFromInt(60))
	if err := ctrl.Unstake(ctx, decimal.NewFromInt(40)); err != nil {
		t.Fatalf("Unstake: %v", err)
	}

	pool := ctrl.Snapshot().Pool
	if !pool.StakedBalance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("staked after unstake = %s, want re-read 60", pool.StakedBalance)
	}
	if !pool.APY.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("apy = %s, want 12", pool.APY)
	}
	if !rec.Contains("Unstake completed successfully!") {
		t.Fatalf("missing success message, got %v", rec.Messages)
	}
}

func TestStakeSuccess(t *testing.T) {
	ctrl, _, br, rec := newTestController()

	if err := ctrl.Stake(context.Background(), decimal.NewFromInt(50)); err != nil {
		t.Fatalf("Stake: %v", err)
	}
	if got := br.count("Stake"); got != 1 {
		t.Fatalf("bridge Stake calls = %d, want 1", got)
	}
	if got := br.count("StakedBalance"); got != 1 {
		t.Fatalf("StakedBalance calls = %d, pool must refresh after stake", got)
	}
	if !rec.Contains("Stake completed successfully!") {
		t.Fatalf("missing success message, got %v", rec.Messages)
	}
}

func TestStakeDeclined(t *testing.T) {
	ctrl, _, br, rec := newTestController()
	br.ErrorOnNext["Stake"] = domain.NewFault(domain.FaultUserCancelled, "stake", errors.New("signer declined"))

	err := ctrl.Stake(context.Background(), decimal.NewFromInt(50))
	if domain.KindOf(err) != domain.FaultUserCancelled {
		t.Fatalf("kind = %q, want user_cancelled", domain.KindOf(err))
	}
	if got := br.count("StakedBalance"); got != 0 {
		t.Fatalf("StakedBalance calls = %d, no refresh on a declined action", got)
	}
	if !rec.Contains("Transaction aborted by user.") {
		t.Fatalf("missing abort message, got %v", rec.Messages)
	}
}

func TestStakeAllowedWithoutWhitelist(t *testing.T) {
	ctrl, _, br, _ := newTestController()
	ctrl.sess.Whitelisted = false

	if err := ctrl.Stake(context.Background(), decimal.NewFromInt(10)); err != nil {
		t.Fatalf("Stake without whitelist: %v", err)
	}
	if got := br.count("Stake"); got != 1 {
		t.Fatalf("bridge Stake calls = %d, want 1", got)
	}
}

func TestStakeRequiresWallet(t *testing.T) {
	be := newMockBackend()
	br := newMockBridge()
	ctrl := NewController(&Session{}, Deps{
		Catalog: be, Prices: be, Ledger: be, Book: be, Orders: be, Bridge: br,
		Notify: ports.NotifierFunc(func(string) {}),
	})

	err := ctrl.Stake(context.Background(), decimal.NewFromInt(10))
	if domain.KindOf(err) != domain.FaultValidation {
		t.Fatalf("kind = %q, want validation", domain.KindOf(err))
	}
	if got := br.count("Stake"); got != 0 {
		t.Fatalf("bridge Stake calls = %d, want 0", got)
	}
}

func TestRefreshPoolKeepsPriorOnError(t *testing.T) {
	ctrl, _, br, _ := newTestController()
	br.setStaked(decimal.NewFromInt(100))
	br.TotalPool = decimal.NewFromInt(5000)
	br.Rate = decimal.NewFromInt(12)
	ctx := context.Background()

	ctrl.RefreshPool(ctx)

	br.ErrorOnNext["TotalStaked"] = errors.New("rpc timeout")
	br.setStaked(decimal.NewFromInt(150))
	ctrl.RefreshPool(ctx)

	pool := ctrl.Snapshot().Pool
	if !pool.StakedBalance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("staked = %s, want 150", pool.StakedBalance)
	}
	if !pool.TotalPoolBalance.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("total = %s, failed read must keep the prior value", pool.TotalPoolBalance)
	}
}

func TestPrepareStake(t *testing.T) {
	ctrl, _, br, rec := newTestController()
	br.OnChain = decimal.NewFromInt(80)

	got, err := ctrl.PrepareStake(context.Background())
	if err != nil {
		t.Fatalf("PrepareStake: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("cap = %s, want 80", got)
	}

	br.ErrorOnNext["WalletBalance"] = errors.New("rpc timeout")
	if _, err := ctrl.PrepareStake(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if !rec.Contains("Failed to fetch wallet balance.") {
		t.Fatalf("missing failure message, got %v", rec.Messages)
	}
}
