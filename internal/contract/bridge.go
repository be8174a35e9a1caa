// Package contract executes on-chain operations against the settlement
// contract. Reads go through the network provider and work without a
// signer; writes are signed by the session's wallet account and are
// terminal once submitted.
package contract

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/trivex/trivex-go/internal/domain"
	"github.com/trivex/trivex-go/internal/session"
	"github.com/trivex/trivex-go/internal/wallet"
)

var log = logrus.WithField("component", "contract")

// TokenDecimals is the collateral token precision. Display amounts are
// scaled by 10^6 into base units on the wire.
const TokenDecimals = 6

// caller is the subset of ethclient the bridge needs; tests substitute it.
type caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
}

// Config locates the settlement deployment.
type Config struct {
	RPCURL            string
	ChainID           int64
	SettlementAddress string
	TokenAddress      string
}

// Bridge drives the settlement contract for one session.
type Bridge struct {
	client        caller
	settlement    common.Address
	token         common.Address
	settlementABI abi.ABI
	erc20ABI      abi.ABI
	chainID       *big.Int
	sess          *session.Session

	// One signing request at a time: the wallet account is shared across
	// all writes in a session.
	writeMu sync.Mutex
}

// NewBridge dials the RPC node and binds the bridge to a session.
func NewBridge(cfg Config, sess *session.Session) (*Bridge, error) {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial rpc node")
	}
	return newBridge(client, cfg, sess)
}

func newBridge(client caller, cfg Config, sess *session.Session) (*Bridge, error) {
	settlementABI, err := abi.JSON(strings.NewReader(SettlementABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse settlement abi")
	}
	erc20ABI, err := abi.JSON(strings.NewReader(ERC20ApproveABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse erc20 abi")
	}
	return &Bridge{
		client:        client,
		settlement:    common.HexToAddress(cfg.SettlementAddress),
		token:         common.HexToAddress(cfg.TokenAddress),
		settlementABI: settlementABI,
		erc20ABI:      erc20ABI,
		chainID:       big.NewInt(cfg.ChainID),
		sess:          sess,
	}, nil
}

// ToBaseUnits converts a display amount to base units, truncating anything
// below token precision.
func ToBaseUnits(amount decimal.Decimal) *big.Int {
	return amount.Shift(TokenDecimals).Truncate(0).BigInt()
}

// FromBaseUnits converts a raw contract value back to display units.
func FromBaseUnits(v *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(v, -TokenDecimals)
}

// --- reads ---

func (b *Bridge) callUint(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	data, err := b.settlementABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}
	raw, err := b.client.CallContract(ctx, ethereum.CallMsg{To: &b.settlement, Data: data}, nil)
	if err != nil {
		return nil, domain.NewFault(domain.FaultNetwork, method, err)
	}
	out, err := b.settlementABI.Unpack(method, raw)
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s", method)
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("%s: unexpected result type %T", method, out[0])
	}
	return v, nil
}

// WalletBalance reads the wallet's custody balance on the contract. This is
// the on-chain figure, independent from the backend's custodial ledger.
func (b *Bridge) WalletBalance(ctx context.Context, walletAddr string) (decimal.Decimal, error) {
	v, err := b.callUint(ctx, "get_balance", b.token, common.HexToAddress(walletAddr))
	if err != nil {
		return decimal.Zero, err
	}
	return FromBaseUnits(v), nil
}

// StakedBalance reads the wallet's share of the staking pool.
func (b *Bridge) StakedBalance(ctx context.Context, walletAddr string) (decimal.Decimal, error) {
	v, err := b.callUint(ctx, "get_staked_balance", common.HexToAddress(walletAddr))
	if err != nil {
		return decimal.Zero, err
	}
	return FromBaseUnits(v), nil
}

// TotalStaked reads the pool total.
func (b *Bridge) TotalStaked(ctx context.Context) (decimal.Decimal, error) {
	v, err := b.callUint(ctx, "get_total_staked")
	if err != nil {
		return decimal.Zero, err
	}
	return FromBaseUnits(v), nil
}

// APY reads the pool yield as an integer percentage.
func (b *Bridge) APY(ctx context.Context) (decimal.Decimal, error) {
	v, err := b.callUint(ctx, "get_apy")
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(v, 0), nil
}

// --- writes ---

// Deposit moves amount from the wallet into custody: approve, then the
// deposit entrypoint.
func (b *Bridge) Deposit(ctx context.Context, amount decimal.Decimal) error {
	return b.execCustody(ctx, "deposit", amount)
}

// Withdraw moves amount out of custody back to the wallet.
func (b *Bridge) Withdraw(ctx context.Context, amount decimal.Decimal) error {
	return b.execCustody(ctx, "withdraw", amount)
}

// Stake moves amount into the staking pool. No token approval step: the
// pool draws from custody, not from the wallet's token balance.
func (b *Bridge) Stake(ctx context.Context, amount decimal.Decimal) error {
	return b.execPool(ctx, "stake", amount)
}

// Unstake withdraws amount from the staking pool.
func (b *Bridge) Unstake(ctx context.Context, amount decimal.Decimal) error {
	return b.execPool(ctx, "unstake", amount)
}

func (b *Bridge) execCustody(ctx context.Context, entrypoint string, amount decimal.Decimal) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	op := domain.NewPendingOp(entrypoint, b.sess.WalletAddress, amount)
	base := ToBaseUnits(amount)
	walletAddr := common.HexToAddress(b.sess.WalletAddress)

	// Authorize the settlement contract to move the token amount first.
	if _, err := b.submit(ctx, b.token, b.erc20ABI, "approve", b.settlement, base); err != nil {
		return b.finish(op, err)
	}

	tx, err := b.submit(ctx, b.settlement, b.settlementABI, entrypoint, walletAddr, base, b.token)
	if err != nil {
		return b.finish(op, err)
	}
	op.Confirm(tx.Hash().Hex())
	log.WithFields(map[string]interface{}{
		"op":     op.Entrypoint,
		"id":     op.ID,
		"amount": amount,
		"tx":     op.TxHash,
	}).Info("custody operation confirmed")
	return nil
}

func (b *Bridge) execPool(ctx context.Context, entrypoint string, amount decimal.Decimal) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	op := domain.NewPendingOp(entrypoint, b.sess.WalletAddress, amount)
	base := ToBaseUnits(amount)
	walletAddr := common.HexToAddress(b.sess.WalletAddress)

	tx, err := b.submit(ctx, b.settlement, b.settlementABI, entrypoint, walletAddr, base)
	if err != nil {
		return b.finish(op, err)
	}
	op.Confirm(tx.Hash().Hex())
	log.WithFields(map[string]interface{}{
		"op":     op.Entrypoint,
		"id":     op.ID,
		"amount": amount,
		"tx":     op.TxHash,
	}).Info("pool operation confirmed")
	return nil
}

// finish classifies a write failure and settles the pending op. A signer
// decline happened before broadcast; everything else is a terminal
// transaction failure. Neither is retried here.
func (b *Bridge) finish(op *domain.PendingOnChainOp, err error) error {
	if wallet.IsDeclined(err) {
		op.Abort()
		log.WithFields(map[string]interface{}{
			"op": op.Entrypoint,
			"id": op.ID,
		}).Info("operation aborted by user")
		return domain.NewFault(domain.FaultUserCancelled, op.Entrypoint, err)
	}
	op.Fail()
	log.WithError(err).WithFields(map[string]interface{}{
		"op": op.Entrypoint,
		"id": op.ID,
	}).Error("operation failed")
	return domain.NewFault(domain.FaultTransaction, op.Entrypoint, err)
}

// submit packs, signs and broadcasts one contract call and returns the
// signed transaction. The returned result is treated as terminal success;
// there is no block-confirmation polling.
func (b *Bridge) submit(ctx context.Context, to common.Address, cabi abi.ABI, method string, args ...interface{}) (*ethtypes.Transaction, error) {
	if b.sess == nil || b.sess.Signer == nil {
		return nil, errors.New("writes require the wallet's signing account")
	}

	data, err := cabi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}

	from := b.sess.Signer.Address()
	nonce, err := b.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, errors.Wrap(err, "pending nonce")
	}
	gasPrice, err := b.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "suggest gas price")
	}
	gasLimit, err := b.client.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Data: data})
	if err != nil {
		return nil, errors.Wrapf(err, "estimate gas for %s", method)
	}

	tx := ethtypes.NewTransaction(nonce, to, big.NewInt(0), gasLimit, gasPrice, data)
	signed, err := b.sess.Signer.SignTx(ctx, tx, b.chainID)
	if err != nil {
		// May be a structured decline from an interactive wallet.
		return nil, err
	}
	if err := b.client.SendTransaction(ctx, signed); err != nil {
		return nil, errors.Wrapf(err, "send %s", method)
	}
	return signed, nil
}
