// Package wallet is the signing boundary. The session holds one signing
// account shared by every write; implementations that front an interactive
// wallet surface a structured decline instead of a free-form error message.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrSignerDeclined is returned by a signer when the user rejects the
// request before broadcast. Callers classify on this sentinel, never on
// error text: message substrings are not stable across wallets.
var ErrSignerDeclined = errors.New("wallet: signing request declined")

// IsDeclined reports whether err carries a signer decline anywhere in its
// chain.
func IsDeclined(err error) bool {
	return errors.Is(err, ErrSignerDeclined)
}

// Signer signs transactions for one account. The account is shared across
// all writes in a session and must not receive concurrent requests;
// implementations serialize internally.
type Signer interface {
	Address() common.Address
	SignTx(ctx context.Context, tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error)
}

// KeySigner signs with a locally held private key. It never declines.
type KeySigner struct {
	mu   sync.Mutex
	key  *ecdsa.PrivateKey
	addr common.Address
}

// NewKeySigner parses a hex-encoded private key.
func NewKeySigner(hexKey string) (*KeySigner, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, err
	}
	return &KeySigner{
		key:  key,
		addr: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func (s *KeySigner) Address() common.Address {
	return s.addr
}

func (s *KeySigner) SignTx(ctx context.Context, tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return ethtypes.SignTx(tx, ethtypes.LatestSignerForChainID(chainID), s.key)
}
