package session

import "github.com/trivex/trivex-go/internal/wallet"

// Session is the explicit per-user context passed by reference into every
// component constructor. There is no ambient/global wallet lookup.
type Session struct {
	WalletAddress string
	Signer        wallet.Signer // nil for read-only sessions
	Whitelisted   bool
}

// Connected reports whether a wallet is attached.
func (s *Session) Connected() bool {
	return s != nil && s.WalletAddress != ""
}

// CanTrade reports whether the session may perform user actions.
func (s *Session) CanTrade() bool {
	return s.Connected() && s.Whitelisted
}
