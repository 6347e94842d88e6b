package wallet

import (
	"sync"

	"github.com/google/uuid"

	"github.com/xrpzip/walletd/internal/history"
)

// Session is the live in-memory state for an unlocked wallet. It owns
// the single decrypted seed handle and the transaction list expansion
// state for that wallet's view.
type Session struct {
	WalletID uuid.UUID
	Address  string

	seed    string
	History *history.ExpandState
}

// Seed hands out the decrypted family seed. It never leaves the
// process except inside a signing request to the ledger node.
func (s *Session) Seed() string {
	return s.seed
}

// SessionManager keeps one session per wallet.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[uuid.UUID]*Session)}
}

// Open creates or replaces the session for a wallet.
func (m *SessionManager) Open(w *Wallet, seed string) *Session {
	sess := &Session{
		WalletID: w.ID,
		Address:  w.Address,
		seed:     seed,
		History:  history.NewExpandState(),
	}

	m.mu.Lock()
	m.sessions[w.ID] = sess
	m.mu.Unlock()
	return sess
}

func (m *SessionManager) Get(walletID uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[walletID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (m *SessionManager) Close(walletID uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, walletID)
	m.mu.Unlock()
}
