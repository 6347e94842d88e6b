package wallet_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrpzip/walletd/internal/wallet"
	"github.com/xrpzip/walletd/pkg/logger"
)

// memoryRepo is an in-memory Repository for service tests.
type memoryRepo struct {
	mu      sync.Mutex
	wallets map[uuid.UUID]*wallet.Wallet
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{wallets: make(map[uuid.UUID]*wallet.Wallet)}
}

func (r *memoryRepo) Create(_ context.Context, w *wallet.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.wallets {
		if existing.Address == w.Address {
			return wallet.ErrDuplicateAddress
		}
	}
	r.wallets[w.ID] = w
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, wallet.ErrNotFound
	}
	return w, nil
}

func (r *memoryRepo) GetByAddress(_ context.Context, address string) (*wallet.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.wallets {
		if w.Address == address {
			return w, nil
		}
	}
	return nil, wallet.ErrNotFound
}

func (r *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.wallets, id)
	return nil
}

func newTestService() (*wallet.Service, *memoryRepo, *wallet.SessionManager) {
	repo := newMemoryRepo()
	sessions := wallet.NewSessionManager()
	svc := wallet.NewService(repo, wallet.NewSealer("test-seal-key"), sessions, logger.NewDefault("test"))
	return svc, repo, sessions
}

func TestService_Create(t *testing.T) {
	svc, repo, sessions := newTestService()

	w, seed, err := svc.Create(context.Background())
	require.NoError(t, err)

	assert.True(t, wallet.IsValidAddress(w.Address))
	assert.NotEmpty(t, seed)
	assert.NotEmpty(t, w.SealedSeed)
	assert.NotContains(t, string(w.SealedSeed), seed)

	stored, err := repo.GetByID(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Address, stored.Address)

	sess, err := sessions.Get(w.ID)
	require.NoError(t, err)
	assert.Equal(t, seed, sess.Seed())
	assert.NotNil(t, sess.History)
}

func TestService_Import(t *testing.T) {
	svc, _, sessions := newTestService()

	w, err := svc.Import(context.Background(), "snoPBrXtMeMyMHUVTgbuqAfg1SUTb")
	require.NoError(t, err)
	assert.Equal(t, "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh", w.Address)

	sess, err := sessions.Get(w.ID)
	require.NoError(t, err)
	assert.Equal(t, "snoPBrXtMeMyMHUVTgbuqAfg1SUTb", sess.Seed())
}

func TestService_Import_ExistingSeedReturnsStoredWallet(t *testing.T) {
	svc, _, _ := newTestService()

	first, err := svc.Import(context.Background(), "snoPBrXtMeMyMHUVTgbuqAfg1SUTb")
	require.NoError(t, err)
	second, err := svc.Import(context.Background(), "snoPBrXtMeMyMHUVTgbuqAfg1SUTb")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestService_Import_InvalidSeed(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Import(context.Background(), "definitely not a seed")
	assert.ErrorIs(t, err, wallet.ErrInvalidSeed)
}

func TestService_Session_ReopensFromSealedSeed(t *testing.T) {
	svc, _, sessions := newTestService()

	w, seed, err := svc.Create(context.Background())
	require.NoError(t, err)

	// Simulate a restart: the in-memory session is gone but the
	// sealed seed survives in the repository.
	sessions.Close(w.ID)
	_, err = sessions.Get(w.ID)
	require.ErrorIs(t, err, wallet.ErrSessionNotFound)

	sess, err := svc.Session(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Equal(t, seed, sess.Seed())
	assert.Equal(t, w.Address, sess.Address)
}

func TestService_Session_UnknownWallet(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Session(context.Background(), uuid.New())
	assert.ErrorIs(t, err, wallet.ErrNotFound)
}

func TestService_CloseSession(t *testing.T) {
	svc, _, sessions := newTestService()

	w, _, err := svc.Create(context.Background())
	require.NoError(t, err)

	svc.CloseSession(w.ID)
	_, err = sessions.Get(w.ID)
	assert.ErrorIs(t, err, wallet.ErrSessionNotFound)
}

func TestSessionManager_OpenReplacesExpandState(t *testing.T) {
	sessions := wallet.NewSessionManager()
	w := &wallet.Wallet{ID: uuid.New(), Address: "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"}

	first := sessions.Open(w, "seed")
	first.History.Toggle(3)

	second := sessions.Open(w, "seed")
	assert.Equal(t, -1, second.History.Expanded())
}
