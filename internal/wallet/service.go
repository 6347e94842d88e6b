package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xrpzip/walletd/pkg/logger"
)

// Repository is the persistence port for wallets.
type Repository interface {
	Create(ctx context.Context, w *Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error)
	GetByAddress(ctx context.Context, address string) (*Wallet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo     Repository
	sealer   *Sealer
	sessions *SessionManager
	logger   *logger.Logger
}

func NewService(repo Repository, sealer *Sealer, sessions *SessionManager, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		sealer:   sealer,
		sessions: sessions,
		logger:   log,
	}
}

// Create generates a fresh keypair, stores the sealed seed and opens a
// session for the new wallet. The plain seed is returned exactly once
// so the caller can show it for backup.
func (s *Service) Create(ctx context.Context) (*Wallet, string, error) {
	kp, err := Generate()
	if err != nil {
		return nil, "", fmt.Errorf("generate keypair: %w", err)
	}

	w, err := s.register(ctx, kp)
	if err != nil {
		return nil, "", err
	}

	s.sessions.Open(w, kp.Seed)
	s.logger.WithField("address", w.Address).Info("wallet created")
	return w, kp.Seed, nil
}

// Import registers a wallet from an existing family seed. Importing a
// seed that is already registered reopens a session for the stored
// wallet instead of failing.
func (s *Service) Import(ctx context.Context, seed string) (*Wallet, error) {
	kp, err := FromSeed(seed)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByAddress(ctx, kp.Address)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("look up wallet: %w", err)
	}
	if existing != nil {
		s.sessions.Open(existing, kp.Seed)
		s.logger.WithField("address", existing.Address).Info("wallet re-imported")
		return existing, nil
	}

	w, err := s.register(ctx, kp)
	if err != nil {
		return nil, err
	}

	s.sessions.Open(w, kp.Seed)
	s.logger.WithField("address", w.Address).Info("wallet imported")
	return w, nil
}

func (s *Service) register(ctx context.Context, kp *Keypair) (*Wallet, error) {
	sealed, err := s.sealer.Seal(kp.Seed)
	if err != nil {
		return nil, fmt.Errorf("seal seed: %w", err)
	}

	now := time.Now().UTC()
	w := &Wallet{
		ID:         uuid.New(),
		Address:    kp.Address,
		SealedSeed: sealed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("store wallet: %w", err)
	}
	return w, nil
}

// Get loads a wallet by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Wallet, error) {
	return s.repo.GetByID(ctx, id)
}

// Session returns the live session for a wallet, reopening it from the
// sealed seed when the process restarted since the token was issued.
func (s *Service) Session(ctx context.Context, walletID uuid.UUID) (*Session, error) {
	if sess, err := s.sessions.Get(walletID); err == nil {
		return sess, nil
	}

	w, err := s.repo.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	seed, err := s.sealer.Open(w.SealedSeed)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("address", w.Address).Debug("session reopened from sealed seed")
	return s.sessions.Open(w, seed), nil
}

// CloseSession drops the in-memory session and its seed handle.
func (s *Service) CloseSession(walletID uuid.UUID) {
	s.sessions.Close(walletID)
}
