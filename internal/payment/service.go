package payment

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/xrpzip/walletd/internal/wallet"
	"github.com/xrpzip/walletd/pkg/logger"
	"github.com/xrpzip/walletd/pkg/money"
)

var (
	ErrInvalidDestination = errors.New("invalid destination address")
	ErrInvalidAmount      = errors.New("amount must be a positive XRP value")
	ErrSelfPayment        = errors.New("destination equals the sending account")
)

// Receipt is the outcome of a submitted payment. Accepted means the
// node took the transaction into its open ledger; final validation
// shows up later in the account history.
type Receipt struct {
	Hash       string `json:"hash"`
	ResultCode string `json:"result_code"`
	Accepted   bool   `json:"accepted"`
	AmountXRP  string `json:"amount_xrp"`
	Drops      string `json:"drops"`
}

// Submitter hands a signed-and-submitted payment to the ledger node.
type Submitter interface {
	Submit(ctx context.Context, seed, from, to string, drops *big.Int) (*Receipt, error)
}

// Service validates and submits outgoing payments.
type Service struct {
	submitter Submitter
	logger    *logger.Logger
}

func NewService(submitter Submitter, log *logger.Logger) *Service {
	return &Service{
		submitter: submitter,
		logger:    log.WithField("component", "payment"),
	}
}

// Send validates the destination and amount, converts to drops and
// submits the payment with the session's seed.
func (s *Service) Send(ctx context.Context, sess *wallet.Session, to, amountXRP string) (*Receipt, error) {
	if !wallet.IsValidAddress(to) {
		return nil, ErrInvalidDestination
	}
	if to == sess.Address {
		return nil, ErrSelfPayment
	}

	drops, err := money.XRPToDrops(amountXRP)
	if err != nil || drops.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	receipt, err := s.submitter.Submit(ctx, sess.Seed(), sess.Address, to, drops)
	if err != nil {
		return nil, fmt.Errorf("submit payment: %w", err)
	}

	receipt.AmountXRP = money.DropsToXRP(drops)
	receipt.Drops = drops.String()

	s.logger.WithField("hash", receipt.Hash).
		WithField("result", receipt.ResultCode).
		Info("payment submitted")
	return receipt, nil
}
