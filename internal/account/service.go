package account

import (
	"context"
	"fmt"
	"math/big"

	"github.com/xrpzip/walletd/internal/history"
	"github.com/xrpzip/walletd/internal/price"
	"github.com/xrpzip/walletd/pkg/logger"
	"github.com/xrpzip/walletd/pkg/money"
)

// BalanceReader reads an account's spendable balance in drops.
type BalanceReader interface {
	Balance(ctx context.Context, address string) (*big.Int, error)
}

// HistoryReader fetches an account's recent payment records.
type HistoryReader interface {
	AccountTransactions(ctx context.Context, address string, limit int) ([]history.Record, error)
}

// Service assembles the account views: the balance summary and the
// reconciled transaction list.
type Service struct {
	balances BalanceReader
	txs      HistoryReader
	prices   *price.Service
	txLimit  int
	logger   *logger.Logger
}

func NewService(balances BalanceReader, txs HistoryReader, prices *price.Service, txLimit int, log *logger.Logger) *Service {
	return &Service{
		balances: balances,
		txs:      txs,
		prices:   prices,
		txLimit:  txLimit,
		logger:   log.WithField("component", "account"),
	}
}

// BalanceSummary is the headline view for an account.
type BalanceSummary struct {
	Address   string  `json:"address"`
	Balance   string  `json:"balance"`
	Drops     string  `json:"drops"`
	PriceUSD  float64 `json:"price_usd"`
	FiatValue float64 `json:"fiat_value"`
}

// HistoryView is the reconciled transaction list plus the index of the
// currently expanded row, -1 when all rows are collapsed.
type HistoryView struct {
	Transactions  []history.Entry `json:"transactions"`
	ExpandedIndex int             `json:"expanded_index"`
}

// Balance returns the account's balance with its current fiat value.
// A missing spot price degrades the fiat fields to zero rather than
// failing the whole view.
func (s *Service) Balance(ctx context.Context, address string) (*BalanceSummary, error) {
	drops, err := s.balances.Balance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("fetch balance: %w", err)
	}

	spot, err := s.prices.Spot(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("spot price unavailable for balance view")
		spot = 0
	}

	return &BalanceSummary{
		Address:   address,
		Balance:   money.DropsToXRP(drops),
		Drops:     drops.String(),
		PriceUSD:  spot,
		FiatValue: money.DropsFloat(drops) * spot,
	}, nil
}

// History fetches the account's recent records, reconciles them into
// display entries and attaches the expansion state.
func (s *Service) History(ctx context.Context, address string, expanded *history.ExpandState) (*HistoryView, error) {
	records, err := s.txs.AccountTransactions(ctx, address, s.txLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	spot, err := s.prices.Spot(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("spot price unavailable for history view")
		spot = 0
	}

	entries := history.Reconcile(records, address, spot)

	view := &HistoryView{
		Transactions:  entries,
		ExpandedIndex: history.NoneExpanded,
	}
	if expanded != nil {
		view.ExpandedIndex = expanded.Expanded()
	}
	return view, nil
}

// ToggleExpanded flips the expansion of one history row and returns
// the resulting expanded index.
func (s *Service) ToggleExpanded(expanded *history.ExpandState, index int) int {
	return expanded.Toggle(index)
}
