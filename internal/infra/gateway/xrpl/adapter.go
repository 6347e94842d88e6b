package xrpl

import (
	"context"
	"fmt"
	"time"

	"github.com/xrpzip/walletd/internal/history"
	"github.com/xrpzip/walletd/pkg/logger"
	"github.com/xrpzip/walletd/pkg/money"
)

// HistoryAdapter maps raw account_tx entries into canonical history
// records. All wire-shape tolerance lives here, in one place, so the
// reconciler only ever sees one record shape.
type HistoryAdapter struct {
	client *Client
	logger *logger.Logger
}

// NewHistoryAdapter creates a history adapter over a rippled client.
func NewHistoryAdapter(client *Client, log *logger.Logger) *HistoryAdapter {
	return &HistoryAdapter{
		client: client,
		logger: log.WithField("component", "history_adapter"),
	}
}

// AccountTransactions fetches and normalizes the recent transactions of
// an address. Entries that cannot be normalized are logged and dropped;
// one bad record never fails the batch.
func (a *HistoryAdapter) AccountTransactions(ctx context.Context, address string, limit int) ([]history.Record, error) {
	entries, err := a.client.AccountTx(ctx, address, limit)
	if err != nil {
		return nil, err
	}

	records := make([]history.Record, 0, len(entries))
	for _, entry := range entries {
		rec, err := convertEntry(entry)
		if err != nil {
			a.logger.Debug("skipping unusable ledger record", "hash", entry.Hash, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// convertEntry maps one account_tx entry to a canonical record.
func convertEntry(entry AccountTxEntry) (history.Record, error) {
	tx := entry.Transaction()
	if tx == nil {
		return history.Record{}, fmt.Errorf("entry has no transaction body")
	}

	rec := history.Record{
		TransactionType: tx.TransactionType,
		Account:         tx.Account,
		Destination:     tx.Destination,
		Hash:            entry.Hash,
		LedgerIndex:     entry.LedgerIndex,
		Validated:       entry.Validated,
		CloseTime:       closeTime(entry, tx),
	}
	if rec.Hash == "" {
		rec.Hash = tx.Hash
	}

	if tx.Fee != "" {
		if fee, err := money.ParseDrops(tx.Fee); err == nil {
			rec.Fee = fee
		}
	}

	// The authored amount; unparseable means the record carries no
	// usable amount and the reconciler will drop it.
	if nominal := tx.NominalAmount(); nominal != nil {
		if amt, err := convertAmount(nominal); err == nil {
			rec.Amount = amt
		}
	}

	// delivered_amount is authoritative when usable. Servers report the
	// sentinel "unavailable" for old partial payments; that parses as
	// invalid and falls back to the authored amount.
	meta := entry.DecodedMeta()
	if delivered := meta.Delivered(); delivered != nil {
		if amt, err := convertAmount(delivered); err == nil {
			rec.DeliveredAmount = amt
		}
	}
	if meta != nil {
		rec.ResultCode = meta.TransactionResult
	}

	return rec, nil
}

// convertAmount maps a wire amount union to the canonical form.
func convertAmount(w *WireAmount) (*history.Amount, error) {
	if w.IsNative() {
		drops, err := money.ParseDrops(w.Drops)
		if err != nil {
			return nil, err
		}
		return &history.Amount{Drops: drops}, nil
	}

	if _, err := money.ToBaseUnits(w.Value, money.IssuedDecimals); err != nil {
		return nil, fmt.Errorf("invalid issued value %q: %w", w.Value, err)
	}
	return &history.Amount{
		Value:    w.Value,
		Currency: w.Currency,
		Issuer:   w.Issuer,
	}, nil
}

// closeTime normalizes both timestamp styles: the ISO string on newer
// envelopes and the ledger-epoch integer on older ones. Zero when
// neither is usable.
func closeTime(entry AccountTxEntry, tx *TxJSON) time.Time {
	if entry.CloseTimeISO != "" {
		if t, err := time.Parse(time.RFC3339, entry.CloseTimeISO); err == nil {
			return t.UTC()
		}
	}
	if tx.Date != nil {
		return RippleTime(*tx.Date)
	}
	return time.Time{}
}
