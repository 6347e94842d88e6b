package xrpl

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrpzip/walletd/internal/history"
)

func int64p(v int64) *int64 { return &v }

func TestConvertEntry_ModernEnvelope(t *testing.T) {
	entry := AccountTxEntry{
		Hash:         "ABC123",
		LedgerIndex:  4321,
		Validated:    true,
		CloseTimeISO: "2025-06-15T12:30:00Z",
		TxInner: &TxJSON{
			TransactionType: "Payment",
			Account:         "rA",
			Destination:     "rB",
			DeliverMax:      &WireAmount{Drops: "5000000"},
			Fee:             "12",
		},
		Meta: json.RawMessage(`{"delivered_amount":"1000000","TransactionResult":"tesSUCCESS"}`),
	}

	rec, err := convertEntry(entry)
	require.NoError(t, err)

	assert.Equal(t, "Payment", rec.TransactionType)
	assert.Equal(t, "rA", rec.Account)
	assert.Equal(t, "rB", rec.Destination)
	assert.Equal(t, "ABC123", rec.Hash)
	assert.Equal(t, uint32(4321), rec.LedgerIndex)
	assert.True(t, rec.Validated)
	assert.Equal(t, "tesSUCCESS", rec.ResultCode)
	assert.Equal(t, time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC), rec.CloseTime)
	assert.Equal(t, big.NewInt(12), rec.Fee)

	require.NotNil(t, rec.Amount)
	assert.Equal(t, big.NewInt(5000000), rec.Amount.Drops)
	require.NotNil(t, rec.DeliveredAmount)
	assert.Equal(t, big.NewInt(1000000), rec.DeliveredAmount.Drops)
}

func TestConvertEntry_LegacyEnvelope(t *testing.T) {
	entry := AccountTxEntry{
		LedgerIndex: 99,
		Validated:   true,
		Tx: &TxJSON{
			TransactionType: "Payment",
			Account:         "rA",
			Destination:     "rB",
			Amount:          &WireAmount{Drops: "750000"},
			Hash:            "LEGACYHASH",
			Date:            int64p(789004800), // 2025-01-01T00:00:00Z
		},
		Meta: json.RawMessage(`{"DeliveredAmount":"750000"}`),
	}

	rec, err := convertEntry(entry)
	require.NoError(t, err)

	// Hash falls back to the one inside the tx body.
	assert.Equal(t, "LEGACYHASH", rec.Hash)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), rec.CloseTime)
	require.NotNil(t, rec.DeliveredAmount)
	assert.Equal(t, big.NewInt(750000), rec.DeliveredAmount.Drops)
}

func TestConvertEntry_IssuedCurrency(t *testing.T) {
	entry := AccountTxEntry{
		Hash: "ISSUED1",
		TxInner: &TxJSON{
			TransactionType: "Payment",
			Account:         "rA",
			Destination:     "rB",
			DeliverMax: &WireAmount{
				Value:    "12.5",
				Currency: "USD",
				Issuer:   "rIssuer",
			},
		},
	}

	rec, err := convertEntry(entry)
	require.NoError(t, err)
	require.NotNil(t, rec.Amount)
	assert.False(t, rec.Amount.IsNative())
	assert.Equal(t, "12.5", rec.Amount.Value)
	assert.Equal(t, "USD", rec.Amount.Currency)
	assert.Equal(t, "rIssuer", rec.Amount.Issuer)
}

func TestConvertEntry_UnavailableDeliveredFallsBack(t *testing.T) {
	entry := AccountTxEntry{
		Hash: "H1",
		TxInner: &TxJSON{
			TransactionType: "Payment",
			Account:         "rA",
			Destination:     "rB",
			Amount:          &WireAmount{Drops: "1000000"},
		},
		Meta: json.RawMessage(`{"delivered_amount":"unavailable"}`),
	}

	rec, err := convertEntry(entry)
	require.NoError(t, err)
	assert.Nil(t, rec.DeliveredAmount)
	require.NotNil(t, rec.Amount)
	assert.Equal(t, big.NewInt(1000000), rec.Amount.Drops)
}

func TestConvertEntry_NoTransactionBody(t *testing.T) {
	_, err := convertEntry(AccountTxEntry{Hash: "H1"})
	assert.Error(t, err)
}

func TestConvertEntry_FeedsReconciler(t *testing.T) {
	// End-to-end shape check: a converted legacy entry must survive
	// reconciliation unchanged.
	entry := AccountTxEntry{
		Hash:      "H1",
		Validated: true,
		Tx: &TxJSON{
			TransactionType: "Payment",
			Account:         "rA",
			Destination:     "rB",
			Amount:          &WireAmount{Drops: "2000000"},
			Fee:             "10",
		},
		Meta: json.RawMessage(`{"delivered_amount":"2000000","TransactionResult":"tesSUCCESS"}`),
	}

	rec, err := convertEntry(entry)
	require.NoError(t, err)

	entries := history.Reconcile([]history.Record{rec}, "rB", 3.0)
	require.Len(t, entries, 1)
	assert.Equal(t, history.DirectionReceived, entries[0].Direction)
	assert.Equal(t, 2.0, entries[0].Amount)
	assert.InDelta(t, 6.0, *entries[0].FiatValue, 1e-9)
}
