package history

import (
	"strconv"
	"time"

	"github.com/xrpzip/walletd/pkg/money"
)

// NativeCurrency is the display label for native-currency entries.
const NativeCurrency = "XRP"

// unknownTime is rendered when a record carried no usable timestamp.
const unknownTime = "Unknown time"

// Reconcile converts raw ledger records into display-ready entries.
//
// Only Payment-type records with a non-zero effective amount survive.
// The effective amount is the delivered amount when present (partial
// payments settle for less than authored), else the nominal amount.
// Direction is decided purely by comparing the source account against
// ownerAddress; no flag in the record is consulted. Input order is
// preserved and a malformed record is dropped, never fatal.
//
// Pure function of its inputs; it performs no I/O.
func Reconcile(records []Record, ownerAddress string, spotPrice float64) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		if entry, ok := reconcileOne(rec, ownerAddress, spotPrice); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func reconcileOne(rec Record, ownerAddress string, spotPrice float64) (Entry, bool) {
	if rec.TransactionType != PaymentType {
		return Entry{}, false
	}
	// A payment without both sides or an identity is malformed.
	if rec.Account == "" || rec.Destination == "" || rec.Hash == "" {
		return Entry{}, false
	}

	amount := rec.DeliveredAmount
	if amount == nil {
		amount = rec.Amount
	}
	if amount == nil {
		return Entry{}, false
	}

	base, err := amount.baseUnits()
	if err != nil {
		return Entry{}, false
	}
	if base.Sign() == 0 {
		// Zero effective amount, nothing to display.
		return Entry{}, false
	}

	direction := DirectionReceived
	counterparty := rec.Account
	if rec.Account == ownerAddress {
		direction = DirectionSent
		counterparty = rec.Destination
	}

	entry := Entry{
		Direction:    direction,
		Counterparty: counterparty,
		Hash:         rec.Hash,
		Timestamp:    formatCloseTime(rec.CloseTime),
		LedgerIndex:  rec.LedgerIndex,
		Validated:    rec.Validated,
		FeeXRP:       money.DropsToXRP(rec.Fee),
		ResultCode:   rec.ResultCode,
	}

	if amount.IsNative() {
		entry.Amount = money.DropsFloat(amount.Drops)
		entry.AmountDisplay = money.DropsToXRP(amount.Drops)
		entry.Currency = NativeCurrency
		fiat := entry.Amount * spotPrice
		entry.FiatValue = &fiat
	} else {
		// baseUnits already vetted the value string.
		entry.Amount, _ = strconv.ParseFloat(amount.Value, 64)
		entry.AmountDisplay = money.FromBaseUnits(base, money.IssuedDecimals)
		entry.Currency = issuedLabel(amount)
		// No exchange-rate data for arbitrary issued assets.
	}

	return entry, true
}

// issuedLabel renders an issued currency as "CODE.issuer", or just the
// code when the issuer is unknown.
func issuedLabel(a *Amount) string {
	if a.Issuer == "" {
		return a.Currency
	}
	return a.Currency + "." + a.Issuer
}

func formatCloseTime(t time.Time) string {
	if t.IsZero() {
		return unknownTime
	}
	return t.UTC().Format(time.RFC3339)
}
