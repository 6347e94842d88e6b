package history

import (
	"math/big"
	"time"

	"github.com/xrpzip/walletd/pkg/money"
)

// Direction classifies a payment relative to the owning wallet.
type Direction string

const (
	// DirectionSent means the owning wallet was the source account.
	DirectionSent Direction = "sent"
	// DirectionReceived means the owning wallet was on the receiving side.
	DirectionReceived Direction = "received"
)

// PaymentType is the canonical ledger tag for payment transactions.
// Matching is case-sensitive and exact.
const PaymentType = "Payment"

// Amount is the canonical form of an XRPL amount: native drops or an
// issued-currency value. Exactly one representation is populated.
type Amount struct {
	Drops    *big.Int // native amount in drops; nil for issued amounts
	Value    string   // issued-currency decimal value
	Currency string   // issued-currency code
	Issuer   string   // issued-currency issuer address
}

// IsNative reports whether the amount is denominated in XRP drops.
func (a *Amount) IsNative() bool {
	return a.Drops != nil
}

// baseUnits returns the amount in base units for zero-comparison.
// Issued values are scaled to their full supported precision so that
// "0.000" and "0" compare equal.
func (a *Amount) baseUnits() (*big.Int, error) {
	if a.IsNative() {
		return a.Drops, nil
	}
	return money.ToBaseUnits(a.Value, money.IssuedDecimals)
}

// Record is one canonical raw ledger transaction record. The ledger
// gateway maps every wire-shape variant into this struct before the
// reconciler sees it.
type Record struct {
	TransactionType string
	Account         string // source address
	Destination     string // empty for non-payment types
	Amount          *Amount
	DeliveredAmount *Amount // set only on validated, executed payments
	Fee             *big.Int
	Hash            string
	CloseTime       time.Time // zero when the source had no usable timestamp
	LedgerIndex     uint32
	Validated       bool
	ResultCode      string
}

// Entry is a display-ready normalized transaction.
type Entry struct {
	Direction     Direction `json:"direction"`
	Counterparty  string    `json:"counterparty"`
	Amount        float64   `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	Currency      string    `json:"currency"`
	FiatValue     *float64  `json:"fiat_value,omitempty"`
	Hash          string    `json:"hash"`
	Timestamp     string    `json:"timestamp"`
	LedgerIndex   uint32    `json:"ledger_index"`
	Validated     bool      `json:"validated"`
	FeeXRP        string    `json:"fee_xrp"`
	ResultCode    string    `json:"result_code,omitempty"`
}
