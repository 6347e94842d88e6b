package xrpl

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotConnected is returned when a request is attempted while the
// websocket session is down and cannot be re-established.
var ErrNotConnected = errors.New("xrpl: not connected")

// rippleEpochOffset converts ledger close times (seconds since
// 2000-01-01T00:00:00Z) to Unix seconds.
const rippleEpochOffset = 946684800

// RippleTime converts a ledger-epoch seconds value to a time.Time.
func RippleTime(secs int64) time.Time {
	return time.Unix(secs+rippleEpochOffset, 0).UTC()
}

// WireAmount is the amount union used throughout the rippled API:
// either a drops integer-as-string (native XRP) or an object
// {value, currency, issuer} (issued currency).
type WireAmount struct {
	Drops    string // native form; empty when issued
	Value    string
	Currency string
	Issuer   string
}

// issuedAmount is the object form of WireAmount on the wire.
type issuedAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
}

// UnmarshalJSON accepts both wire shapes. Anything else is an error;
// callers treat that as an absent amount.
func (a *WireAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Drops = s
		return nil
	}

	var obj issuedAmount
	if err := json.Unmarshal(data, &obj); err == nil && obj.Currency != "" {
		a.Value = obj.Value
		a.Currency = obj.Currency
		a.Issuer = obj.Issuer
		return nil
	}

	return fmt.Errorf("unrecognized amount shape: %s", string(data))
}

// IsNative reports whether the amount is in drops.
func (a *WireAmount) IsNative() bool {
	return a.Currency == ""
}

// TxJSON holds the decoded transaction common fields. Older API
// generations name the payment amount "Amount"; newer ones "DeliverMax".
type TxJSON struct {
	TransactionType string      `json:"TransactionType"`
	Account         string      `json:"Account"`
	Destination     string      `json:"Destination"`
	Amount          *WireAmount `json:"Amount"`
	DeliverMax      *WireAmount `json:"DeliverMax"`
	Fee             string      `json:"Fee"`
	Hash            string      `json:"hash"`
	Date            *int64      `json:"date"` // ledger epoch seconds
}

// NominalAmount returns the authored amount under either field name.
func (t *TxJSON) NominalAmount() *WireAmount {
	if t.Amount != nil {
		return t.Amount
	}
	return t.DeliverMax
}

// TxMeta holds transaction metadata. delivered_amount is only present
// on validated, executed payments and is authoritative over the
// authored amount; some server versions emit the camel-case key.
type TxMeta struct {
	DeliveredAmount      *WireAmount `json:"delivered_amount"`
	DeliveredAmountCamel *WireAmount `json:"DeliveredAmount"`
	TransactionResult    string      `json:"TransactionResult"`
}

// Delivered returns the delivered amount under either key, or nil.
func (m *TxMeta) Delivered() *WireAmount {
	if m == nil {
		return nil
	}
	if m.DeliveredAmount != nil {
		return m.DeliveredAmount
	}
	return m.DeliveredAmountCamel
}

// AccountTxEntry is one transaction in an account_tx response. The two
// API generations disagree on almost every envelope field: tx vs
// tx_json, top-level hash vs tx.hash, ledger epoch date vs
// close_time_iso.
type AccountTxEntry struct {
	Hash         string          `json:"hash"`
	LedgerIndex  uint32          `json:"ledger_index"`
	Validated    bool            `json:"validated"`
	CloseTimeISO string          `json:"close_time_iso"`
	Tx           *TxJSON         `json:"tx"`
	TxInner      *TxJSON         `json:"tx_json"`
	Meta         json.RawMessage `json:"meta"`
}

// Transaction returns the decoded transaction under either envelope key.
func (e *AccountTxEntry) Transaction() *TxJSON {
	if e.Tx != nil {
		return e.Tx
	}
	return e.TxInner
}

// DecodedMeta parses the metadata object. Binary-mode metadata (a hex
// string) yields nil without error since nothing requests binary.
func (e *AccountTxEntry) DecodedMeta() *TxMeta {
	if len(e.Meta) == 0 || e.Meta[0] != '{' {
		return nil
	}
	var m TxMeta
	if err := json.Unmarshal(e.Meta, &m); err != nil {
		return nil
	}
	return &m
}

// accountTxResult is the result payload of an account_tx call.
type accountTxResult struct {
	Account      string           `json:"account"`
	Transactions []AccountTxEntry `json:"transactions"`
}

// AccountInfoResult is the result payload of an account_info call.
type AccountInfoResult struct {
	AccountData struct {
		Account  string `json:"Account"`
		Balance  string `json:"Balance"`
		Sequence uint32 `json:"Sequence"`
	} `json:"account_data"`
	LedgerIndex uint32 `json:"ledger_current_index"`
	Validated   bool   `json:"validated"`
}

// SubmitResult is the result payload of a submit call in
// sign-and-submit mode.
type SubmitResult struct {
	EngineResult        string `json:"engine_result"`
	EngineResultCode    int    `json:"engine_result_code"`
	EngineResultMessage string `json:"engine_result_message"`
	TxJSON              struct {
		Hash string `json:"hash"`
	} `json:"tx_json"`
}

// Accepted reports whether the transaction was queued or applied.
// tes and ter class codes mean the payment is in flight; everything
// else was rejected outright.
func (r *SubmitResult) Accepted() bool {
	if len(r.EngineResult) < 3 {
		return false
	}
	switch r.EngineResult[:3] {
	case "tes", "ter":
		return true
	default:
		return false
	}
}

// APIError is a command-level error returned by rippled.
type APIError struct {
	Code    string // e.g. "actNotFound", "invalidParams"
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("xrpl: %s", e.Code)
	}
	return fmt.Sprintf("xrpl: %s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is rippled's account-not-found error,
// which unfunded testnet accounts produce on every query.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == "actNotFound"
}
