package xrpl

import (
	"context"
	"math/big"

	"github.com/xrpzip/walletd/internal/payment"
)

// PaymentAdapter adapts the ledger client to the payment.Submitter
// port.
type PaymentAdapter struct {
	client *Client
}

func NewPaymentAdapter(client *Client) *PaymentAdapter {
	return &PaymentAdapter{client: client}
}

func (a *PaymentAdapter) Submit(ctx context.Context, seed, from, to string, drops *big.Int) (*payment.Receipt, error) {
	result, err := a.client.SubmitPayment(ctx, seed, from, to, drops)
	if err != nil {
		return nil, err
	}
	return &payment.Receipt{
		Hash:       result.TxJSON.Hash,
		ResultCode: result.EngineResult,
		Accepted:   result.Accepted(),
	}, nil
}

var _ payment.Submitter = (*PaymentAdapter)(nil)
