package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xrpzip/walletd/internal/payment"
	"github.com/xrpzip/walletd/internal/transport/httpapi/middleware"
	"github.com/xrpzip/walletd/internal/wallet"
	"github.com/xrpzip/walletd/pkg/logger"
)

// PaymentHandler submits outgoing payments for the session's wallet.
type PaymentHandler struct {
	payments *payment.Service
	wallets  *wallet.Service
	logger   *logger.Logger
}

func NewPaymentHandler(payments *payment.Service, wallets *wallet.Service, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		wallets:  wallets,
		logger:   log,
	}
}

// SendPaymentRequest is the request body for a payment.
type SendPaymentRequest struct {
	Destination string `json:"destination"`
	AmountXRP   string `json:"amount_xrp"`
}

// SendPayment handles POST /api/v1/wallet/payments.
func (h *PaymentHandler) SendPayment(w http.ResponseWriter, r *http.Request) {
	walletID, ok := middleware.GetWalletIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "no session")
		return
	}

	sess, err := h.wallets.Session(r.Context(), walletID)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "session expired")
		return
	}

	var req SendPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.payments.Send(r.Context(), sess, req.Destination, req.AmountXRP)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidDestination),
			errors.Is(err, payment.ErrInvalidAmount),
			errors.Is(err, payment.ErrSelfPayment):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.WithError(err).Error("payment submission failed")
			respondWithError(w, http.StatusBadGateway, "ledger unavailable")
		}
		return
	}

	status := http.StatusOK
	if !receipt.Accepted {
		// The node took the request but rejected the transaction.
		status = http.StatusUnprocessableEntity
	}
	respondWithJSON(w, status, receipt)
}
