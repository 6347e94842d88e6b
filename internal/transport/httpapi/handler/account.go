package handler

import (
	"encoding/json"
	"net/http"

	"github.com/xrpzip/walletd/internal/account"
	"github.com/xrpzip/walletd/internal/transport/httpapi/middleware"
	"github.com/xrpzip/walletd/internal/wallet"
	"github.com/xrpzip/walletd/pkg/logger"
)

// AccountHandler serves the balance and transaction history views for
// the session's wallet.
type AccountHandler struct {
	accounts *account.Service
	wallets  *wallet.Service
	logger   *logger.Logger
}

func NewAccountHandler(accounts *account.Service, wallets *wallet.Service, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		wallets:  wallets,
		logger:   log,
	}
}

func (h *AccountHandler) session(w http.ResponseWriter, r *http.Request) *wallet.Session {
	walletID, ok := middleware.GetWalletIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "no session")
		return nil
	}

	sess, err := h.wallets.Session(r.Context(), walletID)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "session expired")
		return nil
	}
	return sess
}

// GetBalance handles GET /api/v1/wallet/balance.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	summary, err := h.accounts.Balance(r.Context(), sess.Address)
	if err != nil {
		h.logger.WithError(err).Error("balance lookup failed")
		respondWithError(w, http.StatusBadGateway, "ledger unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// GetTransactions handles GET /api/v1/wallet/transactions.
func (h *AccountHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	view, err := h.accounts.History(r.Context(), sess.Address, sess.History)
	if err != nil {
		h.logger.WithError(err).Error("history lookup failed")
		respondWithError(w, http.StatusBadGateway, "ledger unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, view)
}

// ToggleExpandRequest selects the history row to expand or collapse.
type ToggleExpandRequest struct {
	Index int `json:"index"`
}

// ToggleExpandResponse reports the row left expanded, -1 for none.
type ToggleExpandResponse struct {
	ExpandedIndex int `json:"expanded_index"`
}

// ToggleExpanded handles POST /api/v1/wallet/transactions/expand.
func (h *AccountHandler) ToggleExpanded(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if sess == nil {
		return
	}

	var req ToggleExpandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Index < 0 {
		respondWithError(w, http.StatusBadRequest, "index must be non-negative")
		return
	}

	expanded := h.accounts.ToggleExpanded(sess.History, req.Index)
	respondWithJSON(w, http.StatusOK, ToggleExpandResponse{ExpandedIndex: expanded})
}
