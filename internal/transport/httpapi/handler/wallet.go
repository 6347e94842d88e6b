package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xrpzip/walletd/internal/transport/httpapi/middleware"
	"github.com/xrpzip/walletd/internal/wallet"
	"github.com/xrpzip/walletd/pkg/logger"
)

// WalletHandler handles wallet lifecycle requests.
type WalletHandler struct {
	wallets *wallet.Service
	jwt     *middleware.JWTService
	logger  *logger.Logger
}

func NewWalletHandler(wallets *wallet.Service, jwt *middleware.JWTService, log *logger.Logger) *WalletHandler {
	return &WalletHandler{
		wallets: wallets,
		jwt:     jwt,
		logger:  log,
	}
}

// CreateWalletResponse is the response for wallet creation. The seed is
// included exactly once, for backup; it is never returned again.
type CreateWalletResponse struct {
	WalletID string `json:"wallet_id"`
	Address  string `json:"address"`
	Seed     string `json:"seed,omitempty"`
	Token    string `json:"token"`
}

// CreateWallet handles POST /api/v1/wallets.
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	wlt, seed, err := h.wallets.Create(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("wallet creation failed")
		respondWithError(w, http.StatusInternalServerError, "failed to create wallet")
		return
	}

	token, err := h.jwt.GenerateToken(wlt.ID, wlt.Address)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to issue session token")
		return
	}

	respondWithJSON(w, http.StatusCreated, CreateWalletResponse{
		WalletID: wlt.ID.String(),
		Address:  wlt.Address,
		Seed:     seed,
		Token:    token,
	})
}

// ImportWalletRequest is the request body for wallet import.
type ImportWalletRequest struct {
	Seed string `json:"seed"`
}

// ImportWallet handles POST /api/v1/wallets/import.
func (h *WalletHandler) ImportWallet(w http.ResponseWriter, r *http.Request) {
	var req ImportWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wlt, err := h.wallets.Import(r.Context(), req.Seed)
	if err != nil {
		if errors.Is(err, wallet.ErrInvalidSeed) {
			respondWithError(w, http.StatusBadRequest, "invalid family seed")
			return
		}
		h.logger.WithError(err).Error("wallet import failed")
		respondWithError(w, http.StatusInternalServerError, "failed to import wallet")
		return
	}

	token, err := h.jwt.GenerateToken(wlt.ID, wlt.Address)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to issue session token")
		return
	}

	respondWithJSON(w, http.StatusOK, CreateWalletResponse{
		WalletID: wlt.ID.String(),
		Address:  wlt.Address,
		Token:    token,
	})
}

// GetWallet handles GET /api/v1/wallet. Returns the session's wallet.
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	walletID, ok := middleware.GetWalletIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "no session")
		return
	}

	wlt, err := h.wallets.Get(r.Context(), walletID)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "wallet not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to load wallet")
		return
	}

	respondWithJSON(w, http.StatusOK, wlt)
}

// CloseSession handles DELETE /api/v1/wallet/session. It drops the
// in-memory seed handle only. The sealed seed stays in storage, so a
// still-valid token reopens the session on its next request; actual
// revocation is the client discarding the token.
func (h *WalletHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	walletID, ok := middleware.GetWalletIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "no session")
		return
	}

	h.wallets.CloseSession(walletID)
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "session closed"})
}
