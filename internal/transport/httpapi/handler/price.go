package handler

import (
	"net/http"

	"github.com/xrpzip/walletd/internal/price"
)

// PriceHandler serves the native asset spot price.
type PriceHandler struct {
	prices *price.Service
}

func NewPriceHandler(prices *price.Service) *PriceHandler {
	return &PriceHandler{prices: prices}
}

// PriceResponse is the spot price payload.
type PriceResponse struct {
	Symbol   string  `json:"symbol"`
	Currency string  `json:"currency"`
	Price    float64 `json:"price"`
	Stale    bool    `json:"stale,omitempty"`
}

// GetPrice handles GET /api/v1/price.
func (h *PriceHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	scaled, err := h.prices.GetSpotPrice(r.Context())
	if err != nil && !price.IsStalePrice(err) {
		respondWithError(w, http.StatusServiceUnavailable, "spot price unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, PriceResponse{
		Symbol:   "XRP",
		Currency: "usd",
		Price:    price.Unscale(scaled),
		Stale:    price.IsStalePrice(err),
	})
}
