package handler

import (
	"net/http"

	"github.com/xrpzip/walletd/internal/showcase"
)

// ShowcaseHandler serves the static catalog tabs.
type ShowcaseHandler struct {
	catalog *showcase.Service
}

func NewShowcaseHandler(catalog *showcase.Service) *ShowcaseHandler {
	return &ShowcaseHandler{catalog: catalog}
}

// GetRWAAssets handles GET /api/v1/showcase/rwa.
func (h *ShowcaseHandler) GetRWAAssets(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{"assets": h.catalog.RWAAssets()})
}

// GetNFTListings handles GET /api/v1/showcase/nfts.
func (h *ShowcaseHandler) GetNFTListings(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{"listings": h.catalog.NFTListings()})
}

// GetCoins handles GET /api/v1/showcase/coins.
func (h *ShowcaseHandler) GetCoins(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{"coins": h.catalog.Coins(r.Context())})
}

// GetNews handles GET /api/v1/showcase/news.
func (h *ShowcaseHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{"articles": h.catalog.News()})
}
