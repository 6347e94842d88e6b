package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/xrpzip/walletd/internal/transport/httpapi/handler"
	"github.com/xrpzip/walletd/internal/transport/httpapi/middleware"
	"github.com/xrpzip/walletd/pkg/logger"
)

// Config holds router configuration.
type Config struct {
	Logger          *logger.Logger
	AllowedOrigins  []string
	WalletHandler   *handler.WalletHandler
	AccountHandler  *handler.AccountHandler
	PaymentHandler  *handler.PaymentHandler
	PriceHandler    *handler.PriceHandler
	ShowcaseHandler *handler.ShowcaseHandler
	HealthHandler   *handler.HealthHandler
	JWTMiddleware   func(http.Handler) http.Handler
}

// NewRouter creates the HTTP router.
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit())

	// Health endpoints, no authentication.
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes.
		if cfg.WalletHandler != nil {
			r.Post("/wallets", cfg.WalletHandler.CreateWallet)
			r.Post("/wallets/import", cfg.WalletHandler.ImportWallet)
		}
		if cfg.PriceHandler != nil {
			r.Get("/price", cfg.PriceHandler.GetPrice)
		}
		if cfg.ShowcaseHandler != nil {
			r.Route("/showcase", func(r chi.Router) {
				r.Get("/rwa", cfg.ShowcaseHandler.GetRWAAssets)
				r.Get("/nfts", cfg.ShowcaseHandler.GetNFTListings)
				r.Get("/coins", cfg.ShowcaseHandler.GetCoins)
				r.Get("/news", cfg.ShowcaseHandler.GetNews)
			})
		}

		// Session routes, require a wallet token.
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				if cfg.WalletHandler != nil {
					r.Get("/wallet", cfg.WalletHandler.GetWallet)
					r.Delete("/wallet/session", cfg.WalletHandler.CloseSession)
				}
				if cfg.AccountHandler != nil {
					r.Get("/wallet/balance", cfg.AccountHandler.GetBalance)
					r.Get("/wallet/transactions", cfg.AccountHandler.GetTransactions)
					r.Post("/wallet/transactions/expand", cfg.AccountHandler.ToggleExpanded)
				}
				if cfg.PaymentHandler != nil {
					r.Post("/wallet/payments", cfg.PaymentHandler.SendPayment)
				}
			})
		}
	})

	return r
}
