package showcase

import (
	"context"

	"github.com/xrpzip/walletd/internal/price"
	"github.com/xrpzip/walletd/pkg/logger"
)

// Service serves the showcase catalogs. The coin ticker gets a live
// XRP row prepended when the spot price is available.
type Service struct {
	prices *price.Service
	logger *logger.Logger
}

func NewService(prices *price.Service, log *logger.Logger) *Service {
	return &Service{
		prices: prices,
		logger: log.WithField("component", "showcase"),
	}
}

func (s *Service) RWAAssets() []RWAAsset {
	out := make([]RWAAsset, len(rwaAssets))
	copy(out, rwaAssets)
	return out
}

func (s *Service) NFTListings() []NFTListing {
	return nftListings()
}

// Coins returns the ticker with the native asset first. The XRP row is
// omitted when no spot price is available rather than shown at zero.
func (s *Service) Coins(ctx context.Context) []Coin {
	out := make([]Coin, 0, len(coins)+1)
	if spot, err := s.prices.Spot(ctx); err == nil {
		out = append(out, Coin{Name: "XRP", Symbol: "XRP", Price: spot})
	} else {
		s.logger.WithError(err).Debug("ticker served without live XRP row")
	}
	return append(out, coins...)
}

func (s *Service) News() []NewsArticle {
	out := make([]NewsArticle, len(news))
	copy(out, news)
	return out
}
