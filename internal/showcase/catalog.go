package showcase

// Static catalogs backing the showcase tabs. The listings are fixed
// marketing content, not live market data; only the coin ticker gets
// its XRP row refreshed from the price service at request time.

// RWAAsset is a tokenized real-world asset listing.
type RWAAsset struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Value  string `json:"value"`
	Yield  string `json:"yield"`
	Color  string `json:"color"`
}

// NFTListing is one item of the gallery preview.
type NFTListing struct {
	Name     string `json:"name"`
	Edition  int    `json:"edition"`
	FloorXRP string `json:"floor_xrp"`
}

// Coin is a row of the trading ticker.
type Coin struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
}

// NewsArticle is a feed entry.
type NewsArticle struct {
	Title     string `json:"title"`
	Source    string `json:"source"`
	Time      string `json:"time"`
	Image     string `json:"image"`
	Highlight bool   `json:"highlight,omitempty"`
}

var rwaAssets = []RWAAsset{
	{Name: "Manhattan Penthouse", Symbol: "NYC-01", Value: "2.4M", Yield: "6.8%", Color: "#FFD700"},
	{Name: "London Gold Vault", Symbol: "GOLD-XR", Value: "1.8M", Yield: "4.2%", Color: "#FFA500"},
	{Name: "Miami Beach Condo", Symbol: "MIA-RWA", Value: "890K", Yield: "8.1%", Color: "#00CED1"},
	{Name: "Picasso Original", Symbol: "ART-77", Value: "5.2M", Yield: "0% (Appreciation)", Color: "#FF69B4"},
	{Name: "US Treasury Bond 2030", Symbol: "TBOND30", Value: "100K", Yield: "4.9%", Color: "#32CD32"},
	{Name: "Dubai Marina Tower", Symbol: "DXB-12", Value: "1.6M", Yield: "9.3%", Color: "#FF4500"},
}

var coins = []Coin{
	{Name: "Bitcoin", Symbol: "BTC", Price: 71234, Change: 2.8},
	{Name: "Ethereum", Symbol: "ETH", Price: 3489, Change: -1.2},
	{Name: "Solana", Symbol: "SOL", Price: 189, Change: 5.4},
	{Name: "Cardano", Symbol: "ADA", Price: 0.68, Change: 3.1},
	{Name: "Dogecoin", Symbol: "DOGE", Price: 0.24, Change: 12.7},
	{Name: "Polkadot", Symbol: "DOT", Price: 9.42, Change: -0.8},
}

var news = []NewsArticle{
	{Title: "XRP ETF Trading Begins Monday", Source: "CoinDesk", Time: "2 hours ago", Image: "etf", Highlight: true},
	{Title: "Ripple Wins Final SEC Appeal", Source: "The Block", Time: "5 hours ago", Image: "win"},
	{Title: "Grayscale Launches XRP Trust", Source: "Bloomberg", Time: "1 day ago", Image: "grayscale"},
	{Title: "XRP Ledger Processes 10M Tx/Day", Source: "XRPL.org", Time: "2 days ago", Image: "volume"},
	{Title: "Mastercard Adds XRPL Payments", Source: "PaymentsSource", Time: "3 days ago", Image: "mastercard"},
	{Title: "XRP Hits $3.20 All-Time High", Source: "CoinTelegraph", Time: "1 week ago", Image: "ath"},
}

func nftListings() []NFTListing {
	out := make([]NFTListing, 0, 6)
	for n := 1; n <= 6; n++ {
		out = append(out, NFTListing{
			Name:     "XRPZip Royal Edition",
			Edition:  n * 1000,
			FloorXRP: "150",
		})
	}
	return out
}
