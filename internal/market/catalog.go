package market

import (
	"github.com/amanmoon/my-stocks/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type seed struct {
	ticker    string
	shortname string
	exchange  string
	price     float64
}

var catalog = []seed{
	{"RELIANCE", "Reliance Industries", "NSE", 2804.55},
	{"TCS", "Tata Consultancy Services", "NSE", 4012.20},
	{"HDFCBANK", "HDFC Bank", "NSE", 1470.10},
	{"INFY", "Infosys", "NSE", 1480.35},
	{"ICICIBANK", "ICICI Bank", "NSE", 1181.60},
	{"SBIN", "State Bank of India", "NSE", 812.45},
	{"BHARTIARTL", "Bharti Airtel", "NSE", 1545.90},
	{"ITC", "ITC", "NSE", 412.75},
	{"TATAMOTORS", "Tata Motors", "NSE", 985.30},
	{"WIPRO", "Wipro", "NSE", 505.15},
	{"ASIANPAINT", "Asian Paints", "BSE", 2890.00},
	{"DMART", "Avenue Supermarts", "BSE", 3652.80},
}

// Catalog returns the fixture set of quotable instruments. Watch-stocks
// are never deleted during a session; the seeded price doubles as the
// previous-day close.
func Catalog() []model.WatchStock {
	stocks := make([]model.WatchStock, 0, len(catalog))
	for _, s := range catalog {
		price := decimal.NewFromFloat(s.price)
		stocks = append(stocks, model.WatchStock{
			ID:               uuid.NewString(),
			Ticker:           s.ticker,
			Shortname:        s.shortname,
			Exchange:         s.exchange,
			CurrentPrice:     price,
			PreviousDayPrice: price,
		})
	}
	return stocks
}

// DefaultWatchlists returns the fixed set of list names. Lists are
// never created or deleted at runtime, only membership changes.
func DefaultWatchlists() []string {
	return []string{"Favourites", "Intraday", "Long Term"}
}
