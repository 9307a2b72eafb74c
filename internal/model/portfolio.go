package model

import (
	"github.com/shopspring/decimal"
)

// PortfolioSummary aggregates one ledger bucket. Profit is
// sign-adjusted per position type for the positions bucket.
type PortfolioSummary struct {
	Bucket        Bucket
	Invested      decimal.Decimal
	Current       decimal.Decimal
	Profit        decimal.Decimal
	ProfitPercent decimal.Decimal
	EntriesCount  int
}

// Fill describes an executed buy or sell.
type Fill struct {
	EntryID   string
	Ticker    string
	Shortname string
	Bucket    Bucket
	Side      PositionType
	Quantity  int
	Price     decimal.Decimal
	Remaining int
}

// PortfolioReport is the snapshot handed to the report generator.
type PortfolioReport struct {
	Stocks           []WatchStock
	Holdings         []Holding
	Positions        []Position
	HoldingsSummary  PortfolioSummary
	PositionsSummary PortfolioSummary
}
