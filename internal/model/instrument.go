package model

import "github.com/shopspring/decimal"

type PositionType int

const (
	PositionBuy PositionType = iota
	PositionSell
)

func (t PositionType) String() string {
	if t == PositionSell {
		return "SELL"
	}
	return "BUY"
}

// Bucket selects which ledger collection an operation targets.
type Bucket int

const (
	BucketHoldings Bucket = iota
	BucketPositions
)

func (b Bucket) String() string {
	if b == BucketPositions {
		return "positions"
	}
	return "holdings"
}

// WatchStock is a quotable instrument, not necessarily owned.
// CurrentPrice is mutated only by the price feed tick.
type WatchStock struct {
	ID               string
	Ticker           string
	Shortname        string
	Exchange         string
	CurrentPrice     decimal.Decimal
	PreviousDayPrice decimal.Decimal
}

// Holding is a cumulative long-term position. AvgBuyPrice is the
// quantity-weighted average of all buy fills; Quantity stays > 0 for
// as long as the holding exists.
type Holding struct {
	ID           string
	Ticker       string
	Shortname    string
	Exchange     string
	Quantity     int
	AvgBuyPrice  decimal.Decimal
	CurrentPrice decimal.Decimal
}

// Position is an intraday directional ledger line. Entries with
// different Type on the same ticker are independent lines.
type Position struct {
	ID           string
	Ticker       string
	Shortname    string
	Exchange     string
	Type         PositionType
	Quantity     int
	EntryPrice   decimal.Decimal
	CurrentPrice decimal.Decimal
}

// Profit is sign-adjusted: a SELL position gains when the price drops.
func (p Position) Profit() decimal.Decimal {
	qty := decimal.NewFromInt(int64(p.Quantity))
	if p.Type == PositionSell {
		return p.EntryPrice.Sub(p.CurrentPrice).Mul(qty)
	}
	return p.CurrentPrice.Sub(p.EntryPrice).Mul(qty)
}

type InstrumentKind int

const (
	KindWatchStock InstrumentKind = iota
	KindHolding
	KindPosition
)

// Quote is the tagged result of a price lookup across the three
// instrument collections.
type Quote struct {
	Kind   InstrumentKind
	ID     string
	Ticker string
	Price  decimal.Decimal
}
