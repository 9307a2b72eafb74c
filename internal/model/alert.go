package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AlertDirection int

const (
	AlertUp AlertDirection = iota
	AlertDown
)

func (d AlertDirection) String() string {
	if d == AlertDown {
		return "down"
	}
	return "up"
}

// Alert is a one-shot, direction-qualified price threshold watch.
// Direction is fixed when the alert is created and never re-derived.
// Triggered transitions false -> true exactly once.
type Alert struct {
	ID          string
	StockID     string
	Ticker      string
	Shortname   string
	TargetPrice decimal.Decimal
	Direction   AlertDirection
	Triggered   bool
	CreatedAt   time.Time
}
